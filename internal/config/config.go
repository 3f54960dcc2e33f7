package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultMaxAttachmentBytes caps files read into memory for attachments.
const DefaultMaxAttachmentBytes = 25 << 20

// Config represents the global ~/.chatmock/config.toml.
type Config struct {
	DefaultWorkspace   string `toml:"default_workspace"`
	LogLevel           string `toml:"log_level"`
	MaxAttachmentBytes int64  `toml:"max_attachment_bytes"`
	SeedChats          *bool  `toml:"seed_chats"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	seed := true
	return &Config{
		LogLevel:           "info",
		MaxAttachmentBytes: DefaultMaxAttachmentBytes,
		SeedChats:          &seed,
	}
}

// Load reads config from the given path. Returns nil config and error if file missing.
// Keys absent from the file keep their Default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.MaxAttachmentBytes <= 0 {
		cfg.MaxAttachmentBytes = DefaultMaxAttachmentBytes
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when the file is missing.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// ShouldSeed reports whether the example chats are loaded at startup.
func (c *Config) ShouldSeed() bool {
	return c.SeedChats == nil || *c.SeedChats
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
