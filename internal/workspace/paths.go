package workspace

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the base directory when set.
const HomeEnv = "CHATMOCK_HOME"

// BaseDir returns ~/.chatmock, or $CHATMOCK_HOME when set.
func BaseDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatmock")
}

// Root returns the directory holding all workspaces.
func Root() string {
	return filepath.Join(BaseDir(), "workspaces")
}

// Dir returns the workspace-specific directory.
func Dir(name string) string {
	return filepath.Join(Root(), name)
}

// LockPath returns the lock file path for a workspace.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// LocalDBPath returns the local key/value store path.
func LocalDBPath(name string) string {
	return filepath.Join(Dir(name), "local.db")
}

// LogDir returns the log directory for a workspace.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the client log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "chatmock.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the workspace directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

// Info describes a workspace found on disk.
type Info struct {
	Name     string
	Path     string
	HasStore bool
}

// List returns the workspaces under Root, skipping entries with invalid names.
func List() ([]Info, error) {
	entries, err := os.ReadDir(Root())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Info
	for _, e := range entries {
		if !e.IsDir() || ValidateName(e.Name()) != nil {
			continue
		}
		_, statErr := os.Stat(LocalDBPath(e.Name()))
		out = append(out, Info{
			Name:     e.Name(),
			Path:     Dir(e.Name()),
			HasStore: statErr == nil,
		})
	}
	return out, nil
}
