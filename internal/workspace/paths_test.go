package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".chatmock", "workspaces", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestHomeOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(HomeEnv, tmpDir)

	if got := BaseDir(); got != tmpDir {
		t.Errorf("BaseDir() = %q, want %q", got, tmpDir)
	}
	if got, want := ConfigPath(), filepath.Join(tmpDir, "config.toml"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestLockPath(t *testing.T) {
	got := LockPath("test")
	if !strings.HasSuffix(got, filepath.Join("workspaces", "test", "LOCK")) {
		t.Errorf("LockPath(test) = %q, want suffix workspaces/test/LOCK", got)
	}
}

func TestLocalDBPath(t *testing.T) {
	got := LocalDBPath("test")
	if !strings.HasSuffix(got, filepath.Join("workspaces", "test", "local.db")) {
		t.Errorf("LocalDBPath(test) = %q, want suffix workspaces/test/local.db", got)
	}
}

func TestEnsureDirAndList(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	if err := EnsureDir("work"); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(LogDir("work"))
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("log dir is not a directory")
	}

	// Invalid names on disk are ignored.
	if err := os.MkdirAll(filepath.Join(Root(), "Not Valid"), 0700); err != nil {
		t.Fatal(err)
	}

	got, err := List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "work" {
		t.Fatalf("List() = %+v, want only work", got)
	}
	if got[0].HasStore {
		t.Error("HasStore = true before any store was opened")
	}
}

func TestListMissingRoot(t *testing.T) {
	t.Setenv(HomeEnv, filepath.Join(t.TempDir(), "absent"))

	got, err := List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}
