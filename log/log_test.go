package log

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDirPrecedence(t *testing.T) {
	t.Setenv("DICTO_LOG_PATH", "/env/logs")

	// The flag wins over the environment.
	got, err := ResolveDir("/flag/logs")
	if err != nil || got != "/flag/logs" {
		t.Errorf("ResolveDir(flag) = %q, %v", got, err)
	}

	got, err = ResolveDir("")
	if err != nil || got != "/env/logs" {
		t.Errorf("ResolveDir(env) = %q, %v", got, err)
	}
}

func TestResolveDirRelativePath(t *testing.T) {
	t.Setenv("DICTO_LOG_PATH", "")
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	wd, _ := os.Getwd()
	if got != filepath.Join(wd, "logs") {
		t.Errorf("ResolveDir(relative) = %q", got)
	}
}

func TestInitCreatesDiagnosticsFile(t *testing.T) {
	SetDir(filepath.Join(t.TempDir(), "logs"))
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	Infof("hello %s", "file")
	if _, err := os.Stat(filepath.Join(Dir(), "diagnostics_log.txt")); err != nil {
		t.Errorf("diagnostics file missing: %v", err)
	}
}
