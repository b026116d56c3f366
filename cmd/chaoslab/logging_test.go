package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetupLogging_WarnByDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	l, f := setupLogging(false)
	if f != nil {
		f.Close()
		t.Fatal("expected no log file without debug")
	}
	if l.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", l.GetLevel())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("logs directory should not be created without debug")
	}
}

func TestSetupLogging_DebugWritesFile(t *testing.T) {
	t.Chdir(t.TempDir())

	l, f := setupLogging(true)
	if f == nil {
		t.Fatal("expected a log file with debug")
	}
	l.Debug("hello", "n", 1)
	f.Close()

	data, err := os.ReadFile(filepath.Join(logDir, logName))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("debug entry not written")
	}
}
