package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const (
	logDir  = "logs"
	logName = "chaoslab.log"
)

// setupLogging returns the CLI logger. With debug it logs everything to
// logs/chaoslab.log and also returns the file, which the caller closes.
// Otherwise only warnings and errors reach stderr.
func setupLogging(debug bool) (*log.Logger, *os.File) {
	if !debug {
		return log.NewWithOptions(os.Stderr, log.Options{
			Level:  log.WarnLevel,
			Prefix: "chaoslab",
		}), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fallbackLogger(err), nil
	}
	f, err := os.OpenFile(filepath.Join(logDir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fallbackLogger(err), nil
	}
	return log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		ReportCaller:    true,
		Prefix:          "chaoslab",
	}), f
}

func fallbackLogger(err error) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "chaoslab"})
	l.Warn("debug log unavailable", "err", err)
	return l
}

// tuiLogger keeps the alternate screen clean: only a debug log file may
// receive entries while the live view runs.
func tuiLogger() *log.Logger {
	if logFile != nil {
		return logger
	}
	return log.New(io.Discard)
}
