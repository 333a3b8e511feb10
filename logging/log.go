// Package logging provides the single structured logger shared by every
// subsystem (builder, compiler, linker, workspace watcher). Every package
// logs through Logger rather than fmt.Println/log.Print.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global structured logger instance.
var Logger *slog.Logger

var logPath string

// Init opens the log file and installs a JSON slog handler writing to it.
func Init() {
	logPath = filepath.Join(os.TempDir(), "stexls-log.jsonl")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		panic("couldn't open log file: " + err.Error())
	}
	Logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func init() {
	// Fall back to stderr until Init is called explicitly, so packages that
	// log during tests (which never call Init) don't panic on a nil Logger.
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
