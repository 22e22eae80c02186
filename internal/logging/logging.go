package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileLogger is a slog logger writing JSON lines under <dir>/logs. The
// terminal belongs to the UI, so nothing is ever logged to stderr.
type FileLogger struct {
	Logger  *slog.Logger
	Close   func() error
	Path    string
	Enabled bool
}

func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func disabled() FileLogger {
	return FileLogger{Logger: Nop(), Close: func() error { return nil }}
}

func NewFileLogger(dir string, debug bool) (FileLogger, error) {
	if !debug {
		return disabled(), nil
	}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return disabled(), err
	}
	path := filepath.Join(logDir, "multitool.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return disabled(), err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return FileLogger{
		Logger:  slog.New(handler).With("pid", os.Getpid()),
		Close:   file.Close,
		Path:    path,
		Enabled: true,
	}, nil
}
