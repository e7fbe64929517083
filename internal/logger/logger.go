// File: internal/logger/logger.go
package logger

import (
	"log/slog"
	"os"
	"strings"
)

func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || debugFromEnv() {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)

	logger := slog.New(handler)

	slog.SetDefault(logger)
	return logger
}

func debugFromEnv() bool {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
