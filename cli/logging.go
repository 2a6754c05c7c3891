package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cmdvault/config"
)

// openLog writes structured logs to the configured file. stdout and stderr
// belong to the TUI and the stdio hosts, so logging never goes there. When
// the file cannot be opened, logs are dropped.
func openLog(cfg *config.Config) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nil
	}
	return slog.New(slog.NewTextHandler(f, opts)), f
}
