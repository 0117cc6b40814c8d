package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON output so the log
// pipeline can index request_id and entity id fields.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
