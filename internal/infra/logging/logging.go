package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewJSON returns a JSON logger writing to w at the given level, tagged with
// the service name.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	).With("service", "moneyd")
}

// SetupJSON sets slog's default logger to use JSON output on stdout at the
// given level.
func SetupJSON(level slog.Level) {
	slog.SetDefault(NewJSON(os.Stdout, level))
}
