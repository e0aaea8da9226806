package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the service JSON logger; "dev" enables debug output.
func New(env, app string) *slog.Logger {
	return NewWithWriter(os.Stdout, env, app)
}

func NewWithWriter(w io.Writer, env, app string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("app", app, "env", env)
}
