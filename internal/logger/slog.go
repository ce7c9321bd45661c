package logger

import (
	"context"
	"log/slog"
	"strings"
)

// lineWriter feeds each record the text handler renders into the line log.
type lineWriter struct{ l *Logger }

func (w lineWriter) Write(p []byte) (int, error) {
	w.l.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Slog returns a structured logger whose records become lines of l, rendered
// as "level=INFO msg=... key=value". The line log adds its own timestamp.
func (l *Logger) Slog(level slog.Leveler) *slog.Logger {
	h := slog.NewTextHandler(lineWriter{l}, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(h)
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying lg.
func WithContext(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lg)
}

// FromContext returns the logger carried by ctx, or a logger that discards
// everything.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the logger carried by ctx, or fallback. A nil
// fallback means discard.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if lg, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	if fallback != nil {
		return fallback
	}
	return slog.New(slog.DiscardHandler)
}
