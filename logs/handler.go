package logs

import (
	"context"
	"log/slog"
)

// Handler tags every record with the span found in its context.
type Handler struct {
	slog.Handler
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		Handler: h.Handler.WithAttrs(attrs),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		Handler: h.Handler.WithGroup(name),
	}
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if span := SpanOf(ctx); span != "" {
		record.Add(spanAttr, span)
	}
	return h.Handler.Handle(ctx, record)
}
