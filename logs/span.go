package logs

import "context"

type Span string

type spanKey struct{}

// SpanKey is the context key of the current Span.
var SpanKey spanKey

// spanAttr is the record attribute carrying the span.
const spanAttr = "dynval.span"

// SpanOf returns the span carried by ctx, or an empty Span.
func SpanOf(ctx context.Context) Span {
	span, _ := ctx.Value(SpanKey).(Span)
	return span
}
