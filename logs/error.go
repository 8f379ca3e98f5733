package logs

import (
	"context"
	"errors"
	"fmt"
)

// WrapSpan annotates err with the span of ctx, if any.
func WrapSpan(ctx context.Context, err error) error {
	span := SpanOf(ctx)
	if span == "" || err == nil {
		return err
	}
	return errors.Join(err, fmt.Errorf("span: %s", span))
}
