package values

import (
	"errors"
	"fmt"
)

var (
	ErrType     = errors.New("type error")
	ErrBounds   = errors.New("bounds error")
	ErrShape    = errors.New("shape error")
	ErrAliasing = errors.New("aliasing error")
	ErrState    = errors.New("state error")
)

// Error is the diagnostic for every failing operation on Values.
// It unwraps to one of the Err* sentinels.
type Error struct {
	Kind   error
	Op     string
	Detail string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorf(kind error, op string, format string, args ...any) error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
	}
}

func boundsError(op string, i, n int) error {
	return errorf(ErrBounds, op, "index %d out of range [0,%d)", i, n)
}
