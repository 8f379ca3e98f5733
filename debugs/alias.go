package debugs

import (
	"fmt"

	"github.com/reusee/dynval/values"
	"github.com/reusee/e5"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

func errorf(kind error, op string, format string, args ...any) error {
	return &values.Error{
		Kind:   kind,
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
	}
}
