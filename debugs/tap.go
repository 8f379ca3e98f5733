package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/dynval/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
)

// Tap opens an interactive Starlark session with globals and the builtins bound.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Sorted(maps.Keys(globals)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		mappings := environ(globals)
		thread := &starlark.Thread{
			Name: "repl",
		}
		repl.REPLOptions(fileOptions, thread, mappings)
	}
}
