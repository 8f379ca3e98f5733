package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/dynval/cmds"
	"github.com/reusee/dynval/modes"
)

// action is the command selected on the command line. It runs after every
// flag has been applied.
var action func(ctx context.Context, scope dscope.Scope) error

func setAction(fn func(ctx context.Context, scope dscope.Scope) error) {
	if action != nil {
		exit(fmt.Errorf("only one command may be given"))
	}
	action = fn
}

func main() {
	if err := cmds.Execute(os.Args[1:]); err != nil {
		exit(err)
	}
	if action == nil {
		cmds.PrintUsage()
		return
	}

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)
	if err := action(context.Background(), scope); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
