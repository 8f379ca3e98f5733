package cmds

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
)

type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string

	// Params are the argument placeholders shown in usage
	Params []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

// Args names the arguments in usage, in order. Unnamed ones keep their type placeholder.
func (c *Command) Args(names ...string) *Command {
	for i, name := range names {
		if i >= len(c.Params) {
			break
		}
		if strings.HasPrefix(c.Params[i], "[") {
			c.Params[i] = "[<" + name + ">]"
		} else {
			c.Params[i] = "<" + name + ">"
		}
	}
	return c
}

func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)

	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}

	fnType := fnValue.Type()
	numRets := fnType.NumOut()
	if numRets >= 2 {
		panic(fmt.Errorf("must return 0 or 1 value"))
	}
	if numRets == 1 && fnType.Out(0) != errorType {
		panic(fmt.Errorf("must return error"))
	}

	params := lo.Times(fnType.NumIn(), func(i int) string {
		return placeholder(fnType.In(i))
	})

	return &Command{
		Func:   fnValue,
		Params: params,
	}
}

// placeholder renders an argument type; pointer arguments are optional.
func placeholder(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "[" + placeholder(t.Elem()) + "]"
	}
	if t == valueType {
		return "<value>"
	}
	return "<" + strings.ToLower(t.Kind().String()) + ">"
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}
