package cmds

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/reusee/dynval/values"
)

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	var a int
	executor.Define("+a", Func(func() {
		a = 42
	}))
	executor.Define("a", Func(func(i int) {
		a = i
	}))

	if err := executor.Execute([]string{
		"+a",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 42 {
		t.Fatal()
	}

	if err := executor.Execute([]string{
		"a", "1",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 1 {
		t.Fatal()
	}

	err := executor.Execute([]string{
		"foo",
	})
	if !strings.Contains(err.Error(), "unknown command: foo") {
		t.Fatalf("got %v", err)
	}

}

func TestSubCommands(t *testing.T) {
	executor := NewExecutor()
	var bar, baz int
	executor.Define("foo", Sub(map[string]*Command{
		"bar": Func(func() {
			bar = 1
		}),
		"baz": Func(func(i int) {
			baz = i
		}),
	}))

	if err := executor.Execute([]string{
		"foo",
		"bar",
		"baz", "42",
	}); err != nil {
		t.Fatal(err)
	}

	if bar != 1 {
		t.Fatal()
	}
	if baz != 42 {
		t.Fatal()
	}

}

func TestDuplicatedSubCommand(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Sub(map[string]*Command{
		"a": nil,
	}))
	executor.Define("bar", Sub(map[string]*Command{
		"a": nil,
	}))
	err := executor.Execute([]string{"foo", "bar"})
	if !strings.Contains(err.Error(), "duplicated sub command: bar a") {
		t.Fatalf("got %v", err)
	}
}

func TestOptionalArgument(t *testing.T) {
	executor := NewExecutor()
	var n int
	var s string
	executor.Define("foo", Func(func(arg *int, arg2 *string) {
		n = *arg
		s = *arg2
	}))

	err := executor.Execute([]string{"foo", "42", "foo"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatal()
	}
	if s != "foo" {
		t.Fatal()
	}

	err = executor.Execute([]string{"foo", "99"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 99 {
		t.Fatal()
	}
	if s != "" {
		t.Fatal()
	}

	err = executor.Execute([]string{"foo"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal()
	}
	if s != "" {
		t.Fatal()
	}

}

func TestValueArgument(t *testing.T) {
	executor := NewExecutor()
	var got []values.Value
	executor.Define("push", Func(func(v values.Value) {
		got = append(got, v)
	}))
	if err := executor.Execute([]string{
		"push", "42",
		"push", "1.5",
		"push", "x",
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	if got[0].Type() != values.KindLong || !got[0].Equal(values.Long(42)) {
		t.Fatalf("got %v", got[0])
	}
	if got[1].Type() != values.KindDouble {
		t.Fatalf("got %v", got[1])
	}
	if s, _ := got[2].Str(); s != "x" {
		t.Fatalf("got %v", got[2])
	}
}

func TestBoolArgument(t *testing.T) {
	executor := NewExecutor()
	var flags []bool
	executor.Define("b", Func(func(b bool) {
		flags = append(flags, b)
	}))
	if err := executor.Execute([]string{
		"b", "yes",
		"b", "F",
		"b", "1",
		"b", "whatever",
	}); err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", flags); str != "[true false true false]" {
		t.Fatalf("got %s", str)
	}
}

func TestErrorReturn(t *testing.T) {
	executor := NewExecutor()
	executor.Define("fail", Func(func() error {
		return errors.New("failed")
	}))
	if err := executor.Execute([]string{"fail"}); err == nil || err.Error() != "failed" {
		t.Fatalf("got %v", err)
	}
	if err := executor.Execute([]string{"fail2"}); err == nil {
		t.Fatal("expecting error")
	}
}
