package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/dynval/cmds"
	"github.com/reusee/dynval/codecs"
	"github.com/reusee/dynval/configs"
	"github.com/reusee/dynval/debugs"
	"github.com/reusee/dynval/functors"
	"github.com/reusee/dynval/logs"
	"github.com/reusee/dynval/values"
)

func init() {
	cmds.Define("show", cmds.Func(func(path string) {
		setAction(func(ctx context.Context, scope dscope.Scope) error {
			return withDocument(path, func(doc values.Value) error {
				return printValue(scope, doc)
			})
		})
	}).Args("file").Desc("print a YAML, TOML, JSON or CUE document"))

	cmds.Define("stat", cmds.Func(func(path string) {
		setAction(func(ctx context.Context, scope dscope.Scope) error {
			return withDocument(path, func(doc values.Value) error {
				scope.Call(func(
					logger logs.Logger,
				) {
					logger.InfoContext(ctx, "stat",
						"path", path,
						"doc", doc,
					)
				})
				_, err := fmt.Printf("type=%v atype=%v size=%d dims=%v\n",
					doc.Type(), doc.AType(), doc.Size(), doc.Dims())
				return err
			})
		})
	}).Args("file").Desc("report kind, size and shape of a document"))

	cmds.Define("sum", cmds.Func(func(path string) {
		setAction(func(ctx context.Context, scope dscope.Scope) error {
			return withDocument(path, func(doc values.Value) error {
				packed, err := functors.Pack(doc)
				if err != nil {
					return err
				}
				defer packed.Release()
				sums, err := functors.Sum.Call(packed)
				if err != nil {
					return err
				}
				defer sums.Release()
				return printValue(scope, sums)
			})
		})
	}).Args("file").Desc("sum the innermost rows of a numeric document"))

	cmds.Define("eval", cmds.Func(func(path string, expr string) {
		setAction(func(ctx context.Context, scope dscope.Scope) error {
			return withDocument(path, func(doc values.Value) error {
				ret, err := debugs.Eval(expr, map[string]any{
					"doc": doc,
				})
				if err != nil {
					return err
				}
				defer ret.Release()
				return printValue(scope, ret)
			})
		})
	}).Args("file", "expr").Desc("evaluate a Starlark expression with the document bound to doc"))

	cmds.Define("tap", cmds.Func(func(path string) {
		setAction(func(ctx context.Context, scope dscope.Scope) error {
			return withDocument(path, func(doc values.Value) error {
				scope.Call(func(
					tap debugs.Tap,
				) {
					tap(ctx, path, map[string]any{
						"doc": doc,
					})
				})
				return nil
			})
		})
	}).Args("file").Desc("open a Starlark REPL with the document bound to doc"))

	cmds.Define("config", cmds.Func(func(path string) {
		setAction(func(ctx context.Context, scope dscope.Scope) (err error) {
			scope.Call(func(
				loader configs.Loader,
			) {
				var v values.Value
				v, err = loader.Value(path)
				if err != nil {
					return
				}
				defer v.Release()
				err = printValue(scope, v)
			})
			return
		})
	}).Args("path").Desc("print a value from the configuration files"))
}

func withDocument(path string, fn func(values.Value) error) error {
	doc, err := codecs.ReadFile(path)
	if err != nil {
		return err
	}
	defer doc.Release()
	return fn(doc)
}

func printValue(scope dscope.Scope, v values.Value) (err error) {
	scope.Call(func(
		output configs.Output,
		opts values.FormatOptions,
	) {
		err = show(v, output, opts)
	})
	return
}

func show(v values.Value, output configs.Output, opts values.FormatOptions) error {
	format, ok, err := output.Format()
	if err != nil {
		return err
	}
	if !ok {
		_, err := fmt.Println(values.Format(v, opts))
		return err
	}
	data, err := codecs.Encode(format, v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
