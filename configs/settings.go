package configs

import (
	"github.com/reusee/dynval/cmds"
	"github.com/reusee/dynval/codecs"
	"github.com/reusee/dynval/values"
	"github.com/samber/lo"
)

type MaxItems int

type Precision int

// Output is the format used when printing documents. Empty means the Value notation.
type Output string

var (
	maxItemsFlag  = cmds.Var[int]("-max-items")
	precisionFlag = cmds.Var[int]("-precision")
	outputFlag    = cmds.Var[string]("-o")
)

func (Module) MaxItems(
	loader Loader,
) MaxItems {
	return MaxItems(lo.CoalesceOrEmpty(
		*maxItemsFlag,
		First[int](loader, "max_items"),
	))
}

func (Module) Precision(
	loader Loader,
) Precision {
	return Precision(lo.CoalesceOrEmpty(
		*precisionFlag,
		First[int](loader, "precision"),
	))
}

func (Module) Output(
	loader Loader,
) Output {
	out := lo.CoalesceOrEmpty(
		*outputFlag,
		First[string](loader, "output"),
	)
	if out == "value" {
		return ""
	}
	return Output(out)
}

// Format resolves Output to a codec. ok is false for the Value notation.
func (o Output) Format() (format codecs.Format, ok bool, err error) {
	if o == "" {
		return "", false, nil
	}
	format, err = codecs.ParseFormat(string(o))
	if err != nil {
		return "", false, err
	}
	return format, true, nil
}

func (Module) FormatOptions(
	maxItems MaxItems,
	precision Precision,
) values.FormatOptions {
	return values.FormatOptions{
		MaxItems:  int(maxItems),
		Precision: int(precision),
	}
}
