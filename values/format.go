package values

import (
	"strconv"
	"strings"
)

type FormatOptions struct {
	// MaxItems truncates each array level after this many items; 0 prints all
	MaxItems int
	// Precision is the number of significant digits for reals; 0 is shortest
	Precision int
}

func (v Value) String() string {
	return Format(v, FormatOptions{})
}

func Format(v Value, opts FormatOptions) string {
	var sb strings.Builder
	formatValue(&sb, v, opts)
	return sb.String()
}

func (o FormatOptions) precision() int {
	if o.Precision <= 0 {
		return -1
	}
	return o.Precision
}

func (o FormatOptions) truncated(i int) bool {
	return o.MaxItems > 0 && i >= o.MaxItems
}

func formatScalar(sb *strings.Builder, v Value, opts FormatOptions) {
	switch v.kind {
	case KindUndefined:
		sb.WriteString("undefined")
	case KindChar:
		sb.WriteString(strconv.QuoteRuneToASCII(rune(v.num)))
	case KindInt, KindLong:
		sb.WriteString(strconv.FormatInt(v.num, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(real(v.cpx), 'g', opts.precision(), 32))
	case KindDouble:
		sb.WriteString(strconv.FormatFloat(real(v.cpx), 'g', opts.precision(), 64))
	case KindCFloat:
		sb.WriteString(strconv.FormatComplex(v.cpx, 'g', opts.precision(), 64))
	case KindCDouble:
		sb.WriteString(strconv.FormatComplex(v.cpx, 'g', opts.precision(), 128))
	}
}

func formatValue(sb *strings.Builder, v Value, opts FormatOptions) {
	if v.heap == nil {
		formatScalar(sb, v, opts)
		return
	}
	if !v.heap.Live() {
		sb.WriteString("<released>")
		return
	}
	if s, ok := v.Str(); ok && v.Dim() == 1 {
		sb.WriteString(strconv.Quote(s))
		return
	}
	if v.heap.Kind() == KindPair {
		sb.WriteString("{")
		i := 0
		for key, value := range v.Pairs() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if opts.truncated(i) {
				sb.WriteString("...")
				break
			}
			formatValue(sb, key, opts)
			sb.WriteString(": ")
			formatValue(sb, value, opts)
			i++
		}
		sb.WriteString("}")
		return
	}
	dims := v.Dims()
	if len(dims) == 0 {
		x, err := v.At(0)
		if err != nil {
			sb.WriteString("<" + err.Error() + ">")
			return
		}
		formatValue(sb, x, opts)
		return
	}
	formatDims(sb, v, dims, 0, opts)
}

// formatDims prints the block of the given extents starting at row-major index base.
func formatDims(sb *strings.Builder, v Value, dims []int, base int, opts FormatOptions) {
	sb.WriteString("[")
	block := product(dims[1:])
	for i := range dims[0] {
		if i > 0 {
			sb.WriteString(", ")
		}
		if opts.truncated(i) {
			sb.WriteString("...")
			break
		}
		if len(dims) > 1 {
			formatDims(sb, v, dims[1:], base+i*block, opts)
			continue
		}
		x, err := v.At(base + i)
		if err != nil {
			sb.WriteString("<" + err.Error() + ">")
			continue
		}
		formatValue(sb, x, opts)
	}
	sb.WriteString("]")
}
