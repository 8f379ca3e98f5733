package values

import (
	"bytes"
	"cmp"
)

func class(v Value) int {
	switch {
	case v.kind == KindUndefined:
		return 0
	case v.heap == nil:
		return 1
	}
	return 2
}

// Compare orders Values: undefined first, then scalars by numeric value, then
// arrays. Char arrays compare bytewise; other arrays element by element, then by size.
func Compare(a, b Value) int {
	ca, cb := class(a), class(b)
	if ca != cb {
		return cmp.Compare(ca, cb)
	}
	switch ca {
	case 0:
		return 0
	case 1:
		return compareScalars(a, b)
	}
	return compareArrays(a, b)
}

func compareScalars(a, b Value) int {
	if a.kind.Integral() && b.kind.Integral() {
		return cmp.Compare(a.num, b.num)
	}
	x, y := a.asComplex(), b.asComplex()
	if c := cmp.Compare(real(x), real(y)); c != 0 {
		return c
	}
	return cmp.Compare(imag(x), imag(y))
}

func compareArrays(a, b Value) int {
	if a.heap == b.heap {
		return 0
	}
	la, lb := a.heap.Live(), b.heap.Live()
	if !la || !lb {
		return cmp.Compare(boolInt(la), boolInt(lb))
	}
	if sa, ok := a.Str(); ok {
		if sb, ok := b.Str(); ok {
			return bytes.Compare([]byte(sa), []byte(sb))
		}
	}
	ka, kb := a.heap.Kind(), b.heap.Kind()
	if (ka == KindPair) != (kb == KindPair) {
		return cmp.Compare(ka, kb)
	}
	n := min(a.Size(), b.Size())
	for i := range n {
		if ka == KindPair {
			x, _ := a.KeyAt(i)
			y, _ := b.KeyAt(i)
			if c := Compare(x, y); c != 0 {
				return c
			}
		}
		x, _ := a.At(i)
		y, _ := b.At(i)
		if c := Compare(x, y); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Size(), b.Size())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
