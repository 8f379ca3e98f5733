package values

type Kind uint8

const (
	KindUndefined Kind = iota
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindCFloat
	KindCDouble
	KindValue
	KindPair
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindCFloat:
		return "cfloat"
	case KindCDouble:
		return "cdouble"
	case KindValue:
		return "value"
	case KindPair:
		return "pair"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Primitive reports whether k is stored inline in a Value.
func (k Kind) Primitive() bool {
	return k >= KindChar && k <= KindCDouble
}

func (k Kind) Integral() bool {
	return k == KindChar || k == KindInt || k == KindLong
}

func (k Kind) Complex() bool {
	return k == KindCFloat || k == KindCDouble
}

// owning kinds hold Values whose heaps they keep attached
func (k Kind) owning() bool {
	return k == KindValue || k == KindPair
}

// ParseKind reads an element kind name as printed by String.
func ParseKind(name string) (Kind, error) {
	for k := KindChar; k <= KindPair; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return KindUndefined, errorf(ErrType, "kind", "unknown element kind %q", name)
}
