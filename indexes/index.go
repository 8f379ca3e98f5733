package indexes

import "strconv"

// Index is a signed position whose truthiness is inverted relative to ints:
// zero and every positive value are defined, negative values are not.
//
// One Index carries two disjoint meanings. A defined Index is an ordinary
// position; an undefined one encodes a second position p as Not(p).
type Index int

// Of returns the defined Index for position n.
func Of(n int) Index {
	return Index(n)
}

// Missing returns the undefined Index encoding position n.
func Missing(n int) Index {
	return Index(n).Not()
}

func (i Index) Defined() bool {
	return i >= 0
}

// Not returns -(i+1). Applying it twice yields i.
func (i Index) Not() Index {
	return -(i + 1)
}

// Position returns the position carried by i, decoding undefined indexes.
func (i Index) Position() int {
	if i < 0 {
		return int(i.Not())
	}
	return int(i)
}

func (i Index) String() string {
	if i < 0 {
		return "~" + strconv.Itoa(int(i.Not()))
	}
	return strconv.Itoa(int(i))
}
