package values

import "strconv"

// Parse reads a literal: integers become Long, reals Double, complex numbers
// CDouble, anything else a String.
func Parse(literal string) Value {
	if n, err := strconv.ParseInt(literal, 0, 64); err == nil {
		return Long(n)
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return Double(f)
	}
	if c, err := strconv.ParseComplex(literal, 128); err == nil {
		return CDouble(c)
	}
	return String(literal)
}
