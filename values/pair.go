package values

// Pair is the element of an associative array, kept sorted by Key.
type Pair struct {
	Key   Value
	Value Value
}
