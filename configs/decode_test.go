package configs

import (
	"testing"
)

func TestFirst(t *testing.T) {
	loader := NewLoader([]string{"test.cue"}, testSchema)

	str := First[string](loader, "str")
	if str != "bar" {
		t.Fatalf("got %v", str)
	}

	if n := First[int](loader, "precision"); n != 0 {
		t.Fatalf("got %v", n)
	}
}

func TestAllInts(t *testing.T) {
	loader := NewLoader([]string{"test.cue", "test2.cue"}, testSchema)
	var ns []int
	for n := range All[int](loader, "precision") {
		ns = append(ns, n)
	}
	if len(ns) != 1 || ns[0] != 3 {
		t.Fatalf("got %v", ns)
	}
}
