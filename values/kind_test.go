package values

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	for k := KindChar; k <= KindPair; k++ {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Fatalf("got %v", got)
		}
	}
	if _, err := ParseKind("array"); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}
