package modes

import (
	"log/slog"
	"testing"

	"github.com/reusee/dscope"
)

func TestForProduction(t *testing.T) {
	dscope.New(ForProduction()).Call(func(
		tt *testing.T,
		mode Mode,
	) {
		if tt != nil {
			t.Fatal("production has no test")
		}
		if mode != ModeProduction {
			t.Fatalf("got %v", mode)
		}
		if mode.Level() != slog.LevelInfo {
			t.Fatalf("got %v", mode.Level())
		}
	})
}
