package values

import (
	"errors"
	"testing"
)

func TestArithPromotion(t *testing.T) {
	cases := []struct {
		op   func(a, b Value) (Value, error)
		a, b Value
		want Value
	}{
		{Add, Int(1), Long(2), Long(3)},
		{Add, Char(1), Char(2), Char(3)},
		{Add, Long(1), Float(0.5), Double(1.5)},
		{Add, Float(1), Float(0.5), Float(1.5)},
		{Sub, Int(1), Double(0.5), Double(0.5)},
		{Mul, CFloat(1 + 1i), Double(2), CDouble(2 + 2i)},
		{Mul, CFloat(1 + 1i), Float(2), CFloat(2 + 2i)},
		{Div, Long(7), Long(2), Long(3)},
		{Div, Double(7), Long(2), Double(3.5)},
	}
	for _, c := range cases {
		got, err := c.op(c.a, c.b)
		if err != nil {
			t.Fatal(err)
		}
		if got.Type() != c.want.Type() || !got.Equal(c.want) {
			t.Fatalf("got %v %v, want %v %v", got.Type(), got, c.want.Type(), c.want)
		}
	}
}

func TestArithErrors(t *testing.T) {
	if _, err := Div(Long(1), Long(0)); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
	if _, err := Add(String("a"), Long(1)); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
	if _, err := Add(Value{}, Long(1)); !errors.Is(err, ErrState) {
		t.Fatalf("got %v", err)
	}
	var e *Error
	_, err := Mul(Long(1), List())
	if !errors.As(err, &e) || e.Op != "mul" {
		t.Fatalf("got %v", err)
	}
}

func TestNeg(t *testing.T) {
	for _, c := range []struct{ in, want Value }{
		{Int(3), Int(-3)},
		{Float(1.5), Float(-1.5)},
		{CDouble(1 - 1i), CDouble(-1 + 1i)},
	} {
		got, err := Neg(c.in)
		if err != nil {
			t.Fatal(err)
		}
		if got.Type() != c.want.Type() || !got.Equal(c.want) {
			t.Fatalf("got %v", got)
		}
	}
	if _, err := Neg(String("x")); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}
