package fixedpoint_test

import (
	"testing"

	"code.hybscloud.com/sched/fixedpoint"
)

func TestFromIntTrunc(t *testing.T) {
	for _, n := range []int{0, 1, -1, 63, -63, 1000} {
		v := fixedpoint.FromInt(n)
		if got := v.Trunc(); got != n {
			t.Fatalf("FromInt(%d).Trunc() = %d, want %d", n, got, n)
		}
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		v    fixedpoint.Value
		want int
	}{
		{fixedpoint.FromInt(2), 2},
		{fixedpoint.FromInt(2).Add(fixedpoint.Value(1 << 13)), 3},  // 2.5 -> 3
		{fixedpoint.FromInt(-2).Sub(fixedpoint.Value(1 << 13)), -3}, // -2.5 -> -3
		{fixedpoint.FromInt(2).Add(fixedpoint.Value(1 << 12)), 2},  // 2.25 -> 2
	}
	for _, c := range cases {
		if got := c.v.Round(); got != c.want {
			t.Fatalf("Round(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	a := fixedpoint.FromInt(59).Div(fixedpoint.FromInt(60))
	b := a.Mul(fixedpoint.FromInt(60))
	if got := b.Round(); got != 59 {
		t.Fatalf("(59/60)*60 rounded = %d, want 59", got)
	}
}

func TestDivIntByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on division by zero")
		}
	}()
	fixedpoint.FromInt(1).DivInt(0)
}

func TestNegIsZero(t *testing.T) {
	z := fixedpoint.FromInt(0)
	if !z.IsZero() {
		t.Fatal("FromInt(0) should be zero")
	}
	if z.Neg() != z {
		t.Fatal("negating zero should yield zero")
	}
}
