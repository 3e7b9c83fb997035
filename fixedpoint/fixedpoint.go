// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fixedpoint implements 17.14 signed fixed-point arithmetic, the
// representation the scheduler's MLFQ policy uses for recent_cpu and
// load_avg so those quantities behave identically regardless of whether
// the host float64 type is available in a given kernel build.
//
// The representation stores real value × 2^14 in an int64. Conversions
// and arithmetic follow the standard q-format rules; division rounds
// toward zero after truncating the shifted intermediate, and the
// Value.Round method implements round-half-away-from-zero for
// callers (such as MLFQ's reported load_avg/recent_cpu) that want a
// human-facing integer instead of a truncated one.
package fixedpoint

// fractionalBits is the number of bits (14) reserved for the fraction.
const fractionalBits = 14

const scale = 1 << fractionalBits

// Value is a signed 17.14 fixed-point number.
type Value int64

// FromInt converts an integer to fixed-point.
func FromInt(n int) Value {
	return Value(int64(n) * scale)
}

// Trunc truncates toward zero, returning the integer part.
func (v Value) Trunc() int {
	return int(int64(v) / scale)
}

// Round returns the nearest integer, rounding half away from zero.
func (v Value) Round() int {
	if v >= 0 {
		return int((int64(v) + scale/2) / scale)
	}
	return int((int64(v) - scale/2) / scale)
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	return v + other
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return v - other
}

// AddInt returns v + n.
func (v Value) AddInt(n int) Value {
	return v + FromInt(n)
}

// SubInt returns v - n.
func (v Value) SubInt(n int) Value {
	return v - FromInt(n)
}

// MulInt returns v * n.
func (v Value) MulInt(n int) Value {
	return v * Value(n)
}

// DivInt returns v / n. Panics if n == 0, a programming error at every
// call site in this package (divisors are always derived from constants
// or values already checked non-zero by the caller).
func (v Value) DivInt(n int) Value {
	if n == 0 {
		panic("fixedpoint: division by zero")
	}
	return Value(int64(v) / int64(n))
}

// Mul returns v * other. The raw int64 values are multiplied before
// dividing by the scale, so no fraction bits are lost before the final
// truncation; the product is not checked for overflow.
func (v Value) Mul(other Value) Value {
	return Value((int64(v) * int64(other)) / scale)
}

// Div returns v / other. Panics if other == 0.
func (v Value) Div(other Value) Value {
	if other == 0 {
		panic("fixedpoint: division by zero")
	}
	return Value((int64(v) * scale) / int64(other))
}

// Floor returns the greatest integer <= v (rounds toward negative
// infinity, unlike Trunc which rounds toward zero). Used by MLFQ's
// priority formula, which is specified as a floor rather than a
// truncation.
func (v Value) Floor() int {
	if int64(v) >= 0 || int64(v)%scale == 0 {
		return int(int64(v) / scale)
	}
	return int(int64(v)/scale) - 1
}

// Neg returns -v.
func (v Value) Neg() Value {
	return -v
}

// IsZero reports whether v is exactly zero.
func (v Value) IsZero() bool {
	return v == 0
}
