// Package numeric provides the extended-precision arithmetic used by the
// robust geometric predicates.
//
// A DoubleDouble represents a real number as an unevaluated sum of two
// float64 values (hi, lo) with |lo| <= ulp(hi)/2, giving roughly 106 bits
// of significand. The primitives follow Dekker and Shewchuk: TwoSum,
// FastTwoSum and TwoProduct, with TwoProduct built on the fused
// multiply-add instruction.
package numeric

import "math"

// DoubleDouble is an extended-precision value stored as hi + lo.
//
// The zero value is the number zero. DoubleDouble values are immutable;
// every operation returns a new value and performs no allocation.
type DoubleDouble struct {
	Hi float64
	Lo float64
}

// DD constructs a DoubleDouble from a single float64.
func DD(v float64) DoubleDouble {
	return DoubleDouble{Hi: v}
}

// DDSum constructs the exact sum of two float64 values.
func DDSum(a, b float64) DoubleDouble {
	s, e := twoSum(a, b)
	return DoubleDouble{Hi: s, Lo: e}
}

// DDProduct constructs the exact product of two float64 values.
func DDProduct(a, b float64) DoubleDouble {
	p, e := twoProduct(a, b)
	return DoubleDouble{Hi: p, Lo: e}
}

// twoSum computes s+e = a+b exactly, with s = fl(a+b).
func twoSum(a, b float64) (s, e float64) {
	s = a + b
	bv := s - a
	av := s - bv
	e = (a - av) + (b - bv)
	return s, e
}

// fastTwoSum computes s+e = a+b exactly, assuming |a| >= |b|.
func fastTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return s, e
}

// twoProduct computes p+e = a*b exactly using FMA.
func twoProduct(a, b float64) (p, e float64) {
	p = a * b
	e = math.FMA(a, b, -p)
	return p, e
}

// Add returns x + y.
func (x DoubleDouble) Add(y DoubleDouble) DoubleDouble {
	s, e := twoSum(x.Hi, y.Hi)
	e += x.Lo + y.Lo
	s, e = fastTwoSum(s, e)
	return DoubleDouble{Hi: s, Lo: e}
}

// AddFloat returns x + v.
func (x DoubleDouble) AddFloat(v float64) DoubleDouble {
	s, e := twoSum(x.Hi, v)
	e += x.Lo
	s, e = fastTwoSum(s, e)
	return DoubleDouble{Hi: s, Lo: e}
}

// Sub returns x - y.
func (x DoubleDouble) Sub(y DoubleDouble) DoubleDouble {
	return x.Add(DoubleDouble{Hi: -y.Hi, Lo: -y.Lo})
}

// SubFloat returns x - v.
func (x DoubleDouble) SubFloat(v float64) DoubleDouble {
	return x.AddFloat(-v)
}

// Mul returns x * y.
func (x DoubleDouble) Mul(y DoubleDouble) DoubleDouble {
	p, e := twoProduct(x.Hi, y.Hi)
	e += x.Hi*y.Lo + x.Lo*y.Hi
	p, e = fastTwoSum(p, e)
	return DoubleDouble{Hi: p, Lo: e}
}

// MulFloat returns x * v.
func (x DoubleDouble) MulFloat(v float64) DoubleDouble {
	p, e := twoProduct(x.Hi, v)
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return DoubleDouble{Hi: p}
	}
	e += x.Lo * v
	p, e = fastTwoSum(p, e)
	return DoubleDouble{Hi: p, Lo: e}
}

// Div returns x / y. Division by zero propagates the float64 convention
// (Inf or NaN in the hi word).
func (x DoubleDouble) Div(y DoubleDouble) DoubleDouble {
	q1 := x.Hi / y.Hi
	if math.IsInf(q1, 0) || math.IsNaN(q1) {
		return DoubleDouble{Hi: q1}
	}
	r := x.Sub(y.MulFloat(q1))
	q2 := r.Hi / y.Hi
	r = r.Sub(y.MulFloat(q2))
	q3 := r.Hi / y.Hi
	s, e := fastTwoSum(q1, q2)
	e += q3
	s, e = fastTwoSum(s, e)
	return DoubleDouble{Hi: s, Lo: e}
}

// Neg returns -x.
func (x DoubleDouble) Neg() DoubleDouble {
	return DoubleDouble{Hi: -x.Hi, Lo: -x.Lo}
}

// Value rounds the extended value back to a single float64.
func (x DoubleDouble) Value() float64 {
	return x.Hi + x.Lo
}

// Sign reports -1, 0 or +1 for the sign of the extended value.
func (x DoubleDouble) Sign() int {
	v := x.Hi + x.Lo
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// IsNaN reports whether either component is NaN.
func (x DoubleDouble) IsNaN() bool {
	return math.IsNaN(x.Hi) || math.IsNaN(x.Lo)
}
