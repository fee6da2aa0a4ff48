package types

import "math"

// Circumcircle is the circle through three vertices, stored as a center
// and squared radius. Degenerate (collinear) input yields an infinite
// radius with the center at infinity.
type Circumcircle struct {
	X        float64
	Y        float64
	RadiusSq float64
}

// InfiniteCircumcircle returns the degenerate result for collinear input.
func InfiniteCircumcircle() Circumcircle {
	return Circumcircle{
		X:        math.Inf(1),
		Y:        math.Inf(1),
		RadiusSq: math.Inf(1),
	}
}

// IsDegenerate reports whether the circle came from collinear input.
func (c Circumcircle) IsDegenerate() bool {
	return math.IsInf(c.RadiusSq, 1)
}

// Radius returns the radius, possibly +Inf.
func (c Circumcircle) Radius() float64 {
	return math.Sqrt(c.RadiusSq)
}

// ContainsSq reports whether the squared distance from the center to
// (x, y) is strictly less than the squared radius.
func (c Circumcircle) ContainsSq(x, y float64) bool {
	dx := x - c.X
	dy := y - c.Y
	return dx*dx+dy*dy < c.RadiusSq
}
