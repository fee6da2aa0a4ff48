// Package robust implements the geometric predicates for the incremental
// TIN: half-plane, orientation, signed area, in-circle and circumcircle.
//
// Each predicate is evaluated in plain float64 first. When the magnitude
// of the result falls below the threshold for that predicate, the
// computation is repeated in double-double precision. The thresholds are
// derived from the nominal point spacing, so the extended path only runs
// for genuinely close calls.
package robust

import (
	"math"

	"github.com/meshkit/tin/numeric"
	"github.com/meshkit/tin/types"
)

// Predicates evaluates the geometric predicates under a fixed threshold
// set and counts how often the extended-precision path runs.
//
// A Predicates value is not safe for concurrent use; each TIN owns one.
type Predicates struct {
	thresholds types.Thresholds

	halfPlaneCalls       int64
	halfPlaneExtended    int64
	inCircleCalls        int64
	inCircleExtended     int64
	circumcircleCalls    int64
	circumcircleExtended int64
}

// Diagnostics is a snapshot of the predicate call counters.
type Diagnostics struct {
	HalfPlaneCalls       int64
	HalfPlaneExtended    int64
	InCircleCalls        int64
	InCircleExtended     int64
	CircumcircleCalls    int64
	CircumcircleExtended int64
}

// NewPredicates constructs a predicate evaluator for the threshold set.
func NewPredicates(thresholds types.Thresholds) *Predicates {
	return &Predicates{thresholds: thresholds}
}

// Thresholds returns the threshold set in use.
func (p *Predicates) Thresholds() types.Thresholds {
	return p.thresholds
}

// Diagnostics returns a snapshot of the call counters.
func (p *Predicates) Diagnostics() Diagnostics {
	return Diagnostics{
		HalfPlaneCalls:       p.halfPlaneCalls,
		HalfPlaneExtended:    p.halfPlaneExtended,
		InCircleCalls:        p.inCircleCalls,
		InCircleExtended:     p.inCircleExtended,
		CircumcircleCalls:    p.circumcircleCalls,
		CircumcircleExtended: p.circumcircleExtended,
	}
}

// ResetDiagnostics clears the call counters.
func (p *Predicates) ResetDiagnostics() {
	p.halfPlaneCalls = 0
	p.halfPlaneExtended = 0
	p.inCircleCalls = 0
	p.inCircleExtended = 0
	p.circumcircleCalls = 0
	p.circumcircleExtended = 0
}

// HalfPlane returns (b-a) x (c-a): positive when c lies to the left of
// the directed line a->b, negative to the right. Results with magnitude
// under the half-plane threshold are recomputed in double-double.
func (p *Predicates) HalfPlane(ax, ay, bx, by, cx, cy float64) float64 {
	p.halfPlaneCalls++
	h := (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
	if math.Abs(h) < p.thresholds.HalfPlane() {
		p.halfPlaneExtended++
		h = halfPlaneDD(ax, ay, bx, by, cx, cy).Value()
	}
	return h
}

// HalfPlaneVertices is HalfPlane on vertex coordinates.
func (p *Predicates) HalfPlaneVertices(a, b, c *types.Vertex) float64 {
	return p.HalfPlane(a.X, a.Y, b.X, b.Y, c.X, c.Y)
}

// Orientation presents the half-plane quantity as a sign: +1 for a
// counterclockwise turn, -1 for clockwise, 0 for collinear within the
// precision threshold.
func (p *Predicates) Orientation(a, b, c *types.Vertex) int {
	h := p.HalfPlaneVertices(a, b, c)
	switch {
	case h > p.thresholds.Precision():
		return 1
	case h < -p.thresholds.Precision():
		return -1
	default:
		return 0
	}
}

// Area returns the signed area of triangle (a, b, c): positive for
// counterclockwise order. Small magnitudes are refined in double-double.
func (p *Predicates) Area(a, b, c *types.Vertex) float64 {
	h := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if math.Abs(h) < p.thresholds.InCircle() {
		h = halfPlaneDD(a.X, a.Y, b.X, b.Y, c.X, c.Y).Value()
	}
	return h / 2
}

// InCircle computes the Shewchuk in-circle determinant on rows translated
// by d. The result is positive iff d lies strictly inside the circumcircle
// of the counterclockwise triangle (a, b, c).
func (p *Predicates) InCircle(a, b, c, d *types.Vertex) float64 {
	p.inCircleCalls++
	adx := a.X - d.X
	ady := a.Y - d.Y
	bdx := b.X - d.X
	bdy := b.Y - d.Y
	cdx := c.X - d.X
	cdy := c.Y - d.Y

	det := (adx*adx+ady*ady)*(bdx*cdy-bdy*cdx) +
		(bdx*bdx+bdy*bdy)*(ady*cdx-adx*cdy) +
		(cdx*cdx+cdy*cdy)*(adx*bdy-ady*bdx)

	if math.Abs(det) < p.thresholds.InCircle() {
		p.inCircleExtended++
		det = inCircleDD(a, b, c, d).Value()
	}
	return det
}

// Circumcircle solves for the circle through a, b and c. When the system
// determinant falls under the circumcircle threshold the solve is repeated
// in double-double; genuinely degenerate input yields the infinite circle.
func (p *Predicates) Circumcircle(a, b, c *types.Vertex) types.Circumcircle {
	p.circumcircleCalls++
	bx := b.X - a.X
	by := b.Y - a.Y
	cx := c.X - a.X
	cy := c.Y - a.Y

	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) < p.thresholds.CircumcircleDeterminant() {
		p.circumcircleExtended++
		return circumcircleDD(a, b, c)
	}

	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	return types.Circumcircle{
		X:        a.X + ux,
		Y:        a.Y + uy,
		RadiusSq: ux*ux + uy*uy,
	}
}

func halfPlaneDD(ax, ay, bx, by, cx, cy float64) numeric.DoubleDouble {
	abx := numeric.DDSum(bx, -ax)
	aby := numeric.DDSum(by, -ay)
	acx := numeric.DDSum(cx, -ax)
	acy := numeric.DDSum(cy, -ay)
	return abx.Mul(acy).Sub(acx.Mul(aby))
}

func inCircleDD(a, b, c, d *types.Vertex) numeric.DoubleDouble {
	adx := numeric.DDSum(a.X, -d.X)
	ady := numeric.DDSum(a.Y, -d.Y)
	bdx := numeric.DDSum(b.X, -d.X)
	bdy := numeric.DDSum(b.Y, -d.Y)
	cdx := numeric.DDSum(c.X, -d.X)
	cdy := numeric.DDSum(c.Y, -d.Y)

	alift := adx.Mul(adx).Add(ady.Mul(ady))
	blift := bdx.Mul(bdx).Add(bdy.Mul(bdy))
	clift := cdx.Mul(cdx).Add(cdy.Mul(cdy))

	bcdet := bdx.Mul(cdy).Sub(bdy.Mul(cdx))
	cadet := ady.Mul(cdx).Sub(adx.Mul(cdy))
	abdet := adx.Mul(bdy).Sub(ady.Mul(bdx))

	return alift.Mul(bcdet).Add(blift.Mul(cadet)).Add(clift.Mul(abdet))
}

func circumcircleDD(a, b, c *types.Vertex) types.Circumcircle {
	bx := numeric.DDSum(b.X, -a.X)
	by := numeric.DDSum(b.Y, -a.Y)
	cx := numeric.DDSum(c.X, -a.X)
	cy := numeric.DDSum(c.Y, -a.Y)

	d := bx.Mul(cy).Sub(by.Mul(cx)).MulFloat(2)
	if d.Sign() == 0 {
		return types.InfiniteCircumcircle()
	}

	b2 := bx.Mul(bx).Add(by.Mul(by))
	c2 := cx.Mul(cx).Add(cy.Mul(cy))
	ux := cy.Mul(b2).Sub(by.Mul(c2)).Div(d)
	uy := bx.Mul(c2).Sub(cx.Mul(b2)).Div(d)
	return types.Circumcircle{
		X:        ux.AddFloat(a.X).Value(),
		Y:        uy.AddFloat(a.Y).Value(),
		RadiusSq: ux.Mul(ux).Add(uy.Mul(uy)).Value(),
	}
}
