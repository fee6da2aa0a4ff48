// Package validation checks the structural invariants of a constructed
// TIN: link reciprocity, triangle closure, the Delaunay criterion on
// unconstrained edges, perimeter closure and constraint/region fidelity.
// Checks aggregate every violation rather than stopping at the first.
package validation

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/meshkit/tin/algorithm/geometry"
	"github.com/meshkit/tin/quadedge"
	"github.com/meshkit/tin/tin"
)

var (
	errLinkReciprocity = errors.New("validation: link reciprocity broken")
	errTriangleClosure = errors.New("validation: triangle closure broken")
	errDelaunay        = errors.New("validation: delaunay criterion violated")
	errPerimeter       = errors.New("validation: perimeter malformed")
	errConstraint      = errors.New("validation: constraint edge missing")
	errRegion          = errors.New("validation: region containment violated")
)

// CheckAll runs every check and returns the aggregated violations.
func CheckAll(t *tin.Tin) error {
	return multierr.Combine(
		CheckLinks(t),
		CheckTriangleClosure(t),
		CheckDelaunay(t),
		CheckPerimeter(t),
		CheckConstraintFidelity(t),
		CheckRegions(t),
	)
}

// CheckLinks verifies forward/reverse reciprocity and dual involution for
// every allocated half-edge.
func CheckLinks(t *tin.Tin) error {
	var err error
	it := t.GetEdgeIterator(false)
	for base := it.Next(); base != nil; base = it.Next() {
		for _, e := range []*quadedge.Edge{base, base.Dual()} {
			if e.Forward().Reverse() != e {
				err = multierr.Append(err, fmt.Errorf("%w: edge %d forward/reverse", errLinkReciprocity, e.Index()))
			}
			if e.Reverse().Forward() != e {
				err = multierr.Append(err, fmt.Errorf("%w: edge %d reverse/forward", errLinkReciprocity, e.Index()))
			}
			if e.Dual().Dual() != e {
				err = multierr.Append(err, fmt.Errorf("%w: edge %d dual involution", errLinkReciprocity, e.Index()))
			}
		}
	}
	return err
}

// CheckTriangleClosure verifies that every face cycle closes in three
// steps.
func CheckTriangleClosure(t *tin.Tin) error {
	var err error
	it := t.GetEdgeIterator(false)
	for base := it.Next(); base != nil; base = it.Next() {
		for _, e := range []*quadedge.Edge{base, base.Dual()} {
			if e.Forward().Forward().Forward() != e {
				err = multierr.Append(err, fmt.Errorf("%w: edge %d", errTriangleClosure, e.Index()))
			}
		}
	}
	return err
}

// CheckDelaunay verifies the empty-circumcircle property across every
// unconstrained edge between two real faces, within the TIN's Delaunay
// threshold.
func CheckDelaunay(t *tin.Tin) error {
	var err error
	geoOp := t.Predicates()
	threshold := t.Thresholds().Delaunay()
	it := t.GetEdgeIterator(true)
	for e := it.Next(); e != nil; e = it.Next() {
		if e.IsConstrained() {
			continue
		}
		c := e.Forward().B()
		d := e.Dual().Forward().B()
		if c.IsGhost() || d.IsGhost() {
			continue
		}
		if v := geoOp.InCircle(e.A(), e.B(), c, d); v > threshold {
			err = multierr.Append(err, fmt.Errorf("%w: edge %d in-circle %g", errDelaunay, e.Index(), v))
		}
	}
	return err
}

// CheckPerimeter verifies that the perimeter closes, has positive signed
// area, and matches the ghost-edge count.
func CheckPerimeter(t *tin.Tin) error {
	perimeter, err := t.GetPerimeter()
	if err != nil {
		return multierr.Append(errPerimeter, err)
	}
	var out error
	ghosts := 0
	it := t.GetEdgeIterator(false)
	for e := it.Next(); e != nil; e = it.Next() {
		if e.IsGhost() {
			ghosts++
		}
	}
	if len(perimeter) != ghosts {
		out = multierr.Append(out, fmt.Errorf("%w: %d perimeter edges, %d ghost pairs",
			errPerimeter, len(perimeter), ghosts))
	}
	xs := make([]float64, len(perimeter))
	ys := make([]float64, len(perimeter))
	for i, e := range perimeter {
		if i > 0 && perimeter[i-1].B() != e.A() {
			out = multierr.Append(out, fmt.Errorf("%w: break after edge %d", errPerimeter, perimeter[i-1].Index()))
		}
		xs[i] = e.A().X
		ys[i] = e.A().Y
	}
	if len(perimeter) > 0 && perimeter[len(perimeter)-1].B() != perimeter[0].A() {
		out = multierr.Append(out, fmt.Errorf("%w: cycle does not close", errPerimeter))
	}
	if geometry.PolygonArea(xs, ys) <= 0 {
		out = multierr.Append(out, fmt.Errorf("%w: non-positive signed area", errPerimeter))
	}
	return out
}

// CheckConstraintFidelity verifies that every segment of every installed
// constraint is present as a constrained edge chain. Steiner splits are
// honored: the chain from segment start to end may pass through synthetic
// vertices, each hop carrying the constraint's mark.
func CheckConstraintFidelity(t *tin.Tin) error {
	var out error
	for _, c := range t.GetConstraints() {
		k := c.ConstraintIndex()
		verts := c.Vertices()
		segments := len(verts) - 1
		if c.IsPolygon() {
			segments = len(verts)
		}
		for i := 0; i < segments; i++ {
			p := verts[i]
			q := verts[(i+1)%len(verts)]
			if p.DistanceSq(q.X, q.Y) <= t.Thresholds().VertexToleranceSq() {
				continue
			}
			if !constrainedChainExists(t, k, p.X, p.Y, q.X, q.Y) {
				out = multierr.Append(out, fmt.Errorf("%w: constraint %d segment %d",
					errConstraint, k, i))
			}
		}
	}
	return out
}

// constrainedChainExists scans the constrained edges carrying index k and
// verifies the segment (px,py)-(qx,qy) is covered by collinear hops.
func constrainedChainExists(t *tin.Tin, k int32, px, py, qx, qy float64) bool {
	tol := t.Thresholds().VertexTolerance()
	length := geometry.Distance(px, py, qx, qy)
	covered := 0.0
	it := t.GetEdgeIterator(true)
	for e := it.Next(); e != nil; e = it.Next() {
		if e.ConstraintLineIndex() != k &&
			e.ConstraintBorderIndex() != k &&
			e.Dual().ConstraintBorderIndex() != k {
			continue
		}
		a := e.A()
		b := e.B()
		ta := geometry.ProjectionParam(px, py, qx, qy, a.X, a.Y)
		tb := geometry.ProjectionParam(px, py, qx, qy, b.X, b.Y)
		if ta < -1e-9 || ta > 1+1e-9 || tb < -1e-9 || tb > 1+1e-9 {
			continue
		}
		// Both endpoints must lie on the segment's line.
		da := geometry.Distance(a.X, a.Y, px+ta*(qx-px), py+ta*(qy-py))
		db := geometry.Distance(b.X, b.Y, px+tb*(qx-px), py+tb*(qy-py))
		if da > tol || db > tol {
			continue
		}
		covered += geometry.Distance(a.X, a.Y, b.X, b.Y)
	}
	return covered >= length-tol
}

// CheckRegions verifies property six of the region contract: interior
// marks never leak outside their polygon, and every face with an
// interior-marked edge has its centroid inside the region.
func CheckRegions(t *tin.Tin) error {
	polygons := map[int32][2][]float64{}
	holes := map[int32][][2][]float64{}
	for _, c := range t.GetConstraints() {
		poly, ok := c.(*tin.PolygonConstraint)
		if !ok {
			continue
		}
		xs := make([]float64, len(poly.Vertices()))
		ys := make([]float64, len(poly.Vertices()))
		for i, v := range poly.Vertices() {
			xs[i] = v.X
			ys[i] = v.Y
		}
		if poly.IsHole() {
			for k := range polygons {
				holes[k] = append(holes[k], [2][]float64{xs, ys})
			}
		} else if poly.DefinesRegion() {
			polygons[poly.ConstraintIndex()] = [2][]float64{xs, ys}
		}
	}

	var out error
	inRegion := func(k int32, x, y float64) bool {
		poly, ok := polygons[k]
		if !ok {
			return false
		}
		if !geometry.PointInPolygon(x, y, poly[0], poly[1]) {
			return false
		}
		for _, h := range holes[k] {
			if geometry.PointInPolygon(x, y, h[0], h[1]) {
				return false
			}
		}
		return true
	}

	it := t.GetEdgeIterator(true)
	for base := it.Next(); base != nil; base = it.Next() {
		for _, e := range []*quadedge.Edge{base, base.Dual()} {
			k := e.ConstraintRegionInteriorIndex()
			if k < 0 {
				continue
			}
			mx := (e.A().X + e.B().X) / 2
			my := (e.A().Y + e.B().Y) / 2
			if !inRegion(k, mx, my) {
				out = multierr.Append(out, fmt.Errorf("%w: edge %d midpoint outside region %d",
					errRegion, e.Index(), k))
			}
			apex := e.Forward().B()
			if apex.IsGhost() {
				continue
			}
			cx := (e.A().X + e.B().X + apex.X) / 3
			cy := (e.A().Y + e.B().Y + apex.Y) / 3
			if !inRegion(k, cx, cy) {
				out = multierr.Append(out, fmt.Errorf("%w: face at edge %d centroid outside region %d",
					errRegion, e.Index(), k))
			}
		}
	}
	return out
}
