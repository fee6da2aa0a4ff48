package tin

import (
	"github.com/meshkit/tin/algorithm/geometry"
	"github.com/meshkit/tin/types"
)

// Constraint is a polyline or polygon whose edges must be preserved in
// the triangulation.
//
// A constraint is assigned its index when added to a Tin; before that the
// index is -1. Constraint vertices may coincide with vertices already in
// the TIN; coincident input merges rather than duplicating.
type Constraint interface {
	// Vertices returns the constraint's vertices in definition order.
	Vertices() []*types.Vertex

	// IsPolygon reports whether the vertex list closes into a polygon.
	IsPolygon() bool

	// DefinesRegion reports whether the polygon's interior is marked by
	// flood fill. Always false for linear constraints.
	DefinesRegion() bool

	// IsHole reports whether the polygon subtracts from an enclosing
	// region rather than defining one.
	IsHole() bool

	// ApplicationData returns the caller's opaque payload.
	ApplicationData() any

	// ConstraintIndex returns the index assigned at insertion, or -1.
	ConstraintIndex() int32

	setConstraintIndex(int32)
}

// LinearConstraint is an open polyline constraint. Every segment is
// recorded as a constrained edge carrying the constraint's line index on
// both sides.
type LinearConstraint struct {
	vertices []*types.Vertex
	data     any
	index    int32
}

// NewLinearConstraint constructs a polyline constraint.
func NewLinearConstraint(vertices []*types.Vertex, applicationData any) *LinearConstraint {
	return &LinearConstraint{
		vertices: vertices,
		data:     applicationData,
		index:    -1,
	}
}

// Vertices returns the polyline vertices.
func (l *LinearConstraint) Vertices() []*types.Vertex { return l.vertices }

// IsPolygon reports false: a polyline does not close.
func (l *LinearConstraint) IsPolygon() bool { return false }

// DefinesRegion reports false.
func (l *LinearConstraint) DefinesRegion() bool { return false }

// IsHole reports false.
func (l *LinearConstraint) IsHole() bool { return false }

// ApplicationData returns the caller's payload.
func (l *LinearConstraint) ApplicationData() any { return l.data }

// ConstraintIndex returns the assigned index, or -1.
func (l *LinearConstraint) ConstraintIndex() int32 { return l.index }

func (l *LinearConstraint) setConstraintIndex(k int32) { l.index = k }

// PolygonConstraint is a closed polygon constraint. When it defines a
// region its border edges carry the constraint index on the interior-facing
// side and the enclosed faces are flood-filled with the interior index.
// A hole blocks the flood of the region that surrounds it.
type PolygonConstraint struct {
	vertices      []*types.Vertex
	definesRegion bool
	isHole        bool
	data          any
	index         int32
}

// NewPolygonConstraint constructs a polygon constraint. The vertex list is
// implicitly closed; the closing segment is inserted automatically.
func NewPolygonConstraint(vertices []*types.Vertex, definesRegion, isHole bool, applicationData any) *PolygonConstraint {
	return &PolygonConstraint{
		vertices:      vertices,
		definesRegion: definesRegion,
		isHole:        isHole,
		data:          applicationData,
		index:         -1,
	}
}

// Vertices returns the polygon vertices in definition order.
func (p *PolygonConstraint) Vertices() []*types.Vertex { return p.vertices }

// IsPolygon reports true.
func (p *PolygonConstraint) IsPolygon() bool { return true }

// DefinesRegion reports whether flood fill marks the interior.
func (p *PolygonConstraint) DefinesRegion() bool { return p.definesRegion && !p.isHole }

// IsHole reports whether this polygon subtracts from an enclosing region.
func (p *PolygonConstraint) IsHole() bool { return p.isHole }

// ApplicationData returns the caller's payload.
func (p *PolygonConstraint) ApplicationData() any { return p.data }

// ConstraintIndex returns the assigned index, or -1.
func (p *PolygonConstraint) ConstraintIndex() int32 { return p.index }

func (p *PolygonConstraint) setConstraintIndex(k int32) { p.index = k }

// Area returns the signed area of the polygon as defined: positive for
// counterclockwise winding.
func (p *PolygonConstraint) Area() float64 {
	xs, ys := constraintCoords(p.vertices)
	return geometry.PolygonArea(xs, ys)
}

// orientedVertices returns the vertices normalized so the region side lies
// to the left of each directed segment: counterclockwise for regions,
// clockwise for holes (a hole border's region side faces outward).
func (p *PolygonConstraint) orientedVertices() []*types.Vertex {
	area := p.Area()
	wantCCW := !p.isHole
	if (area >= 0) == wantCCW {
		return p.vertices
	}
	out := make([]*types.Vertex, len(p.vertices))
	for i, v := range p.vertices {
		out[len(out)-1-i] = v
	}
	return out
}

func constraintCoords(vertices []*types.Vertex) (xs, ys []float64) {
	xs = make([]float64, len(vertices))
	ys = make([]float64, len(vertices))
	for i, v := range vertices {
		xs[i] = v.X
		ys[i] = v.Y
	}
	return xs, ys
}
