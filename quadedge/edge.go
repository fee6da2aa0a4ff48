// Package quadedge implements the topological store for the incremental
// TIN: directed half-edges allocated in pairs (base and dual) from a paged
// pool with stable indices.
//
// Each half-edge knows its origin vertex, the next half-edge
// counterclockwise around its left face (forward), the inverse of that
// relation (reverse), and its oppositely directed twin (dual). Constraint
// membership is recorded per half-edge side, so a region border can mark
// its interior-facing side only.
package quadedge

import (
	"fmt"
	"math"

	"github.com/meshkit/tin/types"
)

// noIndex is the unset value for the per-side constraint indices.
const noIndex = -1

// Edge is one directed half-edge of a quad-edge pair.
//
// Edges are owned by a Pool and navigated by pointer; Index is stable for
// the lifetime of the allocation and may be handed to clients, but a freed
// index can be recycled by a later allocation.
type Edge struct {
	index   int32
	vertex  *types.Vertex
	forward *Edge
	reverse *Edge
	dual    *Edge

	lineIndex     int32
	borderIndex   int32
	interiorIndex int32
	synthetic     bool

	allocated bool
}

// A returns the origin vertex of this half-edge.
func (e *Edge) A() *types.Vertex { return e.vertex }

// B returns the destination, which is the origin of the dual.
func (e *Edge) B() *types.Vertex { return e.dual.vertex }

// Forward returns the next half-edge counterclockwise around the left face.
func (e *Edge) Forward() *Edge { return e.forward }

// Reverse returns the half-edge whose forward link is e.
func (e *Edge) Reverse() *Edge { return e.reverse }

// Dual returns the oppositely directed twin half-edge.
func (e *Edge) Dual() *Edge { return e.dual }

// Index returns the half-edge index. Base edges carry even indices and
// their duals the odd index one above.
func (e *Edge) Index() int32 { return e.index }

// BaseIndex returns the even index of the pair.
func (e *Edge) BaseIndex() int32 { return e.index &^ 1 }

// Side returns 0 for the base half-edge and 1 for the dual.
func (e *Edge) Side() int32 { return e.index & 1 }

// Base returns the even half-edge of the pair.
func (e *Edge) Base() *Edge {
	if e.index&1 == 0 {
		return e
	}
	return e.dual
}

// Length returns the planar length, or NaN for ghost or undefined edges.
func (e *Edge) Length() float64 {
	a, b := e.A(), e.B()
	if a == nil || b == nil {
		return math.NaN()
	}
	return a.Distance(b.X, b.Y)
}

// IsGhost reports whether either endpoint is the null sentinel vertex.
func (e *Edge) IsGhost() bool {
	return e.vertex.IsGhost() || e.dual.vertex.IsGhost()
}

// IsAllocated reports whether the pair is currently on the topology.
func (e *Edge) IsAllocated() bool { return e.Base().allocated }

// SetForward links f as the successor of e around the left face and
// maintains the reverse relation.
func (e *Edge) SetForward(f *Edge) {
	e.forward = f
	f.reverse = e
}

// SetVertex replaces the origin vertex. Used when an edge pivots during a
// flip or a split.
func (e *Edge) SetVertex(v *types.Vertex) { e.vertex = v }

// IsConstraintLineMember reports membership in a linear constraint.
func (e *Edge) IsConstraintLineMember() bool { return e.lineIndex != noIndex }

// IsConstraintRegionBorder reports whether this side of the edge borders a
// constrained region.
func (e *Edge) IsConstraintRegionBorder() bool { return e.borderIndex != noIndex }

// IsConstraintRegionInterior reports whether this side lies in the
// interior of a constrained region.
func (e *Edge) IsConstraintRegionInterior() bool { return e.interiorIndex != noIndex }

// IsConstraintRegionMember reports whether either side of the edge is a
// region border or region interior.
func (e *Edge) IsConstraintRegionMember() bool {
	return e.borderIndex != noIndex || e.interiorIndex != noIndex ||
		e.dual.borderIndex != noIndex || e.dual.interiorIndex != noIndex
}

// IsConstrained reports whether the edge must be preserved: it is a line
// constraint member or a region border on either side.
func (e *Edge) IsConstrained() bool {
	return e.lineIndex != noIndex || e.borderIndex != noIndex || e.dual.borderIndex != noIndex
}

// IsSynthetic reports whether the edge was produced by a split.
func (e *Edge) IsSynthetic() bool { return e.Base().synthetic }

// ConstraintLineIndex returns the linear constraint index, or -1.
func (e *Edge) ConstraintLineIndex() int32 { return e.lineIndex }

// ConstraintBorderIndex returns this side's region border index, or -1.
func (e *Edge) ConstraintBorderIndex() int32 { return e.borderIndex }

// ConstraintRegionInteriorIndex returns this side's region interior
// index, or -1.
func (e *Edge) ConstraintRegionInteriorIndex() int32 { return e.interiorIndex }

// SetConstraintLineIndex marks both sides of the edge as members of the
// linear constraint.
func (e *Edge) SetConstraintLineIndex(k int32) {
	e.lineIndex = k
	e.dual.lineIndex = k
}

// SetConstraintBorderIndex marks this side only as a region border.
func (e *Edge) SetConstraintBorderIndex(k int32) { e.borderIndex = k }

// SetConstraintRegionInteriorIndex marks this side only as region interior.
func (e *Edge) SetConstraintRegionInteriorIndex(k int32) { e.interiorIndex = k }

// SetSynthetic flags the pair as split-produced.
func (e *Edge) SetSynthetic(s bool) { e.Base().synthetic = s }

// copyConstraintsFrom copies per-side constraint state from o (and o's
// dual onto e's dual). Used by SplitEdge so both halves of a split
// constraint stay constrained.
func (e *Edge) copyConstraintsFrom(o *Edge) {
	e.lineIndex = o.lineIndex
	e.borderIndex = o.borderIndex
	e.interiorIndex = o.interiorIndex
	e.dual.lineIndex = o.dual.lineIndex
	e.dual.borderIndex = o.dual.borderIndex
	e.dual.interiorIndex = o.dual.interiorIndex
}

func (e *Edge) clearConstraints() {
	e.lineIndex = noIndex
	e.borderIndex = noIndex
	e.interiorIndex = noIndex
}

func (e *Edge) String() string {
	if e == nil {
		return "Edge(nil)"
	}
	return fmt.Sprintf("Edge#%d %v -> %v", e.index, e.vertex, e.dual.vertex)
}
