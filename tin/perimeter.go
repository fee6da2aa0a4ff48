package tin

import (
	"iter"

	"github.com/meshkit/tin/quadedge"
	"github.com/meshkit/tin/types"
)

// Triangle is a read-only view of one face: the three half-edges whose
// left face it is, in counterclockwise order.
type Triangle struct {
	edges [3]*quadedge.Edge
}

// Edges returns the three half-edges of the face.
func (tr Triangle) Edges() [3]*quadedge.Edge { return tr.edges }

// A returns the first vertex.
func (tr Triangle) A() *types.Vertex { return tr.edges[0].A() }

// B returns the second vertex.
func (tr Triangle) B() *types.Vertex { return tr.edges[1].A() }

// C returns the third vertex.
func (tr Triangle) C() *types.Vertex { return tr.edges[2].A() }

// Centroid returns the face centroid.
func (tr Triangle) Centroid() (float64, float64) {
	a, b, c := tr.A(), tr.B(), tr.C()
	return (a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3
}

// IsConstrained reports whether any edge of the face is constrained or a
// region member.
func (tr Triangle) IsConstrained() bool {
	for _, e := range tr.edges {
		if e.IsConstrained() || e.IsConstraintRegionMember() {
			return true
		}
	}
	return false
}

// TriangleCount summarizes the faces of the TIN.
type TriangleCount struct {
	Valid       int
	Ghost       int
	Constrained int
}

// GetPerimeter returns the perimeter edges in counterclockwise order,
// starting from an arbitrary hull edge. The polygon they bound has
// positive signed area.
func (t *Tin) GetPerimeter() ([]*quadedge.Edge, error) {
	if !t.bootstrapped {
		return nil, ErrNotBootstrapped
	}
	g := t.pool.GetStartingGhostEdge()
	if g == nil {
		return nil, ErrNotBootstrapped
	}
	// Normalize to the v -> ghost orientation.
	if g.A().IsGhost() {
		g = g.Dual()
	}
	var out []*quadedge.Edge
	start := g
	for i := 0; i < walkIterationCap; i++ {
		out = append(out, g.Reverse().Dual())
		g = g.Forward().Dual()
		if g == start {
			return out, nil
		}
	}
	return nil, ErrIterationLimitExceeded
}

// GetTriangles returns a lazy sequence over the real (non-ghost) faces.
// The mesh must not be mutated during iteration.
func (t *Tin) GetTriangles() iter.Seq[Triangle] {
	return func(yield func(Triangle) bool) {
		visited := make([]bool, t.pool.MaxAllocationIndex()+2)
		it := t.pool.Iterator(false)
		for base := it.Next(); base != nil; base = it.Next() {
			for _, h := range []*quadedge.Edge{base, base.Dual()} {
				if visited[h.Index()] {
					continue
				}
				f := h.Forward()
				ff := f.Forward()
				if ff.Forward() != h {
					visited[h.Index()] = true
					continue
				}
				visited[h.Index()] = true
				visited[f.Index()] = true
				visited[ff.Index()] = true
				if h.A().IsGhost() || f.A().IsGhost() || ff.A().IsGhost() {
					continue
				}
				if !yield(Triangle{edges: [3]*quadedge.Edge{h, f, ff}}) {
					return
				}
			}
		}
	}
}

// CountTriangles tallies the valid, ghost and constrained faces.
func (t *Tin) CountTriangles() TriangleCount {
	var count TriangleCount
	visited := make([]bool, t.pool.MaxAllocationIndex()+2)
	it := t.pool.Iterator(false)
	for base := it.Next(); base != nil; base = it.Next() {
		for _, h := range []*quadedge.Edge{base, base.Dual()} {
			if visited[h.Index()] {
				continue
			}
			f := h.Forward()
			ff := f.Forward()
			if ff.Forward() != h {
				visited[h.Index()] = true
				continue
			}
			visited[h.Index()] = true
			visited[f.Index()] = true
			visited[ff.Index()] = true
			if h.A().IsGhost() || f.A().IsGhost() || ff.A().IsGhost() {
				count.Ghost++
				continue
			}
			count.Valid++
			if (Triangle{edges: [3]*quadedge.Edge{h, f, ff}}).IsConstrained() {
				count.Constrained++
			}
		}
	}
	return count
}
