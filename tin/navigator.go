package tin

import "github.com/meshkit/tin/quadedge"

// GetNeighborEdge locates (x, y) and returns an edge of the enclosing
// triangle, or for an exterior point the perimeter edge nearest to it.
func (t *Tin) GetNeighborEdge(x, y float64) (*quadedge.Edge, error) {
	if !t.bootstrapped {
		return nil, ErrNotBootstrapped
	}
	e, err := t.walker.locate(t.searchEdge, x, y)
	if err != nil {
		return nil, err
	}
	t.searchEdge = e
	if e.Forward().B().IsGhost() {
		// Hand back the real side of the perimeter edge.
		return e.Dual(), nil
	}
	return e, nil
}

// IsPointInsideTin reports whether (x, y) lies inside the triangulated
// area, the convex hull of the inserted vertices. Constraint regions do not
// affect the result.
func (t *Tin) IsPointInsideTin(x, y float64) bool {
	if !t.bootstrapped || !t.bounds.Contains(x, y) {
		return false
	}
	e, err := t.walker.locate(t.searchEdge, x, y)
	if err != nil {
		return false
	}
	t.searchEdge = e
	return !e.Forward().B().IsGhost()
}
