package tin

import (
	"github.com/meshkit/tin/algorithm/geometry"
	"github.com/meshkit/tin/algorithm/robust"
	"github.com/meshkit/tin/quadedge"
)

// walkIterationCap converts a cycling walk into a recoverable error.
const walkIterationCap = 100000

// xorshift is the deterministic PRNG used to randomize side-test order in
// the stochastic Lawson walk. Each walker owns its own state.
type xorshift struct {
	state uint32
}

func (r *xorshift) next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// walker performs the stochastic Lawson walk over the quad-edge topology.
type walker struct {
	geoOp *robust.Predicates
	rng   xorshift
}

func newWalker(geoOp *robust.Predicates, seed uint32) *walker {
	return &walker{geoOp: geoOp, rng: xorshift{state: seed}}
}

func (w *walker) reset(seed uint32) {
	w.rng.state = seed
}

// locate returns a half-edge whose left face contains (x, y). For a point
// inside the mesh the left face is the enclosing triangle; for an exterior
// point the left face is the ghost face whose perimeter edge subtends the
// point's projection or, for a point beyond a hull vertex and outside the
// strips of both edges meeting there, the ghost face of one of those edges.
func (w *walker) locate(start *quadedge.Edge, x, y float64) (*quadedge.Edge, error) {
	e := start
	if e == nil {
		return nil, ErrNotBootstrapped
	}
	// Step off ghost edges onto the real pair of the same ghost face.
	if e.B().IsGhost() {
		e = e.Reverse()
	} else if e.A().IsGhost() {
		e = e.Forward()
	}

	if w.halfPlane(e, x, y) < 0 {
		e = e.Dual()
	}

	for i := 0; i < walkIterationCap; i++ {
		f := e.Forward()
		apex := f.B()
		if apex.IsGhost() {
			pe, transfer, err := w.perimeterWalk(e, x, y)
			if err != nil {
				return nil, err
			}
			if transfer == nil {
				return pe, nil
			}
			e = transfer
			continue
		}
		r := f.Forward()

		// Randomize which of the two remaining sides is tested first to
		// avoid cycling on degenerate geometry.
		first, second := f, r
		if w.rng.next()&1 == 0 {
			first, second = r, f
		}
		if w.halfPlane(first, x, y) < 0 {
			e = first.Dual()
			continue
		}
		if w.halfPlane(second, x, y) < 0 {
			e = second.Dual()
			continue
		}
		return e, nil
	}
	return nil, ErrIterationLimitExceeded
}

func (w *walker) halfPlane(e *quadedge.Edge, x, y float64) float64 {
	a := e.A()
	b := e.B()
	return w.geoOp.HalfPlane(a.X, a.Y, b.X, b.Y, x, y)
}

// perimeterWalk is entered when the walk reaches a ghost face: e is the
// ghost-side half of a perimeter edge. It steps forward or backward along
// the perimeter until the query projects into the strip subtended by a
// perimeter edge while lying outside it, and returns that ghost-side half.
// If a step reaches an edge the query lies inside of, or would reverse
// direction, the query lies beyond the shared hull vertex and the walk
// stops there on an edge the query lies outside of. If the query lies
// inside relative to the first perimeter edge tested, the third return
// transfers the walk back onto the real side.
func (w *walker) perimeterWalk(e *quadedge.Edge, x, y float64) (*quadedge.Edge, *quadedge.Edge, error) {
	// e runs b -> a on the ghost side; its dual a -> b is the perimeter
	// edge with the mesh on its left.
	prev, prevH, dir := (*quadedge.Edge)(nil), 0.0, 0
	for i := 0; i < walkIterationCap; i++ {
		hull := e.Dual()
		a := hull.A()
		b := hull.B()
		h := w.geoOp.HalfPlane(a.X, a.Y, b.X, b.Y, x, y)
		if h > 0 && prev != nil {
			return prev, nil, nil // only the edge just left faces the query
		}
		if h > 0 {
			// Inside relative to this perimeter edge; resume the walk on
			// the real side.
			return nil, hull, nil
		}
		p := geometry.ProjectionParam(a.X, a.Y, b.X, b.Y, x, y)
		if (p < 0 && dir > 0) || (p > 1 && dir < 0) {
			// Beyond the hull vertex shared with the edge just left: keep
			// the edge the query lies further outside of.
			if prevH < h {
				return prev, nil, nil
			}
			return e, nil, nil
		}
		prev, prevH = e, h
		switch {
		case p < 0:
			dir = -1
			// Step backward: ghost face of the perimeter edge ending at a.
			e = e.Forward().Dual().Forward()
		case p > 1:
			dir = 1
			// Step forward: ghost face of the perimeter edge starting at b.
			e = e.Reverse().Dual().Reverse()
		default:
			return e, nil, nil
		}
	}
	return nil, nil, ErrIterationLimitExceeded
}
