package tin

import (
	"math"

	"go.uber.org/zap"

	"github.com/meshkit/tin/quadedge"
	"github.com/meshkit/tin/types"
)

// flipIterationCap bounds the Delaunay restoration loop. The threshold
// slack in the in-circle test makes oscillation impossible in practice;
// the cap converts a numerical disagreement into a reported error.
const flipIterationCap = 1 << 20

// splitParameterClamp keeps split points away from the edge endpoints.
const splitParameterClamp = 1e-2

// Add inserts a vertex. It returns true when the mesh was modified; a
// vertex coincident with an existing one is folded into a merger group
// and reported as not modified.
//
// Vertices supplied before the TIN is bootstrapped are buffered; once
// three non-collinear vertices are available the initial triangle is
// built and the buffer drains.
func (t *Tin) Add(v *types.Vertex) (bool, error) {
	_, modified, err := t.add(v)
	return modified, err
}

// AddAndReturnEdge inserts a vertex and returns an edge whose origin is
// the inserted vertex, or nil when the vertex merged with an existing one
// or remains buffered ahead of bootstrap.
func (t *Tin) AddAndReturnEdge(v *types.Vertex) (*quadedge.Edge, error) {
	e, _, err := t.add(v)
	return e, err
}

func (t *Tin) add(v *types.Vertex) (*quadedge.Edge, bool, error) {
	if err := t.mutable(); err != nil {
		return nil, false, err
	}
	if v == nil || math.IsNaN(v.X) || math.IsNaN(v.Y) {
		return nil, false, ErrDegenerateGeometry
	}

	if !t.bootstrapped {
		t.buffer = append(t.buffer, v)
		if len(t.buffer) < 3 {
			return nil, true, nil
		}
		tri, result := t.bootstrap(t.buffer)
		if result != BootstrapValid {
			return nil, true, nil
		}
		if err := t.buildInitialMesh(tri[0], tri[1], tri[2]); err != nil {
			return nil, false, t.poison(err)
		}
		pending := t.buffer
		t.buffer = nil
		for _, p := range tri {
			t.accept(p)
		}
		var edgeForV *quadedge.Edge
		for _, p := range pending {
			if p == tri[0] || p == tri[1] || p == tri[2] {
				continue
			}
			e, _, err := t.insertVertex(p)
			if err != nil {
				return nil, false, err
			}
			if p == v {
				edgeForV = e
			}
		}
		if v == tri[0] || v == tri[1] || v == tri[2] {
			edgeForV = t.edgeFromVertex(v)
		}
		return edgeForV, true, nil
	}

	return t.insertVertex(v)
}

// accept records a vertex as part of the triangulation.
func (t *Tin) accept(v *types.Vertex) {
	t.vertices = append(t.vertices, v)
	t.bounds = t.bounds.Extend(v.X, v.Y)
}

// insertVertex places v in the bootstrapped mesh.
func (t *Tin) insertVertex(v *types.Vertex) (*quadedge.Edge, bool, error) {
	e, err := t.walker.locate(t.searchEdge, v.X, v.Y)
	if err != nil {
		return nil, false, err
	}

	// Coincidence: fold into a merger group rather than degrade the mesh.
	// Re-adding a vertex already in the mesh is a no-op.
	if match := t.coincidentVertex(e, v.X, v.Y); match != nil {
		if match != v {
			match.AddToMergerGroup(v)
		}
		return nil, false, nil
	}

	var inserted *quadedge.Edge
	if e.Forward().B().IsGhost() {
		// A point landing exactly on the perimeter edge splits it rather
		// than attaching a zero-area exterior triangle.
		hull := e.Dual()
		h := t.geoOp.HalfPlaneVertices(hull.A(), hull.B(), v)
		if math.Abs(h) <= t.thresholds.Precision() {
			inserted, err = t.insertOnEdge(v, hull)
		} else {
			inserted, err = t.insertExterior(v, e)
		}
	} else if onEdge := t.edgeUnder(e, v.X, v.Y); onEdge != nil {
		inserted, err = t.insertOnEdge(v, onEdge)
	} else {
		inserted, err = t.insertInTriangle(v, e)
	}
	if err != nil {
		return nil, false, err
	}
	if err := t.restoreDelaunay(); err != nil {
		return nil, false, err
	}
	t.accept(v)
	t.searchEdge = inserted
	return inserted, true, nil
}

// coincidentVertex returns the vertex of e's face within vertex tolerance
// of (x, y), or nil.
func (t *Tin) coincidentVertex(e *quadedge.Edge, x, y float64) *types.Vertex {
	tolSq := t.thresholds.VertexToleranceSq()
	var best *types.Vertex
	bestSq := tolSq
	for _, c := range []*types.Vertex{e.A(), e.B(), e.Forward().B()} {
		if c.IsGhost() {
			continue
		}
		if d := c.DistanceSq(x, y); d <= bestSq {
			best = c
			bestSq = d
		}
	}
	return best
}

// edgeUnder returns the edge of e's triangle that (x, y) lies on, or nil
// when the point is strictly interior.
func (t *Tin) edgeUnder(e *quadedge.Edge, x, y float64) *quadedge.Edge {
	for _, h := range []*quadedge.Edge{e, e.Forward(), e.Forward().Forward()} {
		a := h.A()
		b := h.B()
		if math.Abs(t.geoOp.HalfPlane(a.X, a.Y, b.X, b.Y, x, y)) <= t.thresholds.Precision() {
			return h
		}
	}
	return nil
}

// insertInTriangle connects v to the three corners of the triangle on the
// left of e, producing three triangles and scheduling the original edges
// for Delaunay restoration. Works identically when the face is a ghost
// face, which is how an exterior vertex first attaches to the hull.
func (t *Tin) insertInTriangle(v *types.Vertex, e *quadedge.Edge) (*quadedge.Edge, error) {
	ab := e
	bc := e.Forward()
	ca := bc.Forward()
	a := ab.A()
	b := bc.A()
	c := ca.A()

	va, err := t.pool.AllocateEdge(v, a)
	if err != nil {
		return nil, t.poison(err)
	}
	vb, err := t.pool.AllocateEdge(v, b)
	if err != nil {
		return nil, t.poison(err)
	}
	vc, err := t.pool.AllocateEdge(v, c)
	if err != nil {
		return nil, t.poison(err)
	}

	ab.SetForward(vb.Dual())
	vb.Dual().SetForward(va)
	va.SetForward(ab)

	bc.SetForward(vc.Dual())
	vc.Dual().SetForward(vb)
	vb.SetForward(bc)

	ca.SetForward(va.Dual())
	va.Dual().SetForward(vc)
	vc.SetForward(ca)

	t.inheritRegion([3]*quadedge.Edge{ab, bc, ca}, []*quadedge.Edge{va, vb, vc})

	t.pushFlip(ab)
	t.pushFlip(bc)
	t.pushFlip(ca)
	return va, nil
}

// insertExterior attaches v outside the hull through the ghost face on
// the left of e, then restores hull convexity by flipping the ghost edges
// of any additional perimeter edges visible from v.
func (t *Tin) insertExterior(v *types.Vertex, e *quadedge.Edge) (*quadedge.Edge, error) {
	// e runs b -> a on the ghost side of perimeter edge a -> b.
	bc := e.Forward()         // a -> ghost
	ca := bc.Forward()        // ghost -> b
	inserted, err := t.insertInTriangle(v, e)
	if err != nil {
		return nil, err
	}

	// Forward along the hull: ghost pair at b.
	ge := ca.Dual()
	for i := 0; i < walkIterationCap; i++ {
		next := ge.Forward() // ghost -> y
		y := next.B()
		if y.IsGhost() || y == v {
			break
		}
		bHull := ge.A()
		if t.geoOp.HalfPlane(bHull.X, bHull.Y, y.X, y.Y, v.X, v.Y) >= 0 {
			break
		}
		realEdge := next.Forward() // y -> b, dual of hull edge b -> y
		t.flip(ge)
		t.pushFlip(realEdge)
		ge = next.Dual()
	}

	// Backward along the hull: ghost pair at a.
	ge = bc.Dual()
	for i := 0; i < walkIterationCap; i++ {
		prev := ge.Forward() // a -> w
		w := prev.B()
		if w.IsGhost() || w == v {
			break
		}
		aHull := ge.B()
		if t.geoOp.HalfPlane(w.X, w.Y, aHull.X, aHull.Y, v.X, v.Y) >= 0 {
			break
		}
		realEdge := prev
		nextGhost := prev.Forward() // w -> ghost, captured before the flip
		t.flip(ge)
		t.pushFlip(realEdge)
		ge = nextGhost.Dual()
	}

	return inserted, nil
}

// insertOnEdge splits the edge under v and connects v to the apexes of
// the two adjacent faces, producing four triangles (two when the far face
// is a ghost face).
func (t *Tin) insertOnEdge(v *types.Vertex, onEdge *quadedge.Edge) (*quadedge.Edge, error) {
	spokes, err := t.splitEdgeTopology(onEdge, v)
	if err != nil {
		return nil, err
	}
	return spokes.toA, nil
}

// splitSpokes names the edges produced by splitEdgeTopology for the
// original edge a -> b. All four run away from the split vertex m.
type splitSpokes struct {
	toA     *quadedge.Edge // m -> a, the shortened original edge's dual
	toB     *quadedge.Edge // m -> b, the new pair from the pool split
	toLeft  *quadedge.Edge // m -> c, apex of the left face
	toRight *quadedge.Edge // m -> d, apex of the right face, possibly ghost
}

// splitEdgeTopology performs the full on-edge insertion surgery: pool
// split plus the two diagonals that restore triangles, constraint and
// region inheritance, and flip scheduling for the four outer edges.
func (t *Tin) splitEdgeTopology(e *quadedge.Edge, m *types.Vertex) (splitSpokes, error) {
	var spokes splitSpokes
	n, err := t.pool.SplitEdge(e, m)
	if err != nil {
		return spokes, t.poison(err)
	}

	f := n.Forward()  // b -> c
	f2 := f.Forward() // c -> a
	c := f.B()
	g := e.Dual().Forward() // a -> d
	g2 := g.Forward()       // d -> b
	d := g.B()

	vc, err := t.pool.AllocateEdge(m, c)
	if err != nil {
		return spokes, t.poison(err)
	}
	vd, err := t.pool.AllocateEdge(m, d)
	if err != nil {
		return spokes, t.poison(err)
	}

	// Left face quad a -> m -> b -> c becomes two triangles on m -> c.
	f.SetForward(vc.Dual())
	vc.Dual().SetForward(n)
	e.SetForward(vc)
	vc.SetForward(f2)
	f2.SetForward(e)

	// Right face quad m -> a -> d -> b becomes two triangles on m -> d.
	g.SetForward(vd.Dual())
	vd.Dual().SetForward(e.Dual())
	vd.SetForward(g2)
	g2.SetForward(n.Dual())
	n.Dual().SetForward(vd)

	// The diagonals inherit region marks from the faces they subdivide.
	if k := regionOfSide(e); k >= 0 {
		vc.SetConstraintRegionInteriorIndex(k)
		vc.Dual().SetConstraintRegionInteriorIndex(k)
	}
	if k := regionOfSide(e.Dual()); k >= 0 {
		vd.SetConstraintRegionInteriorIndex(k)
		vd.Dual().SetConstraintRegionInteriorIndex(k)
	}

	if e.IsConstrained() {
		m.Status |= types.StatusConstraintMember
	}

	t.pushFlip(f)
	t.pushFlip(f2)
	t.pushFlip(g)
	t.pushFlip(g2)

	spokes.toA = e.Dual()
	spokes.toB = n
	spokes.toLeft = vc
	spokes.toRight = vd
	return spokes, nil
}

// SplitEdge divides an edge at parameter t01 from A to B, assigning z to
// the new vertex. The parameter is clamped away from the endpoints. The
// new vertex is synthetic and inherits constraint membership from the
// edge. Returns the vertex, or an error when the TIN is not mutable.
func (t *Tin) SplitEdge(e *quadedge.Edge, t01, z float64) (*types.Vertex, error) {
	if err := t.mutable(); err != nil {
		return nil, err
	}
	if e == nil || !e.IsAllocated() {
		return nil, quadedge.ErrNullEdge
	}
	if e.IsGhost() {
		return nil, ErrDegenerateGeometry
	}
	p := math.Max(splitParameterClamp, math.Min(1-splitParameterClamp, t01))
	a := e.A()
	b := e.B()
	v := types.NewVertex(a.X+p*(b.X-a.X), a.Y+p*(b.Y-a.Y), z, t.nextSyntheticIndex())
	v.Status |= types.StatusSynthetic

	if _, err := t.splitEdgeTopology(e, v); err != nil {
		return nil, err
	}
	if err := t.restoreDelaunay(); err != nil {
		return nil, err
	}
	t.accept(v)
	return v, nil
}

// pushFlip schedules an edge for the Delaunay restoration pass.
func (t *Tin) pushFlip(e *quadedge.Edge) {
	t.flipStack = append(t.flipStack, e)
}

// restoreDelaunay pops scheduled edges and flips any unconstrained,
// non-ghost edge whose opposite apex intrudes into the circumcircle of
// the near triangle, pushing the four surrounding edges after each flip.
func (t *Tin) restoreDelaunay() error {
	for i := 0; len(t.flipStack) > 0; i++ {
		if i >= flipIterationCap {
			t.flipStack = t.flipStack[:0]
			return t.poison(ErrIterationLimitExceeded)
		}
		e := t.flipStack[len(t.flipStack)-1]
		t.flipStack = t.flipStack[:len(t.flipStack)-1]

		if !e.IsAllocated() || e.IsGhost() || e.IsConstrained() {
			continue
		}
		c := e.Forward().B()
		d := e.Dual().Forward().B()
		if c.IsGhost() || d.IsGhost() {
			continue
		}
		a := e.A()
		b := e.B()
		if t.geoOp.InCircle(a, b, c, d) <= t.thresholds.Delaunay() {
			continue
		}

		f1 := e.Forward()
		f2 := f1.Forward()
		g1 := e.Dual().Forward()
		g2 := g1.Forward()
		t.flip(e)
		t.pushFlip(f1)
		t.pushFlip(f2)
		t.pushFlip(g1)
		t.pushFlip(g2)
	}
	return nil
}

// flip rotates edge e inside the quadrilateral of its two adjacent faces:
// for faces (a,b,c) and (b,a,d) the pair a-b becomes d-c. Pure topology;
// callers are responsible for ensuring the quadrilateral is convex.
func (t *Tin) flip(e *quadedge.Edge) {
	f1 := e.Forward()        // b -> c
	f2 := f1.Forward()       // c -> a
	g1 := e.Dual().Forward() // a -> d
	g2 := g1.Forward()       // d -> b
	c := f1.B()
	d := g1.B()

	e.SetVertex(d)
	e.Dual().SetVertex(c)

	g1.SetForward(e)
	e.SetForward(f2)
	f2.SetForward(g1)

	e.Dual().SetForward(g2)
	g2.SetForward(f1)
	f1.SetForward(e.Dual())

	if t.searchEdge == nil || !t.searchEdge.IsAllocated() {
		t.searchEdge = e
	}
}

// inheritRegion propagates a region interior mark from the face being
// subdivided onto newly created spoke edges.
func (t *Tin) inheritRegion(faceEdges [3]*quadedge.Edge, spokes []*quadedge.Edge) {
	k := int32(-1)
	for _, h := range faceEdges {
		if r := regionOfSide(h); r >= 0 {
			k = r
			break
		}
	}
	if k < 0 {
		return
	}
	for _, s := range spokes {
		if s.A().IsGhost() || s.B().IsGhost() {
			continue
		}
		s.SetConstraintRegionInteriorIndex(k)
		s.Dual().SetConstraintRegionInteriorIndex(k)
	}
}

// regionOfSide returns the region index the given half-edge side faces,
// from its interior mark or its border mark, or -1.
func regionOfSide(e *quadedge.Edge) int32 {
	if k := e.ConstraintRegionInteriorIndex(); k >= 0 {
		return k
	}
	return e.ConstraintBorderIndex()
}

// edgeFromVertex returns an allocated edge whose origin is v, found by
// locating v's coordinates and matching the enclosing face's corners.
func (t *Tin) edgeFromVertex(v *types.Vertex) *quadedge.Edge {
	e, err := t.walker.locate(t.searchEdge, v.X, v.Y)
	if err != nil {
		t.log.Warn("edge-from-vertex walk failed", zap.Error(err))
		return nil
	}
	switch {
	case e.A() == v:
		return e
	case e.B() == v:
		return e.Dual()
	case e.Forward().B() == v:
		return e.Forward().Forward()
	}
	// Tolerance fallback for vertices reached through merger groups.
	tolSq := t.thresholds.VertexToleranceSq()
	for _, h := range []*quadedge.Edge{e, e.Forward(), e.Forward().Forward()} {
		if !h.A().IsGhost() && h.A().DistanceSq(v.X, v.Y) <= tolSq {
			return h
		}
	}
	return nil
}
