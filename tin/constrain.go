package tin

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/meshkit/tin/algorithm/geometry"
	"github.com/meshkit/tin/quadedge"
	"github.com/meshkit/tin/types"
)

// AddConstraints installs the supplied constraints in order, assigning
// each a monotonically increasing constraint index.
//
// Constraint vertices are inserted first (coincident vertices merge with
// the existing mesh), then every segment is traced through the mesh:
// crossing edges are flipped when their quadrilateral is convex and
// unconstrained, and split at a synthetic Steiner vertex otherwise. Once
// a segment's edge exists it is marked: line constraints on both sides,
// polygon borders on the interior-facing side only. Region polygons are
// then flood-filled with their interior index.
//
// With restoreConformity the unconstrained subgraph is re-flipped to the
// Delaunay criterion after all constraints are placed. With
// preInterpolateZ each constraint vertex takes its Z from the surface at
// its location before insertion.
func (t *Tin) AddConstraints(list []Constraint, restoreConformity, preInterpolateZ bool) error {
	if err := t.mutable(); err != nil {
		return err
	}
	for _, c := range list {
		n := len(c.Vertices())
		if c.IsPolygon() && n < 3 {
			return errors.Wrap(ErrDegenerateGeometry, "polygon constraint needs at least 3 vertices")
		}
		if !c.IsPolygon() && n < 2 {
			return errors.Wrap(ErrDegenerateGeometry, "linear constraint needs at least 2 vertices")
		}
	}

	t.conformant = false
	// Lay every constraint before flood-filling any region: a hole's
	// borders must exist before the region that contains it is filled, or
	// the fill would leak into the hole.
	var fills []floodJob
	for _, c := range list {
		job, err := t.addConstraint(c, preInterpolateZ)
		if err != nil {
			return err
		}
		if job.seeds != nil {
			fills = append(fills, job)
		}
	}
	for _, job := range fills {
		if err := t.floodFillRegion(job.index, job.seeds); err != nil {
			return err
		}
	}
	if restoreConformity {
		if err := t.restoreConformity(); err != nil {
			return err
		}
	}
	return nil
}

// floodJob is a region fill deferred until every constraint is laid.
type floodJob struct {
	index int32
	seeds []*quadedge.Edge
}

func (t *Tin) addConstraint(c Constraint, preInterpolateZ bool) (floodJob, error) {
	var job floodJob
	k := int32(len(t.constraints))
	c.setConstraintIndex(k)

	resolved := make(map[*types.Vertex]*types.Vertex, len(c.Vertices()))
	for _, v := range c.Vertices() {
		if preInterpolateZ && t.bootstrapped {
			if z, ok := t.InterpolateZ(v.X, v.Y); ok {
				v.Z = z
			}
		}
		v.Status |= types.StatusConstraintMember
		modified, err := t.Add(v)
		if err != nil {
			return job, errors.Wrapf(err, "inserting vertex of constraint %d", k)
		}
		if modified {
			resolved[v] = v
			continue
		}
		slot := t.lookupVertex(v.X, v.Y)
		if slot == nil {
			return job, t.poison(errors.Wrapf(ErrInvariantViolated,
				"merged constraint vertex %v not found in mesh", v))
		}
		resolved[v] = slot
	}

	if !t.bootstrapped {
		return job, errors.Wrapf(ErrInsufficientInput,
			"constraint %d supplied before the TIN could bootstrap", k)
	}
	t.constraints = append(t.constraints, c)

	var borderSeeds []*quadedge.Edge
	var mark func(*quadedge.Edge)
	var ordered []*types.Vertex
	if poly, ok := c.(*PolygonConstraint); ok {
		ordered = poly.orientedVertices()
		if poly.DefinesRegion() || poly.IsHole() {
			mark = t.borderMarker(k, &borderSeeds)
		} else {
			mark = t.lineMarker(k)
		}
	} else {
		ordered = c.Vertices()
		mark = t.lineMarker(k)
	}

	count := len(ordered)
	segments := count - 1
	if c.IsPolygon() {
		segments = count
	}
	for i := 0; i < segments; i++ {
		p := resolved[ordered[i]]
		q := resolved[ordered[(i+1)%count]]
		if p == q || p.DistanceSq(q.X, q.Y) <= t.thresholds.VertexToleranceSq() {
			t.log.Debug("skipping zero-length constraint segment",
				zap.Int32("constraint", k), zap.Int("segment", i))
			continue
		}
		if err := t.insertConstraintSegment(p, q, mark); err != nil {
			return job, errors.Wrapf(err, "tracing segment %d of constraint %d", i, k)
		}
	}

	if poly, ok := c.(*PolygonConstraint); ok && poly.DefinesRegion() {
		job = floodJob{index: k, seeds: borderSeeds}
	}
	return job, nil
}

// lookupVertex finds the mesh vertex within tolerance of (x, y).
func (t *Tin) lookupVertex(x, y float64) *types.Vertex {
	e, err := t.walker.locate(t.searchEdge, x, y)
	if err != nil {
		return nil
	}
	return t.coincidentVertex(e, x, y)
}

func (t *Tin) lineMarker(k int32) func(*quadedge.Edge) {
	return func(e *quadedge.Edge) {
		if li := e.ConstraintLineIndex(); li >= 0 && li != k {
			t.log.Warn("constraint segment coincides with an edge of another line constraint",
				zap.Int32("existing", li), zap.Int32("new", k))
			return
		}
		e.SetConstraintLineIndex(k)
	}
}

func (t *Tin) borderMarker(k int32, seeds *[]*quadedge.Edge) func(*quadedge.Edge) {
	return func(e *quadedge.Edge) {
		if bi := e.ConstraintBorderIndex(); bi >= 0 && bi != k {
			t.log.Warn("constraint segment coincides with a border of another region",
				zap.Int32("existing", bi), zap.Int32("new", k))
			*seeds = append(*seeds, e)
			return
		}
		e.SetConstraintBorderIndex(k)
		*seeds = append(*seeds, e)
	}
}

// insertConstraintSegment lays the edge p -> q into the mesh, advancing
// through collinear vertices and Steiner splits, and invokes mark on each
// piece in the p -> q direction.
func (t *Tin) insertConstraintSegment(p, q *types.Vertex, mark func(*quadedge.Edge)) error {
	a := p
	for steps := 0; ; steps++ {
		if steps >= walkIterationCap {
			return t.poison(ErrIterationLimitExceeded)
		}
		if a == q {
			return nil
		}
		base := t.edgeFromVertex(a)
		if base == nil {
			return t.poison(errors.Wrap(ErrInvariantViolated, "constraint anchor lost"))
		}

		if next, done := t.advanceAlongSegment(base, a, q, mark); next != nil {
			a = next
			if done {
				return nil
			}
			continue
		}

		wedge := t.findCrossingWedge(base, a, q)
		if wedge == nil {
			return t.poison(errors.Wrap(ErrInvariantViolated, "no wedge toward constraint target"))
		}
		crossed := wedge.Forward() // the edge the segment passes through
		far := crossed.Dual().Forward().B()
		if far.IsGhost() {
			return t.poison(errors.Wrap(ErrInvariantViolated, "constraint segment left the hull"))
		}

		if !crossed.IsConstrained() && t.quadIsConvex(a, far, crossed.A(), crossed.B()) {
			t.flip(crossed)
			continue
		}

		m, err := t.steinerSplit(a, q, crossed)
		if err != nil {
			return err
		}
		spokes, err := t.splitEdgeTopology(crossed, m)
		if err != nil {
			return err
		}
		// The diagonal toward the near apex is the piece a -> m.
		mark(spokes.toLeft.Dual())
		if err := t.restoreDelaunay(); err != nil {
			return err
		}
		t.accept(m)
		a = m
	}
}

// advanceAlongSegment scans the pinwheel around a for either the target q
// itself or a vertex lying on the segment toward q. It returns the next
// anchor and whether the segment is complete.
func (t *Tin) advanceAlongSegment(base *quadedge.Edge, a, q *types.Vertex, mark func(*quadedge.Edge)) (*types.Vertex, bool) {
	tolSq := t.thresholds.VertexToleranceSq()
	aqSq := a.DistanceSq(q.X, q.Y)
	e := base
	for i := 0; i < walkIterationCap; i++ {
		w := e.B()
		if !w.IsGhost() {
			if w == q || w.DistanceSq(q.X, q.Y) <= tolSq {
				mark(e)
				return q, true
			}
			h := t.geoOp.HalfPlane(a.X, a.Y, q.X, q.Y, w.X, w.Y)
			if math.Abs(h) <= t.thresholds.Precision() {
				dot := (w.X-a.X)*(q.X-a.X) + (w.Y-a.Y)*(q.Y-a.Y)
				if dot > 0 && a.DistanceSq(w.X, w.Y) < aqSq {
					mark(e)
					return w, false
				}
			}
		}
		e = e.Reverse().Dual()
		if e == base {
			return nil, false
		}
	}
	return nil, false
}

// findCrossingWedge returns the pinwheel edge a -> s whose face's
// opposite edge is crossed by the segment a -> q.
func (t *Tin) findCrossingWedge(base *quadedge.Edge, a, q *types.Vertex) *quadedge.Edge {
	e := base
	for i := 0; i < walkIterationCap; i++ {
		s := e.B()
		u := e.Forward().B()
		if !s.IsGhost() && !u.IsGhost() {
			hs := t.geoOp.HalfPlane(a.X, a.Y, s.X, s.Y, q.X, q.Y)
			hu := t.geoOp.HalfPlane(a.X, a.Y, u.X, u.Y, q.X, q.Y)
			if hs > 0 && hu < 0 {
				return e
			}
		}
		e = e.Reverse().Dual()
		if e == base {
			return nil
		}
	}
	return nil
}

// quadIsConvex reports whether the quadrilateral around a crossed edge is
// strictly convex: the crossed endpoints s and u straddle the line from
// the near apex a to the far apex z.
func (t *Tin) quadIsConvex(a, z, s, u *types.Vertex) bool {
	h1 := t.geoOp.HalfPlaneVertices(a, z, s)
	h2 := t.geoOp.HalfPlaneVertices(a, z, u)
	return (h1 > 0 && h2 < 0) || (h1 < 0 && h2 > 0)
}

// steinerSplit builds the synthetic vertex at the intersection of the
// constraint segment a -> q with the crossed edge.
func (t *Tin) steinerSplit(a, q *types.Vertex, crossed *quadedge.Edge) (*types.Vertex, error) {
	s := crossed.A()
	u := crossed.B()
	param, ok := geometry.LineIntersectionParam(s.X, s.Y, u.X, u.Y, a.X, a.Y, q.X, q.Y)
	if !ok {
		return nil, errors.Wrap(ErrDegenerateGeometry,
			"constraint segment parallel to crossed edge")
	}
	param = math.Max(splitParameterClamp, math.Min(1-splitParameterClamp, param))
	v := types.NewVertex(
		s.X+param*(u.X-s.X),
		s.Y+param*(u.Y-s.Y),
		s.Z+param*(u.Z-s.Z),
		t.nextSyntheticIndex(),
	)
	v.Status |= types.StatusSynthetic | types.StatusConstraintMember
	return v, nil
}

// restoreConformity re-flips every unconstrained edge until the Delaunay
// criterion holds on the unconstrained subgraph.
func (t *Tin) restoreConformity() error {
	it := t.pool.Iterator(true)
	for e := it.Next(); e != nil; e = it.Next() {
		if !e.IsConstrained() {
			t.pushFlip(e)
		}
	}
	if err := t.restoreDelaunay(); err != nil {
		return err
	}
	t.conformant = true
	return nil
}

// InterpolateZ evaluates the current surface at (x, y) by barycentric
// interpolation over the enclosing triangle. The second return is false
// for exterior points or an unbootstrapped TIN.
func (t *Tin) InterpolateZ(x, y float64) (float64, bool) {
	if !t.bootstrapped {
		return 0, false
	}
	e, err := t.walker.locate(t.searchEdge, x, y)
	if err != nil || e.Forward().B().IsGhost() {
		return 0, false
	}
	a := e.A()
	b := e.B()
	c := e.Forward().B()
	wa := (b.X-x)*(c.Y-y) - (c.X-x)*(b.Y-y)
	wb := (c.X-x)*(a.Y-y) - (a.X-x)*(c.Y-y)
	wc := (a.X-x)*(b.Y-y) - (b.X-x)*(a.Y-y)
	sum := wa + wb + wc
	if sum == 0 {
		return 0, false
	}
	return (wa*a.Z + wb*b.Z + wc*c.Z) / sum, true
}
