// Package tin implements an incremental two-dimensional Delaunay
// triangulation with support for constrained edges, region marking and
// quad-edge navigation.
//
// A Tin starts empty, buffers vertices until three non-collinear samples
// bootstrap the first triangle, and grows one insertion at a time.
// Constraints (polylines and polygons) are traced through the mesh after
// their vertices are inserted. All mutations require exclusive access;
// separate Tin values are independent.
package tin

import (
	"go.uber.org/zap"

	"github.com/meshkit/tin/algorithm/robust"
	"github.com/meshkit/tin/quadedge"
	"github.com/meshkit/tin/spatial"
	"github.com/meshkit/tin/types"
)

// InsertionOrder selects how AddMany sequences its input.
type InsertionOrder int

const (
	// OrderAsProvided inserts in slice order.
	OrderAsProvided InsertionOrder = iota

	// OrderHilbert pre-sorts along a Hilbert curve for walk locality.
	OrderHilbert
)

// ProgressMonitor is invoked between batches during bulk insertion with
// the number of vertices processed so far. Returning true cancels the
// operation; the TIN remains valid with the vertices inserted so far.
type ProgressMonitor func(inserted, total int) (cancel bool)

// Tin is an incremental triangulated irregular network.
//
// The zero value is not usable; construct with New. A Tin is not safe for
// concurrent use.
type Tin struct {
	cfg        config
	log        *zap.Logger
	thresholds types.Thresholds
	geoOp      *robust.Predicates
	pool       *quadedge.Pool
	walker     *walker

	ghost    *types.Vertex
	vertices []*types.Vertex
	buffer   []*types.Vertex
	bounds   types.Bounds

	constraints []Constraint

	searchEdge *quadedge.Edge
	flipStack  []*quadedge.Edge

	bootstrapped bool
	locked       bool
	poisoned     bool
	conformant   bool

	syntheticCount int32
}

// New constructs an empty TIN for input with the given nominal point
// spacing, the rough typical distance between neighboring samples.
func New(nominalPointSpacing float64, opts ...Option) *Tin {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	thresholds := types.NewThresholds(nominalPointSpacing)
	t := &Tin{
		cfg:        cfg,
		log:        cfg.logger,
		thresholds: thresholds,
		geoOp:      robust.NewPredicates(thresholds),
		pool:       quadedge.NewPool(),
		ghost:      types.NewGhostVertex(),
		bounds:     types.EmptyBounds(),
		conformant: true,
	}
	t.walker = newWalker(t.geoOp, cfg.walkSeed)
	if cfg.preAllocateHint > 0 {
		t.pool.PreAllocate(cfg.preAllocateHint)
	}
	return t
}

// mutable gates every mutation entry point.
func (t *Tin) mutable() error {
	switch {
	case t.poisoned:
		return ErrTinPoisoned
	case t.locked:
		return ErrLockedTin
	case t.pool.IsDisposed():
		return quadedge.ErrPoolDisposed
	default:
		return nil
	}
}

// poison marks the TIN fatally inconsistent.
func (t *Tin) poison(err error) error {
	t.poisoned = true
	t.log.Error("tin poisoned", zap.Error(err))
	return err
}

// IsBootstrapped reports whether the initial triangle has been built.
func (t *Tin) IsBootstrapped() bool { return t.bootstrapped }

// IsConformant reports whether the unconstrained subgraph satisfied the
// Delaunay criterion after the most recent mutation pass.
func (t *Tin) IsConformant() bool { return t.conformant }

// Lock prevents further mutation until Unlock.
func (t *Tin) Lock() { t.locked = true }

// Unlock re-enables mutation.
func (t *Tin) Unlock() { t.locked = false }

// Clear releases every edge and vertex and returns the TIN to its
// pre-bootstrap state. The walk PRNG is reset to the configured seed.
func (t *Tin) Clear() {
	t.pool.Clear()
	t.vertices = nil
	t.buffer = nil
	t.constraints = nil
	t.bounds = types.EmptyBounds()
	t.searchEdge = nil
	t.flipStack = t.flipStack[:0]
	t.bootstrapped = false
	t.poisoned = false
	t.conformant = true
	t.syntheticCount = 0
	t.walker.reset(t.cfg.walkSeed)
	t.geoOp.ResetDiagnostics()
}

// Dispose releases the edge pool permanently.
func (t *Tin) Dispose() {
	t.pool.Dispose()
}

// GetNominalPointSpacing returns the spacing supplied to New.
func (t *Tin) GetNominalPointSpacing() float64 {
	return t.thresholds.NominalPointSpacing()
}

// Thresholds returns the derived threshold set.
func (t *Tin) Thresholds() types.Thresholds { return t.thresholds }

// Predicates exposes the predicate evaluator, including its diagnostic
// counters for extended-precision usage.
func (t *Tin) Predicates() *robust.Predicates { return t.geoOp }

// GetVertices returns the inserted vertices in insertion order. Vertices
// still buffered ahead of bootstrap are included at the tail.
func (t *Tin) GetVertices() []*types.Vertex {
	out := make([]*types.Vertex, 0, len(t.vertices)+len(t.buffer))
	out = append(out, t.vertices...)
	out = append(out, t.buffer...)
	return out
}

// GetBounds returns the bounding rectangle of the accepted vertices.
func (t *Tin) GetBounds() types.Bounds { return t.bounds }

// GetConstraints returns the installed constraints in insertion order.
// The slice index of each constraint equals its constraint index.
func (t *Tin) GetConstraints() []Constraint {
	out := make([]Constraint, len(t.constraints))
	copy(out, t.constraints)
	return out
}

// GetEdges returns the allocated non-ghost base edges.
func (t *Tin) GetEdges() []*quadedge.Edge {
	return t.pool.Edges(true)
}

// GetEdgeIterator returns an iterator over allocated base edges; ghost
// pairs are included when skipGhosts is false.
func (t *Tin) GetEdgeIterator(skipGhosts bool) *quadedge.Iterator {
	return t.pool.Iterator(skipGhosts)
}

// GetMaximumEdgeAllocationIndex returns one past the highest half-edge
// index ever allocated, the size bound for edge-indexed bitsets.
func (t *Tin) GetMaximumEdgeAllocationIndex() int32 {
	return t.pool.MaxAllocationIndex()
}

// AddMany inserts a batch of vertices. With OrderHilbert the batch is
// pre-sorted along a Hilbert curve to keep consecutive walks short. The
// optional monitor is invoked between batches and may cancel; cancellation
// leaves a valid, partially populated TIN.
func (t *Tin) AddMany(vertices []*types.Vertex, order InsertionOrder, monitor ProgressMonitor) error {
	if err := t.mutable(); err != nil {
		return err
	}
	batch := vertices
	if order == OrderHilbert {
		batch = make([]*types.Vertex, len(vertices))
		copy(batch, vertices)
		spatial.HilbertSort(batch)
	}
	const batchSize = 256
	for i, v := range batch {
		if _, err := t.Add(v); err != nil {
			return err
		}
		if monitor != nil && (i+1)%batchSize == 0 {
			if monitor(i+1, len(batch)) {
				t.log.Info("bulk insertion cancelled",
					zap.Int("inserted", i+1), zap.Int("total", len(batch)))
				return nil
			}
		}
	}
	if monitor != nil {
		monitor(len(batch), len(batch))
	}
	return nil
}

func (t *Tin) nextSyntheticIndex() int32 {
	t.syntheticCount++
	return -1 - t.syntheticCount
}
