package quadedge

import "github.com/meshkit/tin/types"

// PairsPerPage is the number of quad-edge pairs in one pool page.
const PairsPerPage = 1024

const halfEdgesPerPage = PairsPerPage * 2

type page struct {
	edges [halfEdgesPerPage]Edge
}

func newPage(firstIndex int32) *page {
	p := &page{}
	for i := 0; i < halfEdgesPerPage; i += 2 {
		base := &p.edges[i]
		dual := &p.edges[i+1]
		base.index = firstIndex + int32(i)
		dual.index = firstIndex + int32(i) + 1
		base.dual = dual
		dual.dual = base
	}
	return p
}

// Pool is the paged arena that owns every quad-edge pair of a TIN.
//
// Pages are fixed arrays, so half-edge pointers remain stable for the life
// of the pool. Freed pairs go to a free list and are recycled by later
// allocations.
type Pool struct {
	pages    []*page
	free     []*Edge
	next     int32
	count    int
	disposed bool
}

// NewPool constructs an empty pool with one page reserved.
func NewPool() *Pool {
	p := &Pool{}
	p.pages = append(p.pages, newPage(0))
	return p
}

// PreAllocate reserves enough pages to hold roughly three edge pairs per
// expected vertex, the steady-state ratio for a Delaunay triangulation.
func (p *Pool) PreAllocate(vertexCount int) {
	if p.disposed {
		return
	}
	pairs := 3 * vertexCount
	for len(p.pages)*PairsPerPage < pairs {
		p.pages = append(p.pages, newPage(int32(len(p.pages))*halfEdgesPerPage))
	}
}

func (p *Pool) carve() *Edge {
	if n := len(p.free); n > 0 {
		e := p.free[n-1]
		p.free = p.free[:n-1]
		return e
	}
	pageIdx := int(p.next) / halfEdgesPerPage
	if pageIdx >= len(p.pages) {
		p.pages = append(p.pages, newPage(int32(len(p.pages))*halfEdgesPerPage))
	}
	e := &p.pages[pageIdx].edges[int(p.next)%halfEdgesPerPage]
	p.next += 2
	return e
}

func (p *Pool) initPair(e *Edge, a, b *types.Vertex) *Edge {
	e.vertex = a
	e.dual.vertex = b
	e.forward = e
	e.reverse = e
	e.dual.forward = e.dual
	e.dual.reverse = e.dual
	e.clearConstraints()
	e.dual.clearConstraints()
	e.synthetic = false
	e.allocated = true
	p.count++
	return e
}

// AllocateEdge carves a pair for the directed edge a -> b. The pair is
// unattached: forward and reverse of both halves point at themselves.
func (p *Pool) AllocateEdge(a, b *types.Vertex) (*Edge, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	return p.initPair(p.carve(), a, b), nil
}

// AllocateUndefinedEdge carves a pair with no vertices assigned.
func (p *Pool) AllocateUndefinedEdge() (*Edge, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	return p.initPair(p.carve(), nil, nil), nil
}

// Deallocate returns the pair to the free list. The caller must have
// unlinked it from the topology first.
func (p *Pool) Deallocate(e *Edge) error {
	if p.disposed {
		return ErrPoolDisposed
	}
	if e == nil {
		return ErrNullEdge
	}
	base := e.Base()
	if !base.allocated {
		return ErrEdgeNotAllocated
	}
	base.allocated = false
	base.vertex = nil
	base.dual.vertex = nil
	base.forward = base
	base.reverse = base
	base.dual.forward = base.dual
	base.dual.reverse = base.dual
	base.clearConstraints()
	base.dual.clearConstraints()
	base.synthetic = false
	p.count--
	p.free = append(p.free, base)
	return nil
}

// SplitEdge inserts vertex m on edge e (a -> b), shortening e to a -> m
// and allocating a new pair m -> b spliced into both adjacent faces. The
// constraint marks of e are copied to the new pair, which is flagged
// synthetic. The adjacent faces become quadrilaterals; the caller is
// responsible for restoring triangles.
func (p *Pool) SplitEdge(e *Edge, m *types.Vertex) (*Edge, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	if e == nil {
		return nil, ErrNullEdge
	}
	if !e.IsAllocated() {
		return nil, ErrEdgeNotAllocated
	}

	b := e.dual.vertex
	n, err := p.AllocateEdge(m, b)
	if err != nil {
		return nil, err
	}

	f := e.forward      // successor on the left face
	q := e.dual.reverse // predecessor on the right face

	e.dual.vertex = m

	e.SetForward(n)
	n.SetForward(f)

	q.SetForward(n.dual)
	n.dual.SetForward(e.dual)

	n.copyConstraintsFrom(e)
	n.SetSynthetic(true)
	return n, nil
}

// GetStartingEdge returns an allocated non-ghost edge, or nil if none.
func (p *Pool) GetStartingEdge() *Edge {
	return p.Iterator(true).Next()
}

// GetStartingGhostEdge returns an allocated ghost edge, or nil if none.
func (p *Pool) GetStartingGhostEdge() *Edge {
	it := p.Iterator(false)
	for e := it.Next(); e != nil; e = it.Next() {
		if e.IsGhost() {
			return e
		}
	}
	return nil
}

// GetEdge returns the allocated half-edge with the given index.
func (p *Pool) GetEdge(index int32) (*Edge, bool) {
	if index < 0 || index >= p.next || p.disposed {
		return nil, false
	}
	e := &p.pages[int(index)/halfEdgesPerPage].edges[int(index)%halfEdgesPerPage]
	if !e.IsAllocated() {
		return nil, false
	}
	return e, true
}

// Count returns the number of allocated pairs.
func (p *Pool) Count() int { return p.count }

// MaxAllocationIndex returns one past the highest half-edge index ever
// carved. Bitsets over edge indices should size to this plus two.
func (p *Pool) MaxAllocationIndex() int32 { return p.next }

// IsDisposed reports whether Dispose has been called.
func (p *Pool) IsDisposed() bool { return p.disposed }

// Clear releases every allocation but leaves the pool usable.
func (p *Pool) Clear() {
	if p.disposed {
		return
	}
	p.pages = p.pages[:0]
	p.pages = append(p.pages, newPage(0))
	p.free = nil
	p.next = 0
	p.count = 0
}

// Dispose releases the pages permanently. Every later operation fails
// with ErrPoolDisposed.
func (p *Pool) Dispose() {
	p.pages = nil
	p.free = nil
	p.count = 0
	p.next = 0
	p.disposed = true
}
