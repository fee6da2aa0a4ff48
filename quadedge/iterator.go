package quadedge

// Iterator walks the allocated base edges of a pool in index order.
type Iterator struct {
	pool       *Pool
	index      int32
	skipGhosts bool
}

// Iterator returns an iterator over allocated base edges. When skipGhosts
// is set, pairs with a ghost endpoint are omitted.
func (p *Pool) Iterator(skipGhosts bool) *Iterator {
	return &Iterator{pool: p, skipGhosts: skipGhosts}
}

// Next returns the next base edge, or nil when the pool is exhausted.
func (it *Iterator) Next() *Edge {
	p := it.pool
	if p.disposed {
		return nil
	}
	for it.index < p.next {
		e := &p.pages[int(it.index)/halfEdgesPerPage].edges[int(it.index)%halfEdgesPerPage]
		it.index += 2
		if !e.allocated {
			continue
		}
		if it.skipGhosts && e.IsGhost() {
			continue
		}
		return e
	}
	return nil
}

// Edges collects the allocated base edges into a slice.
func (p *Pool) Edges(skipGhosts bool) []*Edge {
	var out []*Edge
	it := p.Iterator(skipGhosts)
	for e := it.Next(); e != nil; e = it.Next() {
		out = append(out, e)
	}
	return out
}
