package quadedge

import "errors"

var (
	// ErrPoolDisposed indicates an operation on a disposed pool.
	ErrPoolDisposed = errors.New("tin: edge pool disposed")

	// ErrNullEdge indicates a nil edge was passed where one is required.
	ErrNullEdge = errors.New("tin: null edge")

	// ErrEdgeNotAllocated indicates the edge pair is not currently
	// allocated from this pool.
	ErrEdgeNotAllocated = errors.New("tin: edge not allocated")
)
