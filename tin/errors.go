package tin

import "errors"

var (
	// ErrInsufficientInput indicates fewer than three usable vertices, or
	// bootstrap input that is trivial or collinear.
	ErrInsufficientInput = errors.New("tin: insufficient input for triangulation")

	// ErrIterationLimitExceeded indicates a walk or traversal ran past its
	// hard iteration cap.
	ErrIterationLimitExceeded = errors.New("tin: iteration limit exceeded")

	// ErrInvariantViolated indicates the topology no longer satisfies a
	// structural invariant. The TIN is poisoned; callers should discard it.
	ErrInvariantViolated = errors.New("tin: topological invariant violated")

	// ErrDegenerateGeometry indicates zero-area or coincident input where
	// distinct geometry is required.
	ErrDegenerateGeometry = errors.New("tin: degenerate geometry")

	// ErrLockedTin indicates a mutation was attempted while locked.
	ErrLockedTin = errors.New("tin: mutation on locked tin")

	// ErrTinPoisoned indicates a prior fatal error; the TIN is unusable.
	ErrTinPoisoned = errors.New("tin: tin poisoned by prior failure")

	// ErrNotBootstrapped indicates an operation that requires an
	// initialized triangulation.
	ErrNotBootstrapped = errors.New("tin: triangulation not bootstrapped")
)
