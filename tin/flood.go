package tin

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/meshkit/tin/quadedge"
)

// floodFillRegion marks every face enclosed by the borders of constraint
// k with the region's interior index. The fill starts from the left faces
// of the border half-edges (the interior-facing sides) and never crosses
// an edge carrying a border mark on either side, so holes and neighboring
// regions stay unmarked.
func (t *Tin) floodFillRegion(k int32, seeds []*quadedge.Edge) error {
	visited := make([]bool, t.pool.MaxAllocationIndex()+2)
	queue := make([]*quadedge.Edge, 0, len(seeds))
	queue = append(queue, seeds...)

	for guard := 0; len(queue) > 0; guard++ {
		if guard >= flipIterationCap {
			return t.poison(errors.Wrap(ErrIterationLimitExceeded, "region flood fill"))
		}
		h := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if !h.IsAllocated() || visited[h.Index()] {
			continue
		}
		f := h.Forward()
		ff := f.Forward()
		if ff.Forward() != h {
			return t.poison(errors.Wrap(ErrInvariantViolated, "non-triangular face in flood fill"))
		}
		if h.A().IsGhost() || f.A().IsGhost() || ff.A().IsGhost() {
			// The fill escaped through the hull; the region border does
			// not close. Leave the ghost face unmarked.
			t.log.Warn("region flood fill reached the hull",
				zap.Int32("constraint", k))
			visited[h.Index()] = true
			continue
		}
		for _, g := range []*quadedge.Edge{h, f, ff} {
			visited[g.Index()] = true
			if g.ConstraintBorderIndex() < 0 {
				g.SetConstraintRegionInteriorIndex(k)
			}
			d := g.Dual()
			if g.ConstraintBorderIndex() >= 0 || d.ConstraintBorderIndex() >= 0 {
				continue
			}
			if !visited[d.Index()] {
				queue = append(queue, d)
			}
		}
	}
	return nil
}
