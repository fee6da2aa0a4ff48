package tin

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/meshkit/tin/types"
)

// BootstrapResult classifies the outcome of the initial-triangle search.
type BootstrapResult int

const (
	// BootstrapValid means a usable initial triangle was found.
	BootstrapValid BootstrapResult = iota

	// BootstrapInsufficientPointSet means fewer than three vertices.
	BootstrapInsufficientPointSet

	// BootstrapTrivialPointSet means the points are effectively one point.
	BootstrapTrivialPointSet

	// BootstrapCollinearPointSet means the points lie on a line.
	BootstrapCollinearPointSet

	// BootstrapUnknown means no acceptable triangle was found for a
	// reason the analysis could not classify.
	BootstrapUnknown
)

func (r BootstrapResult) String() string {
	switch r {
	case BootstrapValid:
		return "Valid"
	case BootstrapInsufficientPointSet:
		return "InsufficientPointSet"
	case BootstrapTrivialPointSet:
		return "TrivialPointSet"
	case BootstrapCollinearPointSet:
		return "CollinearPointSet"
	default:
		return "Unknown"
	}
}

// minTriangleAreaFactor scales the nominal-spacing equilateral triangle
// area (sqrt(3)/4 s^2) down to the smallest bootstrap triangle accepted.
const minTriangleAreaFactor = 64

// bootstrap searches the candidate set for three vertices forming a
// triangle with area above the acceptance threshold and returns them in
// counterclockwise order.
func (t *Tin) bootstrap(candidates []*types.Vertex) ([3]*types.Vertex, BootstrapResult) {
	var best [3]*types.Vertex
	n := len(candidates)
	if n < 3 {
		return best, BootstrapInsufficientPointSet
	}
	s := t.thresholds.NominalPointSpacing()
	threshold := math.Sqrt(3) / 4 * s * s / minTriangleAreaFactor

	// Random trials first; for well-distributed input the expected number
	// of trials before success is tiny.
	trials := int(math.Cbrt(float64(n)))
	if trials < 3 {
		trials = 3
	}
	if trials > 16 {
		trials = 16
	}
	bestArea := 0.0
	rng := xorshift{state: 1}
	for trial := 0; trial < trials; trial++ {
		i := int(rng.next()) % n
		j := int(rng.next()) % n
		k := int(rng.next()) % n
		if i == j || j == k || i == k {
			continue
		}
		a, b, c := candidates[i], candidates[j], candidates[k]
		area := t.geoOp.Area(a, b, c)
		if math.Abs(area) > bestArea {
			bestArea = math.Abs(area)
			if area < 0 {
				b, c = c, b
			}
			best = [3]*types.Vertex{a, b, c}
		}
	}
	if bestArea > threshold {
		return best, BootstrapValid
	}

	if n > 3 {
		if result := t.principalAxisAnalysis(candidates, threshold); result != BootstrapValid {
			return best, result
		}
	}

	// Exhaustive search, stopping at the first acceptable triangle.
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := candidates[i], candidates[j], candidates[k]
				area := t.geoOp.Area(a, b, c)
				if math.Abs(area) > threshold {
					if area < 0 {
						b, c = c, b
					}
					return [3]*types.Vertex{a, b, c}, BootstrapValid
				}
			}
		}
	}
	if n == 3 {
		return best, BootstrapCollinearPointSet
	}
	return best, BootstrapUnknown
}

// principalAxisAnalysis inspects the variance-covariance structure of the
// point cloud to distinguish trivial and collinear sets before the
// exhaustive search is attempted.
func (t *Tin) principalAxisAnalysis(candidates []*types.Vertex, areaThreshold float64) BootstrapResult {
	n := float64(len(candidates))
	var mx, my float64
	for _, v := range candidates {
		mx += v.X
		my += v.Y
	}
	mx /= n
	my /= n

	var sxx, sxy, syy float64
	for _, v := range candidates {
		dx := v.X - mx
		dy := v.Y - my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	sxx /= n
	sxy /= n
	syy /= n

	cov := mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy})
	var eig mat.EigenSym
	if !eig.Factorize(cov, false) {
		return BootstrapUnknown
	}
	ev := eig.Values(nil)
	major := math.Max(ev[0], ev[1])

	tol := t.thresholds.VertexTolerance()
	if major < tol*tol {
		return BootstrapTrivialPointSet
	}
	// The widest triangle the cloud can offer uses the full spread along
	// the principal axis as base and the largest perpendicular offset as
	// height; if that cannot reach the area threshold the set is collinear
	// for bootstrap purposes.
	base := majorSpread(candidates, mx, my, sxx, sxy, syy)
	height := maxPerpendicularSpread(candidates, mx, my, sxx, sxy, syy)
	if base*height/2 < areaThreshold {
		return BootstrapCollinearPointSet
	}
	return BootstrapValid
}

// majorSpread returns the extent of the cloud along its principal axis.
func majorSpread(candidates []*types.Vertex, mx, my, sxx, sxy, syy float64) float64 {
	ax, ay := principalAxis(sxx, sxy, syy)
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, v := range candidates {
		p := (v.X-mx)*ax + (v.Y-my)*ay
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return hi - lo
}

// maxPerpendicularSpread returns the largest offset from the principal
// axis, the lever arm available for a bootstrap triangle.
func maxPerpendicularSpread(candidates []*types.Vertex, mx, my, sxx, sxy, syy float64) float64 {
	ax, ay := principalAxis(sxx, sxy, syy)
	maxAbs := 0.0
	for _, v := range candidates {
		p := -(v.X-mx)*ay + (v.Y-my)*ax
		if math.Abs(p) > maxAbs {
			maxAbs = math.Abs(p)
		}
	}
	return maxAbs
}

// principalAxis returns the unit direction of maximum variance from the
// covariance entries.
func principalAxis(sxx, sxy, syy float64) (float64, float64) {
	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	return math.Cos(theta), math.Sin(theta)
}

// buildInitialMesh creates the first triangle a, b, c (counterclockwise)
// and the three ghost faces closing it.
func (t *Tin) buildInitialMesh(a, b, c *types.Vertex) error {
	e1, err := t.pool.AllocateEdge(a, b)
	if err != nil {
		return err
	}
	e2, err := t.pool.AllocateEdge(b, c)
	if err != nil {
		return err
	}
	e3, err := t.pool.AllocateEdge(c, a)
	if err != nil {
		return err
	}
	ga, err := t.pool.AllocateEdge(a, t.ghost)
	if err != nil {
		return err
	}
	gb, err := t.pool.AllocateEdge(b, t.ghost)
	if err != nil {
		return err
	}
	gc, err := t.pool.AllocateEdge(c, t.ghost)
	if err != nil {
		return err
	}

	e1.SetForward(e2)
	e2.SetForward(e3)
	e3.SetForward(e1)

	e1.Dual().SetForward(ga)
	ga.SetForward(gb.Dual())
	gb.Dual().SetForward(e1.Dual())

	e2.Dual().SetForward(gb)
	gb.SetForward(gc.Dual())
	gc.Dual().SetForward(e2.Dual())

	e3.Dual().SetForward(gc)
	gc.SetForward(ga.Dual())
	ga.Dual().SetForward(e3.Dual())

	t.searchEdge = e1
	t.bootstrapped = true
	return nil
}
