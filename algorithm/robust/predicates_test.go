package robust

import (
	"math"
	"testing"

	"github.com/meshkit/tin/types"
)

func newTestPredicates() *Predicates {
	return NewPredicates(types.NewThresholds(1.0))
}

func v(x, y float64) *types.Vertex {
	return types.NewVertex(x, y, 0, 0)
}

func TestOrientation(t *testing.T) {
	p := newTestPredicates()
	a := v(0, 0)
	b := v(1, 0)
	ccw := v(0, 1)
	cw := v(0, -1)
	on := v(2, 0)

	if got := p.Orientation(a, b, ccw); got != 1 {
		t.Errorf("ccw orientation = %d; want 1", got)
	}
	if got := p.Orientation(a, b, cw); got != -1 {
		t.Errorf("cw orientation = %d; want -1", got)
	}
	if got := p.Orientation(a, b, on); got != 0 {
		t.Errorf("collinear orientation = %d; want 0", got)
	}
}

func TestHalfPlaneSign(t *testing.T) {
	p := newTestPredicates()
	if h := p.HalfPlane(0, 0, 10, 0, 5, 3); h <= 0 {
		t.Errorf("left point should be positive, got %g", h)
	}
	if h := p.HalfPlane(0, 0, 10, 0, 5, -3); h >= 0 {
		t.Errorf("right point should be negative, got %g", h)
	}
}

func TestAreaSign(t *testing.T) {
	p := newTestPredicates()
	area := p.Area(v(0, 0), v(10, 0), v(0, 10))
	if area != 50 {
		t.Errorf("area = %g; want 50", area)
	}
	if got := p.Area(v(0, 0), v(0, 10), v(10, 0)); got != -50 {
		t.Errorf("cw area = %g; want -50", got)
	}
}

func TestInCircle(t *testing.T) {
	p := newTestPredicates()
	a := v(0, 0)
	b := v(10, 0)
	c := v(0, 10)

	if d := p.InCircle(a, b, c, v(3, 3)); d <= 0 {
		t.Errorf("interior point should be positive, got %g", d)
	}
	if d := p.InCircle(a, b, c, v(100, 100)); d >= 0 {
		t.Errorf("far point should be negative, got %g", d)
	}
	// (10, 10) is on the circumcircle of this right triangle; the
	// extended path decides and lands on zero.
	if d := p.InCircle(a, b, c, v(10, 10)); d != 0 {
		t.Errorf("cocircular point should be 0, got %g", d)
	}
}

func TestInCircleExtendedCounter(t *testing.T) {
	p := newTestPredicates()
	a := v(0, 0)
	b := v(10, 0)
	c := v(0, 10)
	p.InCircle(a, b, c, v(10, 10))
	diag := p.Diagnostics()
	if diag.InCircleCalls != 1 {
		t.Fatalf("calls = %d; want 1", diag.InCircleCalls)
	}
	if diag.InCircleExtended != 1 {
		t.Fatalf("extended = %d; want 1 for a cocircular query", diag.InCircleExtended)
	}
	p.ResetDiagnostics()
	if p.Diagnostics().InCircleCalls != 0 {
		t.Fatal("reset did not clear counters")
	}
}

func TestCircumcircle(t *testing.T) {
	p := newTestPredicates()
	c := p.Circumcircle(v(0, 0), v(10, 0), v(0, 10))
	if c.IsDegenerate() {
		t.Fatal("right triangle must have a finite circumcircle")
	}
	if math.Abs(c.X-5) > 1e-12 || math.Abs(c.Y-5) > 1e-12 {
		t.Errorf("center = (%g, %g); want (5, 5)", c.X, c.Y)
	}
	if math.Abs(c.RadiusSq-50) > 1e-9 {
		t.Errorf("radiusSq = %g; want 50", c.RadiusSq)
	}
}

func TestCircumcircleDegenerate(t *testing.T) {
	p := newTestPredicates()
	c := p.Circumcircle(v(0, 0), v(1, 0), v(2, 0))
	if !c.IsDegenerate() {
		t.Fatal("collinear input must produce the infinite circle")
	}
	if p.Diagnostics().CircumcircleExtended != 1 {
		t.Fatal("degenerate input must have taken the extended path")
	}
}

func TestHalfPlaneExtendedPathAgrees(t *testing.T) {
	p := newTestPredicates()
	// A sliver far below the half-plane threshold takes the extended
	// path; the double-double result must still carry the correct sign.
	eps := 1e-18
	h := p.HalfPlane(0, 0, 1, 0, 0.5, eps)
	if h <= 0 {
		t.Fatalf("point %g above the line should test positive, got %g", eps, h)
	}
	if p.Diagnostics().HalfPlaneExtended == 0 {
		t.Fatal("expected the extended path for a near-collinear query")
	}
}
