package geometry

import (
	"math"
	"testing"
)

func TestSegmentIntersection(t *testing.T) {
	x, y, ok := SegmentIntersection(0, 0, 10, 10, 0, 10, 10, 0)
	if !ok {
		t.Fatal("crossing diagonals must intersect")
	}
	if x != 5 || y != 5 {
		t.Fatalf("intersection = (%g, %g); want (5, 5)", x, y)
	}

	if _, _, ok := SegmentIntersection(0, 0, 1, 0, 0, 1, 1, 1); ok {
		t.Fatal("parallel segments must not intersect")
	}
	if _, _, ok := SegmentIntersection(0, 0, 1, 1, 5, 0, 5, 10); ok {
		t.Fatal("disjoint segments must not intersect")
	}
}

func TestLineIntersectionParam(t *testing.T) {
	p, ok := LineIntersectionParam(0, 0, 10, 0, 4, -5, 4, 5)
	if !ok || p != 0.4 {
		t.Fatalf("param = %g ok=%v; want 0.4 true", p, ok)
	}
	if _, ok := LineIntersectionParam(0, 0, 1, 0, 0, 1, 1, 1); ok {
		t.Fatal("parallel lines have no parameter")
	}
}

func TestPointInPolygon(t *testing.T) {
	xs := []float64{0, 10, 10, 0}
	ys := []float64{0, 0, 10, 10}
	if !PointInPolygon(5, 5, xs, ys) {
		t.Fatal("center must be inside")
	}
	if PointInPolygon(15, 5, xs, ys) {
		t.Fatal("outside point must not be inside")
	}
	if PointInPolygon(-1, -1, xs, ys) {
		t.Fatal("corner-adjacent exterior point must not be inside")
	}
}

func TestPolygonArea(t *testing.T) {
	xs := []float64{0, 10, 10, 0}
	ys := []float64{0, 0, 10, 10}
	if a := PolygonArea(xs, ys); a != 100 {
		t.Fatalf("ccw area = %g; want 100", a)
	}
	rxs := []float64{0, 0, 10, 10}
	rys := []float64{0, 10, 10, 0}
	if a := PolygonArea(rxs, rys); a != -100 {
		t.Fatalf("cw area = %g; want -100", a)
	}
}

func TestProjectionParam(t *testing.T) {
	if p := ProjectionParam(0, 0, 10, 0, 4, 7); p != 0.4 {
		t.Fatalf("param = %g; want 0.4", p)
	}
	if p := ProjectionParam(0, 0, 10, 0, -5, 0); p != -0.5 {
		t.Fatalf("param = %g; want -0.5", p)
	}
	if p := ProjectionParam(3, 3, 3, 3, 9, 9); p != 0 {
		t.Fatalf("degenerate segment param = %g; want 0", p)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Fatalf("distance = %g; want 5", d)
	}
	if d := Distance(1, 1, 1, 1); d != 0 {
		t.Fatalf("distance = %g; want 0", d)
	}
	if d := Distance(0, 0, 1, 1); math.Abs(d-math.Sqrt2) > 1e-15 {
		t.Fatalf("distance = %g; want sqrt(2)", d)
	}
}
