package types

import (
	"math"
	"testing"
)

func TestGhostVertex(t *testing.T) {
	g := NewGhostVertex()
	if !g.IsGhost() {
		t.Fatal("ghost vertex must report IsGhost")
	}
	if !math.IsNaN(g.X) || !math.IsNaN(g.Y) {
		t.Fatal("ghost coordinates must be NaN")
	}
	v := NewVertex(1, 2, 3, 0)
	if v.IsGhost() {
		t.Fatal("real vertex must not report IsGhost")
	}
}

func TestVertexEqualityIsPlanar(t *testing.T) {
	a := NewVertex(1, 2, 10, 0)
	b := NewVertex(1, 2, 99, 7)
	if !a.Equals(b) {
		t.Fatal("equality must compare only (x, y)")
	}
}

func TestMergerGroupResolvesZ(t *testing.T) {
	v := NewVertex(5, 5, 10, 0)
	if v.IsMergerGroup() {
		t.Fatal("fresh vertex must not be a group")
	}
	v.AddToMergerGroup(NewVertex(5, 5, 20, 1))
	if !v.IsMergerGroup() {
		t.Fatal("vertex should have upgraded to a group")
	}
	if len(v.MergerGroupMembers()) != 2 {
		t.Fatalf("members = %d; want 2", len(v.MergerGroupMembers()))
	}
	if v.Z != 15 {
		t.Fatalf("mean Z = %g; want 15", v.Z)
	}
	v.SetZResolution(ZMin)
	if v.Z != 10 {
		t.Fatalf("min Z = %g; want 10", v.Z)
	}
	v.SetZResolution(ZMax)
	if v.Z != 20 {
		t.Fatalf("max Z = %g; want 20", v.Z)
	}
	if v.X != 5 || v.Y != 5 {
		t.Fatal("group coordinates must not move")
	}
}

func TestMergerGroupPropagatesConstraintStatus(t *testing.T) {
	v := NewVertex(0, 0, 1, 0)
	m := NewVertex(0, 0, 2, 1)
	m.Status |= StatusConstraintMember
	v.AddToMergerGroup(m)
	if !v.IsConstraintMember() {
		t.Fatal("constraint membership must propagate to the group slot")
	}
}

func TestThresholdDerivations(t *testing.T) {
	th := NewThresholds(1.0)
	if th.NominalPointSpacing() != 1.0 {
		t.Fatalf("spacing = %g", th.NominalPointSpacing())
	}
	if th.HalfPlane() != 256*th.Precision() {
		t.Errorf("half-plane threshold should be 256x precision")
	}
	if th.InCircle() != math.Ldexp(th.Precision(), 20) {
		t.Errorf("in-circle threshold should be 2^20 x precision")
	}
	if th.Delaunay() != 256*th.Precision() {
		t.Errorf("delaunay threshold should be 256x precision")
	}
	if th.CircumcircleDeterminant() != 32*th.InCircle() {
		t.Errorf("circumcircle threshold should be 32x in-circle")
	}
	if th.VertexTolerance() != 1e-5 {
		t.Errorf("vertex tolerance = %g; want 1e-5", th.VertexTolerance())
	}
	if want := th.VertexTolerance() * th.VertexTolerance(); th.VertexToleranceSq() != want {
		t.Errorf("squared tolerance = %g; want %g", th.VertexToleranceSq(), want)
	}
}

func TestThresholdsRejectBadSpacing(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		th := NewThresholds(s)
		if th.NominalPointSpacing() != 1 {
			t.Errorf("spacing %g should normalize to 1, got %g", s, th.NominalPointSpacing())
		}
	}
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	if !b.IsEmpty() {
		t.Fatal("fresh bounds must be empty")
	}
	b = b.Extend(1, 2)
	b = b.Extend(-3, 7)
	if b.IsEmpty() {
		t.Fatal("extended bounds must not be empty")
	}
	if b.MinX != -3 || b.MaxX != 1 || b.MinY != 2 || b.MaxY != 7 {
		t.Fatalf("bounds = %+v", b)
	}
	if b.Width() != 4 || b.Height() != 5 {
		t.Fatalf("extent = %g x %g", b.Width(), b.Height())
	}
	if !b.Contains(0, 5) || b.Contains(2, 5) {
		t.Fatal("containment incorrect")
	}
}

func TestCircumcircleDegenerate(t *testing.T) {
	c := InfiniteCircumcircle()
	if !c.IsDegenerate() {
		t.Fatal("infinite circle must be degenerate")
	}
	finite := Circumcircle{X: 0, Y: 0, RadiusSq: 4}
	if finite.IsDegenerate() {
		t.Fatal("finite circle must not be degenerate")
	}
	if finite.Radius() != 2 {
		t.Fatalf("radius = %g; want 2", finite.Radius())
	}
	if !finite.ContainsSq(1, 0) || finite.ContainsSq(3, 0) {
		t.Fatal("containment incorrect")
	}
}
