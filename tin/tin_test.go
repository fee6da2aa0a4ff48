package tin_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit/tin/quadedge"
	"github.com/meshkit/tin/tin"
	"github.com/meshkit/tin/types"
	"github.com/meshkit/tin/validation"
)

func v(x, y, z float64, index int32) *types.Vertex {
	return types.NewVertex(x, y, z, index)
}

func buildSquare(t *testing.T) *tin.Tin {
	t.Helper()
	tn := tin.New(1.0)
	for i, p := range [][3]float64{{0, 0, 1}, {10, 0, 2}, {10, 10, 3}, {0, 10, 4}} {
		_, err := tn.Add(v(p[0], p[1], p[2], int32(i)))
		require.NoError(t, err)
	}
	return tn
}

func TestSimpleTriangle(t *testing.T) {
	tn := tin.New(1.0)
	for i, p := range [][2]float64{{0, 0}, {1, 0}, {0.5, 1}} {
		modified, err := tn.Add(v(p[0], p[1], 0, int32(i)))
		require.NoError(t, err)
		assert.True(t, modified)
	}
	require.True(t, tn.IsBootstrapped())

	perimeter, err := tn.GetPerimeter()
	require.NoError(t, err)
	assert.Len(t, perimeter, 3)

	count := tn.CountTriangles()
	assert.Equal(t, 1, count.Valid)
	assert.Equal(t, 3, count.Ghost)

	require.NoError(t, validation.CheckAll(tn))
}

func TestCollinearPointsDoNotBootstrap(t *testing.T) {
	tn := tin.New(1.0)
	for i := 0; i < 4; i++ {
		modified, err := tn.Add(v(float64(i), 0, 0, int32(i)))
		require.NoError(t, err)
		assert.True(t, modified)
	}
	assert.False(t, tn.IsBootstrapped())
	assert.Empty(t, tn.GetEdges())

	_, err := tn.GetPerimeter()
	assert.ErrorIs(t, err, tin.ErrNotBootstrapped)
	assert.Len(t, tn.GetVertices(), 4)

	// One off-axis vertex unlocks the whole buffer.
	_, err = tn.Add(v(1, 1, 0, 4))
	require.NoError(t, err)
	require.True(t, tn.IsBootstrapped())
	assert.Len(t, tn.GetVertices(), 5)
	assert.Equal(t, 3, tn.CountTriangles().Valid)
	require.NoError(t, validation.CheckAll(tn))
}

func TestSquareWithInteriorVertex(t *testing.T) {
	tn := buildSquare(t)
	_, err := tn.Add(v(5, 5, 0, 4))
	require.NoError(t, err)

	count := tn.CountTriangles()
	assert.Equal(t, 4, count.Valid, "square with center splits into 4 triangles")
	assert.Equal(t, 4, count.Ghost)

	perimeter, err := tn.GetPerimeter()
	require.NoError(t, err)
	assert.Len(t, perimeter, 4)

	require.NoError(t, validation.CheckAll(tn))
}

func TestDuplicateInsertUpgradesToMergerGroup(t *testing.T) {
	tn := buildSquare(t)
	first := v(5, 5, 10, 4)
	modified, err := tn.Add(first)
	require.NoError(t, err)
	require.True(t, modified)
	before := tn.CountTriangles()

	modified, err = tn.Add(v(5, 5, 20, 5))
	require.NoError(t, err)
	assert.False(t, modified, "coincident insert must not modify the mesh")
	assert.Equal(t, before, tn.CountTriangles())
	assert.Len(t, tn.GetVertices(), 5)

	assert.True(t, first.IsMergerGroup())
	assert.Equal(t, 15.0, first.Z, "default resolution is the mean")
	require.NoError(t, validation.CheckAll(tn))
}

func TestAddManyHilbert(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	vertices := make([]*types.Vertex, 400)
	for i := range vertices {
		vertices[i] = v(rng.Float64()*100, rng.Float64()*100, rng.Float64(), int32(i))
	}
	tn := tin.New(5.0, tin.WithPreAllocation(len(vertices)))
	calls := 0
	err := tn.AddMany(vertices, tin.OrderHilbert, func(inserted, total int) bool {
		calls++
		assert.LessOrEqual(t, inserted, total)
		return false
	})
	require.NoError(t, err)
	assert.Positive(t, calls)
	require.True(t, tn.IsBootstrapped())
	require.NoError(t, validation.CheckAll(tn))
}

func TestAddManyCancellation(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	vertices := make([]*types.Vertex, 600)
	for i := range vertices {
		vertices[i] = v(rng.Float64()*100, rng.Float64()*100, 0, int32(i))
	}
	tn := tin.New(5.0)
	err := tn.AddMany(vertices, tin.OrderAsProvided, func(inserted, total int) bool {
		return true // cancel at the first batch boundary
	})
	require.NoError(t, err)
	assert.Less(t, len(tn.GetVertices()), 600)
	require.NoError(t, validation.CheckAll(tn), "cancelled TIN must still be valid")
}

func TestLockedTinRejectsMutation(t *testing.T) {
	tn := buildSquare(t)
	tn.Lock()
	_, err := tn.Add(v(5, 5, 0, 9))
	assert.ErrorIs(t, err, tin.ErrLockedTin)
	err = tn.AddConstraints([]tin.Constraint{
		tin.NewLinearConstraint([]*types.Vertex{v(1, 1, 0, 10), v(2, 2, 0, 11)}, nil),
	}, false, false)
	assert.ErrorIs(t, err, tin.ErrLockedTin)

	tn.Unlock()
	_, err = tn.Add(v(5, 5, 0, 9))
	assert.NoError(t, err)
}

func TestClearResets(t *testing.T) {
	tn := buildSquare(t)
	require.True(t, tn.IsBootstrapped())
	tn.Clear()
	assert.False(t, tn.IsBootstrapped())
	assert.Empty(t, tn.GetEdges())
	assert.Empty(t, tn.GetVertices())
	assert.True(t, tn.GetBounds().IsEmpty())

	// The TIN is reusable after Clear.
	for i, p := range [][2]float64{{0, 0}, {4, 0}, {2, 3}} {
		_, err := tn.Add(v(p[0], p[1], 0, int32(i)))
		require.NoError(t, err)
	}
	assert.True(t, tn.IsBootstrapped())
}

func TestNavigator(t *testing.T) {
	tn := buildSquare(t)

	assert.True(t, tn.IsPointInsideTin(5, 2))
	assert.True(t, tn.IsPointInsideTin(1, 8))
	assert.False(t, tn.IsPointInsideTin(20, 20))
	assert.False(t, tn.IsPointInsideTin(-3, 5))

	e, err := tn.GetNeighborEdge(5, 2)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.False(t, e.Forward().B().IsGhost(), "interior query must land on a real face")

	e, err = tn.GetNeighborEdge(5, -4)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.False(t, e.A().IsGhost())
	assert.False(t, e.B().IsGhost())
}

func TestSplitEdgeRefinement(t *testing.T) {
	tn := buildSquare(t)
	before := tn.CountTriangles()
	require.Equal(t, 2, before.Valid)

	// Find the interior diagonal: the only non-ghost edge with two real
	// adjacent faces.
	var diagonal *quadedge.Edge
	for _, e := range tn.GetEdges() {
		if !e.Forward().B().IsGhost() && !e.Dual().Forward().B().IsGhost() {
			diagonal = e
			break
		}
	}
	require.NotNil(t, diagonal)

	mid, err := tn.SplitEdge(diagonal, 0.5, 42)
	require.NoError(t, err)
	require.NotNil(t, mid)
	assert.True(t, mid.IsSynthetic())
	assert.Equal(t, 42.0, mid.Z)
	assert.Equal(t, before.Valid+2, tn.CountTriangles().Valid)
	require.NoError(t, validation.CheckAll(tn))
}

func TestAddAndReturnEdge(t *testing.T) {
	tn := buildSquare(t)
	w := v(2, 1, 0, 9)
	e, err := tn.AddAndReturnEdge(w)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Same(t, w, e.A())

	// A coincident vertex merges and yields no edge.
	e, err = tn.AddAndReturnEdge(v(2, 1, 5, 10))
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestInterpolateZ(t *testing.T) {
	tn := buildSquare(t)
	z, ok := tn.InterpolateZ(5, 2)
	require.True(t, ok)
	assert.Greater(t, z, 1.0)
	assert.Less(t, z, 4.0)

	_, ok = tn.InterpolateZ(50, 50)
	assert.False(t, ok, "exterior point has no surface value")
}

func TestGetTrianglesLazy(t *testing.T) {
	tn := buildSquare(t)
	_, err := tn.Add(v(5, 5, 0, 4))
	require.NoError(t, err)

	total := 0
	for range tn.GetTriangles() {
		total++
	}
	assert.Equal(t, tn.CountTriangles().Valid, total)

	// Early termination is honored.
	seen := 0
	for range tn.GetTriangles() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestBoundsAndSpacing(t *testing.T) {
	tn := buildSquare(t)
	b := tn.GetBounds()
	assert.Equal(t, 0.0, b.MinX)
	assert.Equal(t, 10.0, b.MaxX)
	assert.Equal(t, 0.0, b.MinY)
	assert.Equal(t, 10.0, b.MaxY)
	assert.Equal(t, 1.0, tn.GetNominalPointSpacing())
	assert.Positive(t, tn.GetMaximumEdgeAllocationIndex())
}
