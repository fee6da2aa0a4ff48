package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/meshkit/tin/types"
)

func TestHilbertSortPreservesSet(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vertices := make([]*types.Vertex, 100)
	for i := range vertices {
		vertices[i] = types.NewVertex(rng.Float64()*50, rng.Float64()*50, 0, int32(i))
	}
	seen := make(map[*types.Vertex]bool, len(vertices))
	for _, v := range vertices {
		seen[v] = true
	}
	HilbertSort(vertices)
	if len(vertices) != 100 {
		t.Fatalf("length changed to %d", len(vertices))
	}
	for _, v := range vertices {
		if !seen[v] {
			t.Fatal("sort invented or dropped a vertex")
		}
		delete(seen, v)
	}
	if len(seen) != 0 {
		t.Fatalf("%d vertices missing after sort", len(seen))
	}
}

func TestHilbertSortImprovesLocality(t *testing.T) {
	// A shuffled grid jumps across the extent at almost every step; the
	// Hilbert order must shorten the total tour.
	var grid []*types.Vertex
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			grid = append(grid, types.NewVertex(float64(x), float64(y), 0, 0))
		}
	}
	rng := rand.New(rand.NewSource(3))
	rng.Shuffle(len(grid), func(i, j int) { grid[i], grid[j] = grid[j], grid[i] })
	before := tourLength(grid)
	HilbertSort(grid)
	after := tourLength(grid)
	if after >= before {
		t.Fatalf("tour did not shorten: before=%g after=%g", before, after)
	}
}

func tourLength(vertices []*types.Vertex) float64 {
	total := 0.0
	for i := 1; i < len(vertices); i++ {
		total += math.Hypot(
			vertices[i].X-vertices[i-1].X,
			vertices[i].Y-vertices[i-1].Y,
		)
	}
	return total
}

func TestHilbertSortDegenerateInput(t *testing.T) {
	short := []*types.Vertex{
		types.NewVertex(0, 0, 0, 0),
		types.NewVertex(1, 1, 0, 1),
	}
	HilbertSort(short)
	if short[0].X != 0 || short[1].X != 1 {
		t.Fatal("short input must be untouched")
	}

	same := []*types.Vertex{
		types.NewVertex(2, 2, 0, 0),
		types.NewVertex(2, 2, 0, 1),
		types.NewVertex(2, 2, 0, 2),
	}
	HilbertSort(same)
	if len(same) != 3 {
		t.Fatal("coincident input must survive")
	}
}
