package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit/tin/tin"
	"github.com/meshkit/tin/types"
)

func buildSampleTin(t *testing.T) *tin.Tin {
	t.Helper()
	tn := tin.New(1.0)
	points := [][2]float64{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {2, 7}, {8, 3},
	}
	for i, p := range points {
		_, err := tn.Add(types.NewVertex(p[0], p[1], float64(i), int32(i)))
		require.NoError(t, err)
	}
	return tn
}

func TestCheckAllOnHealthyTin(t *testing.T) {
	tn := buildSampleTin(t)
	require.NoError(t, CheckAll(tn))
}

func TestIndividualChecks(t *testing.T) {
	tn := buildSampleTin(t)
	assert.NoError(t, CheckLinks(tn))
	assert.NoError(t, CheckTriangleClosure(tn))
	assert.NoError(t, CheckDelaunay(tn))
	assert.NoError(t, CheckPerimeter(tn))
	assert.NoError(t, CheckConstraintFidelity(tn))
	assert.NoError(t, CheckRegions(tn))
}

func TestCheckPerimeterRequiresBootstrap(t *testing.T) {
	tn := tin.New(1.0)
	assert.Error(t, CheckPerimeter(tn))
}

func TestChecksCoverConstrainedTin(t *testing.T) {
	tn := buildSampleTin(t)
	region := tin.NewPolygonConstraint([]*types.Vertex{
		types.NewVertex(1, 1, 0, 100),
		types.NewVertex(9, 1, 0, 101),
		types.NewVertex(9, 9, 0, 102),
		types.NewVertex(1, 9, 0, 103),
	}, true, false, nil)
	require.NoError(t, tn.AddConstraints([]tin.Constraint{region}, true, false))
	require.NoError(t, CheckAll(tn))
}
