package tinio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit/tin/tin"
	"github.com/meshkit/tin/types"
)

func buildRoundTripTin(t *testing.T) *tin.Tin {
	t.Helper()
	tn := tin.New(1.0)
	for i, p := range [][3]float64{{0, 0, 1}, {10, 0, 2}, {10, 10, 3}, {0, 10, 4}} {
		_, err := tn.Add(types.NewVertex(p[0], p[1], p[2], int32(i)))
		require.NoError(t, err)
	}
	return tn
}

func TestRoundTripSquare(t *testing.T) {
	original := buildRoundTripTin(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	rebuilt, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.GetNominalPointSpacing(), rebuilt.GetNominalPointSpacing())
	assert.Equal(t, original.CountTriangles(), rebuilt.CountTriangles())
	assert.Equal(t, len(original.GetEdges()), len(rebuilt.GetEdges()))
	assert.Equal(t, original.GetBounds(), rebuilt.GetBounds())
	assert.Equal(t, len(original.GetVertices()), len(rebuilt.GetVertices()))
}

func TestRoundTripWithConstraint(t *testing.T) {
	original := buildRoundTripTin(t)
	poly := tin.NewPolygonConstraint([]*types.Vertex{
		types.NewVertex(10, 0, 0, 100),
		types.NewVertex(10, 10, 0, 101),
		types.NewVertex(7, 5, 0, 102),
	}, true, false, nil)
	require.NoError(t, original.AddConstraints([]tin.Constraint{poly}, true, false))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	rebuilt, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.CountTriangles(), rebuilt.CountTriangles())
	require.Len(t, rebuilt.GetConstraints(), 1)
	rebuiltPoly, ok := rebuilt.GetConstraints()[0].(*tin.PolygonConstraint)
	require.True(t, ok)
	assert.True(t, rebuiltPoly.DefinesRegion())
	assert.False(t, rebuiltPoly.IsHole())

	countConstrained := func(tn *tin.Tin) int {
		n := 0
		for _, e := range tn.GetEdges() {
			if e.IsConstrained() {
				n++
			}
		}
		return n
	}
	assert.Equal(t, countConstrained(original), countConstrained(rebuilt))
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18})
	_, err := Read(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestReadRejectsTruncated(t *testing.T) {
	original := buildRoundTripTin(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))
	short := buf.Bytes()[:buf.Len()/2]
	_, err := Read(bytes.NewReader(short))
	require.Error(t, err)
}
