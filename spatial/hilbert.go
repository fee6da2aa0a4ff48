// Package spatial provides the Hilbert space-filling-curve ordering used
// to improve locality during bulk vertex insertion.
package spatial

import (
	"sort"

	"github.com/meshkit/tin/types"
)

// hilbertOrder is the number of curve subdivisions; 2^16 cells per axis is
// fine-grained enough that neighboring samples map to neighboring codes.
const hilbertOrder = 16

// HilbertSort reorders the vertices in place along a Hilbert curve fitted
// to their bounding rectangle. Fewer than three vertices, or a bounding box
// of zero width and zero height, leave the slice untouched; when only one
// extent is zero the other is used for both axes.
func HilbertSort(vertices []*types.Vertex) {
	if len(vertices) < 3 {
		return
	}
	b := types.EmptyBounds()
	for _, v := range vertices {
		b = b.Extend(v.X, v.Y)
	}
	w := b.Width()
	h := b.Height()
	if w == 0 && h == 0 {
		return
	}
	if w == 0 {
		w = h
	}
	if h == 0 {
		h = w
	}

	side := float64(uint32(1) << hilbertOrder)
	codes := make([]uint64, len(vertices))
	for i, v := range vertices {
		cx := uint32((v.X - b.MinX) / w * (side - 1))
		cy := uint32((v.Y - b.MinY) / h * (side - 1))
		codes[i] = hilbertD(cx, cy)
	}
	order := make([]int, len(vertices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return codes[order[i]] < codes[order[j]]
	})
	sorted := make([]*types.Vertex, len(vertices))
	for i, idx := range order {
		sorted[i] = vertices[idx]
	}
	copy(vertices, sorted)
}

// hilbertD maps cell coordinates to the distance along the Hilbert curve.
func hilbertD(x, y uint32) uint64 {
	var d uint64
	for s := uint32(1) << (hilbertOrder - 1); s > 0; s >>= 1 {
		var rx, ry uint32
		if x&s > 0 {
			rx = 1
		}
		if y&s > 0 {
			ry = 1
		}
		d += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		// rotate the quadrant
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
	}
	return d
}
