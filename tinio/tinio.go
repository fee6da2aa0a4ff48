// Package tinio serializes a TIN to the binary "TINS" form and rebuilds
// it by replaying vertex insertions and constraint additions.
//
// The format records inputs, not topology: a header, the vertex table,
// the constraint table, and the list of constrained edges by vertex-pair
// positions. The deserializer reconstructs the mesh by replaying inserts
// and constraint insertion. The recorded constrained-edge list is read
// past but not checked against the rebuilt mesh.
package tinio

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/meshkit/tin/tin"
	"github.com/meshkit/tin/types"
)

// Magic identifies the format: "TINS".
const Magic uint32 = 0x54494E53

// Version is the current format version.
const Version uint16 = 1

const (
	kindLinear  uint8 = 0
	kindPolygon uint8 = 1

	flagDefinesRegion uint8 = 1 << 0
	flagHole          uint8 = 1 << 1
)

// ErrBadFormat indicates the stream is not a TINS serialization this
// package can read.
var ErrBadFormat = errors.New("tinio: bad format")

// Write serializes the TIN.
func Write(w io.Writer, t *tin.Tin) error {
	bw := bufio.NewWriter(w)

	vertices := t.GetVertices()
	position := make(map[*types.Vertex]uint32, len(vertices))
	for i, v := range vertices {
		position[v] = uint32(i)
	}
	// Constraint vertices that merged into existing slots keep their own
	// records so replay reproduces the merger groups.
	constraints := t.GetConstraints()
	for _, c := range constraints {
		for _, v := range c.Vertices() {
			if _, ok := position[v]; !ok {
				position[v] = uint32(len(vertices))
				vertices = append(vertices, v)
			}
		}
	}

	for _, value := range []any{Magic, Version, t.GetNominalPointSpacing(), uint32(len(vertices))} {
		if err := binary.Write(bw, binary.LittleEndian, value); err != nil {
			return errors.Wrap(err, "tinio: writing header")
		}
	}
	for _, v := range vertices {
		if err := writeVertex(bw, v); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(constraints))); err != nil {
		return errors.Wrap(err, "tinio: writing constraint count")
	}
	for _, c := range constraints {
		if err := writeConstraint(bw, c, position); err != nil {
			return err
		}
	}

	pairs := constrainedPairs(t, position)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(pairs))); err != nil {
		return errors.Wrap(err, "tinio: writing edge count")
	}
	for _, pair := range pairs {
		if err := binary.Write(bw, binary.LittleEndian, pair); err != nil {
			return errors.Wrap(err, "tinio: writing edge pair")
		}
	}
	return bw.Flush()
}

func writeVertex(w io.Writer, v *types.Vertex) error {
	for _, value := range []any{v.Index, v.X, v.Y, v.Z, uint8(v.Status)} {
		if err := binary.Write(w, binary.LittleEndian, value); err != nil {
			return errors.Wrap(err, "tinio: writing vertex")
		}
	}
	return nil
}

func writeConstraint(w io.Writer, c tin.Constraint, position map[*types.Vertex]uint32) error {
	kind := kindLinear
	var flags uint8
	if poly, ok := c.(*tin.PolygonConstraint); ok {
		kind = kindPolygon
		if poly.DefinesRegion() {
			flags |= flagDefinesRegion
		}
		if poly.IsHole() {
			flags |= flagHole
		}
	}
	verts := c.Vertices()
	for _, value := range []any{kind, flags, uint32(len(verts))} {
		if err := binary.Write(w, binary.LittleEndian, value); err != nil {
			return errors.Wrap(err, "tinio: writing constraint")
		}
	}
	for _, v := range verts {
		if err := binary.Write(w, binary.LittleEndian, position[v]); err != nil {
			return errors.Wrap(err, "tinio: writing constraint vertex")
		}
	}
	return nil
}

func constrainedPairs(t *tin.Tin, position map[*types.Vertex]uint32) [][2]uint32 {
	var pairs [][2]uint32
	it := t.GetEdgeIterator(true)
	for e := it.Next(); e != nil; e = it.Next() {
		if !e.IsConstrained() {
			continue
		}
		pa, okA := position[e.A()]
		pb, okB := position[e.B()]
		if okA && okB {
			pairs = append(pairs, [2]uint32{pa, pb})
		}
	}
	return pairs
}

// Read rebuilds a TIN from a TINS stream by replaying its inputs.
func Read(r io.Reader, opts ...tin.Option) (*tin.Tin, error) {
	br := bufio.NewReader(r)

	var magic uint32
	var version uint16
	var spacing float64
	var vertexCount uint32
	for _, target := range []any{&magic, &version, &spacing, &vertexCount} {
		if err := binary.Read(br, binary.LittleEndian, target); err != nil {
			return nil, errors.Wrap(err, "tinio: reading header")
		}
	}
	if magic != Magic {
		return nil, errors.Wrapf(ErrBadFormat, "magic %08x", magic)
	}
	if version != Version {
		return nil, errors.Wrapf(ErrBadFormat, "unsupported version %d", version)
	}

	vertices := make([]*types.Vertex, vertexCount)
	for i := range vertices {
		v, err := readVertex(br)
		if err != nil {
			return nil, err
		}
		vertices[i] = v
	}

	var constraintCount uint32
	if err := binary.Read(br, binary.LittleEndian, &constraintCount); err != nil {
		return nil, errors.Wrap(err, "tinio: reading constraint count")
	}
	constraints := make([]tin.Constraint, constraintCount)
	for i := range constraints {
		c, err := readConstraint(br, vertices)
		if err != nil {
			return nil, err
		}
		constraints[i] = c
	}

	var pairCount uint32
	if err := binary.Read(br, binary.LittleEndian, &pairCount); err != nil {
		return nil, errors.Wrap(err, "tinio: reading edge count")
	}
	for i := uint32(0); i < pairCount; i++ {
		var pair [2]uint32
		if err := binary.Read(br, binary.LittleEndian, &pair); err != nil {
			return nil, errors.Wrap(err, "tinio: reading edge pair")
		}
	}

	t := tin.New(spacing, opts...)
	for _, v := range vertices {
		if _, err := t.Add(v); err != nil {
			return nil, errors.Wrap(err, "tinio: replaying vertex")
		}
	}
	if len(constraints) > 0 {
		if err := t.AddConstraints(constraints, true, false); err != nil {
			return nil, errors.Wrap(err, "tinio: replaying constraints")
		}
	}
	return t, nil
}

func readVertex(r io.Reader) (*types.Vertex, error) {
	var index int32
	var x, y, z float64
	var status uint8
	for _, target := range []any{&index, &x, &y, &z, &status} {
		if err := binary.Read(r, binary.LittleEndian, target); err != nil {
			return nil, errors.Wrap(err, "tinio: reading vertex")
		}
	}
	v := types.NewVertex(x, y, z, index)
	v.Status = types.StatusFlag(status)
	return v, nil
}

func readConstraint(r io.Reader, vertices []*types.Vertex) (tin.Constraint, error) {
	var kind, flags uint8
	var count uint32
	for _, target := range []any{&kind, &flags, &count} {
		if err := binary.Read(r, binary.LittleEndian, target); err != nil {
			return nil, errors.Wrap(err, "tinio: reading constraint")
		}
	}
	verts := make([]*types.Vertex, count)
	for i := range verts {
		var pos uint32
		if err := binary.Read(r, binary.LittleEndian, &pos); err != nil {
			return nil, errors.Wrap(err, "tinio: reading constraint vertex")
		}
		if int(pos) >= len(vertices) {
			return nil, errors.Wrapf(ErrBadFormat, "vertex position %d out of range", pos)
		}
		verts[i] = vertices[pos]
	}
	switch kind {
	case kindLinear:
		return tin.NewLinearConstraint(verts, nil), nil
	case kindPolygon:
		return tin.NewPolygonConstraint(verts,
			flags&flagDefinesRegion != 0, flags&flagHole != 0, nil), nil
	default:
		return nil, errors.Wrapf(ErrBadFormat, "constraint kind %d", kind)
	}
}
