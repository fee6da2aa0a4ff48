// Command validate builds a TIN from a synthetic point field, optionally
// lays a polygon constraint through it, and runs the full invariant
// suite. Useful for smoke-testing changes to the insertion or constraint
// machinery.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/meshkit/tin/tin"
	"github.com/meshkit/tin/types"
	"github.com/meshkit/tin/validation"
)

func main() {
	n := flag.Int("n", 500, "number of random vertices")
	seed := flag.Int64("seed", 42, "random seed")
	extent := flag.Float64("extent", 100, "side length of the sample square")
	withRegion := flag.Bool("region", true, "add a polygon region constraint")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "logger:", err)
			os.Exit(1)
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	side := *extent
	spacing := side / float64(*n) * 10
	t := tin.New(spacing, tin.WithLogger(logger), tin.WithPreAllocation(*n))

	vertices := make([]*types.Vertex, *n)
	for i := range vertices {
		vertices[i] = types.NewVertex(
			rng.Float64()*side,
			rng.Float64()*side,
			rng.Float64()*10,
			int32(i),
		)
	}
	if err := t.AddMany(vertices, tin.OrderHilbert, nil); err != nil {
		fmt.Fprintln(os.Stderr, "insert:", err)
		os.Exit(1)
	}

	if *withRegion {
		q := side / 4
		region := tin.NewPolygonConstraint([]*types.Vertex{
			types.NewVertex(q, q, 0, 1000),
			types.NewVertex(3*q, q, 0, 1001),
			types.NewVertex(3*q, 3*q, 0, 1002),
			types.NewVertex(q, 3*q, 0, 1003),
		}, true, false, nil)
		if err := t.AddConstraints([]tin.Constraint{region}, true, false); err != nil {
			fmt.Fprintln(os.Stderr, "constraints:", err)
			os.Exit(1)
		}
	}

	count := t.CountTriangles()
	fmt.Printf("vertices=%d triangles=%d ghost=%d constrained=%d\n",
		len(t.GetVertices()), count.Valid, count.Ghost, count.Constrained)

	diag := t.Predicates().Diagnostics()
	fmt.Printf("half-plane calls=%d extended=%d  in-circle calls=%d extended=%d\n",
		diag.HalfPlaneCalls, diag.HalfPlaneExtended,
		diag.InCircleCalls, diag.InCircleExtended)

	if err := validation.CheckAll(t); err != nil {
		fmt.Fprintln(os.Stderr, "validation FAILED:")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("validation OK")
}
