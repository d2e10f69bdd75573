package multigrid_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/multigrid"
	"github.com/hupe1980/multigrid/sparse"
)

func Example() {
	// 1D Poisson problem: -u'' = f on a grid of five interior points.
	a := sparse.MustCSR(5, 5,
		[]int{0, 2, 5, 8, 11, 13},
		[]int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3, 4, 3, 4},
		[]float64{2, -1, -1, 2, -1, -1, 2, -1, -1, 2, -1, -1, 2},
	)

	s, err := multigrid.AMG(a).
		VCycle().
		PreSweeps(2).
		PostSweeps(2).
		Tolerance(1e-10).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	b := []float64{1, 1, 1, 1, 1}
	res, err := s.Solve(b).Execute(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Record.Status)
	fmt.Printf("%.1f\n", res.X)
	// Output:
	// converged
	// [2.5 4.0 4.5 4.0 2.5]
}
