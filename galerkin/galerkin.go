// Package galerkin forms coarse operators by Galerkin projection.
//
// Given a fine operator A and a prolongation P, the coarse operator is the
// triple product Pᵗ·A·P. Projection preserves symmetry and positive
// semi-definiteness of A in exact arithmetic, which is what keeps the
// coarse-level corrections consistent with the fine problem.
package galerkin

import (
	"fmt"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// Project computes Pᵗ·A·P as two sparse-sparse products; no dense
// intermediate is ever formed. Entries of the result whose magnitude falls
// below dropTol relative to the result's largest entry are discarded to
// bound fill-in growth across levels. dropTol <= 0 disables dropping.
// Diagonal entries are never dropped.
func Project(be backend.Backend, a, p *sparse.Matrix, dropTol float64) (*sparse.Matrix, error) {
	if a.Cols() != p.Rows() {
		return nil, fmt.Errorf("galerkin: A is %dx%d but P has %d rows",
			a.Rows(), a.Cols(), p.Rows())
	}

	ap, err := be.MatMul(a, p)
	if err != nil {
		return nil, fmt.Errorf("galerkin: A*P: %w", err)
	}
	coarse, err := be.MatMul(be.Transpose(p), ap)
	if err != nil {
		return nil, fmt.Errorf("galerkin: Pᵗ*(A*P): %w", err)
	}

	if dropTol > 0 {
		coarse = coarse.DropSmall(dropTol)
	}
	return coarse, nil
}
