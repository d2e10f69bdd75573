package smoother

import (
	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// GaussSeidel is a Factory for forward Gauss–Seidel smoothers.
type GaussSeidel struct{}

// NewGaussSeidel creates a forward Gauss–Seidel factory.
func NewGaussSeidel() *GaussSeidel { return &GaussSeidel{} }

// Build implements Factory.
func (*GaussSeidel) Build(a *sparse.Matrix) (Smoother, error) {
	inv, err := invDiagonal(a)
	if err != nil {
		return nil, err
	}
	return &gaussSeidelSmoother{a: a, invDiag: inv}, nil
}

type gaussSeidelSmoother struct {
	a       *sparse.Matrix
	invDiag []float64
}

// Smooth performs forward sweeps: each row update sees the already-updated
// values of lower-indexed rows. Inherently sequential within a sweep; use
// ColoredGaussSeidel when parallel row updates matter.
func (s *gaussSeidelSmoother) Smooth(_ backend.Backend, x, b, _, _ []float64, sweeps int) {
	for k := 0; k < sweeps; k++ {
		for i := 0; i < s.a.Rows(); i++ {
			cols, vals := s.a.Row(i)
			sum := b[i]
			for kk, j := range cols {
				if j != i {
					sum -= vals[kk] * x[j]
				}
			}
			x[i] = sum * s.invDiag[i]
		}
	}
}
