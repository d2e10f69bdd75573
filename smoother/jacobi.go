package smoother

import (
	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// DefaultOmega is the usual damping factor for weighted Jacobi on
// diagonally reasonable symmetric positive-definite operators.
const DefaultOmega = 2.0 / 3.0

// Jacobi is a Factory for weighted-Jacobi smoothers.
type Jacobi struct {
	omega float64
}

// NewJacobi creates a weighted-Jacobi factory. omega <= 0 selects
// DefaultOmega.
func NewJacobi(omega float64) *Jacobi {
	if omega <= 0 {
		omega = DefaultOmega
	}
	return &Jacobi{omega: omega}
}

// Build implements Factory.
func (j *Jacobi) Build(a *sparse.Matrix) (Smoother, error) {
	inv, err := invDiagonal(a)
	if err != nil {
		return nil, err
	}
	return &jacobiSmoother{a: a, invDiag: inv, omega: j.omega}, nil
}

type jacobiSmoother struct {
	a       *sparse.Matrix
	invDiag []float64
	omega   float64
}

// Smooth performs x ← x + ω·D⁻¹·(b − A·x), sweeps times. Each sweep issues
// one full SpMV, so sweep N+1 always sees the completed result of sweep N.
func (s *jacobiSmoother) Smooth(be backend.Backend, x, b, s1, _ []float64, sweeps int) {
	for k := 0; k < sweeps; k++ {
		be.SpMV(s1, s.a, x)
		for i := range x {
			x[i] += s.omega * s.invDiag[i] * (b[i] - s1[i])
		}
	}
}
