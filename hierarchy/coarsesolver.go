package hierarchy

import (
	"fmt"
	"math"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// CoarseSolver solves the coarsest-level system A·x = b. It is an injected
// capability so a direct factorization or a well-converged iterative solve
// can be substituted freely.
type CoarseSolver interface {
	Solve(be backend.Backend, x, b []float64) error
}

// CoarseSolverFactory builds a CoarseSolver for a given coarsest operator,
// performing any one-time factorization work.
type CoarseSolverFactory interface {
	Build(a *sparse.Matrix) (CoarseSolver, error)
}

// ErrSingularCoarseOperator indicates the coarsest operator could not be
// factorized (zero pivot).
type ErrSingularCoarseOperator struct {
	Pivot int
}

func (e *ErrSingularCoarseOperator) Error() string {
	return fmt.Sprintf("hierarchy: singular coarse operator, zero pivot at %d", e.Pivot)
}

// DenseLU factorizes the coarsest operator densely with partial pivoting.
// The coarsest level is small by construction, so dense storage is fine.
type DenseLU struct{}

// NewDenseLU creates a dense LU coarse-solver factory.
func NewDenseLU() *DenseLU { return &DenseLU{} }

// Build implements CoarseSolverFactory.
func (*DenseLU) Build(a *sparse.Matrix) (CoarseSolver, error) {
	n := a.Rows()
	lu := make([]float64, n*n)
	for i := 0; i < n; i++ {
		cols, vals := a.Row(i)
		for k, j := range cols {
			lu[i*n+j] = vals[k]
		}
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	pivotFloor := 1e-14 * a.MaxAbs()
	for k := 0; k < n; k++ {
		// Partial pivoting: pick the largest magnitude in column k.
		best, bestVal := k, math.Abs(lu[perm[k]*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(lu[perm[i]*n+k]); v > bestVal {
				best, bestVal = i, v
			}
		}
		if bestVal <= pivotFloor {
			return nil, &ErrSingularCoarseOperator{Pivot: k}
		}
		perm[k], perm[best] = perm[best], perm[k]

		pk := perm[k]
		inv := 1 / lu[pk*n+k]
		for i := k + 1; i < n; i++ {
			pi := perm[i]
			m := lu[pi*n+k] * inv
			lu[pi*n+k] = m
			for j := k + 1; j < n; j++ {
				lu[pi*n+j] -= m * lu[pk*n+j]
			}
		}
	}

	return &denseLUSolver{n: n, lu: lu, perm: perm}, nil
}

type denseLUSolver struct {
	n    int
	lu   []float64
	perm []int
}

// Solve implements CoarseSolver by forward/back substitution. x and b may
// not alias.
func (s *denseLUSolver) Solve(_ backend.Backend, x, b []float64) error {
	n := s.n
	// Forward: L·y = P·b, unit lower triangle.
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[s.perm[i]]
		row := s.lu[s.perm[i]*n:]
		for j := 0; j < i; j++ {
			sum -= row[j] * y[j]
		}
		y[i] = sum
	}
	// Backward: U·x = y.
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		row := s.lu[s.perm[i]*n:]
		for j := i + 1; j < n; j++ {
			sum -= row[j] * x[j]
		}
		x[i] = sum / row[i]
	}
	return nil
}

// CG is an iterative coarse-solver fallback: unpreconditioned conjugate
// gradients run to a tight relative tolerance. Useful when the coarsest
// operator is only positive semi-definite and a direct factorization is
// not wanted.
type CG struct {
	// Tolerance is the relative residual target. <= 0 selects 1e-12.
	Tolerance float64
	// MaxIterations caps the CG loop. <= 0 selects 4n.
	MaxIterations int
}

// NewCG creates a conjugate-gradient coarse-solver factory with defaults.
func NewCG() *CG { return &CG{} }

// Build implements CoarseSolverFactory.
func (c *CG) Build(a *sparse.Matrix) (CoarseSolver, error) {
	tol := c.Tolerance
	if tol <= 0 {
		tol = 1e-12
	}
	maxIter := c.MaxIterations
	if maxIter <= 0 {
		maxIter = 4 * a.Rows()
	}
	return &cgSolver{a: a, tol: tol, maxIter: maxIter}, nil
}

type cgSolver struct {
	a       *sparse.Matrix
	tol     float64
	maxIter int
}

// Solve implements CoarseSolver.
func (s *cgSolver) Solve(be backend.Backend, x, b []float64) error {
	n := s.a.Rows()
	r := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	for i := range x {
		x[i] = 0
	}
	copy(r, b)
	copy(p, b)

	bnorm := be.Norm(b)
	if bnorm == 0 {
		return nil
	}

	rho := be.Dot(r, r)
	for iter := 0; iter < s.maxIter; iter++ {
		if math.Sqrt(rho) <= s.tol*bnorm {
			break
		}
		be.SpMV(ap, s.a, p)
		pap := be.Dot(p, ap)
		if pap <= 0 {
			// Left the positive-definite cone; return the best iterate.
			break
		}
		alpha := rho / pap
		be.Axpy(alpha, p, x)
		be.Axpy(-alpha, ap, r)

		rhoNext := be.Dot(r, r)
		beta := rhoNext / rho
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rho = rhoNext
	}
	return nil
}
