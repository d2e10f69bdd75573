package smoother

import (
	"fmt"
	"math"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// Smoother applies a fixed number of relaxation sweeps to x for the system
// A·x = b of one hierarchy level. s1 and s2 are caller-owned scratch
// vectors of the level's size; a Smoother must not retain them.
// Implementations are read-only after construction.
type Smoother interface {
	Smooth(be backend.Backend, x, b, s1, s2 []float64, sweeps int)
}

// Factory builds a Smoother for a level operator, precomputing any state
// the relaxation needs.
type Factory interface {
	Build(a *sparse.Matrix) (Smoother, error)
}

// ErrSingularDiagonal indicates a zero or near-zero diagonal entry, which
// no diagonal-based relaxation can handle.
type ErrSingularDiagonal struct {
	Row int
}

func (e *ErrSingularDiagonal) Error() string {
	return fmt.Sprintf("smoother: singular diagonal at row %d", e.Row)
}

// invDiagonal extracts 1/diag(a), failing on entries that are zero relative
// to the operator's magnitude scale.
func invDiagonal(a *sparse.Matrix) ([]float64, error) {
	n := a.Rows()
	diag := make([]float64, n)
	a.Diagonal(diag)

	floor := 1e-14 * a.MaxAbs()
	inv := make([]float64, n)
	for i, d := range diag {
		if math.Abs(d) <= floor {
			return nil, &ErrSingularDiagonal{Row: i}
		}
		inv[i] = 1 / d
	}
	return inv, nil
}
