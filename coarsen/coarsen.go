package coarsen

import (
	"fmt"

	"github.com/hupe1980/multigrid/sparse"
)

// Strategy produces a prolongation operator from a fine operator.
// Implementations must be deterministic: identical input yields an
// identical P.
type Strategy interface {
	// Coarsen returns the prolongation P (fine x coarse) and the number of
	// coarse unknowns. It returns ErrDegenerateOperator if the operator has
	// an isolated unknown and ErrCoarseningStalled if no reduction in size
	// was achieved.
	Coarsen(a *sparse.Matrix) (p *sparse.Matrix, coarseSize int, err error)
}

// ErrDegenerateOperator indicates an operator with an isolated unknown
// (a fully empty row). No hierarchy can be built from such an operator.
type ErrDegenerateOperator struct {
	Row int
}

func (e *ErrDegenerateOperator) Error() string {
	return fmt.Sprintf("coarsen: degenerate operator, row %d has no entries", e.Row)
}

// ErrCoarseningStalled indicates that a coarsening pass produced as many
// coarse unknowns as fine ones. The hierarchy builder treats this as the
// natural end of the hierarchy, not as a solver failure.
type ErrCoarseningStalled struct {
	Size int
}

func (e *ErrCoarseningStalled) Error() string {
	return fmt.Sprintf("coarsen: stalled at size %d", e.Size)
}
