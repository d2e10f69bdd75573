package multigrid

import (
	"errors"
	"fmt"

	"github.com/hupe1980/multigrid/coarsen"
	"github.com/hupe1980/multigrid/cycle"
	"github.com/hupe1980/multigrid/hierarchy"
	"github.com/hupe1980/multigrid/smoother"
)

var (
	// ErrNilOperator is returned when a builder is given no operator.
	ErrNilOperator = errors.New("multigrid: operator must not be nil")

	// ErrMemoryBudget is returned when a hierarchy does not fit the
	// configured memory limit.
	ErrMemoryBudget = errors.New("multigrid: hierarchy exceeds memory budget")
)

// ErrDimensionMismatch indicates a vector whose length does not match the
// fine level's unknown count.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrDegenerateOperator indicates the input operator has an isolated
// unknown and no hierarchy can be built from it.
type ErrDegenerateOperator struct {
	Level int
	Row   int
	cause error
}

func (e *ErrDegenerateOperator) Error() string {
	return fmt.Sprintf("degenerate operator: level %d, row %d has no entries", e.Level, e.Row)
}

func (e *ErrDegenerateOperator) Unwrap() error { return e.cause }

// ErrSingularSmoother indicates a level operator with a zero or near-zero
// diagonal entry, which the configured relaxation cannot handle.
type ErrSingularSmoother struct {
	Level int
	Row   int
	cause error
}

func (e *ErrSingularSmoother) Error() string {
	return fmt.Sprintf("singular smoother: level %d, zero diagonal at row %d", e.Level, e.Row)
}

func (e *ErrSingularSmoother) Unwrap() error { return e.cause }

// ErrSingularCoarseSolve indicates the coarsest operator could not be
// factorized.
type ErrSingularCoarseSolve struct {
	Level int
	cause error
}

func (e *ErrSingularCoarseSolve) Error() string {
	return fmt.Sprintf("singular coarse operator at level %d", e.Level)
}

func (e *ErrSingularCoarseSolve) Unwrap() error { return e.cause }

// ErrDiverged indicates the residual kept growing; the solve was aborted.
type ErrDiverged struct {
	Iteration int
	Residual  float64
	cause     error
}

func (e *ErrDiverged) Error() string {
	return fmt.Sprintf("diverged at iteration %d, residual %g", e.Iteration, e.Residual)
}

func (e *ErrDiverged) Unwrap() error { return e.cause }

// ErrNumericalFailure indicates NaN or Inf contaminated the solve.
type ErrNumericalFailure struct {
	Iteration int
	cause     error
}

func (e *ErrNumericalFailure) Error() string {
	return fmt.Sprintf("numerical failure at iteration %d", e.Iteration)
}

func (e *ErrNumericalFailure) Unwrap() error { return e.cause }

// translateBuildError unifies hierarchy-build failures into facade error
// types carrying the offending level.
func translateBuildError(err error) error {
	if err == nil {
		return nil
	}

	level := -1
	var le *hierarchy.ErrLevel
	if errors.As(err, &le) {
		level = le.Level
	}

	var degen *coarsen.ErrDegenerateOperator
	if errors.As(err, &degen) {
		return &ErrDegenerateOperator{Level: level, Row: degen.Row, cause: err}
	}
	var sing *smoother.ErrSingularDiagonal
	if errors.As(err, &sing) {
		return &ErrSingularSmoother{Level: level, Row: sing.Row, cause: err}
	}
	var coarse *hierarchy.ErrSingularCoarseOperator
	if errors.As(err, &coarse) {
		return &ErrSingularCoarseSolve{Level: level, cause: err}
	}

	return err
}

// translateSolveError unifies cycle failures into facade error types.
func translateSolveError(err error) error {
	if err == nil {
		return nil
	}

	var div *cycle.ErrDiverged
	if errors.As(err, &div) {
		return &ErrDiverged{Iteration: div.Iteration, Residual: div.Residual, cause: err}
	}
	var nf *cycle.ErrNumericalFailure
	if errors.As(err, &nf) {
		return &ErrNumericalFailure{Iteration: nf.Iteration, cause: err}
	}

	return err
}
