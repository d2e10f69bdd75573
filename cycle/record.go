package cycle

// Status is the terminal state of one solve.
type Status int

const (
	// StatusConverged means the residual met the tolerance.
	StatusConverged Status = iota

	// StatusMaxIterations means the iteration budget ran out. Non-fatal:
	// the best-effort iterate is still returned.
	StatusMaxIterations

	// StatusDiverged means the residual grew beyond the configured factor
	// for several consecutive iterations.
	StatusDiverged

	// StatusNumericalFailure means NaN or Inf appeared in the residual.
	StatusNumericalFailure

	// StatusCancelled means the caller's context was cancelled between
	// cycles.
	StatusCancelled
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max-iterations"
	case StatusDiverged:
		return "diverged"
	case StatusNumericalFailure:
		return "numerical-failure"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Record is the convergence history of one solve. Residuals[0] is the
// initial residual norm; each full cycle appends one sample.
type Record struct {
	Iterations int
	Residuals  []float64
	Status     Status
}

// FinalResidual returns the last recorded residual norm, or 0 for an empty
// record.
func (r *Record) FinalResidual() float64 {
	if len(r.Residuals) == 0 {
		return 0
	}
	return r.Residuals[len(r.Residuals)-1]
}
