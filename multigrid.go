package multigrid

import (
	"context"
	"time"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/cycle"
	"github.com/hupe1980/multigrid/hierarchy"
	"github.com/hupe1980/multigrid/internal/pool"
	"github.com/hupe1980/multigrid/resource"
)

// Solver is a ready-to-use AMG solver bound to one built hierarchy.
// It is safe for concurrent use: each Execute draws its workspace from a
// pool, so independent goroutines may solve against the same hierarchy.
type Solver struct {
	h       *hierarchy.Hierarchy
	be      backend.Backend
	cfg     cycle.Config
	ctrl    *cycle.Controller
	pool    *pool.SolvePool
	logger  *Logger
	metrics MetricsCollector
	res     *resource.Controller
}

// Hierarchy exposes the built level structure for inspection.
func (s *Solver) Hierarchy() *hierarchy.Hierarchy {
	return s.h
}

// Stats is a snapshot of the built hierarchy.
type Stats struct {
	// Levels is the hierarchy depth including the coarsest level.
	Levels int

	// FineSize is the number of unknowns on the finest level.
	FineSize int

	// CoarseSize is the number of unknowns on the coarsest level.
	CoarseSize int

	// OperatorComplexity is the total stored entries across all level
	// operators divided by the entries of the finest operator.
	OperatorComplexity float64

	// MemoryBytes approximates the hierarchy's resident size.
	MemoryBytes int64
}

// Stats returns a snapshot of the built hierarchy.
func (s *Solver) Stats() Stats {
	return Stats{
		Levels:             s.h.Depth(),
		FineSize:           s.h.FineSize(),
		CoarseSize:         s.h.Level(s.h.Depth() - 1).Size(),
		OperatorComplexity: s.h.OperatorComplexity(),
		MemoryBytes:        s.h.MemoryBytes(),
	}
}

// Close releases the solver's memory reservation, if resource limits were
// configured. The solver must not be used afterwards.
func (s *Solver) Close() {
	if s.res != nil {
		s.res.ReleaseMemory(s.h.MemoryBytes())
	}
}

// Result holds the outcome of a solve.
type Result struct {
	// X is the computed solution.
	X []float64

	// Record traces the residual history and termination status.
	Record *cycle.Record
}

// SolveRequest is an immutable fluent request for a single solve.
// Obtain one from Solver.Solve and run it with Execute.
type SolveRequest struct {
	s   *Solver
	b   []float64
	x0  []float64
	cfg cycle.Config
}

// Solve starts a solve request for the right-hand side b. The request is
// configured fluently and run with Execute:
//
//	res, err := s.Solve(b).Tolerance(1e-10).Execute(ctx)
func (s *Solver) Solve(b []float64) SolveRequest {
	return SolveRequest{s: s, b: b, cfg: s.cfg}
}

// InitialGuess sets the starting iterate. Default: the zero vector.
func (r SolveRequest) InitialGuess(x0 []float64) SolveRequest {
	r.x0 = x0
	return r
}

// Tolerance overrides the solver's relative residual target for this
// request only.
func (r SolveRequest) Tolerance(tol float64) SolveRequest {
	r.cfg.Tolerance = tol
	return r
}

// MaxIterations overrides the solver's cycle cap for this request only.
func (r SolveRequest) MaxIterations(n int) SolveRequest {
	r.cfg.MaxIterations = n
	return r
}

// Execute runs the solve. The returned Result always carries the
// convergence record, also on divergence and numerical failure; the
// solution slice holds the last iterate in those cases.
func (r SolveRequest) Execute(ctx context.Context) (*Result, error) {
	s := r.s

	n := s.h.FineSize()
	if len(r.b) != n {
		return nil, &ErrDimensionMismatch{Expected: n, Actual: len(r.b)}
	}
	if r.x0 != nil && len(r.x0) != n {
		return nil, &ErrDimensionMismatch{Expected: n, Actual: len(r.x0)}
	}

	if s.res != nil {
		if err := s.res.AcquireSolve(ctx); err != nil {
			return nil, err
		}
		defer s.res.ReleaseSolve()
	}

	x := make([]float64, n)
	if r.x0 != nil {
		copy(x, r.x0)
	}

	st := s.pool.Get()
	defer s.pool.Put(st)

	ctrl := s.ctrl
	if r.cfg != s.cfg {
		ctrl = cycle.New(s.h, s.be, r.cfg)
	}

	start := time.Now()
	rec, err := ctrl.Solve(ctx, x, r.b, st)
	duration := time.Since(start)

	err = translateSolveError(err)
	s.logger.LogSolve(ctx, rec, duration, err)
	s.metrics.RecordSolve(rec.Status, rec.Iterations, duration, err)

	return &Result{X: x, Record: rec}, err
}
