package cycle

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/hierarchy"
)

// Config holds the cycle and convergence parameters. Zero values select the
// defaults noted per field.
type Config struct {
	// Gamma is the number of coarse-level visits per level: 1 is a V-cycle,
	// 2 a W-cycle. Default 1.
	Gamma int

	// PreSweeps and PostSweeps are the smoothing counts before restriction
	// and after prolongation. Defaults 1 and 1.
	PreSweeps  int
	PostSweeps int

	// Tolerance is the relative residual target ‖r‖ ≤ Tolerance·‖b‖.
	// Default 1e-8.
	Tolerance float64

	// AbsoluteTolerance is an absolute residual floor that also counts as
	// convergence. Default 1e-30.
	AbsoluteTolerance float64

	// MaxIterations caps the number of full cycles. Default 100.
	MaxIterations int

	// DivergenceFactor and DivergenceWindow: the solve aborts as diverged
	// once the residual grows by more than DivergenceFactor for
	// DivergenceWindow consecutive cycles. Defaults 2 and 3.
	DivergenceFactor float64
	DivergenceWindow int
}

func (c *Config) normalize() {
	if c.Gamma <= 0 {
		c.Gamma = 1
	}
	if c.PreSweeps <= 0 {
		c.PreSweeps = 1
	}
	if c.PostSweeps <= 0 {
		c.PostSweeps = 1
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-8
	}
	if c.AbsoluteTolerance <= 0 {
		c.AbsoluteTolerance = 1e-30
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 100
	}
	if c.DivergenceFactor <= 1 {
		c.DivergenceFactor = 2
	}
	if c.DivergenceWindow <= 0 {
		c.DivergenceWindow = 3
	}
}

// ErrDiverged is returned when the residual keeps growing.
type ErrDiverged struct {
	Iteration int
	Residual  float64
}

func (e *ErrDiverged) Error() string {
	return fmt.Sprintf("cycle: diverged at iteration %d, residual %g", e.Iteration, e.Residual)
}

// ErrNumericalFailure is returned when the residual turns NaN or Inf.
type ErrNumericalFailure struct {
	Iteration int
}

func (e *ErrNumericalFailure) Error() string {
	return fmt.Sprintf("cycle: non-finite residual at iteration %d", e.Iteration)
}

// Controller drives cycles over one hierarchy. It carries no per-solve
// state and is safe for concurrent use; each concurrent solve needs its
// own State.
type Controller struct {
	h   *hierarchy.Hierarchy
	be  backend.Backend
	cfg Config
}

// New creates a Controller.
func New(h *hierarchy.Hierarchy, be backend.Backend, cfg Config) *Controller {
	cfg.normalize()
	return &Controller{h: h, be: be, cfg: cfg}
}

// State is the per-solve scratch: residual, restricted right-hand side and
// correction buffers for every level, plus smoother scratch. Reused across
// the iterations of one solve; never shared between in-flight solves.
type State struct {
	res [][]float64
	rhs [][]float64
	cor [][]float64
	s1  [][]float64
	s2  [][]float64
}

// NewState allocates scratch sized for h.
func NewState(h *hierarchy.Hierarchy) *State {
	depth := h.Depth()
	st := &State{
		res: make([][]float64, depth),
		rhs: make([][]float64, depth),
		cor: make([][]float64, depth),
		s1:  make([][]float64, depth),
		s2:  make([][]float64, depth),
	}
	for i := 0; i < depth; i++ {
		n := h.Level(i).Size()
		st.res[i] = make([]float64, n)
		st.rhs[i] = make([]float64, n)
		st.cor[i] = make([]float64, n)
		st.s1[i] = make([]float64, n)
		st.s2[i] = make([]float64, n)
	}
	return st
}

// Fits reports whether the state was allocated for a hierarchy of the same
// level sizes as h.
func (st *State) Fits(h *hierarchy.Hierarchy) bool {
	if len(st.res) != h.Depth() {
		return false
	}
	for i := range st.res {
		if len(st.res[i]) != h.Level(i).Size() {
			return false
		}
	}
	return true
}

// Solve iterates full cycles on x until convergence or a terminal state.
// x is the initial guess and is updated in place; b is the right-hand side.
// The returned Record is always non-nil. Fatal terminal states (divergence,
// numerical failure, cancellation) also return an error; MaxIterations does
// not, so callers can accept the best-effort iterate.
func (c *Controller) Solve(ctx context.Context, x, b []float64, st *State) (*Record, error) {
	rec := &Record{}

	bnorm := c.be.Norm(b)
	if math.IsNaN(bnorm) || math.IsInf(bnorm, 0) {
		rec.Status = StatusNumericalFailure
		return rec, &ErrNumericalFailure{Iteration: 0}
	}
	target := c.cfg.Tolerance * bnorm
	if target < c.cfg.AbsoluteTolerance {
		target = c.cfg.AbsoluteTolerance
	}

	rn := c.residualNorm(x, b, st)
	rec.Residuals = append(rec.Residuals, rn)
	if rn <= target {
		rec.Status = StatusConverged
		return rec, nil
	}

	streak := 0
	for iter := 1; iter <= c.cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			rec.Status = StatusCancelled
			return rec, err
		}

		if err := c.runCycle(0, x, b, st); err != nil {
			rec.Status = StatusNumericalFailure
			return rec, err
		}

		prev := rn
		rn = c.residualNorm(x, b, st)
		rec.Iterations = iter
		rec.Residuals = append(rec.Residuals, rn)

		if math.IsNaN(rn) || math.IsInf(rn, 0) {
			rec.Status = StatusNumericalFailure
			return rec, &ErrNumericalFailure{Iteration: iter}
		}
		if rn <= target {
			rec.Status = StatusConverged
			return rec, nil
		}
		if rn > c.cfg.DivergenceFactor*prev {
			streak++
			if streak >= c.cfg.DivergenceWindow {
				rec.Status = StatusDiverged
				return rec, &ErrDiverged{Iteration: iter, Residual: rn}
			}
		} else {
			streak = 0
		}
	}

	rec.Status = StatusMaxIterations
	return rec, nil
}

// residualNorm computes ‖b − A₀·x‖ using the level-0 residual buffer.
func (c *Controller) residualNorm(x, b []float64, st *State) float64 {
	r := st.res[0]
	c.be.SpMV(r, c.h.Level(0).Operator(), x)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	return c.be.Norm(r)
}

// runCycle performs one γ-cycle rooted at lvl. The operation order within
// one invocation is fixed: pre-smooth, residual, restrict, recurse, prolong
// and correct, post-smooth.
func (c *Controller) runCycle(lvl int, x, b []float64, st *State) error {
	if lvl == c.h.Depth()-1 {
		return c.h.CoarseSolver().Solve(c.be, x, b)
	}

	l := c.h.Level(lvl)
	l.Smoother().Smooth(c.be, x, b, st.s1[lvl], st.s2[lvl], c.cfg.PreSweeps)

	// r = b − A·x
	r := st.res[lvl]
	c.be.SpMV(r, l.Operator(), x)
	for i := range r {
		r[i] = b[i] - r[i]
	}

	// Restrict to the coarse right-hand side.
	rhs := st.rhs[lvl+1]
	c.be.SpMV(rhs, l.Restriction(), r)

	// Coarse correction, starting from zero, revisited γ times.
	cor := st.cor[lvl+1]
	for i := range cor {
		cor[i] = 0
	}
	for g := 0; g < c.cfg.Gamma; g++ {
		if err := c.runCycle(lvl+1, cor, rhs, st); err != nil {
			return err
		}
	}

	// x ← x + P·e. The residual buffer is free again at this point.
	c.be.SpMV(r, l.Prolongation(), cor)
	c.be.Axpy(1, r, x)

	l.Smoother().Smooth(c.be, x, b, st.s1[lvl], st.s2[lvl], c.cfg.PostSweeps)
	return nil
}
