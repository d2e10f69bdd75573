// This file implements the fluent builder API for creating and configuring
// solvers. Builders are immutable - each method returns a new builder with
// the updated configuration.
package multigrid

import (
	"context"
	"time"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/coarsen"
	"github.com/hupe1980/multigrid/cycle"
	"github.com/hupe1980/multigrid/hierarchy"
	"github.com/hupe1980/multigrid/internal/pool"
	"github.com/hupe1980/multigrid/resource"
	"github.com/hupe1980/multigrid/smoother"
	"github.com/hupe1980/multigrid/sparse"
)

type coarsenKind int

const (
	coarsenSmoothedAggregation coarsenKind = iota
	coarsenPlainAggregation
)

type smootherKind int

const (
	smootherJacobi smootherKind = iota
	smootherGaussSeidel
	smootherColoredGaussSeidel
	smootherChebyshev
)

type coarseSolveKind int

const (
	coarseDenseLU coarseSolveKind = iota
	coarseCG
)

// AMG creates a new solver builder for the given fine operator.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents
// accidental state sharing.
//
// Example:
//
//	s, err := multigrid.AMG(A).
//	    WCycle().
//	    PreSweeps(2).
//	    PostSweeps(2).
//	    GaussSeidel().
//	    Tolerance(1e-10).
//	    Build()
func AMG(a *sparse.Matrix) Builder {
	return Builder{
		a:                 a,
		gamma:             1,
		preSweeps:         1,
		postSweeps:        1,
		tolerance:         1e-8,
		maxIterations:     100,
		minCoarseSize:     10,
		maxLevels:         20,
		strengthThreshold: coarsen.DefaultOptions.StrengthThreshold,
		maxAggregateSize:  coarsen.DefaultOptions.MaxAggregateSize,
		relaxation:        smoother.DefaultOmega,
	}
}

// Builder is an immutable fluent builder for creating AMG solvers.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	a *sparse.Matrix

	// Cycle parameters.
	gamma         int
	preSweeps     int
	postSweeps    int
	tolerance     float64
	maxIterations int

	// Hierarchy parameters.
	minCoarseSize     int
	maxLevels         int
	dropTolerance     float64
	strengthThreshold float64
	maxAggregateSize  int
	relaxation        float64
	coarsening        coarsenKind
	smoothing         smootherKind
	coarseSolve       coarseSolveKind

	// Ambient collaborators.
	be      backend.Backend
	logger  *Logger
	metrics MetricsCollector
	resCfg  *resource.Config
}

// VCycle selects V-cycles (one coarse visit per level). The default.
func (b Builder) VCycle() Builder {
	b.gamma = 1
	return b
}

// WCycle selects W-cycles (two coarse visits per level). More work per
// cycle, usually fewer cycles.
func (b Builder) WCycle() Builder {
	b.gamma = 2
	return b
}

// PreSweeps sets the smoothing sweeps before restriction. Default: 1.
func (b Builder) PreSweeps(n int) Builder {
	b.preSweeps = n
	return b
}

// PostSweeps sets the smoothing sweeps after prolongation. Default: 1.
func (b Builder) PostSweeps(n int) Builder {
	b.postSweeps = n
	return b
}

// Tolerance sets the relative residual target. Default: 1e-8.
func (b Builder) Tolerance(tol float64) Builder {
	b.tolerance = tol
	return b
}

// MaxIterations caps the number of full cycles per solve. Default: 100.
func (b Builder) MaxIterations(n int) Builder {
	b.maxIterations = n
	return b
}

// MinCoarseSize stops coarsening at or below this many unknowns.
// Default: 10.
func (b Builder) MinCoarseSize(n int) Builder {
	b.minCoarseSize = n
	return b
}

// MaxLevels caps the hierarchy depth. Default: 20.
func (b Builder) MaxLevels(n int) Builder {
	b.maxLevels = n
	return b
}

// StrengthThreshold sets the relative strength-of-connection threshold
// used during aggregation. Default: 0.25.
func (b Builder) StrengthThreshold(theta float64) Builder {
	b.strengthThreshold = theta
	return b
}

// MaxAggregateSize caps how many fine unknowns one aggregate absorbs.
// Default: 8.
func (b Builder) MaxAggregateSize(n int) Builder {
	b.maxAggregateSize = n
	return b
}

// Relaxation sets the damping factor for Jacobi smoothing and tentative
// prolongation smoothing. Default: 2/3.
func (b Builder) Relaxation(omega float64) Builder {
	b.relaxation = omega
	return b
}

// DropTolerance sets the relative threshold below which Galerkin product
// entries are discarded, bounding fill-in growth across levels at the cost
// of a small operator perturbation. Default: 0 (keep everything).
func (b Builder) DropTolerance(eps float64) Builder {
	b.dropTolerance = eps
	return b
}

// SmoothedAggregation selects smoothed-aggregation coarsening. The default.
func (b Builder) SmoothedAggregation() Builder {
	b.coarsening = coarsenSmoothedAggregation
	return b
}

// PlainAggregation selects unsmoothed aggregation: a sparser, cheaper
// hierarchy with a slower convergence rate per cycle.
func (b Builder) PlainAggregation() Builder {
	b.coarsening = coarsenPlainAggregation
	return b
}

// Jacobi selects weighted-Jacobi smoothing. The default.
func (b Builder) Jacobi() Builder {
	b.smoothing = smootherJacobi
	return b
}

// GaussSeidel selects forward Gauss–Seidel smoothing.
func (b Builder) GaussSeidel() Builder {
	b.smoothing = smootherGaussSeidel
	return b
}

// ColoredGaussSeidel selects Gauss–Seidel over graph-coloring classes,
// allowing parallel row updates within each color.
func (b Builder) ColoredGaussSeidel() Builder {
	b.smoothing = smootherColoredGaussSeidel
	return b
}

// Chebyshev selects Chebyshev polynomial smoothing.
func (b Builder) Chebyshev() Builder {
	b.smoothing = smootherChebyshev
	return b
}

// DenseLUCoarse selects a dense LU factorization for the coarsest level.
// The default.
func (b Builder) DenseLUCoarse() Builder {
	b.coarseSolve = coarseDenseLU
	return b
}

// CGCoarse selects a conjugate-gradient solve for the coarsest level,
// useful when the coarsest operator is only positive semi-definite.
func (b Builder) CGCoarse() Builder {
	b.coarseSolve = coarseCG
	return b
}

// WithBackend sets the compute backend. Default: backend.NewSerial().
func (b Builder) WithBackend(be backend.Backend) Builder {
	b.be = be
	return b
}

// Parallel selects the row-block parallel CPU backend with the given
// worker count (0 = GOMAXPROCS).
func (b Builder) Parallel(workers int) Builder {
	b.be = backend.NewParallel(workers)
	return b
}

// WithLogger sets the logger. Default: NoopLogger().
func (b Builder) WithLogger(l *Logger) Builder {
	b.logger = l
	return b
}

// WithMetrics sets the metrics collector. Default: NoopMetricsCollector.
func (b Builder) WithMetrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// WithResourceLimits enables resource control: a memory budget the built
// hierarchy must fit and a cap on concurrent solves.
func (b Builder) WithResourceLimits(cfg resource.Config) Builder {
	b.resCfg = &cfg
	return b
}

// Build constructs the hierarchy and returns a ready Solver.
// Construction-time failures (degenerate operator, singular smoother or
// coarse factorization) abort with no partial result.
func (b Builder) Build() (*Solver, error) {
	if b.a == nil {
		return nil, ErrNilOperator
	}

	logger := b.logger
	if logger == nil {
		logger = NoopLogger()
	}
	metrics := b.metrics
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	be := b.be
	if be == nil {
		be = backend.NewSerial()
	}

	var strategy coarsen.Strategy
	aggOpts := func(o *coarsen.Options) {
		o.StrengthThreshold = b.strengthThreshold
		o.MaxAggregateSize = b.maxAggregateSize
	}
	switch b.coarsening {
	case coarsenPlainAggregation:
		strategy = coarsen.NewAggregation(aggOpts)
	default:
		strategy = coarsen.NewSmoothedAggregation(b.relaxation, aggOpts)
	}

	var smFactory smoother.Factory
	switch b.smoothing {
	case smootherGaussSeidel:
		smFactory = smoother.NewGaussSeidel()
	case smootherColoredGaussSeidel:
		smFactory = smoother.NewColoredGaussSeidel()
	case smootherChebyshev:
		smFactory = smoother.NewChebyshev(0)
	default:
		smFactory = smoother.NewJacobi(b.relaxation)
	}

	var coarseFactory hierarchy.CoarseSolverFactory
	switch b.coarseSolve {
	case coarseCG:
		coarseFactory = hierarchy.NewCG()
	default:
		coarseFactory = hierarchy.NewDenseLU()
	}

	var res *resource.Controller
	if b.resCfg != nil {
		res = resource.NewController(*b.resCfg)
	}

	start := time.Now()
	h, err := hierarchy.Build(b.a, hierarchy.Config{
		MinCoarseSize: b.minCoarseSize,
		MaxLevels:     b.maxLevels,
		DropTolerance: b.dropTolerance,
		Strategy:      strategy,
		Smoother:      smFactory,
		CoarseSolver:  coarseFactory,
		Backend:       be,
		Logger:        logger.Logger,
	})
	duration := time.Since(start)
	if err != nil {
		err = translateBuildError(err)
		logger.LogBuild(context.Background(), 0, b.a.Rows(), duration, err)
		metrics.RecordBuild(0, duration, err)
		return nil, err
	}

	if res != nil && !res.TryAcquireMemory(h.MemoryBytes()) {
		metrics.RecordBuild(0, duration, ErrMemoryBudget)
		return nil, ErrMemoryBudget
	}

	logger.LogBuild(context.Background(), h.Depth(), h.FineSize(), duration, nil)
	metrics.RecordBuild(h.Depth(), duration, nil)

	cfg := cycle.Config{
		Gamma:         b.gamma,
		PreSweeps:     b.preSweeps,
		PostSweeps:    b.postSweeps,
		Tolerance:     b.tolerance,
		MaxIterations: b.maxIterations,
	}

	return &Solver{
		h:       h,
		be:      be,
		cfg:     cfg,
		ctrl:    cycle.New(h, be, cfg),
		pool:    pool.New(h),
		logger:  logger,
		metrics: metrics,
		res:     res,
	}, nil
}
