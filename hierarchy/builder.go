package hierarchy

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/coarsen"
	"github.com/hupe1980/multigrid/galerkin"
	"github.com/hupe1980/multigrid/smoother"
	"github.com/hupe1980/multigrid/sparse"
)

// Config controls hierarchy construction. Zero-value fields are replaced
// with the package defaults noted on each field.
type Config struct {
	// MinCoarseSize stops coarsening once a level is at or below this many
	// unknowns. Default 10.
	MinCoarseSize int

	// MaxLevels caps the hierarchy depth. Default 20.
	MaxLevels int

	// DropTolerance is the relative threshold below which Galerkin product
	// entries are discarded. 0 disables dropping.
	DropTolerance float64

	// Strategy picks the coarsening. Default is smoothed aggregation,
	// which buys the usual fast V-cycle convergence; plain aggregation is
	// available for a sparser, cheaper hierarchy.
	Strategy coarsen.Strategy

	// Smoother picks the per-level relaxation. Default smoother.NewJacobi.
	Smoother smoother.Factory

	// CoarseSolver picks the coarsest-level solve. Default NewDenseLU.
	CoarseSolver CoarseSolverFactory

	// Backend executes sparse products during the build. Default Serial.
	Backend backend.Backend

	// Logger receives build progress at debug level. Default discards.
	Logger *slog.Logger
}

func (c *Config) normalize() {
	if c.MinCoarseSize <= 0 {
		c.MinCoarseSize = 10
	}
	if c.MaxLevels <= 0 {
		c.MaxLevels = 20
	}
	if c.Strategy == nil {
		c.Strategy = coarsen.NewSmoothedAggregation(0)
	}
	if c.Smoother == nil {
		c.Smoother = smoother.NewJacobi(0)
	}
	if c.CoarseSolver == nil {
		c.CoarseSolver = NewDenseLU()
	}
	if c.Backend == nil {
		c.Backend = backend.NewSerial()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// ErrLevel wraps a build failure with the level index it occurred on.
type ErrLevel struct {
	Level int
	Err   error
}

func (e *ErrLevel) Error() string {
	return fmt.Sprintf("hierarchy: level %d: %v", e.Level, e.Err)
}

func (e *ErrLevel) Unwrap() error { return e.Err }

// Build constructs a Hierarchy from the fine operator a0. Construction-time
// failures abort with no partial hierarchy; a coarsening stall merely stops
// the level loop and finalizes with the levels built so far.
func Build(a0 *sparse.Matrix, cfg Config) (*Hierarchy, error) {
	cfg.normalize()

	if a0.Rows() != a0.Cols() {
		return nil, fmt.Errorf("hierarchy: operator is %dx%d, want square", a0.Rows(), a0.Cols())
	}
	if row := a0.EmptyRow(); row >= 0 {
		return nil, &ErrLevel{Level: 0, Err: &coarsen.ErrDegenerateOperator{Row: row}}
	}

	levels := []*Level{{a: a0}}
	for len(levels) < cfg.MaxLevels {
		cur := levels[len(levels)-1]
		if cur.Size() <= cfg.MinCoarseSize {
			break
		}

		p, coarseSize, err := cfg.Strategy.Coarsen(cur.a)
		if err != nil {
			var stalled *coarsen.ErrCoarseningStalled
			if errors.As(err, &stalled) {
				cfg.Logger.Debug("coarsening stalled, finalizing hierarchy",
					"level", len(levels)-1, "size", cur.Size())
				break
			}
			return nil, &ErrLevel{Level: len(levels) - 1, Err: err}
		}

		ac, err := galerkin.Project(cfg.Backend, cur.a, p, cfg.DropTolerance)
		if err != nil {
			return nil, &ErrLevel{Level: len(levels) - 1, Err: err}
		}

		cur.p = p
		cur.r = cfg.Backend.Transpose(p)
		levels = append(levels, &Level{a: ac})

		cfg.Logger.Debug("level coarsened",
			"level", len(levels)-2,
			"fine_size", cur.Size(),
			"coarse_size", coarseSize,
			"coarse_nnz", ac.NNZ(),
		)
	}

	// Smoothers for every level above the coarsest.
	for i := 0; i < len(levels)-1; i++ {
		sm, err := cfg.Smoother.Build(levels[i].a)
		if err != nil {
			return nil, &ErrLevel{Level: i, Err: err}
		}
		levels[i].sm = sm
	}
	// A single-level hierarchy still smooths nothing; the coarse solver
	// handles it whole.

	cs, err := cfg.CoarseSolver.Build(levels[len(levels)-1].a)
	if err != nil {
		return nil, &ErrLevel{Level: len(levels) - 1, Err: err}
	}

	h := &Hierarchy{levels: levels, coarseSolver: cs}
	cfg.Logger.Debug("hierarchy built",
		"levels", h.Depth(),
		"fine_size", h.FineSize(),
		"coarse_size", levels[len(levels)-1].Size(),
		"operator_complexity", h.OperatorComplexity(),
	)
	return h, nil
}
