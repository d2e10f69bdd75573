package multigrid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/multigrid"
	"github.com/hupe1980/multigrid/cycle"
	"github.com/hupe1980/multigrid/resource"
	"github.com/hupe1980/multigrid/testutil"
)

func TestBuilder_Immutable(t *testing.T) {
	a := testutil.Laplacian1D(64)

	base := multigrid.AMG(a).Tolerance(1e-6)
	tight := base.Tolerance(1e-12)

	sBase, err := base.Build()
	require.NoError(t, err)
	sTight, err := tight.Build()
	require.NoError(t, err)

	b := make([]float64, 64)
	b[0] = 1

	resBase, err := sBase.Solve(b).Execute(context.Background())
	require.NoError(t, err)
	resTight, err := sTight.Solve(b).Execute(context.Background())
	require.NoError(t, err)

	// Deriving tight from base must not have touched base's tolerance.
	assert.Less(t, resBase.Record.Iterations, resTight.Record.Iterations)
}

func TestBuilder_Configurations(t *testing.T) {
	a := testutil.Laplacian2D(16, 16)
	n := a.Rows()

	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i%5) - 2
	}

	tests := []struct {
		name    string
		builder multigrid.Builder
	}{
		{
			name:    "w-cycle",
			builder: multigrid.AMG(a).WCycle().PreSweeps(2).PostSweeps(2),
		},
		{
			name:    "plain aggregation",
			builder: multigrid.AMG(a).PlainAggregation().PreSweeps(2).PostSweeps(2).MaxIterations(400),
		},
		{
			name:    "gauss-seidel",
			builder: multigrid.AMG(a).GaussSeidel(),
		},
		{
			name:    "colored gauss-seidel",
			builder: multigrid.AMG(a).ColoredGaussSeidel(),
		},
		{
			name:    "chebyshev",
			builder: multigrid.AMG(a).Chebyshev().PreSweeps(2).PostSweeps(2),
		},
		{
			name:    "cg coarse solve",
			builder: multigrid.AMG(a).CGCoarse().PreSweeps(2).PostSweeps(2),
		},
		{
			name:    "parallel backend",
			builder: multigrid.AMG(a).Parallel(4).PreSweeps(2).PostSweeps(2),
		},
		{
			name:    "drop tolerance",
			builder: multigrid.AMG(a).DropTolerance(1e-4).PreSweeps(2).PostSweeps(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.builder.Tolerance(1e-8).Build()
			require.NoError(t, err)

			res, err := s.Solve(b).Execute(context.Background())
			require.NoError(t, err)
			assert.Equal(t, cycle.StatusConverged, res.Record.Status)
		})
	}
}

func TestBuilder_MemoryBudget(t *testing.T) {
	a := testutil.Laplacian2D(16, 16)

	_, err := multigrid.AMG(a).
		WithResourceLimits(resource.Config{MemoryLimitBytes: 64}).
		Build()
	require.ErrorIs(t, err, multigrid.ErrMemoryBudget)
}

func TestBuilder_ConcurrencyLimit(t *testing.T) {
	a := testutil.Laplacian1D(64)

	s, err := multigrid.AMG(a).
		WithResourceLimits(resource.Config{MaxConcurrentSolves: 1}).
		Build()
	require.NoError(t, err)
	defer s.Close()

	b := make([]float64, 64)
	b[0] = 1

	// Sequential solves under a concurrency cap of one must both succeed.
	for i := 0; i < 2; i++ {
		res, err := s.Solve(b).Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, cycle.StatusConverged, res.Record.Status)
	}
}

func TestBuilder_Metrics(t *testing.T) {
	a := testutil.Laplacian1D(64)

	mc := &multigrid.BasicMetricsCollector{}
	s, err := multigrid.AMG(a).WithMetrics(mc).Build()
	require.NoError(t, err)

	b := make([]float64, 64)
	b[0] = 1

	_, err = s.Solve(b).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), mc.BuildCount.Load())
	assert.Equal(t, int64(0), mc.BuildErrors.Load())
	assert.Equal(t, int64(1), mc.SolveCount.Load())
	assert.Equal(t, int64(1), mc.SolveConverged.Load())
	assert.Greater(t, mc.SolveIterations.Load(), int64(0))
}

func TestBuilder_StrengthThreshold(t *testing.T) {
	a := testutil.Laplacian2D(24, 24)

	// A stricter threshold admits fewer strong connections, so aggregates
	// stay smaller and the next level larger.
	loose, err := multigrid.AMG(a).StrengthThreshold(0.1).MaxLevels(2).Build()
	require.NoError(t, err)
	strict, err := multigrid.AMG(a).StrengthThreshold(0.9).MaxLevels(2).Build()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, strict.Hierarchy().Level(1).Size(), loose.Hierarchy().Level(1).Size())
}
