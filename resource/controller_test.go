package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBudget(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	assert.True(t, c.TryAcquireMemory(40))
	assert.False(t, c.TryAcquireMemory(1), "budget exhausted")

	c.ReleaseMemory(40)
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(30))
}

func TestMemoryTrackingWithoutLimit(t *testing.T) {
	c := NewController(Config{})

	assert.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestSolvePermits(t *testing.T) {
	c := NewController(Config{MaxConcurrentSolves: 2})

	require.NoError(t, c.AcquireSolve(context.Background()))
	assert.True(t, c.TrySolve())
	assert.False(t, c.TrySolve(), "both permits taken")

	c.ReleaseSolve()
	assert.True(t, c.TrySolve())
	c.ReleaseSolve()
	c.ReleaseSolve()
}

func TestAcquireRespectsCancellation(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10, MaxConcurrentSolves: 1})
	require.NoError(t, c.AcquireSolve(context.Background()))
	require.NoError(t, c.AcquireMemory(context.Background(), 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.AcquireSolve(ctx))
	assert.Error(t, c.AcquireMemory(ctx, 1))
}

func TestNilControllerIsUnlimited(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireSolve(context.Background()))
	assert.True(t, c.TrySolve())
	c.ReleaseSolve()
	assert.True(t, c.TryAcquireMemory(1))
	assert.NoError(t, c.AcquireMemory(context.Background(), 1))
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
}
