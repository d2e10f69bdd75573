// Package resource tracks and limits the memory and concurrency footprint
// of hierarchy builds and solves.
//
// Galerkin coarse operators can suffer fill-in growth, so a build may want
// a hard memory budget; and a solver shared by many right-hand sides may
// want a cap on how many solves run at once. A nil *Controller disables
// all limits, so callers never need to branch.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard budget for hierarchy operator storage.
	// If 0, usage is tracked but never enforced.
	MemoryLimitBytes int64

	// MaxConcurrentSolves caps the number of solves running at once.
	// If 0, defaults to 1.
	MaxConcurrentSolves int64
}

// Controller manages memory accounting and solve concurrency.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	solveSem *semaphore.Weighted
}

// NewController creates a controller from cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentSolves <= 0 {
		cfg.MaxConcurrentSolves = 1
	}

	c := &Controller{
		cfg:      cfg,
		solveSem: semaphore.NewWeighted(cfg.MaxConcurrentSolves),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	return c
}

// AcquireMemory reserves bytes against the budget, blocking until the
// reservation fits or ctx is cancelled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}
	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves bytes without blocking. Returns false if the
// budget would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}
	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns a reservation to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireSolve takes a solve permit, blocking until one is free or ctx is
// cancelled.
func (c *Controller) AcquireSolve(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.solveSem.Acquire(ctx, 1)
}

// TrySolve takes a solve permit without blocking.
func (c *Controller) TrySolve() bool {
	if c == nil {
		return true
	}
	return c.solveSem.TryAcquire(1)
}

// ReleaseSolve returns a solve permit.
func (c *Controller) ReleaseSolve() {
	if c == nil {
		return
	}
	c.solveSem.Release(1)
}
