// Package pool provides a reusable pool of per-solve scratch state.
// Uses sync.Pool so concurrent solves against a shared hierarchy pay the
// buffer allocation cost once, not per solve.
package pool

import (
	"sync"

	"github.com/hupe1980/multigrid/cycle"
	"github.com/hupe1980/multigrid/hierarchy"
)

// SolvePool hands out cycle.State instances sized for one hierarchy.
// Every in-flight solve holds exactly one State; returning it makes the
// buffers available to the next solve.
type SolvePool struct {
	h *hierarchy.Hierarchy
	p sync.Pool
}

// New creates a pool for the given hierarchy.
func New(h *hierarchy.Hierarchy) *SolvePool {
	return &SolvePool{
		h: h,
		p: sync.Pool{
			New: func() any { return cycle.NewState(h) },
		},
	}
}

// Get retrieves a State from the pool, allocating one if none is free.
func (sp *SolvePool) Get() *cycle.State {
	return sp.p.Get().(*cycle.State)
}

// Put returns a State for reuse. States that do not fit the pool's
// hierarchy are dropped.
func (sp *SolvePool) Put(st *cycle.State) {
	if st == nil || !st.Fits(sp.h) {
		return
	}
	sp.p.Put(st)
}
