// Package hierarchy builds and holds the multigrid level structure.
//
// A Hierarchy is an ordered sequence of Levels from finest (index 0) to
// coarsest. Each Level owns its operator A, the prolongation P to the next
// finer representation of the coarse space (absent on the coarsest level),
// the cached restriction R = Pᵗ, and the level's smoother. Level sizes are
// strictly decreasing.
//
// The Builder drives the coarsening loop: coarsen, project, repeat, until
// the coarse size or level count threshold is hit or coarsening stalls.
// A stall truncates the hierarchy; a degenerate fine operator aborts the
// build with no partial result.
//
// After Build returns, the Hierarchy is read-only and may be shared across
// any number of concurrent solves.
package hierarchy
