// Package multigrid provides an algebraic multigrid (AMG) solver for large
// sparse symmetric positive-definite systems, such as those assembled from
// Galerkin finite-element discretizations on unstructured meshes.
//
// The solver builds a hierarchy of coarser operators from the fine system
// alone: unknowns are aggregated by strength of connection, prolongation
// operators interpolate coarse corrections back to the fine level, and each
// coarse operator is the Galerkin triple product Pᵗ·A·P. Solves then run
// V- or W-cycles (pre-smooth, restrict, recurse, prolong, post-smooth)
// until the residual meets the tolerance.
//
// Features:
//
//   - Fluent immutable builder for hierarchy and cycle configuration
//   - Pluggable coarsening (plain or smoothed aggregation), smoothing
//     (weighted Jacobi, Gauss–Seidel, colored Gauss–Seidel, Chebyshev)
//     and coarsest-level solve (dense LU, conjugate gradients)
//   - Swappable compute backend; a parallel row-block CPU backend ships
//     with the module
//   - Read-only hierarchy shared safely across concurrent solves, with
//     pooled per-solve scratch buffers
//   - Structured logging via log/slog and a pluggable metrics collector
//
// # Quick Start
//
// Build a solver from an assembled operator and solve:
//
//	A, err := sparse.FromCOO(n, n, entries)
//	if err != nil {
//	    return err
//	}
//
//	s, err := multigrid.AMG(A).
//	    VCycle().
//	    PreSweeps(2).
//	    PostSweeps(2).
//	    Tolerance(1e-8).
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	result, err := s.Solve(b).Execute(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Record.Status, result.Record.Iterations)
//
// The same Solver may serve many right-hand sides concurrently; every
// Execute call gets its own scratch buffers from an internal pool.
package multigrid
