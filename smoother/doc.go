// Package smoother provides the per-level relaxation operators of the
// multigrid cycle.
//
// A Factory inspects a level operator once at hierarchy-build time and
// returns a Smoother holding whatever precomputed state the relaxation
// needs (inverse diagonal, graph coloring, spectral bounds). Smoothers are
// immutable after construction and safe for concurrent solves; all per-call
// mutable state lives in the caller-provided vectors.
//
// Variants:
//
//   - Jacobi: weighted Jacobi, x ← x + ω·D⁻¹·(b − A·x)
//   - GaussSeidel: forward sweep, sequential in-place update
//   - ColoredGaussSeidel: Gauss–Seidel over greedy graph-coloring classes;
//     rows within one color are mutually independent
//   - Chebyshev: polynomial smoothing over a Gershgorin-estimated
//     eigenvalue interval
//
// A Factory fails at build time with ErrSingularDiagonal if the operator
// has a zero or near-zero diagonal entry; relaxation never silently skips
// such rows.
package smoother
