// Package sparse provides an immutable compressed sparse row (CSR) matrix
// used throughout the multigrid hierarchy.
//
// A Matrix is validated at construction time and never mutated afterwards,
// so a built hierarchy can be shared across concurrent solves without
// locking. Structural operations (Transpose, Mul, DropSmall) always return
// a new Matrix.
//
// # Construction
//
//	A, err := sparse.NewCSR(n, n, rowPtr, colIdx, values)
//	A, err := sparse.FromCOO(n, n, entries)
//	A := sparse.MustCSR(n, n, rowPtr, colIdx, values) // panics on invalid input
//
// # Invariants
//
//   - rowPtr has length rows+1, starts at 0, is monotonically non-decreasing
//     and ends at len(values)
//   - column indices within a row are strictly increasing (unique and sorted)
//   - colIdx and values have equal length
package sparse
