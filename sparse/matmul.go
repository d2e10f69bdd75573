package sparse

import (
	"fmt"
	"math"
	"sort"
)

// Mul computes the sparse-sparse product m * b using a row-merge (Gustavson)
// sweep with a dense accumulator of length b.Cols per row. Only the result's
// nonzero pattern is materialized; no dense matrix is ever formed.
func (m *Matrix) Mul(b *Matrix) (*Matrix, error) {
	if m.cols != b.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrInvalidShape, m.rows, m.cols, b.rows, b.cols)
	}

	rowPtr := make([]int, m.rows+1)
	var colIdx []int
	var values []float64

	acc := make([]float64, b.cols)
	marker := make([]int, b.cols)
	for j := range marker {
		marker[j] = -1
	}
	pattern := make([]int, 0, 16)

	for i := 0; i < m.rows; i++ {
		pattern = pattern[:0]
		aCols, aVals := m.Row(i)
		for k, j := range aCols {
			av := aVals[k]
			bCols, bVals := b.Row(j)
			for kk, jj := range bCols {
				if marker[jj] != i {
					marker[jj] = i
					acc[jj] = 0
					pattern = append(pattern, jj)
				}
				acc[jj] += av * bVals[kk]
			}
		}
		sort.Ints(pattern)
		for _, jj := range pattern {
			colIdx = append(colIdx, jj)
			values = append(values, acc[jj])
		}
		rowPtr[i+1] = len(values)
	}

	return &Matrix{rows: m.rows, cols: b.cols, rowPtr: rowPtr, colIdx: colIdx, values: values}, nil
}

// DropSmall returns a copy of m with off-diagonal entries whose magnitude
// falls below eps * MaxAbs(m) removed. Diagonal entries are always kept so
// smoother setup never loses the pivot. This bounds fill-in growth across
// Galerkin levels at the cost of a controlled perturbation of the operator.
func (m *Matrix) DropSmall(eps float64) *Matrix {
	if eps <= 0 {
		return m
	}
	cut := eps * m.MaxAbs()
	if cut == 0 {
		return m
	}

	rowPtr := make([]int, m.rows+1)
	colIdx := make([]int, 0, len(m.colIdx))
	values := make([]float64, 0, len(m.values))
	for i := 0; i < m.rows; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			if j != i && math.Abs(vals[k]) < cut {
				continue
			}
			colIdx = append(colIdx, j)
			values = append(values, vals[k])
		}
		rowPtr[i+1] = len(values)
	}

	return &Matrix{rows: m.rows, cols: m.cols, rowPtr: rowPtr, colIdx: colIdx, values: values}
}
