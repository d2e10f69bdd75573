package sparse

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidShape is returned when a constructor receives non-positive
	// or inconsistent dimensions.
	ErrInvalidShape = errors.New("sparse: invalid matrix shape")

	// ErrInvalidStructure is returned when CSR arrays violate the package
	// invariants (see package documentation).
	ErrInvalidStructure = errors.New("sparse: invalid CSR structure")
)

// Matrix is an immutable sparse matrix in compressed sparse row form.
// The zero value is not usable; construct via NewCSR, FromCOO or MustCSR.
type Matrix struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	values     []float64
}

// Entry is a single coordinate-form value used by FromCOO.
type Entry struct {
	Row, Col int
	Val      float64
}

// NewCSR builds a Matrix from raw CSR arrays. The slices are copied, so the
// caller may reuse them afterwards. It validates every structural invariant
// and returns ErrInvalidShape or ErrInvalidStructure on violation.
func NewCSR(rows, cols int, rowPtr, colIdx []int, values []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	if len(rowPtr) != rows+1 {
		return nil, fmt.Errorf("%w: rowPtr length %d, want %d", ErrInvalidStructure, len(rowPtr), rows+1)
	}
	if rowPtr[0] != 0 {
		return nil, fmt.Errorf("%w: rowPtr[0] = %d, want 0", ErrInvalidStructure, rowPtr[0])
	}
	if len(colIdx) != len(values) {
		return nil, fmt.Errorf("%w: colIdx length %d, values length %d", ErrInvalidStructure, len(colIdx), len(values))
	}
	if rowPtr[rows] != len(values) {
		return nil, fmt.Errorf("%w: rowPtr[%d] = %d, want %d", ErrInvalidStructure, rows, rowPtr[rows], len(values))
	}
	for i := 0; i < rows; i++ {
		start, end := rowPtr[i], rowPtr[i+1]
		if end < start {
			return nil, fmt.Errorf("%w: rowPtr decreases at row %d", ErrInvalidStructure, i)
		}
		if start < 0 || end > len(colIdx) {
			return nil, fmt.Errorf("%w: rowPtr out of range at row %d", ErrInvalidStructure, i)
		}
		prev := -1
		for k := start; k < end; k++ {
			j := colIdx[k]
			if j < 0 || j >= cols {
				return nil, fmt.Errorf("%w: column %d out of range in row %d", ErrInvalidStructure, j, i)
			}
			if j <= prev {
				return nil, fmt.Errorf("%w: columns not strictly increasing in row %d", ErrInvalidStructure, i)
			}
			prev = j
		}
	}

	m := &Matrix{
		rows:   rows,
		cols:   cols,
		rowPtr: append([]int(nil), rowPtr...),
		colIdx: append([]int(nil), colIdx...),
		values: append([]float64(nil), values...),
	}
	return m, nil
}

// MustCSR is like NewCSR but panics on invalid input. Intended for tests
// and hand-written fixtures.
func MustCSR(rows, cols int, rowPtr, colIdx []int, values []float64) *Matrix {
	m, err := NewCSR(rows, cols, rowPtr, colIdx, values)
	if err != nil {
		panic(err)
	}
	return m
}

// FromCOO builds a Matrix from coordinate-form entries. Entries may appear
// in any order; duplicates at the same coordinate are summed. Explicit
// zeros that remain after summation are kept (they count as structural
// nonzeros).
func FromCOO(rows, cols int, entries []Entry) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	for _, e := range entries {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("%w: entry (%d,%d) out of range", ErrInvalidStructure, e.Row, e.Col)
		}
	}

	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Row != sorted[b].Row {
			return sorted[a].Row < sorted[b].Row
		}
		return sorted[a].Col < sorted[b].Col
	})

	rowPtr := make([]int, rows+1)
	colIdx := make([]int, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	for k := 0; k < len(sorted); {
		e := sorted[k]
		sum := e.Val
		k++
		for k < len(sorted) && sorted[k].Row == e.Row && sorted[k].Col == e.Col {
			sum += sorted[k].Val
			k++
		}
		colIdx = append(colIdx, e.Col)
		values = append(values, sum)
		rowPtr[e.Row+1]++
	}
	for i := 0; i < rows; i++ {
		rowPtr[i+1] += rowPtr[i]
	}

	return &Matrix{rows: rows, cols: cols, rowPtr: rowPtr, colIdx: colIdx, values: values}, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	rowPtr := make([]int, n+1)
	colIdx := make([]int, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		rowPtr[i+1] = i + 1
		colIdx[i] = i
		values[i] = 1
	}
	return &Matrix{rows: n, cols: n, rowPtr: rowPtr, colIdx: colIdx, values: values}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.values) }

// Row returns read-only views of row i's column indices and values.
// The returned slices alias internal storage and must not be modified.
func (m *Matrix) Row(i int) (cols []int, vals []float64) {
	start, end := m.rowPtr[i], m.rowPtr[i+1]
	return m.colIdx[start:end], m.values[start:end]
}

// At returns the entry at (i, j), or 0 if it is not stored.
func (m *Matrix) At(i, j int) float64 {
	cols, vals := m.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return vals[k]
	}
	return 0
}

// Diagonal writes the main diagonal into dst, which must have length
// min(rows, cols). Missing diagonal entries are written as 0.
func (m *Matrix) Diagonal(dst []float64) {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	for i := 0; i < n; i++ {
		dst[i] = m.At(i, i)
	}
}

// EmptyRow returns the index of the first row with no stored entries,
// or -1 if every row has at least one.
func (m *Matrix) EmptyRow() int {
	for i := 0; i < m.rows; i++ {
		if m.rowPtr[i] == m.rowPtr[i+1] {
			return i
		}
	}
	return -1
}

// MaxAbs returns the largest absolute value of any stored entry, or 0 for
// a matrix with no entries.
func (m *Matrix) MaxAbs() float64 {
	var max float64
	for _, v := range m.values {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

// MulVec computes dst = m * x. dst must have length Rows and x length Cols.
// dst and x must not overlap.
func (m *Matrix) MulVec(dst, x []float64) {
	for i := 0; i < m.rows; i++ {
		start, end := m.rowPtr[i], m.rowPtr[i+1]
		var sum float64
		for k := start; k < end; k++ {
			sum += m.values[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}
}

// MulVecRange computes dst[lo:hi] = (m * x)[lo:hi] for a contiguous row
// range. Used by parallel backends to partition an SpMV by row blocks.
func (m *Matrix) MulVecRange(dst, x []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		start, end := m.rowPtr[i], m.rowPtr[i+1]
		var sum float64
		for k := start; k < end; k++ {
			sum += m.values[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}
}

// MulVecTrans computes dst = mᵀ * x without materializing the transpose.
// dst must have length Cols and x length Rows. dst is overwritten.
func (m *Matrix) MulVecTrans(dst, x []float64) {
	for j := range dst {
		dst[j] = 0
	}
	for i := 0; i < m.rows; i++ {
		start, end := m.rowPtr[i], m.rowPtr[i+1]
		xi := x[i]
		if xi == 0 {
			continue
		}
		for k := start; k < end; k++ {
			dst[m.colIdx[k]] += m.values[k] * xi
		}
	}
}

// HasNonFinite reports whether any stored entry is NaN or infinite.
func (m *Matrix) HasNonFinite() bool {
	for _, v := range m.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// MemoryBytes returns an estimate of the heap memory held by the matrix.
func (m *Matrix) MemoryBytes() int64 {
	const intSize = 8
	return int64(len(m.rowPtr)+len(m.colIdx))*intSize + int64(len(m.values))*8
}
