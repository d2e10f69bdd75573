package sparse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tridiag builds the n x n (diag, off) tridiagonal matrix used across tests.
func tridiag(n int, diag, off float64) *Matrix {
	var entries []Entry
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{Row: i, Col: i, Val: diag})
		if i > 0 {
			entries = append(entries, Entry{Row: i, Col: i - 1, Val: off})
		}
		if i < n-1 {
			entries = append(entries, Entry{Row: i, Col: i + 1, Val: off})
		}
	}
	m, err := FromCOO(n, n, entries)
	if err != nil {
		panic(err)
	}
	return m
}

func TestNewCSRValidation(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		rowPtr  []int
		colIdx  []int
		values  []float64
		wantErr error
	}{
		{"Valid", 2, 2, []int{0, 1, 2}, []int{0, 1}, []float64{1, 2}, nil},
		{"ZeroRows", 0, 2, []int{0}, nil, nil, ErrInvalidShape},
		{"BadRowPtrLen", 2, 2, []int{0, 1}, []int{0}, []float64{1}, ErrInvalidStructure},
		{"RowPtrNotZero", 2, 2, []int{1, 1, 2}, []int{0, 1}, []float64{1, 2}, ErrInvalidStructure},
		{"RowPtrDecreasing", 2, 2, []int{0, 2, 1}, []int{0}, []float64{1}, ErrInvalidStructure},
		{"RowPtrBeyondEntries", 2, 2, []int{0, 3, 2}, []int{0, 1}, []float64{1, 2}, ErrInvalidStructure},
		{"ColOutOfRange", 1, 2, []int{0, 1}, []int{2}, []float64{1}, ErrInvalidStructure},
		{"DuplicateCol", 1, 2, []int{0, 2}, []int{1, 1}, []float64{1, 2}, ErrInvalidStructure},
		{"UnsortedCols", 1, 2, []int{0, 2}, []int{1, 0}, []float64{1, 2}, ErrInvalidStructure},
		{"LengthMismatch", 1, 2, []int{0, 1}, []int{0}, []float64{1, 2}, ErrInvalidStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSR(tt.rows, tt.cols, tt.rowPtr, tt.colIdx, tt.values)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFromCOO(t *testing.T) {
	m, err := FromCOO(2, 3, []Entry{
		{Row: 1, Col: 2, Val: 3},
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 0, Val: 1}, // duplicate, summed
		{Row: 1, Col: 0, Val: -1},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3, m.NNZ())
	assert.Equal(t, 2.0, m.At(0, 0))
	assert.Equal(t, -1.0, m.At(1, 0))
	assert.Equal(t, 3.0, m.At(1, 2))
	assert.Equal(t, 0.0, m.At(0, 1))
}

func TestMulVec(t *testing.T) {
	a := tridiag(4, 2, -1)
	x := []float64{1, 2, 3, 4}
	dst := make([]float64, 4)
	a.MulVec(dst, x)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 5}, dst, 1e-14)
}

func TestMulVecTransMatchesExplicitTranspose(t *testing.T) {
	m, err := FromCOO(3, 2, []Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 1, Col: 0, Val: 2},
		{Row: 1, Col: 1, Val: 3}, {Row: 2, Col: 1, Val: -4},
	})
	require.NoError(t, err)

	x := []float64{5, -1, 2}
	got := make([]float64, 2)
	m.MulVecTrans(got, x)

	want := make([]float64, 2)
	m.Transpose().MulVec(want, x)

	assert.InDeltaSlice(t, want, got, 1e-14)
}

func TestTranspose(t *testing.T) {
	m, err := FromCOO(2, 3, []Entry{
		{Row: 0, Col: 1, Val: 2},
		{Row: 0, Col: 2, Val: 3},
		{Row: 1, Col: 0, Val: 4},
	})
	require.NoError(t, err)

	mt := m.Transpose()
	assert.Equal(t, 3, mt.Rows())
	assert.Equal(t, 2, mt.Cols())
	assert.Equal(t, 4.0, mt.At(0, 1))
	assert.Equal(t, 2.0, mt.At(1, 0))
	assert.Equal(t, 3.0, mt.At(2, 0))

	// Double transpose round-trips.
	back := mt.Transpose()
	assert.Equal(t, m.Rows(), back.Rows())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			assert.Equal(t, m.At(i, j), back.At(i, j))
		}
	}
}

func TestMul(t *testing.T) {
	a := tridiag(3, 2, -1)
	i3 := Identity(3)

	prod, err := a.Mul(i3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, a.At(i, j), prod.At(i, j), "entry (%d,%d)", i, j)
		}
	}

	// A*A of the tridiagonal has a known pentadiagonal form.
	sq, err := a.Mul(a)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, sq.At(0, 0), 1e-14)
	assert.InDelta(t, 6.0, sq.At(1, 1), 1e-14)
	assert.InDelta(t, -4.0, sq.At(1, 0), 1e-14)
	assert.InDelta(t, 1.0, sq.At(0, 2), 1e-14)

	_, err = a.Mul(Identity(4))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestDropSmall(t *testing.T) {
	m, err := FromCOO(2, 2, []Entry{
		{Row: 0, Col: 0, Val: 10},
		{Row: 0, Col: 1, Val: 1e-9},
		{Row: 1, Col: 0, Val: 0.5},
		{Row: 1, Col: 1, Val: 1e-12}, // tiny but diagonal, must survive
	})
	require.NoError(t, err)

	d := m.DropSmall(1e-8)
	assert.Equal(t, 3, d.NNZ())
	assert.Equal(t, 0.0, d.At(0, 1))
	assert.Equal(t, 1e-12, d.At(1, 1))
	assert.Equal(t, 0.5, d.At(1, 0))

	// eps <= 0 is a no-op.
	assert.Equal(t, m, m.DropSmall(0))
}

func TestEmptyRowAndNonFinite(t *testing.T) {
	m := MustCSR(3, 3, []int{0, 1, 1, 2}, []int{0, 2}, []float64{1, 2})
	assert.Equal(t, 1, m.EmptyRow())
	assert.Equal(t, -1, tridiag(3, 2, -1).EmptyRow())

	assert.False(t, m.HasNonFinite())
	bad := MustCSR(1, 1, []int{0, 1}, []int{0}, []float64{math.NaN()})
	assert.True(t, bad.HasNonFinite())
}

func TestImmutability(t *testing.T) {
	rowPtr := []int{0, 1}
	colIdx := []int{0}
	values := []float64{7}
	m, err := NewCSR(1, 1, rowPtr, colIdx, values)
	require.NoError(t, err)

	values[0] = 99
	assert.Equal(t, 7.0, m.At(0, 0))
}
