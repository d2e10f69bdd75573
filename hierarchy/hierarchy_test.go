package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/coarsen"
	"github.com/hupe1980/multigrid/sparse"
)

func laplacian1D(n int) *sparse.Matrix {
	var entries []sparse.Entry
	for i := 0; i < n; i++ {
		entries = append(entries, sparse.Entry{Row: i, Col: i, Val: 2})
		if i > 0 {
			entries = append(entries, sparse.Entry{Row: i, Col: i - 1, Val: -1})
		}
		if i < n-1 {
			entries = append(entries, sparse.Entry{Row: i, Col: i + 1, Val: -1})
		}
	}
	m, err := sparse.FromCOO(n, n, entries)
	if err != nil {
		panic(err)
	}
	return m
}

func TestBuildStrictlyDecreasingSizes(t *testing.T) {
	h, err := Build(laplacian1D(128), Config{MinCoarseSize: 4})
	require.NoError(t, err)

	require.Greater(t, h.Depth(), 1)
	for i := 1; i < h.Depth(); i++ {
		assert.Less(t, h.Level(i).Size(), h.Level(i-1).Size())
	}

	coarsest := h.Level(h.Depth() - 1)
	assert.Nil(t, coarsest.Prolongation())
	assert.Nil(t, coarsest.Restriction())
	assert.NotNil(t, h.CoarseSolver())

	for i := 0; i < h.Depth()-1; i++ {
		l := h.Level(i)
		require.NotNil(t, l.Prolongation())
		require.NotNil(t, l.Smoother())
		assert.Equal(t, l.Size(), l.Prolongation().Rows())
		assert.Equal(t, h.Level(i+1).Size(), l.Prolongation().Cols())
		// Cached restriction is exactly the transpose of P.
		assert.Equal(t, l.Prolongation().Cols(), l.Restriction().Rows())
		assert.Equal(t, l.Prolongation().NNZ(), l.Restriction().NNZ())
	}
}

func TestBuildRespectsMaxLevels(t *testing.T) {
	h, err := Build(laplacian1D(256), Config{MinCoarseSize: 1, MaxLevels: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, h.Depth())
}

func TestBuildMinCoarseSizeAboveFineSize(t *testing.T) {
	// No coarsening at all: the hierarchy is the fine level alone.
	h, err := Build(laplacian1D(8), Config{MinCoarseSize: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, h.Depth())
	assert.NotNil(t, h.CoarseSolver())
}

func TestBuildDegenerateOperatorFails(t *testing.T) {
	a := sparse.MustCSR(3, 3, []int{0, 1, 1, 2}, []int{0, 2}, []float64{2, 2})

	h, err := Build(a, Config{})
	assert.Nil(t, h)

	var lvl *ErrLevel
	require.ErrorAs(t, err, &lvl)
	assert.Equal(t, 0, lvl.Level)
	var degen *coarsen.ErrDegenerateOperator
	require.ErrorAs(t, err, &degen)
	assert.Equal(t, 1, degen.Row)
}

func TestBuildStallTruncatesHierarchy(t *testing.T) {
	// Diagonal operator: coarsening stalls immediately, leaving a single
	// level solved directly.
	a := sparse.MustCSR(16, 16, diagPtr(16), diagIdx(16), diagVals(16))

	h, err := Build(a, Config{MinCoarseSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, h.Depth())
}

func TestBuildNonSquareFails(t *testing.T) {
	a, err := sparse.FromCOO(2, 3, []sparse.Entry{{Row: 0, Col: 0, Val: 1}, {Row: 1, Col: 1, Val: 1}})
	require.NoError(t, err)
	_, err = Build(a, Config{})
	assert.Error(t, err)
}

func TestDenseLUSolvesExactly(t *testing.T) {
	a := laplacian1D(8)
	cs, err := NewDenseLU().Build(a)
	require.NoError(t, err)

	be := backend.NewSerial()
	want := []float64{1, -2, 3, 0, 0.5, -1, 2, 4}
	b := make([]float64, 8)
	be.SpMV(b, a, want)

	x := make([]float64, 8)
	require.NoError(t, cs.Solve(be, x, b))
	assert.InDeltaSlice(t, want, x, 1e-10)
}

func TestDenseLUSingular(t *testing.T) {
	// Two identical rows.
	a, err := sparse.FromCOO(2, 2, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 0, Col: 1, Val: 1},
		{Row: 1, Col: 0, Val: 1}, {Row: 1, Col: 1, Val: 1},
	})
	require.NoError(t, err)

	_, err = NewDenseLU().Build(a)
	var singular *ErrSingularCoarseOperator
	assert.ErrorAs(t, err, &singular)
}

func TestCGCoarseSolver(t *testing.T) {
	a := laplacian1D(16)
	cs, err := NewCG().Build(a)
	require.NoError(t, err)

	be := backend.NewSerial()
	want := make([]float64, 16)
	for i := range want {
		want[i] = float64(i) / 3
	}
	b := make([]float64, 16)
	be.SpMV(b, a, want)

	x := make([]float64, 16)
	require.NoError(t, cs.Solve(be, x, b))
	assert.InDeltaSlice(t, want, x, 1e-8)
}

func TestOperatorComplexity(t *testing.T) {
	h, err := Build(laplacian1D(64), Config{MinCoarseSize: 4})
	require.NoError(t, err)
	assert.Greater(t, h.OperatorComplexity(), 1.0)
	assert.Less(t, h.OperatorComplexity(), 3.0)
	assert.Greater(t, h.MemoryBytes(), int64(0))
}

func diagPtr(n int) []int {
	p := make([]int, n+1)
	for i := range p {
		p[i] = i
	}
	return p
}

func diagIdx(n int) []int {
	ix := make([]int, n)
	for i := range ix {
		ix[i] = i
	}
	return ix
}

func diagVals(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i + 1)
	}
	return v
}
