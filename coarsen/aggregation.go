package coarsen

import (
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/multigrid/sparse"
)

// Options configures aggregation-based coarsening.
type Options struct {
	// StrengthThreshold is the relative magnitude an off-diagonal entry
	// needs (against the row's largest off-diagonal) to count as a strong
	// connection. Range (0, 1).
	StrengthThreshold float64

	// MaxAggregateSize caps how many fine unknowns one aggregate absorbs.
	MaxAggregateSize int
}

// DefaultOptions holds the aggregation defaults.
var DefaultOptions = Options{
	StrengthThreshold: 0.25,
	MaxAggregateSize:  8,
}

// Aggregation is the greedy strength-of-connection aggregation strategy.
type Aggregation struct {
	opts Options
}

// NewAggregation creates an Aggregation strategy.
func NewAggregation(optFns ...func(o *Options)) *Aggregation {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.StrengthThreshold <= 0 || opts.StrengthThreshold >= 1 {
		opts.StrengthThreshold = DefaultOptions.StrengthThreshold
	}
	if opts.MaxAggregateSize < 2 {
		opts.MaxAggregateSize = DefaultOptions.MaxAggregateSize
	}
	return &Aggregation{opts: opts}
}

// Coarsen implements Strategy.
func (ag *Aggregation) Coarsen(a *sparse.Matrix) (*sparse.Matrix, int, error) {
	assign, coarseSize, err := ag.Aggregates(a)
	if err != nil {
		return nil, 0, err
	}
	p := tentativeProlongation(assign, coarseSize)
	return p, coarseSize, nil
}

// Aggregates returns the aggregate index of every fine unknown and the
// number of aggregates formed. Exposed separately so tests can assert on
// the assignment itself.
func (ag *Aggregation) Aggregates(a *sparse.Matrix) ([]int, int, error) {
	if row := a.EmptyRow(); row >= 0 {
		return nil, 0, &ErrDegenerateOperator{Row: row}
	}

	n := a.Rows()
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	visited := bitset.New(uint(n))

	coarseSize := 0
	for i := 0; i < n; i++ {
		if visited.Test(uint(i)) {
			continue
		}
		agg := coarseSize
		coarseSize++
		assign[i] = agg
		visited.Set(uint(i))
		size := 1

		threshold := ag.opts.StrengthThreshold * maxOffDiag(a, i)
		cols, vals := a.Row(i)
		for k, j := range cols {
			if size >= ag.opts.MaxAggregateSize {
				break
			}
			if j == i || visited.Test(uint(j)) {
				continue
			}
			if math.Abs(vals[k]) < threshold {
				continue
			}
			assign[j] = agg
			visited.Set(uint(j))
			size++
		}
	}

	if coarseSize == n {
		return nil, 0, &ErrCoarseningStalled{Size: n}
	}
	return assign, coarseSize, nil
}

// maxOffDiag returns the largest off-diagonal magnitude in row i.
func maxOffDiag(a *sparse.Matrix, i int) float64 {
	var max float64
	cols, vals := a.Row(i)
	for k, j := range cols {
		if j == i {
			continue
		}
		if v := math.Abs(vals[k]); v > max {
			max = v
		}
	}
	return max
}

// tentativeProlongation builds the piecewise-constant P from an aggregate
// assignment: P[i, assign[i]] = 1.
func tentativeProlongation(assign []int, coarseSize int) *sparse.Matrix {
	n := len(assign)
	rowPtr := make([]int, n+1)
	colIdx := make([]int, n)
	values := make([]float64, n)
	for i, agg := range assign {
		rowPtr[i+1] = i + 1
		colIdx[i] = agg
		values[i] = 1
	}
	return sparse.MustCSR(n, coarseSize, rowPtr, colIdx, values)
}
