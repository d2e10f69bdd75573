package backend

import (
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/multigrid/sparse"
)

// parallelCutoff is the vector length below which the parallel backend
// falls back to serial loops. Goroutine fan-out costs more than it saves
// on the small coarse levels of a hierarchy.
const parallelCutoff = 4096

// Parallel is a Backend that partitions kernels into contiguous row blocks
// and runs the blocks on a fixed pool of workers. All calls block until the
// full result is written, so callers observe the same ordering semantics as
// with Serial.
type Parallel struct {
	workers int
	serial  Serial
}

// NewParallel returns a parallel backend with the given worker count.
// workers <= 0 selects GOMAXPROCS.
func NewParallel(workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Parallel{workers: workers}
}

// Workers returns the configured worker count.
func (p *Parallel) Workers() int { return p.workers }

// blocks invokes fn for each of up to p.workers contiguous index ranges
// covering [0, n) and waits for all of them.
func (p *Parallel) blocks(n int, fn func(lo, hi int)) {
	workers := p.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// SpMV implements Backend. Rows are independent, so the product is
// partitioned by row blocks.
func (p *Parallel) SpMV(dst []float64, a *sparse.Matrix, x []float64) {
	if a.Rows() < parallelCutoff {
		p.serial.SpMV(dst, a, x)
		return
	}
	p.blocks(a.Rows(), func(lo, hi int) {
		a.MulVecRange(dst, x, lo, hi)
	})
}

// SpMVTrans implements Backend. The transpose product scatters into shared
// output positions, so it runs serially; the cycle only issues it on the
// restriction step where the output is coarse-level sized anyway.
func (p *Parallel) SpMVTrans(dst []float64, a *sparse.Matrix, x []float64) {
	p.serial.SpMVTrans(dst, a, x)
}

// Axpy implements Backend.
func (p *Parallel) Axpy(alpha float64, x, y []float64) {
	if len(x) < parallelCutoff {
		p.serial.Axpy(alpha, x, y)
		return
	}
	p.blocks(len(x), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			y[i] += alpha * x[i]
		}
	})
}

// Dot implements Backend. Each block reduces into its own partial sum;
// partials are combined in block order so the result is deterministic for a
// fixed worker count.
func (p *Parallel) Dot(x, y []float64) float64 {
	n := len(x)
	if n < parallelCutoff {
		return p.serial.Dot(x, y)
	}

	workers := p.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	partials := make([]float64, (n+chunk-1)/chunk)

	g := new(errgroup.Group)
	for b, lo := 0, 0; lo < n; b, lo = b+1, lo+chunk {
		b, lo := b, lo
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			var sum float64
			for i := lo; i < hi; i++ {
				sum += x[i] * y[i]
			}
			partials[b] = sum
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var sum float64
	for _, s := range partials {
		sum += s
	}
	return sum
}

// Norm implements Backend.
func (p *Parallel) Norm(x []float64) float64 {
	return math.Sqrt(p.Dot(x, x))
}

// MatMul implements Backend. The sparse product runs serially: it is a
// build-time operation executed once per level, not part of the cycle's
// hot path.
func (p *Parallel) MatMul(a, b *sparse.Matrix) (*sparse.Matrix, error) {
	return a.Mul(b)
}

// Transpose implements Backend.
func (p *Parallel) Transpose(a *sparse.Matrix) *sparse.Matrix {
	return a.Transpose()
}
