package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/multigrid/sparse"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Intn returns a non-negative pseudo-random number in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniform fills dst with random values in [minVal, maxVal).
// Locks only once per call.
func (r *RNG) FillUniform(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Laplacian1D returns the n x n tridiagonal operator with 2 on the
// diagonal and -1 off it: the 1-D Poisson model problem.
func Laplacian1D(n int) *sparse.Matrix {
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

// Laplacian2D returns the 5-point stencil operator on an nx x ny grid
// (4 on the diagonal, -1 to each grid neighbor), size nx*ny.
func Laplacian2D(nx, ny int) *sparse.Matrix {
	n := nx * ny
	var entries []sparse.Entry
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := y*nx + x
			entries = append(entries, sparse.Entry{Row: i, Col: i, Val: 4})
			if x > 0 {
				entries = append(entries, sparse.Entry{Row: i, Col: i - 1, Val: -1})
			}
			if x < nx-1 {
				entries = append(entries, sparse.Entry{Row: i, Col: i + 1, Val: -1})
			}
			if y > 0 {
				entries = append(entries, sparse.Entry{Row: i, Col: i - nx, Val: -1})
			}
			if y < ny-1 {
				entries = append(entries, sparse.Entry{Row: i, Col: i + nx, Val: -1})
			}
		}
	}
	m, err := sparse.FromCOO(n, n, entries)
	if err != nil {
		panic(err)
	}
	return m
}

// RandomSPD returns a random symmetric diagonally dominant matrix of size
// n with roughly nnzPerRow off-diagonal entries per row. Diagonal dominance
// makes it SPD, so the result is a valid solver input for any seed.
func RandomSPD(rng *RNG, n, nnzPerRow int) *sparse.Matrix {
	type key struct{ i, j int }
	offdiag := make(map[key]float64)
	for i := 0; i < n; i++ {
		for k := 0; k < nnzPerRow; k++ {
			j := rng.Intn(n)
			if j == i {
				continue
			}
			v := -rng.Float64()
			// Symmetrize: store each pair once under (min, max).
			a, b := i, j
			if a > b {
				a, b = b, a
			}
			offdiag[key{a, b}] = v
		}
	}

	rowAbs := make([]float64, n)
	var entries []sparse.Entry
	for k, v := range offdiag {
		entries = append(entries,
			sparse.Entry{Row: k.i, Col: k.j, Val: v},
			sparse.Entry{Row: k.j, Col: k.i, Val: v},
		)
		rowAbs[k.i] += -v
		rowAbs[k.j] += -v
	}
	for i := 0; i < n; i++ {
		entries = append(entries, sparse.Entry{Row: i, Col: i, Val: rowAbs[i] + 1})
	}

	m, err := sparse.FromCOO(n, n, entries)
	if err != nil {
		panic(err)
	}
	return m
}
