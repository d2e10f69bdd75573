package smoother

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// coloredParallelCutoff is the color-class size above which rows of one
// color are updated by multiple goroutines.
const coloredParallelCutoff = 2048

// ColoredGaussSeidel is a Factory for Gauss–Seidel smoothers over a greedy
// graph coloring of the operator's adjacency structure. Rows sharing a
// color have no matrix entry coupling them, so all rows of one color can be
// updated concurrently while colors are processed in sequence. The sweep
// order differs from plain forward Gauss–Seidel but the smoothing contract
// is the same.
type ColoredGaussSeidel struct{}

// NewColoredGaussSeidel creates a colored Gauss–Seidel factory.
func NewColoredGaussSeidel() *ColoredGaussSeidel { return &ColoredGaussSeidel{} }

// Build implements Factory. Coloring is greedy in ascending row order and
// therefore deterministic for a fixed operator.
func (*ColoredGaussSeidel) Build(a *sparse.Matrix) (Smoother, error) {
	inv, err := invDiagonal(a)
	if err != nil {
		return nil, err
	}

	n := a.Rows()
	colorOf := make([]int, n)
	for i := range colorOf {
		colorOf[i] = -1
	}

	var colors []*roaring.Bitmap
	var forbidden []bool
	for i := 0; i < n; i++ {
		for len(forbidden) < len(colors) {
			forbidden = append(forbidden, false)
		}
		forbidden = forbidden[:len(colors)]
		for c := range forbidden {
			forbidden[c] = false
		}
		cols, _ := a.Row(i)
		for _, j := range cols {
			if j == i {
				continue
			}
			if c := colorOf[j]; c >= 0 {
				forbidden[c] = true
			}
		}

		color := -1
		for c, used := range forbidden {
			if !used {
				color = c
				break
			}
		}
		if color < 0 {
			color = len(colors)
			colors = append(colors, roaring.New())
		}
		colorOf[i] = color
		colors[color].Add(uint32(i))
	}

	classes := make([][]uint32, len(colors))
	for c, bm := range colors {
		classes[c] = bm.ToArray()
	}

	return &coloredSmoother{a: a, invDiag: inv, classes: classes}, nil
}

type coloredSmoother struct {
	a       *sparse.Matrix
	invDiag []float64
	classes [][]uint32
}

func (s *coloredSmoother) Smooth(_ backend.Backend, x, b, _, _ []float64, sweeps int) {
	for k := 0; k < sweeps; k++ {
		for _, rows := range s.classes {
			if len(rows) < coloredParallelCutoff {
				s.updateRows(rows, x, b)
				continue
			}
			s.updateRowsParallel(rows, x, b)
		}
	}
}

func (s *coloredSmoother) updateRows(rows []uint32, x, b []float64) {
	for _, r := range rows {
		i := int(r)
		cols, vals := s.a.Row(i)
		sum := b[i]
		for kk, j := range cols {
			if j != i {
				sum -= vals[kk] * x[j]
			}
		}
		x[i] = sum * s.invDiag[i]
	}
}

func (s *coloredSmoother) updateRowsParallel(rows []uint32, x, b []float64) {
	workers := 4
	chunk := (len(rows) + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < len(rows); lo += chunk {
		hi := lo + chunk
		if hi > len(rows) {
			hi = len(rows)
		}
		wg.Add(1)
		go func(part []uint32) {
			defer wg.Done()
			s.updateRows(part, x, b)
		}(rows[lo:hi])
	}
	wg.Wait()
}
