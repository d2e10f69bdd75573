package smoother

import (
	"math"

	"github.com/hupe1980/multigrid/backend"
	"github.com/hupe1980/multigrid/sparse"
)

// Chebyshev is a Factory for Chebyshev polynomial smoothers. The smoothing
// interval is [lmax/ratio, lmax], with lmax estimated from the Gershgorin
// row-sum bound. Chebyshev smoothing needs no sequential row updates, so
// every sweep is a pair of backend SpMV/vector calls and parallelizes the
// same way the backend does.
type Chebyshev struct {
	ratio float64
}

// NewChebyshev creates a Chebyshev factory. ratio is the lmax/lmin ratio of
// the smoothing interval; ratio <= 1 selects the customary 30.
func NewChebyshev(ratio float64) *Chebyshev {
	if ratio <= 1 {
		ratio = 30
	}
	return &Chebyshev{ratio: ratio}
}

// Build implements Factory.
func (c *Chebyshev) Build(a *sparse.Matrix) (Smoother, error) {
	// The Gershgorin bound needs a usable diagonal as much as Jacobi does.
	if _, err := invDiagonal(a); err != nil {
		return nil, err
	}

	var lmax float64
	for i := 0; i < a.Rows(); i++ {
		_, vals := a.Row(i)
		var sum float64
		for _, v := range vals {
			sum += math.Abs(v)
		}
		if sum > lmax {
			lmax = sum
		}
	}

	return &chebyshevSmoother{
		a:    a,
		lmin: lmax / c.ratio,
		lmax: lmax,
	}, nil
}

type chebyshevSmoother struct {
	a          *sparse.Matrix
	lmin, lmax float64
}

// Smooth runs the standard three-term Chebyshev recurrence over the
// configured interval. s1 holds the residual, s2 the search direction.
func (s *chebyshevSmoother) Smooth(be backend.Backend, x, b, s1, s2 []float64, sweeps int) {
	if sweeps <= 0 {
		return
	}

	theta := (s.lmax + s.lmin) / 2
	delta := (s.lmax - s.lmin) / 2
	sigma := theta / delta
	rho := 1 / sigma

	// r = b - A·x
	be.SpMV(s1, s.a, x)
	for i := range s1 {
		s1[i] = b[i] - s1[i]
	}
	// d = r/θ
	for i := range s2 {
		s2[i] = s1[i] / theta
	}

	for k := 0; k < sweeps; k++ {
		be.Axpy(1, s2, x)
		if k == sweeps-1 {
			break
		}

		// r = b - A·x, refreshed from the updated iterate so the sweep
		// needs no scratch beyond the two vectors the cycle already owns.
		be.SpMV(s1, s.a, x)
		for i := range s1 {
			s1[i] = b[i] - s1[i]
		}

		rhoNext := 1 / (2*sigma - rho)
		for i := range s2 {
			s2[i] = rhoNext*rho*s2[i] + 2*rhoNext/delta*s1[i]
		}
		rho = rhoNext
	}
}
