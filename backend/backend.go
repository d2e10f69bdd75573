package backend

import (
	"math"

	"github.com/hupe1980/multigrid/sparse"
)

// Backend executes the dense/sparse kernels the solver core is built on.
// Implementations must be stateless (or internally synchronized) so a single
// Backend can serve concurrent solves.
type Backend interface {
	// SpMV computes dst = a * x.
	SpMV(dst []float64, a *sparse.Matrix, x []float64)

	// SpMVTrans computes dst = aᵀ * x.
	SpMVTrans(dst []float64, a *sparse.Matrix, x []float64)

	// Axpy computes y[i] += alpha * x[i].
	Axpy(alpha float64, x, y []float64)

	// Dot returns the inner product of x and y.
	Dot(x, y []float64) float64

	// Norm returns the Euclidean norm of x.
	Norm(x []float64) float64

	// MatMul computes the sparse-sparse product a * b.
	MatMul(a, b *sparse.Matrix) (*sparse.Matrix, error)

	// Transpose returns aᵀ.
	Transpose(a *sparse.Matrix) *sparse.Matrix
}

// Serial is the reference Backend: plain loops, no goroutines.
type Serial struct{}

// NewSerial returns the serial reference backend.
func NewSerial() *Serial { return &Serial{} }

// SpMV implements Backend.
func (*Serial) SpMV(dst []float64, a *sparse.Matrix, x []float64) {
	a.MulVec(dst, x)
}

// SpMVTrans implements Backend.
func (*Serial) SpMVTrans(dst []float64, a *sparse.Matrix, x []float64) {
	a.MulVecTrans(dst, x)
}

// Axpy implements Backend.
func (*Serial) Axpy(alpha float64, x, y []float64) {
	for i, v := range x {
		y[i] += alpha * v
	}
}

// Dot implements Backend.
func (*Serial) Dot(x, y []float64) float64 {
	var sum float64
	for i, v := range x {
		sum += v * y[i]
	}
	return sum
}

// Norm implements Backend.
func (s *Serial) Norm(x []float64) float64 {
	return math.Sqrt(s.Dot(x, x))
}

// MatMul implements Backend.
func (*Serial) MatMul(a, b *sparse.Matrix) (*sparse.Matrix, error) {
	return a.Mul(b)
}

// Transpose implements Backend.
func (*Serial) Transpose(a *sparse.Matrix) *sparse.Matrix {
	return a.Transpose()
}
