package hierarchy

import (
	"github.com/hupe1980/multigrid/smoother"
	"github.com/hupe1980/multigrid/sparse"
)

// Level is one rung of the hierarchy. Read-only after construction.
type Level struct {
	a  *sparse.Matrix
	p  *sparse.Matrix // nil on the coarsest level
	r  *sparse.Matrix // Pᵗ, cached at build time; nil on the coarsest level
	sm smoother.Smoother
}

// Size returns the number of unknowns on this level.
func (l *Level) Size() int { return l.a.Rows() }

// Operator returns the level operator A.
func (l *Level) Operator() *sparse.Matrix { return l.a }

// Prolongation returns P mapping the next-coarser level's values up to this
// level, or nil on the coarsest level.
func (l *Level) Prolongation() *sparse.Matrix { return l.p }

// Restriction returns R = Pᵗ, or nil on the coarsest level.
func (l *Level) Restriction() *sparse.Matrix { return l.r }

// Smoother returns the level's relaxation operator.
func (l *Level) Smoother() smoother.Smoother { return l.sm }

// Hierarchy is the immutable sequence of levels produced by a Builder.
type Hierarchy struct {
	levels       []*Level
	coarseSolver CoarseSolver
}

// Depth returns the number of levels.
func (h *Hierarchy) Depth() int { return len(h.levels) }

// Level returns the level at index i (0 = finest).
func (h *Hierarchy) Level(i int) *Level { return h.levels[i] }

// FineSize returns the unknown count of the finest level.
func (h *Hierarchy) FineSize() int { return h.levels[0].Size() }

// CoarseSolver returns the solver for the coarsest level.
func (h *Hierarchy) CoarseSolver() CoarseSolver { return h.coarseSolver }

// MemoryBytes estimates the heap held by all level operators and transfer
// operators.
func (h *Hierarchy) MemoryBytes() int64 {
	var total int64
	for _, l := range h.levels {
		total += l.a.MemoryBytes()
		if l.p != nil {
			total += l.p.MemoryBytes() + l.r.MemoryBytes()
		}
	}
	return total
}

// OperatorComplexity is the ratio of total stored entries across all level
// operators to the fine operator's entries. A build-quality diagnostic:
// values near 1 mean cheap cycles, large values mean fill-in got away.
func (h *Hierarchy) OperatorComplexity() float64 {
	total := 0
	for _, l := range h.levels {
		total += l.a.NNZ()
	}
	return float64(total) / float64(h.levels[0].a.NNZ())
}
