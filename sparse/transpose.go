package sparse

// Transpose returns a new Matrix holding mᵀ. The result satisfies the same
// CSR invariants as any constructed Matrix; column indices come out sorted
// because rows are scanned in order.
func (m *Matrix) Transpose() *Matrix {
	rowPtr := make([]int, m.cols+1)
	for _, j := range m.colIdx {
		rowPtr[j+1]++
	}
	for j := 0; j < m.cols; j++ {
		rowPtr[j+1] += rowPtr[j]
	}

	colIdx := make([]int, len(m.colIdx))
	values := make([]float64, len(m.values))
	next := make([]int, m.cols)
	copy(next, rowPtr[:m.cols])
	for i := 0; i < m.rows; i++ {
		start, end := m.rowPtr[i], m.rowPtr[i+1]
		for k := start; k < end; k++ {
			j := m.colIdx[k]
			p := next[j]
			colIdx[p] = i
			values[p] = m.values[k]
			next[j]++
		}
	}

	return &Matrix{rows: m.cols, cols: m.rows, rowPtr: rowPtr, colIdx: colIdx, values: values}
}
