// Package coarsen derives coarse unknowns from a fine sparse operator.
//
// The operator is viewed as a weighted graph: unknowns are nodes, nonzero
// off-diagonal entries are edges weighted by magnitude. A Strategy groups
// the nodes into aggregates and emits the prolongation operator P that maps
// each coarse unknown back onto its aggregate.
//
// Aggregation is the default Strategy: a single greedy sweep in ascending
// node order that pulls strongly connected, not-yet-aggregated neighbors
// into the current aggregate. SmoothedAggregation refines the tentative
// piecewise-constant P with one damped Jacobi pass, which typically buys a
// better convergence rate per cycle at the cost of a denser P.
//
// Both strategies are pure functions of the operator structure and their
// configured thresholds: the same input always produces the same aggregate
// assignment and the same P.
package coarsen
