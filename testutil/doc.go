// Package testutil provides deterministic helpers for tests and
// benchmarks: a seeded thread-safe random number generator and generators
// for the model operators (1-D/2-D Laplacians, random diagonally dominant
// SPD matrices) the solver is exercised against.
package testutil
