// Package backend defines the compute kernel interface the multigrid cycle
// is written against, plus CPU implementations of it.
//
// Every per-level operation of the cycle (sparse matrix-vector product,
// vector arithmetic, reductions, sparse products during hierarchy build) is
// issued as a blocking call on a Backend. An implementation is free to
// execute a call with any internal parallelism, as long as the call returns
// only once the result is complete: the cycle relies on each call observing
// the fully finished result of the previous one.
//
// Two implementations ship with the package:
//
//   - Serial: straight single-goroutine loops, the reference semantics
//   - Parallel: row-block partitioned kernels fanned out over a fixed
//     number of workers with errgroup
//
// Backends are stateless and safe for concurrent use by multiple solves.
package backend
