// Package cycle runs the recursive multigrid cycle over a built hierarchy.
//
// A Controller is read-only and shared: it pairs a hierarchy with cycle
// parameters. All per-solve mutable state (the iterate, residual and
// correction buffers for every level) lives in a State that the caller
// owns, so any number of solves can run concurrently against one
// Controller as long as each brings its own State.
//
// One cycle invocation descends the hierarchy: pre-smooth, restrict the
// residual, recurse γ times (γ=1 is a V-cycle, γ=2 a W-cycle), prolong the
// coarse correction back, post-smooth. The outer Solve loop repeats full
// cycles from the finest level until the residual meets the tolerance, the
// iteration budget runs out, divergence is detected, or a non-finite value
// shows up.
package cycle
