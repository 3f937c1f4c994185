// Package smt provides a small finite-domain constraint solver exposing
// the capability set spec.md §4.5 asks of an SMT backend: declare_int,
// add_linear, push, pop, check, model. No third-party SMT/SAT binding
// appears anywhere in the reference corpus this repository was built
// from (see DESIGN.md), so this package is a bespoke backtracking
// propagator rather than a binding to Z3 or CVC5. Any solver satisfying
// the same interface — including a real SMT binding — could stand in
// for it without the t-wise sampler (pkg/twise) changing.
package smt
