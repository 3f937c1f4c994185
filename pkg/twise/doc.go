// Package twise implements t-wise interaction coverage sampling (spec
// §4.6): literal set construction, interaction enumeration, a cover loop
// driven by pkg/smt, autocomplete of partial assignments, and conversion
// of a completed multiset model into a configuration tree.
package twise
