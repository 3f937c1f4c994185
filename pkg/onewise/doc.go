// Package onewise implements one-wise (boundary) coverage sampling
// (spec §4.4): for every feature and every interval endpoint of its
// instance cardinality, emit at least one valid configuration in which
// that feature takes that multiplicity somewhere under its parent.
package onewise
