// Package bigm implements the Big-M bounding transform (spec §4.2): it
// mutates a CFM in place, replacing infinite instance-cardinality and
// group-instance-cardinality upper bounds below the root with finite
// ones, without changing the validity of any finite configuration.
// Samplers and the SMT encoder both require a bounded CFM as a
// precondition.
package bigm
