// Package model defines the Cardinality-based Feature Model (CFM) data
// structures: intervals, cardinalities, features, cross-tree constraints,
// the CFM itself, and the configuration tree that is validated against it.
//
// Features reference their parent through a back-pointer rather than an
// owning field, so the tree is arena-like: a CFM owns its Feature nodes
// through Root.Children, and Parent is purely a navigation aid. Nothing in
// this package mutates a CFM; bigm.ApplyBigM is the one exception and lives
// in its own package.
package model
