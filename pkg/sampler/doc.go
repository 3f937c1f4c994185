// Package sampler implements random sampling of configuration trees from
// a bounded CFM (spec §4.3): accept/reject generation against the
// validator oracle, with optional power-law bias toward each feature's
// upper bound.
package sampler
