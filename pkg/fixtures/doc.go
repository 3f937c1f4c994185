// Package fixtures builds the "Sandwich" CFM used throughout spec.md §8's
// concrete scenarios (S2–S6), shared across pkg/validator, pkg/bigm,
// pkg/sampler, pkg/onewise and pkg/twise tests so every package exercises
// the same worked example the spec documents.
package fixtures
