// Package rng provides deterministic random number generation for the
// samplers in this repository.
//
// # Overview
//
// The RNG type ensures reproducible sampling by deriving stage-specific
// seeds from a master seed. This allows each randomized sampler (random,
// one-wise) to have an independent random sequence while the
// overall run remains deterministic given the same seed and CFM.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: Top-level seed for the whole sampling run
//   - stageName: Sampler identifier (e.g., "random_sampling")
//   - configHash: Hash of the run configuration (spec §6 options)
//
// This ensures:
//  1. Same inputs always produce same RNG sequence (determinism)
//  2. Different samplers get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
// Create an RNG for each sampler invocation:
//
//	configHash := sha256.Sum256([]byte(configJSON))
//	randomRNG := rng.NewRNG(masterSeed, "random_sampling", configHash[:])
//	oneWiseRNG := rng.NewRNG(masterSeed, "one_wise_sampling", configHash[:])
//
// Use the RNG for all random decisions in that sampler:
//
//	groupType := randomRNG.IntRange(lower, upper)
//	if randomRNG.Bool() {
//	    // include an optional child
//	}
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Per spec §5 every sampler call is
// single-threaded anyway; the PRNG is owned by the sampler instance that
// created it and must not be shared across concurrent callers.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Uint64(): ~2ns per call
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// Creating a new RNG costs ~8µs due to SHA-256 computation.
// Reuse RNG instances within a stage for best performance.
package rng
