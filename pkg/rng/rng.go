package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
)

// RNG provides deterministic random number generation for one sampler
// stage of the CFM pipeline (random sampling or one-wise boundary
// sampling; the t-wise sampler draws no random numbers). Each stage derives its own seed from the
// run's master seed so that:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// with H = SHA-256, keeping stage sequences isolated from each other and
// sensitive to both the master seed and the run configuration. All
// methods are deterministic given the same initial seed, so a sampling
// run is exactly reproducible across invocations with identical inputs.
type RNG struct {
	seed      uint64
	stageName string
	source    *rand.Rand
}

// deriveSeed computes §5's sub-seed formula: SHA-256 over the big-endian
// master seed, the stage name, and the config hash, truncated to the
// first 8 bytes and read back as a big-endian uint64.
func deriveSeed(masterSeed uint64, stageName string, configHash []byte) uint64 {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(stageName))
	h.Write(configHash)

	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// NewRNG creates a stage-specific RNG by deriving a sub-seed from the
// master seed, the stage's name (e.g. "random_sampling",
// "one_wise_sampling"), and a hash of the run configuration, so that
// identical inputs always replay the same draws, distinct stages never
// share a sequence, and a changed configuration perturbs every sequence.
func NewRNG(masterSeed uint64, stageName string, configHash []byte) *RNG {
	seed := deriveSeed(masterSeed, stageName, configHash)
	return &RNG{
		seed:      seed,
		stageName: stageName,
		source:    rand.New(rand.NewSource(int64(seed))),
	}
}

// DrawCardinality picks a uniformly random admissible value from a CFM
// cardinality: a uniformly chosen interval, then a uniform integer
// within it, including zero. cardinality must be finite (every one-wise
// and random-sampling caller runs against a Big-M bounded CFM, per §7).
// Centralizing this draw here -- rather than duplicating it once per
// sampler package -- keeps the "which interval, then which value" two
// step draw consistent across every stage that forces a child's count.
func (r *RNG) DrawCardinality(cardinality model.Cardinality) uint32 {
	if len(cardinality) == 0 {
		return 0
	}
	interval := cardinality[r.Intn(len(cardinality))]
	upper := interval.Lower
	if interval.Upper != nil {
		upper = *interval.Upper
	}
	return uint32(r.IntRange(int(interval.Lower), int(upper)))
}

// Uint64 returns a pseudo-random 64-bit unsigned integer.
// The sequence is deterministic based on the RNG's seed.
func (r *RNG) Uint64() uint64 {
	return r.source.Uint64()
}

// Intn returns a pseudo-random integer in [0, n).
// It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	return r.source.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.source.Float64()
}

// Shuffle pseudo-randomizes the order of elements in slice.
// The shuffle is deterministic based on the RNG's seed.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.source.Shuffle(n, swap)
}

// Seed returns the derived seed for this RNG.
// This is useful for debugging and logging which seed was used for a stage.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// StageName returns the stage name this RNG was created for.
// This is useful for debugging and logging.
func (r *RNG) StageName() string {
	return r.stageName
}

// IntRange returns a pseudo-random integer in [min, max].
// It panics if min > max.
func (r *RNG) IntRange(min, max int) int {
	if min > max {
		panic("rng: IntRange min must be <= max")
	}
	if min == max {
		return min
	}
	return min + r.source.Intn(max-min+1)
}

// Float64Range returns a pseudo-random float64 in [min, max).
// It panics if min >= max.
func (r *RNG) Float64Range(min, max float64) float64 {
	if min >= max {
		panic("rng: Float64Range min must be < max")
	}
	return min + r.source.Float64()*(max-min)
}

// Bool returns a pseudo-random boolean value.
func (r *RNG) Bool() bool {
	return r.source.Intn(2) == 1
}

// WeightedChoice selects an index from weights using weighted random selection.
// Weights must be non-negative. Returns -1 if all weights are zero or weights is empty.
func (r *RNG) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	// Calculate total weight
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}

	if total == 0 {
		return -1
	}

	// Generate random value in [0, total)
	randVal := r.Float64() * total

	// Find the weighted index
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if randVal < cumulative {
			return i
		}
	}

	// Should not reach here, but return last index if we do
	return len(weights) - 1
}
