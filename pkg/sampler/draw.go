package sampler

import (
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/rng"
)

// drawWithoutZero implements §4.3's draw_without_zero: an initial [0,0]
// interval is dropped, then a uniformly chosen remaining interval yields
// a uniform value in [max(lower,1), upper]. §9 Open Question 2 treats the
// case where no non-zero interval remains as an error rather than
// guessing intent.
func drawWithoutZero(r *rng.RNG, cardinality model.Cardinality) (uint32, error) {
	candidates := cardinality
	if len(candidates) > 0 && candidates[0].Lower == 0 && candidates[0].Upper != nil && *candidates[0].Upper == 0 {
		candidates = candidates[1:]
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("draw_without_zero: cardinality %s has no non-zero interval to draw from", cardinality)
	}

	interval := candidates[r.Intn(len(candidates))]
	lower := interval.Lower
	if lower == 0 {
		lower = 1
	}
	upper := lower
	if interval.Upper != nil {
		upper = *interval.Upper
	}
	if lower > upper {
		return 0, fmt.Errorf("draw_without_zero: interval %s leaves no value >= 1", interval)
	}
	return uint32(r.IntRange(int(lower), int(upper))), nil
}

// biasedDrawWithoutZero is the biased variant of drawWithoutZero (§4.3):
// instead of a uniform pick within the chosen interval, it weights value
// i by i^bias so the draw skews toward the interval's upper bound. A bias
// of 0 behaves exactly like drawWithoutZero.
func biasedDrawWithoutZero(r *rng.RNG, cardinality model.Cardinality, bias uint32) (uint32, error) {
	if bias == 0 {
		return drawWithoutZero(r, cardinality)
	}

	candidates := cardinality
	if len(candidates) > 0 && candidates[0].Lower == 0 && candidates[0].Upper != nil && *candidates[0].Upper == 0 {
		candidates = candidates[1:]
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("draw_without_zero: cardinality %s has no non-zero interval to draw from", cardinality)
	}

	interval := candidates[r.Intn(len(candidates))]
	lower := interval.Lower
	if lower == 0 {
		lower = 1
	}
	upper := lower
	if interval.Upper != nil {
		upper = *interval.Upper
	}
	if lower > upper {
		return 0, fmt.Errorf("draw_without_zero: interval %s leaves no value >= 1", interval)
	}

	span := int(upper-lower) + 1
	weights := make([]float64, span)
	for i := range weights {
		w := float64(lower + uint32(i))
		p := w
		for n := uint32(1); n < bias; n++ {
			p *= w
		}
		weights[i] = p
	}
	choice := r.WeightedChoice(weights)
	return lower + uint32(choice), nil
}
