package sampler

import (
	"errors"
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/rng"
	"github.com/cfmtoolbox/cfm-core/pkg/validator"
)

// ErrModelUnbound is returned when sampling is attempted against a CFM
// that still has an infinite upper bound somewhere in the tree (§7).
var ErrModelUnbound = errors.New("Model is unbound. Please apply big-m global bound first.")

// Options configures a random sampling run.
type Options struct {
	// Bias selects the child-instance draw strategy. Zero means uniform;
	// a value n >= 1 weights value i proportional to i^n, skewing draws
	// toward each cardinality's upper bound (§4.3 "biased draw").
	Bias uint32
}

// Sampler draws configurations from a bounded CFM via accept/reject
// (§4.3). The zero value is not usable; construct with NewSampler.
type Sampler struct {
	// maxSampleAttempts bounds the outer accept/reject loop. Termination
	// is probabilistic in the general case (§4.3); this cap turns a
	// pathological CFM into an error instead of an infinite loop.
	maxSampleAttempts int
	// maxChildAttempts bounds the inner retry loop that redraws a
	// feature's children until group_instance_cardinality is satisfied.
	maxChildAttempts int
}

// NewSampler returns a Sampler with attempt caps suited to ordinary CFM
// sizes. The caps are unexported and have no setter, so every Sampler
// built outside this package uses these values.
func NewSampler() *Sampler {
	return &Sampler{maxSampleAttempts: 200, maxChildAttempts: 50}
}

// SampleRandom draws one validated configuration from cfm, retrying
// whole-tree generation until the validator accepts a candidate or the
// attempt cap is reached.
func (s *Sampler) SampleRandom(r *rng.RNG, cfm *model.CFM, opts Options) (*model.ConfigurationNode, error) {
	if cfm == nil || cfm.Root == nil {
		return nil, fmt.Errorf("sampler: cfm has no root")
	}
	if cfm.IsUnbound() {
		return nil, ErrModelUnbound
	}

	var lastErr error
	for attempt := 0; attempt < s.maxSampleAttempts; attempt++ {
		globalCount := make(map[string]int)
		candidate, err := s.generateNode(r, cfm.Root, globalCount, opts)
		if err != nil {
			lastErr = err
			continue
		}
		if validator.Validate(candidate, cfm) {
			return candidate, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("sampler: no valid configuration after %d attempts: %w", s.maxSampleAttempts, lastErr)
	}
	return nil, fmt.Errorf("sampler: no valid configuration after %d attempts", s.maxSampleAttempts)
}

// generateNode emits one ConfigurationNode for feature, using and
// advancing globalCount[feature.Name] for the node's index (§9: the
// counter is threaded through the call stack, never module-level state).
func (s *Sampler) generateNode(r *rng.RNG, feature *model.Feature, globalCount map[string]int, opts Options) (*model.ConfigurationNode, error) {
	index := globalCount[feature.Name]
	globalCount[feature.Name]++
	node := model.NewConfigurationNode(feature.Name, index)

	if len(feature.Children) == 0 {
		return node, nil
	}

	for attempt := 0; attempt < s.maxChildAttempts; attempt++ {
		// Nested generation during a rejected attempt still advances
		// globalCount for every feature it touched; snapshot and restore
		// it so a redraw doesn't leave gaps in the final tree's indices.
		snapshot := cloneCount(globalCount)
		children, total, err := s.tryGenerateChildren(r, feature, globalCount, opts)
		if err != nil {
			return nil, err
		}
		if children != nil && feature.GroupInstanceCardinality.Contains(total) {
			node.Children = children
			return node, nil
		}
		restoreCount(globalCount, snapshot)
	}
	return nil, fmt.Errorf("sampler: could not satisfy %s's group cardinalities after %d attempts", feature.Name, s.maxChildAttempts)
}

// tryGenerateChildren performs one attempt at §4.3's per-feature child
// generation: choose a group_type_cardinality value k, select the
// required children plus k-|required| optional children (uniformly,
// without replacement, in CFM child order), then draw each selected
// child's instance multiplicity and recursively generate its subtrees.
// It returns (nil, 0, nil) when k is unreachable given the required
// count or available optionals, signaling the caller to redraw.
func (s *Sampler) tryGenerateChildren(r *rng.RNG, feature *model.Feature, globalCount map[string]int, opts Options) ([]*model.ConfigurationNode, uint32, error) {
	var required, optional []*model.Feature
	for _, child := range feature.Children {
		if child.IsRequired() {
			required = append(required, child)
		} else {
			optional = append(optional, child)
		}
	}

	k := int(r.DrawCardinality(feature.GroupTypeCardinality))
	if k < len(required) {
		return nil, 0, nil
	}
	numOptional := k - len(required)
	if numOptional > len(optional) {
		return nil, 0, nil
	}

	chosen := chooseWithoutReplacement(r, len(optional), numOptional)
	selected := make(map[*model.Feature]bool, k)
	for _, child := range required {
		selected[child] = true
	}
	for _, idx := range chosen {
		selected[optional[idx]] = true
	}

	children := []*model.ConfigurationNode{}
	var total uint32
	for _, child := range feature.Children {
		if !selected[child] {
			continue
		}
		var multiplicity uint32
		var err error
		if opts.Bias > 0 {
			multiplicity, err = biasedDrawWithoutZero(r, child.InstanceCardinality, opts.Bias)
		} else {
			multiplicity, err = drawWithoutZero(r, child.InstanceCardinality)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("generating %s's children: %w", feature.Name, err)
		}
		total += multiplicity
		for i := uint32(0); i < multiplicity; i++ {
			sub, err := s.generateNode(r, child, globalCount, opts)
			if err != nil {
				return nil, 0, err
			}
			children = append(children, sub)
		}
	}

	return children, total, nil
}

// cloneCount copies a global feature-name counter so a rejected
// generation attempt can be rolled back without disturbing indices
// already committed by an earlier, successful sibling.
func cloneCount(counts map[string]int) map[string]int {
	clone := make(map[string]int, len(counts))
	for k, v := range counts {
		clone[k] = v
	}
	return clone
}

// restoreCount resets counts in place to match snapshot.
func restoreCount(counts, snapshot map[string]int) {
	for k := range counts {
		delete(counts, k)
	}
	for k, v := range snapshot {
		counts[k] = v
	}
}

// chooseWithoutReplacement returns count distinct indices in [0, n),
// in ascending order so that a caller iterating optional features in
// their original (CFM child) order sees the same relative ordering.
func chooseWithoutReplacement(r *rng.RNG, n, count int) []int {
	if count <= 0 || n <= 0 {
		return nil
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	chosen := indices[:count]
	// restore ascending order so the caller's CFM-order walk selects them
	// in the same left-to-right sequence they appear in feature.Children.
	for i := 1; i < len(chosen); i++ {
		for j := i; j > 0 && chosen[j-1] > chosen[j]; j-- {
			chosen[j-1], chosen[j] = chosen[j], chosen[j-1]
		}
	}
	return chosen
}
