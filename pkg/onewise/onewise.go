package onewise

import (
	"errors"
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/rng"
	"github.com/cfmtoolbox/cfm-core/pkg/validator"
)

// ErrModelUnbound mirrors the random sampler's precondition error (§7):
// one-wise sampling also requires every cardinality in the CFM to be
// finite so a child multiplicity can be drawn uniformly.
var ErrModelUnbound = errors.New("Model is unbound. Please apply big-m global bound first.")

// Sampler produces one configuration per still-uncovered endpoint
// assignment until every (feature, endpoint) pair has been witnessed
// (§4.4).
type Sampler struct {
	// maxAttempts bounds generate_valid_sample's inner retry loop.
	maxAttempts int
}

// NewSampler returns a Sampler with an attempt cap suited to ordinary
// CFM sizes.
func NewSampler() *Sampler {
	return &Sampler{maxAttempts: 200}
}

// Sample returns a set of configurations covering every interval
// endpoint of every feature's instance cardinality in cfm. The returned
// slice has at most len(assignments) elements, though in practice far
// fewer: one sample tends to cover many endpoints at once.
func (s *Sampler) Sample(r *rng.RNG, cfm *model.CFM) ([]*model.ConfigurationNode, error) {
	if cfm == nil || cfm.Root == nil {
		return nil, fmt.Errorf("onewise: cfm has no root")
	}
	if cfm.IsUnbound() {
		return nil, ErrModelUnbound
	}

	assignments := computeAssignments(cfm)
	covered := seedCovered(cfm)

	var samples []*model.ConfigurationNode
	for _, chosen := range assignments {
		if covered[chosen] {
			continue
		}
		sample, witnessed, err := s.generateValidSample(r, cfm, chosen)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
		for a := range witnessed {
			covered[a] = true
		}
	}
	return samples, nil
}

// generateValidSample repeats §4.4's forced generation until a candidate
// validates against cfm and its generation-time witness set covers
// chosen. The witness set is built alongside the tree rather than
// reconstructed from it afterward: every child's drawn multiplicity is
// recorded as it is drawn, including multiplicity zero, so an optional
// child forced to zero still counts as witnessing its own (name, 0)
// endpoint.
func (s *Sampler) generateValidSample(r *rng.RNG, cfm *model.CFM, chosen Assignment) (*model.ConfigurationNode, map[Assignment]bool, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		globalCount := make(map[string]int)
		witnessed := seedCovered(cfm)
		candidate := generateForcedNode(r, cfm.Root, globalCount, chosen, witnessed)

		if !validator.Validate(candidate, cfm) {
			continue
		}
		if !witnessed[chosen] {
			continue
		}
		return candidate, witnessed, nil
	}
	return nil, nil, fmt.Errorf("onewise: could not cover %s#%d after %d attempts", chosen.FeatureName, chosen.Endpoint, s.maxAttempts)
}

// generateForcedNode builds one candidate tree for feature: the child
// matching chosen.FeatureName is forced to multiplicity chosen.Endpoint;
// every other child draws uniformly from its own instance cardinality,
// including zero. Every child's drawn multiplicity, forced or not, is
// recorded into witnessed as it is drawn -- matching the source's
// covered_assignments.add((child.name, random_instance_cardinality))
// for every child, not just those that end up present in the tree.
func generateForcedNode(r *rng.RNG, feature *model.Feature, globalCount map[string]int, chosen Assignment, witnessed map[Assignment]bool) *model.ConfigurationNode {
	index := globalCount[feature.Name]
	globalCount[feature.Name]++
	node := model.NewConfigurationNode(feature.Name, index)

	for _, child := range feature.Children {
		var multiplicity uint32
		if child.Name == chosen.FeatureName {
			multiplicity = chosen.Endpoint
		} else {
			multiplicity = r.DrawCardinality(child.InstanceCardinality)
		}
		witnessed[Assignment{FeatureName: child.Name, Endpoint: multiplicity}] = true
		for i := uint32(0); i < multiplicity; i++ {
			node.Children = append(node.Children, generateForcedNode(r, child, globalCount, chosen, witnessed))
		}
	}
	return node
}
