package onewise

import "github.com/cfmtoolbox/cfm-core/pkg/model"

// Assignment pairs a feature name with one interval endpoint of that
// feature's instance cardinality (§4.4).
type Assignment struct {
	FeatureName string
	Endpoint    uint32
}

// computeAssignments returns every (feature_name, endpoint) pair in the
// CFM, in a deterministic order derived from pre-order feature traversal
// and each cardinality's interval order.
func computeAssignments(cfm *model.CFM) []Assignment {
	var out []Assignment
	for _, f := range cfm.Features() {
		for _, e := range endpoints(f.InstanceCardinality) {
			out = append(out, Assignment{FeatureName: f.Name, Endpoint: e})
		}
	}
	return out
}

// endpoints returns every distinct lower and (if finite) upper bound
// across a cardinality's intervals, in interval order.
func endpoints(c model.Cardinality) []uint32 {
	seen := make(map[uint32]bool)
	var out []uint32
	add := func(v uint32) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, interval := range c {
		add(interval.Lower)
		if interval.Upper != nil {
			add(*interval.Upper)
		}
	}
	return out
}

// seedCovered returns a fresh covered-set pre-populated with the root's
// own trivial assignment (root.name, 1). Per §9 Open Question 3 this
// matches the source's seeding of covered_assignments before generation
// begins: the root is never anyone's child, so nothing drawn during
// generation would ever record it otherwise.
func seedCovered(cfm *model.CFM) map[Assignment]bool {
	covered := make(map[Assignment]bool)
	if cfm.Root != nil {
		covered[Assignment{FeatureName: cfm.Root.Name, Endpoint: 1}] = true
	}
	return covered
}
