package bigm

import "github.com/cfmtoolbox/cfm-core/pkg/model"

// ApplyBigM mutates cfm in place, replacing the infinite upper bound of
// every non-root feature's last instance-cardinality interval and of every
// inner feature's last group-instance-cardinality interval, then returns
// the same CFM for chaining. An infinite upper bound in the root's own
// instance cardinality or in any group-type cardinality is left as it is.
// It preserves the validity of every finite configuration (spec §4.2, §8).
func ApplyBigM(cfm *model.CFM) *model.CFM {
	if cfm == nil || cfm.Root == nil {
		return cfm
	}

	bound := GlobalUpperBound(cfm.Root)
	replaceInfiniteUpperBounds(cfm.Root, bound)

	return cfm
}

// GlobalUpperBound computes the root's maximum-product-path bound: a
// post-order walk where each feature contributes the larger of its own
// instance-cardinality upper bound and that bound multiplied by its best
// child. A feature whose own upper bound is infinite contributes 0,
// deliberately letting other finite siblings dominate the fold (§4.2).
func GlobalUpperBound(feature *model.Feature) uint32 {
	lastUpper := feature.InstanceCardinality.LastUpper()
	if lastUpper == nil {
		return 0
	}

	ownUpper := *lastUpper
	globalUpperBound := ownUpper

	for _, child := range feature.Children {
		if candidate := ownUpper * GlobalUpperBound(child); candidate > globalUpperBound {
			globalUpperBound = candidate
		}
	}

	return globalUpperBound
}

// replaceInfiniteUpperBounds walks feature's children, replacing any
// infinite instance-cardinality upper bound with bound, then (after
// recursing) replacing feature's own infinite group-instance-cardinality
// upper bound with the sum of its children's now-finite instance upper
// bounds.
func replaceInfiniteUpperBounds(feature *model.Feature, bound uint32) {
	for _, child := range feature.Children {
		if len(child.InstanceCardinality) > 0 {
			last := &child.InstanceCardinality[len(child.InstanceCardinality)-1]
			if last.Upper == nil {
				b := bound
				last.Upper = &b
			}
		}
		replaceInfiniteUpperBounds(child, bound)
	}

	if len(feature.Children) == 0 || len(feature.GroupInstanceCardinality) == 0 {
		return
	}

	last := &feature.GroupInstanceCardinality[len(feature.GroupInstanceCardinality)-1]
	if last.Upper != nil {
		return
	}

	var sum uint32
	for _, child := range feature.Children {
		if u := child.InstanceCardinality.LastUpper(); u != nil {
			sum += *u
		}
	}
	last.Upper = &sum
}
