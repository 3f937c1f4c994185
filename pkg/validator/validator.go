package validator

import "github.com/cfmtoolbox/cfm-core/pkg/model"

// Validate reports whether config is a structurally valid instantiation
// of cfm and satisfies every cross-tree constraint.
func Validate(config *model.ConfigurationNode, cfm *model.CFM) bool {
	if config == nil || cfm == nil || cfm.Root == nil {
		return false
	}
	if config.FeatureName != cfm.Root.Name {
		return false
	}
	if !validateNode(config, cfm.Root) {
		return false
	}
	return checkConstraints(config, cfm)
}

// validateNode checks that node is a valid instance of feature: its
// children partition correctly against feature's own children, its group
// cardinalities hold, and every partitioned child recursively validates.
func validateNode(node *model.ConfigurationNode, feature *model.Feature) bool {
	if len(feature.Children) == 0 {
		return len(node.Children) == 0
	}

	if !feature.GroupInstanceCardinality.Contains(uint32(len(node.Children))) {
		return false
	}

	groups := partitionChildren(node.Children, feature.Children)

	nonEmpty := 0
	consumed := 0
	for _, g := range groups {
		consumed += len(g)
		if len(g) > 0 {
			nonEmpty++
		}
	}
	if consumed != len(node.Children) {
		return false
	}
	if !feature.GroupTypeCardinality.Contains(uint32(nonEmpty)) {
		return false
	}

	for i, child := range feature.Children {
		group := groups[i]
		if !child.InstanceCardinality.Contains(uint32(len(group))) {
			return false
		}
		for _, instance := range group {
			if instance.FeatureName != child.Name {
				return false
			}
			if !validateNode(instance, child) {
				return false
			}
		}
	}

	return true
}

// partitionChildren performs the single left-to-right greedy pass
// described in spec §4.1: it walks node-children once, matching each
// against the current expected child feature; a name mismatch advances
// to the next expected feature (closing the current group); nodes
// encountered once every expected feature has been passed are left
// unconsumed, which makes validateNode's consumed-versus-raw child count
// check fail.
func partitionChildren(children []*model.ConfigurationNode, childFeatures []*model.Feature) [][]*model.ConfigurationNode {
	groups := make([][]*model.ConfigurationNode, len(childFeatures))
	ci := 0
	for _, node := range children {
		for ci < len(childFeatures) && node.FeatureName != childFeatures[ci].Name {
			ci++
		}
		if ci >= len(childFeatures) {
			break
		}
		groups[ci] = append(groups[ci], node)
	}
	return groups
}

// checkConstraints builds the global feature-name multiset over every
// node in config's tree and evaluates every cross-tree constraint
// against it.
func checkConstraints(config *model.ConfigurationNode, cfm *model.CFM) bool {
	counts := make(map[string]int)
	var walk func(*model.ConfigurationNode)
	walk = func(n *model.ConfigurationNode) {
		counts[n.FeatureName]++
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(config)

	for _, c := range cfm.Constraints {
		antecedent := uint32(counts[c.First.Name])
		if !c.FirstCard.Contains(antecedent) {
			continue // antecedent out of range: constraint does not fire
		}
		consequentHolds := c.SecondCard.Contains(uint32(counts[c.Second.Name]))
		if c.Require {
			if !consequentHolds {
				return false
			}
		} else if consequentHolds {
			return false
		}
	}
	return true
}
