package twise

import (
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/smt"
)

// ToConfigurationTree converts a completed Sample into a configuration
// tree rooted at cfm.Root. InstanceSetMode samples already carry a
// per-slot distribution (enc.SlotVars) and convert directly; MultisetMode
// samples only carry each feature's global count, so distributing that
// count across a parent's several instances falls back to the "legacy
// pure-multiset autocomplete" path §4.6 names: a fresh, narrowly-scoped
// SMT call that finds any valid per-slot split of the parent's children.
func (enc *Encoding) ToConfigurationTree(s *Sample) (*model.ConfigurationNode, error) {
	globalIndex := make(map[string]int)
	return enc.buildNode(s, enc.CFM.Root, globalIndex)
}

func (enc *Encoding) buildNode(s *Sample, f *model.Feature, globalIndex map[string]int) (*model.ConfigurationNode, error) {
	idx := globalIndex[f.Name]
	globalIndex[f.Name] = idx + 1
	node := model.NewConfigurationNode(f.Name, idx)

	if len(f.Children) == 0 {
		return node, nil
	}

	parentCount := int(s.Counts[f.Name])
	if parentCount == 0 {
		return node, nil
	}

	for _, child := range f.Children {
		perSlot, err := enc.distributeAcrossSlots(s, f, child, parentCount)
		if err != nil {
			return nil, fmt.Errorf("distributing %s under %s: %w", child.Name, f.Name, err)
		}
		// This node is parent instance number idx, so it receives only
		// the children distributed to slot idx.
		if idx >= len(perSlot) {
			continue
		}
		for i := 0; i < int(perSlot[idx]); i++ {
			childNode, err := enc.buildNode(s, child, globalIndex)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, childNode)
		}
	}
	return node, nil
}

// distributeAcrossSlots returns, for each of a feature's parentCount
// instances, how many of child to attach under that instance, honoring
// child's own InstanceCardinality per slot and summing to the total
// child count already fixed in s.
func (enc *Encoding) distributeAcrossSlots(s *Sample, parent, child *model.Feature, parentCount int) ([]uint32, error) {
	if enc.Mode == InstanceSetMode {
		if slots, ok := s.Slots[child.Name]; ok && len(slots) >= parentCount {
			return slots[:parentCount], nil
		}
	}

	total := s.Counts[child.Name]
	if even, ok := greedyEvenSplit(total, parentCount, child.InstanceCardinality); ok {
		return even, nil
	}
	return legacyMultisetAutocomplete(total, parentCount, child.InstanceCardinality)
}

// greedyEvenSplit distributes total as evenly as possible across
// parentCount slots, then checks every slot against card. It is the fast
// path; most interval-cardinality splits that arise from an autocompleted
// sample are already balanced enough to satisfy it.
func greedyEvenSplit(total uint32, parentCount int, card model.Cardinality) ([]uint32, bool) {
	if parentCount == 0 {
		return nil, total == 0
	}
	base := total / uint32(parentCount)
	remainder := total % uint32(parentCount)
	out := make([]uint32, parentCount)
	for i := range out {
		out[i] = base
		if uint32(i) < remainder {
			out[i]++
		}
	}
	for _, v := range out {
		if !card.Contains(v) {
			return nil, false
		}
	}
	return out, true
}

// legacyMultisetAutocomplete is the fallback §4.6 calls out by name: when
// the fast even split isn't itself a valid assignment, declare one
// variable per slot in a scratch solver, assert each slot lies within
// card and the slots sum to total, and let search find any satisfying
// split.
func legacyMultisetAutocomplete(total uint32, parentCount int, card model.Cardinality) ([]uint32, error) {
	if parentCount == 0 {
		if total == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("twise: %d instances to place but parent has no occurrences", total)
	}

	solver := smt.NewSolver()
	vars := make([]smt.IntExpr, parentCount)
	for i := 0; i < parentCount; i++ {
		v, err := solver.DeclareInt(fmt.Sprintf("slot%d", i), 0, int64(total))
		if err != nil {
			return nil, err
		}
		vars[i] = v
		solver.AddLinear(inCardinality(v, card, 1))
	}
	solver.AddLinear(smt.Eq(smt.Add(vars...), smt.Const(int64(total))))

	if !solver.Check() {
		return nil, fmt.Errorf("twise: no valid split of %d instances across %d slots under %v", total, parentCount, card)
	}
	witness := solver.Model()
	out := make([]uint32, parentCount)
	for i := 0; i < parentCount; i++ {
		out[i] = uint32(witness[fmt.Sprintf("slot%d", i)])
	}
	return out, nil
}
