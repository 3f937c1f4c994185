package twise

import "github.com/cfmtoolbox/cfm-core/pkg/model"

// Mode selects the granularity of the t-wise encoding (§4.5).
type Mode int

const (
	// MultisetMode tracks one integer variable per feature name: the
	// configuration's global count for that feature.
	MultisetMode Mode = iota
	// InstanceSetMode additionally tracks per-parent-slot variables
	// "name#i", letting child instances be attributed to a specific
	// parent occurrence.
	InstanceSetMode
)

// Literal is a (feature_name, cardinality_value) pair (§4.6).
type Literal struct {
	FeatureName string
	Value       uint32
}

// Interaction is a set of literals of size t drawn from distinct
// features.
type Interaction []Literal

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

// literalSetInstanceSet builds the instance-set mode literal set: every
// interval endpoint of every feature's instance_cardinality, with no SMT
// probing (§4.6).
func literalSetInstanceSet(cfm *model.CFM) []Literal {
	var out []Literal
	for _, f := range cfm.Features() {
		for _, e := range endpoints(f.InstanceCardinality) {
			out = append(out, Literal{FeatureName: f.Name, Value: e})
		}
	}
	return out
}

// interactions enumerates every size-t subset of literals in which no
// two literals share a feature name.
func interactions(literals []Literal, t int) []Interaction {
	if t <= 0 || t > len(literals) {
		return nil
	}
	var out []Interaction
	combo := make([]Literal, 0, t)
	var rec func(start int)
	rec = func(start int) {
		if len(combo) == t {
			out = append(out, append(Interaction{}, combo...))
			return
		}
		for i := start; i < len(literals); i++ {
			collides := false
			for _, l := range combo {
				if l.FeatureName == literals[i].FeatureName {
					collides = true
					break
				}
			}
			if collides {
				continue
			}
			combo = append(combo, literals[i])
			rec(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	rec(0)
	return out
}
