package twise

import (
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/smt"
)

// Sample is a partially (and, after Autocomplete, fully) assigned
// configuration accumulated by the cover loop. Counts always holds the
// multiset view; Slots additionally holds per-slot values in
// InstanceSetMode.
type Sample struct {
	Counts map[string]uint32
	Slots  map[string][]uint32
}

func newSample(mode Mode) *Sample {
	return &Sample{Counts: make(map[string]uint32), Slots: make(map[string][]uint32)}
}

// covers reports whether s already witnesses literal lit: an exact
// count match in MultisetMode, or a matching slot value in
// InstanceSetMode.
func (enc *Encoding) covers(s *Sample, lit Literal) bool {
	if enc.Mode == MultisetMode {
		v, ok := s.Counts[lit.FeatureName]
		return ok && v == lit.Value
	}
	for _, v := range s.Slots[lit.FeatureName] {
		if v == lit.Value {
			return true
		}
	}
	return false
}

// literalSetMultiset builds the multiset-mode literal set by probing
// each feature's domain for maximal contiguous runs of individually
// satisfiable values (§4.6).
func (enc *Encoding) literalSetMultiset() []Literal {
	var out []Literal
	for _, f := range enc.CFM.Features() {
		v := enc.Vars[f.Name]
		domain := enc.Domains[f.Name]
		inRun := false
		for val := domain[0]; val <= domain[1]; val++ {
			enc.Solver.Push()
			enc.Solver.AddLinear(smt.Eq(v, smt.Const(val)))
			ok := enc.Solver.Check()
			enc.Solver.Pop()

			if ok && !inRun {
				inRun = true
				out = append(out, Literal{FeatureName: f.Name, Value: uint32(val)})
			}
			if !ok && inRun {
				inRun = false
				out = append(out, Literal{FeatureName: f.Name, Value: uint32(val - 1)})
			}
		}
		if inRun {
			out = append(out, Literal{FeatureName: f.Name, Value: uint32(domain[1])})
		}
	}
	return out
}

// LiteralSet returns this encoding's literal set for its mode.
func (enc *Encoding) LiteralSet() []Literal {
	if enc.Mode == InstanceSetMode {
		return literalSetInstanceSet(enc.CFM)
	}
	return enc.literalSetMultiset()
}

// literalConstraint builds the solver assertion for lit: a global-count
// equality in MultisetMode, or -- since an instance-set literal's value
// is a per-slot endpoint, not a total -- the disjunction "some one of
// this feature's slots equals lit.Value" in InstanceSetMode, mirroring
// what covers already checks against s.Slots.
func (enc *Encoding) literalConstraint(lit Literal) smt.BoolExpr {
	if enc.Mode == MultisetMode {
		return smt.Eq(enc.Vars[lit.FeatureName], smt.Const(int64(lit.Value)))
	}
	slots := enc.SlotVars[lit.FeatureName]
	disjuncts := make([]smt.BoolExpr, len(slots))
	for i, sv := range slots {
		disjuncts[i] = smt.Eq(sv, smt.Const(int64(lit.Value)))
	}
	return smt.Or(disjuncts...)
}

// sampleConstraints re-asserts everything s already witnesses, mode
// appropriate: global-count equalities from Counts in MultisetMode, or
// one slot-disjunction per previously witnessed value in InstanceSetMode.
func (enc *Encoding) sampleConstraints(s *Sample) []smt.BoolExpr {
	if enc.Mode == MultisetMode {
		out := make([]smt.BoolExpr, 0, len(s.Counts))
		for name, val := range s.Counts {
			out = append(out, smt.Eq(enc.Vars[name], smt.Const(int64(val))))
		}
		return out
	}
	var out []smt.BoolExpr
	for name, values := range s.Slots {
		for _, val := range values {
			out = append(out, enc.literalConstraint(Literal{FeatureName: name, Value: val}))
		}
	}
	return out
}

// feasible checks whether interaction's literal assignments are jointly
// satisfiable under the encoding, without disturbing solver state.
func (enc *Encoding) feasible(interaction Interaction) bool {
	enc.Solver.Push()
	for _, lit := range interaction {
		enc.Solver.AddLinear(enc.literalConstraint(lit))
	}
	ok := enc.Solver.Check()
	enc.Solver.Pop()
	return ok
}

// tryMerge checks whether interaction can be folded into s without
// making s infeasible (its already-known values are re-asserted
// alongside interaction's literals). On success it commits interaction's
// literals into s.
func (enc *Encoding) tryMerge(s *Sample, interaction Interaction) bool {
	enc.Solver.Push()
	for _, c := range enc.sampleConstraints(s) {
		enc.Solver.AddLinear(c)
	}
	for _, lit := range interaction {
		enc.Solver.AddLinear(enc.literalConstraint(lit))
	}
	ok := enc.Solver.Check()
	enc.Solver.Pop()
	if !ok {
		return false
	}
	for _, lit := range interaction {
		if enc.Mode == InstanceSetMode {
			s.Slots[lit.FeatureName] = append(s.Slots[lit.FeatureName], lit.Value)
		} else {
			s.Counts[lit.FeatureName] = lit.Value
		}
	}
	return true
}

// CoverTWise runs §4.6's cover loop for interaction size t: every
// feasible interaction ends up witnessed by some returned Sample, merged
// into an existing one where possible; infeasible interactions are
// silently skipped (§7 treats this as routine, not an error) and
// returned separately so a caller can report what was dropped.
func (enc *Encoding) CoverTWise(t int) (samples []*Sample, infeasible []Interaction, err error) {
	literals := enc.LiteralSet()
	allInteractions := interactions(literals, t)

	for _, interaction := range allInteractions {
		if coveredByAny(enc, samples, interaction) {
			continue
		}
		if !enc.feasible(interaction) {
			infeasible = append(infeasible, interaction)
			continue
		}

		merged := false
		for _, s := range samples {
			if enc.tryMerge(s, interaction) {
				merged = true
				break
			}
		}
		if !merged {
			s := newSample(enc.Mode)
			for _, lit := range interaction {
				if enc.Mode == InstanceSetMode {
					s.Slots[lit.FeatureName] = append(s.Slots[lit.FeatureName], lit.Value)
				} else {
					s.Counts[lit.FeatureName] = lit.Value
				}
			}
			samples = append(samples, s)
		}
	}

	for _, s := range samples {
		if err := enc.autocomplete(s); err != nil {
			return nil, nil, fmt.Errorf("autocomplete: %w", err)
		}
	}

	return samples, infeasible, nil
}

func coveredByAny(enc *Encoding, samples []*Sample, interaction Interaction) bool {
	for _, s := range samples {
		all := true
		for _, lit := range interaction {
			if !enc.covers(s, lit) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// autocomplete pushes a sample's partial assignment and extracts a full
// model, filling in every feature's count so the configuration is
// concretely realizable (§4.6). A cover-loop bug that produced an
// infeasible partial sample surfaces here as an error: by construction
// every merge and every new sample was checked feasible when added.
func (enc *Encoding) autocomplete(s *Sample) error {
	enc.Solver.Push()
	defer enc.Solver.Pop()

	for _, c := range enc.sampleConstraints(s) {
		enc.Solver.AddLinear(c)
	}
	if !enc.Solver.Check() {
		return fmt.Errorf("twise: partial sample %v became infeasible during autocomplete", s.Counts)
	}

	model := enc.Solver.Model()
	for name := range enc.Vars {
		if v, ok := model[name]; ok {
			s.Counts[name] = uint32(v)
		}
	}
	if enc.Mode == InstanceSetMode {
		for name, slotVars := range enc.SlotVars {
			values := make([]uint32, len(slotVars))
			for i := range slotVars {
				key := fmt.Sprintf("%s#%d", name, i)
				values[i] = uint32(model[key])
			}
			s.Slots[name] = values
		}
	}
	return nil
}
