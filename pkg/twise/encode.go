package twise

import (
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/smt"
)

// Encoding is a CFM translated into integer-arithmetic assertions over
// an smt.Solver (§4.5), plus the bookkeeping the t-wise sampler needs to
// probe and merge literals.
type Encoding struct {
	Mode   Mode
	Solver *smt.Solver
	CFM    *model.CFM

	// Vars maps each feature name to its global-count variable.
	Vars map[string]smt.IntExpr
	// Domains records each variable's declared [lower, upper] bound.
	Domains map[string][2]int64
	// SlotVars maps each feature name to its per-parent-slot variables
	// (InstanceSetMode only).
	SlotVars map[string][]smt.IntExpr
}

// pathFactors computes, for every feature, the product of its ancestors'
// instance-cardinality upper bounds (root's own factor is 1), matching
// §4.5's "parent factor p_f".
func pathFactors(cfm *model.CFM) map[string]uint64 {
	factors := make(map[string]uint64)
	var walk func(f *model.Feature, factor uint64)
	walk = func(f *model.Feature, factor uint64) {
		factors[f.Name] = factor
		upper := instanceUpper(f)
		for _, child := range f.Children {
			walk(child, factor*uint64(upper))
		}
	}
	if cfm.Root != nil {
		walk(cfm.Root, 1)
	}
	return factors
}

// instanceUpper returns a feature's instance-cardinality upper bound,
// assuming the CFM has already been Big-M bounded (pkg/bigm) so every
// last interval has a finite upper.
func instanceUpper(f *model.Feature) uint32 {
	if u := f.InstanceCardinality.LastUpper(); u != nil {
		return *u
	}
	return 0
}

// inCardinality builds the disjunction "value lies within one of card's
// intervals", scaled by scale (a constant factor for per-feature
// instance-cardinality assertions, or the literal 1 for the unscaled
// global-count comparisons §4.5's constraint encoding uses).
func inCardinality(value smt.IntExpr, card model.Cardinality, scale uint64) smt.BoolExpr {
	disjuncts := make([]smt.BoolExpr, 0, len(card))
	for _, iv := range card {
		lower := int64(uint64(iv.Lower) * scale)
		upper := lower
		if iv.Upper != nil {
			upper = int64(uint64(*iv.Upper) * scale)
		}
		disjuncts = append(disjuncts, smt.InRange(value, lower, upper))
	}
	if len(disjuncts) == 0 {
		return smt.Eq(smt.Const(0), smt.Const(1)) // empty cardinality accepts nothing
	}
	return smt.Or(disjuncts...)
}

// inScaledCardinality builds the disjunction "value lies within one of
// card's intervals, each scaled by the (variable) factor", matching the
// group_instance/group_type assertions of §4.5, which scale by a
// feature's own count variable or its presence indicator rather than a
// constant.
func inScaledCardinality(value smt.IntExpr, card model.Cardinality, factor smt.IntExpr) smt.BoolExpr {
	disjuncts := make([]smt.BoolExpr, 0, len(card))
	for _, iv := range card {
		low := smt.Mul(smt.Const(int64(iv.Lower)), factor)
		var high smt.IntExpr
		if iv.Upper != nil {
			high = smt.Mul(smt.Const(int64(*iv.Upper)), factor)
		} else {
			high = smt.Mul(smt.Const(int64(^uint32(0))), factor)
		}
		disjuncts = append(disjuncts, smt.And(smt.Ge(value, low), smt.Le(value, high)))
	}
	if len(disjuncts) == 0 {
		return smt.Eq(smt.Const(0), smt.Const(1))
	}
	return smt.Or(disjuncts...)
}

// Encode translates cfm into an Encoding in the given mode. cfm must
// already be Big-M bounded (pkg/bigm); Encode returns an error if any
// instance cardinality still has an infinite upper bound, matching
// §4.5's up-front finiteness check.
func Encode(cfm *model.CFM, mode Mode) (*Encoding, error) {
	if cfm == nil || cfm.Root == nil {
		return nil, fmt.Errorf("twise: cfm has no root")
	}
	if cfm.IsUnbound() {
		return nil, fmt.Errorf("twise: cfm must be Big-M bounded before SMT encoding")
	}

	enc := &Encoding{
		Mode:     mode,
		Solver:   smt.NewSolver(),
		CFM:      cfm,
		Vars:     make(map[string]smt.IntExpr),
		Domains:  make(map[string][2]int64),
		SlotVars: make(map[string][]smt.IntExpr),
	}

	factors := pathFactors(cfm)
	features := cfm.Features()

	for _, f := range features {
		maxCount := int64(factors[f.Name]) * int64(instanceUpper(f))
		v, err := enc.Solver.DeclareInt(f.Name, 0, maxCount)
		if err != nil {
			return nil, fmt.Errorf("declaring %s: %w", f.Name, err)
		}
		enc.Vars[f.Name] = v
		enc.Domains[f.Name] = [2]int64{0, maxCount}
	}

	for _, f := range features {
		v := enc.Vars[f.Name]
		enc.Solver.AddLinear(inCardinality(v, f.InstanceCardinality, uint64(factors[f.Name])))

		if len(f.Children) == 0 {
			continue
		}

		childTerms := make([]smt.IntExpr, 0, len(f.Children))
		presentTerms := make([]smt.IntExpr, 0, len(f.Children))
		for _, child := range f.Children {
			cv := enc.Vars[child.Name]
			childTerms = append(childTerms, cv)
			presentTerms = append(presentTerms, smt.If(smt.Gt(cv, smt.Const(0)), smt.Const(1), smt.Const(0)))
		}
		childSum := smt.Add(childTerms...)
		enc.Solver.AddLinear(inScaledCardinality(childSum, f.GroupInstanceCardinality, v))

		presentCount := smt.Add(presentTerms...)
		indicator := smt.If(smt.Gt(v, smt.Const(0)), smt.Const(1), smt.Const(0))
		enc.Solver.AddLinear(inScaledCardinality(presentCount, f.GroupTypeCardinality, indicator))
	}

	if mode == InstanceSetMode {
		for _, f := range features {
			if f.Parent == nil {
				continue // root has no parent slot to guard
			}
			slots := maxParentSlots(factors, f)
			parentVar := enc.Vars[f.Parent.Name]
			vars := make([]smt.IntExpr, 0, slots)
			for i := 0; i < slots; i++ {
				name := fmt.Sprintf("%s#%d", f.Name, i)
				sv, err := enc.Solver.DeclareInt(name, 0, int64(instanceUpper(f)))
				if err != nil {
					return nil, fmt.Errorf("declaring slot %s: %w", name, err)
				}
				active := smt.Gt(parentVar, smt.Const(int64(i)))
				enc.Solver.AddLinear(smt.Implies(active, inCardinality(sv, f.InstanceCardinality, 1)))
				enc.Solver.AddLinear(smt.Implies(smt.Not(active), smt.Eq(sv, smt.Const(0))))
				vars = append(vars, sv)
			}
			enc.Solver.AddLinear(smt.Eq(enc.Vars[f.Name], smt.Add(vars...)))
			enc.SlotVars[f.Name] = vars
		}
	}

	for _, c := range cfm.Constraints {
		antecedent := inCardinality(enc.Vars[c.First.Name], c.FirstCard, 1)
		consequent := inCardinality(enc.Vars[c.Second.Name], c.SecondCard, 1)
		if c.Require {
			enc.Solver.AddLinear(smt.Implies(antecedent, consequent))
		} else {
			enc.Solver.AddLinear(smt.Not(smt.And(antecedent, consequent)))
		}
	}

	return enc, nil
}

// maxParentSlots returns the number of per-slot variables feature f
// needs: the product of instance-cardinality upper bounds along the
// path down to and including f (§4.5's "max_parents").
func maxParentSlots(factors map[string]uint64, f *model.Feature) int {
	return int(factors[f.Name]) * int(instanceUpper(f))
}
