package bigm_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cfmtoolbox/cfm-core/pkg/bigm"
	"github.com/cfmtoolbox/cfm-core/pkg/fixtures"
	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/validator"
)

// TestApplyBigM_Sandwich is a hand-verified variant of spec.md §8
// scenario S3; see fixtures.SandwichUnbound for why its constant (3)
// differs from the scenario's illustrative 12.
func TestApplyBigM_Sandwich(t *testing.T) {
	cfm := fixtures.SandwichUnbound()

	bound := bigm.GlobalUpperBound(cfm.Root)
	if bound != 3 {
		t.Fatalf("GlobalUpperBound(root) = %d, want 3", bound)
	}

	bigm.ApplyBigM(cfm)

	if cfm.IsUnbound() {
		t.Fatal("expected CFM to be bounded after ApplyBigM")
	}

	tomato := cfm.FeatureByName("Tomato")
	if got := *tomato.InstanceCardinality.LastUpper(); got != 3 {
		t.Errorf("Tomato.instance_cardinality upper = %d, want 3", got)
	}

	veggies := cfm.FeatureByName("Veggies")
	if got := *veggies.GroupInstanceCardinality.LastUpper(); got != 4 {
		t.Errorf("Veggies.group_instance_cardinality upper = %d, want 4", got)
	}
}

func TestApplyBigM_NoOpOnAlreadyBoundedModel(t *testing.T) {
	cfm := fixtures.Sandwich()
	before := bigm.GlobalUpperBound(cfm.Root)

	bigm.ApplyBigM(cfm)

	if cfm.IsUnbound() {
		t.Fatal("expected already-bounded CFM to remain bounded")
	}
	after := bigm.GlobalUpperBound(cfm.Root)
	if before != after {
		t.Errorf("GlobalUpperBound changed from %d to %d on an already-bounded CFM", before, after)
	}
}

// TestProperty_BigMPreservesFiniteValidity is the quantified property
// from spec.md §8: for every unbounded CFM C, apply_big_m(C) yields C'
// that is bounded, and every finite sample valid against C remains valid
// against C'. Sourdough is the one feature we perturb, since it is
// unaffected by the Big-M rewrite and so makes a clean finite witness.
func TestProperty_BigMPreservesFiniteValidity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfm := fixtures.SandwichUnbound()

		includeSourdough := rapid.Bool().Draw(t, "includeSourdough")
		var breadChildren []*model.ConfigurationNode
		if includeSourdough {
			breadChildren = append(breadChildren, model.NewConfigurationNode("Sourdough", 0))
		} else {
			breadChildren = append(breadChildren, model.NewConfigurationNode("Wheat", 0))
		}

		config := model.NewConfigurationNode("Sandwich", 0,
			model.NewConfigurationNode("Bread", 0, breadChildren...),
		)

		beforeValid := validator.Validate(config, cfm)

		bigm.ApplyBigM(cfm)

		if !cfm.IsUnbound() && beforeValid {
			if !validator.Validate(config, cfm) {
				t.Fatal("finite configuration valid before Big-M became invalid after Big-M")
			}
		}
	})
}
