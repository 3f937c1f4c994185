package twise_test

import (
	"testing"

	"github.com/cfmtoolbox/cfm-core/pkg/fixtures"
	"github.com/cfmtoolbox/cfm-core/pkg/twise"
	"github.com/cfmtoolbox/cfm-core/pkg/validator"
)

// TestCoverTWise_Sandwich_Pairwise exercises spec.md §8 scenario S6:
// t=2 pairwise coverage over the bounded Sandwich model. Every sample
// produced must validate against the oracle, and a structurally
// infeasible pair (Cheddar present at count 2, whose instance_cardinality
// is [0,1]) must never appear as a covered interaction.
func TestCoverTWise_Sandwich_Pairwise(t *testing.T) {
	cfm := fixtures.Sandwich()
	enc, err := twise.Encode(cfm, twise.MultisetMode)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	samples, _, err := enc.CoverTWise(2)
	if err != nil {
		t.Fatalf("CoverTWise: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected at least one sample")
	}

	for i, s := range samples {
		tree, err := enc.ToConfigurationTree(s)
		if err != nil {
			t.Fatalf("sample %d: ToConfigurationTree: %v", i, err)
		}
		if !validator.Validate(tree, cfm) {
			t.Errorf("sample %d did not validate: %+v", i, s.Counts)
		}
		if count := s.Counts["Cheddar"]; count > 1 {
			t.Errorf("sample %d covers Cheddar=%d, outside its [0,1] instance cardinality", i, count)
		}
	}

	cheddar := cfm.FeatureByName("Cheddar")
	if cheddar.InstanceCardinality.Contains(2) {
		t.Fatal("fixture assumption broken: Cheddar now allows count 2")
	}
}

// TestCoverTWise_InstanceSetMode checks the instance-set literal set
// (interval endpoints, no SMT probing) still produces validating
// configuration trees once converted.
func TestCoverTWise_InstanceSetMode(t *testing.T) {
	cfm := fixtures.Sandwich()
	enc, err := twise.Encode(cfm, twise.InstanceSetMode)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	samples, _, err := enc.CoverTWise(2)
	if err != nil {
		t.Fatalf("CoverTWise: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected at least one sample")
	}

	for i, s := range samples {
		tree, err := enc.ToConfigurationTree(s)
		if err != nil {
			t.Fatalf("sample %d: ToConfigurationTree: %v", i, err)
		}
		if !validator.Validate(tree, cfm) {
			t.Errorf("sample %d did not validate: %+v", i, s.Counts)
		}
	}
}

// TestCoverTWise_RespectsConstraint checks the Wheat-requires-Tomato
// cross-tree constraint (S4) holds across every produced tree.
func TestCoverTWise_RespectsConstraint(t *testing.T) {
	cfm := fixtures.SandwichWheatRequiresTomato()
	enc, err := twise.Encode(cfm, twise.MultisetMode)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	samples, _, err := enc.CoverTWise(2)
	if err != nil {
		t.Fatalf("CoverTWise: %v", err)
	}

	for i, s := range samples {
		tree, err := enc.ToConfigurationTree(s)
		if err != nil {
			t.Fatalf("sample %d: ToConfigurationTree: %v", i, err)
		}
		if !validator.Validate(tree, cfm) {
			t.Errorf("sample %d did not validate: %+v", i, s.Counts)
		}
	}
}

func TestEncode_RejectsUnboundedModel(t *testing.T) {
	cfm := fixtures.SandwichUnbound()
	if _, err := twise.Encode(cfm, twise.MultisetMode); err == nil {
		t.Fatal("expected error encoding an unbounded model")
	}
}
