package onewise_test

import (
	"crypto/sha256"
	"testing"

	"github.com/cfmtoolbox/cfm-core/pkg/fixtures"
	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/onewise"
	"github.com/cfmtoolbox/cfm-core/pkg/rng"
	"github.com/cfmtoolbox/cfm-core/pkg/validator"
)

func newRNG(seed uint64) *rng.RNG {
	configHash := sha256.Sum256([]byte("onewise_test"))
	return rng.NewRNG(seed, "one_wise_sampling", configHash[:])
}

func TestSample_Sandwich_AllSamplesValidate(t *testing.T) {
	cfm := fixtures.Sandwich()
	s := onewise.NewSampler()

	samples, err := s.Sample(newRNG(1), cfm)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected at least one sample")
	}
	for i, sample := range samples {
		if !validator.Validate(sample, cfm) {
			t.Errorf("sample %d failed validation: %+v", i, sample)
		}
	}
}

func TestSample_UnboundModelErrors(t *testing.T) {
	cfm := fixtures.SandwichUnbound()
	s := onewise.NewSampler()

	_, err := s.Sample(newRNG(1), cfm)
	if err != onewise.ErrModelUnbound {
		t.Fatalf("expected ErrModelUnbound, got %v", err)
	}
}

// TestSample_CoversCheeseMixBoundaries is spec.md §8 scenario S5: a
// feature whose instance_cardinality is a three-interval disjunction
// must have every one of its five endpoints witnessed by some emitted
// sample.
func TestSample_CoversCheeseMixBoundaries(t *testing.T) {
	root := model.NewFeature("Root", model.Cardinality{model.NewInterval(1, 1)},
		model.Cardinality{model.NewInterval(0, 1)}, model.Cardinality{model.NewInterval(0, 10)})

	cheeseMixCard := model.Cardinality{
		model.NewInterval(0, 2),
		model.NewInterval(5, 7),
		model.NewInterval(10, 10),
	}
	cheeseMix := model.NewFeature("Cheese-mix", cheeseMixCard, nil, nil)
	root.AddChild(cheeseMix)

	cfm := &model.CFM{Root: root}

	s := onewise.NewSampler()
	samples, err := s.Sample(newRNG(7), cfm)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	witnessed := make(map[uint32]bool)
	for _, sample := range samples {
		count := 0
		for _, child := range sample.Children {
			if child.FeatureName == "Cheese-mix" {
				count++
			}
		}
		witnessed[uint32(count)] = true
	}

	for _, want := range []uint32{0, 2, 5, 7, 10} {
		if !witnessed[want] {
			t.Errorf("endpoint %d for Cheese-mix was never witnessed across %d samples", want, len(samples))
		}
	}
}
