package cfmio

import (
	"testing"

	"github.com/cfmtoolbox/cfm-core/pkg/fixtures"
	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/validator"
)

func TestEncodeDecodeCFM_RoundTrip(t *testing.T) {
	cfm := fixtures.SandwichWheatRequiresTomato()

	data, err := EncodeCFM(cfm)
	if err != nil {
		t.Fatalf("EncodeCFM() failed: %v", err)
	}

	got, err := DecodeCFM(data)
	if err != nil {
		t.Fatalf("DecodeCFM() failed: %v", err)
	}

	if got.Root.Name != cfm.Root.Name {
		t.Errorf("root name = %q, want %q", got.Root.Name, cfm.Root.Name)
	}
	if len(got.Features()) != len(cfm.Features()) {
		t.Errorf("feature count = %d, want %d", len(got.Features()), len(cfm.Features()))
	}
	if len(got.Constraints) != 1 {
		t.Fatalf("constraint count = %d, want 1", len(got.Constraints))
	}
	if got.Constraints[0].First.Name != "Wheat" || got.Constraints[0].Second.Name != "Tomato" {
		t.Errorf("constraint references = %s -> %s, want Wheat -> Tomato",
			got.Constraints[0].First.Name, got.Constraints[0].Second.Name)
	}
}

// TestValidatorRoundTrip exercises spec.md §8's "Validator round-trip
// under export/import on JSON: validate(s, C) = validate(s, roundtrip(C))".
func TestValidatorRoundTrip(t *testing.T) {
	cfm := fixtures.Sandwich()
	config := model.NewConfigurationNode("Sandwich", 0,
		model.NewConfigurationNode("Bread", 0,
			model.NewConfigurationNode("Sourdough", 0)),
		model.NewConfigurationNode("CheeseMix", 0,
			model.NewConfigurationNode("Cheddar", 0)),
	)

	want := validator.Validate(config, cfm)
	if !want {
		t.Fatal("fixture configuration unexpectedly failed to validate against the original CFM")
	}

	data, err := EncodeCFM(cfm)
	if err != nil {
		t.Fatalf("EncodeCFM() failed: %v", err)
	}
	roundtripped, err := DecodeCFM(data)
	if err != nil {
		t.Fatalf("DecodeCFM() failed: %v", err)
	}

	got := validator.Validate(config, roundtripped)
	if got != want {
		t.Errorf("validate(s, roundtrip(C)) = %v, want %v", got, want)
	}
}

func TestEncodeDecodeConfiguration_RoundTrip(t *testing.T) {
	config := model.NewConfigurationNode("Sandwich", 0,
		model.NewConfigurationNode("Bread", 0,
			model.NewConfigurationNode("Wheat", 0)),
		model.NewConfigurationNode("Veggies", 0,
			model.NewConfigurationNode("Lettuce", 0)),
	)

	data, err := EncodeConfiguration(config)
	if err != nil {
		t.Fatalf("EncodeConfiguration() failed: %v", err)
	}

	got, err := DecodeConfiguration(data)
	if err != nil {
		t.Fatalf("DecodeConfiguration() failed: %v", err)
	}

	if got.Value() != config.Value() {
		t.Errorf("root value = %q, want %q", got.Value(), config.Value())
	}
	if len(got.Children) != len(config.Children) {
		t.Fatalf("children count = %d, want %d", len(got.Children), len(config.Children))
	}
	if got.Children[0].Value() != "Bread#0" {
		t.Errorf("first child = %q, want Bread#0", got.Children[0].Value())
	}
}

func TestDecodeCFM_UnknownConstraintFeatureErrors(t *testing.T) {
	data := []byte(`{
		"root": {"name": "Root", "instance_cardinality": [{"lower":1,"upper":1}], "group_type_cardinality": [], "group_instance_cardinality": []},
		"constraints": [{"require": true, "first": "Root", "first_cardinality": [{"lower":1,"upper":1}], "second": "Ghost", "second_cardinality": [{"lower":1,"upper":1}]}]
	}`)
	if _, err := DecodeCFM(data); err == nil {
		t.Fatal("DecodeCFM() = nil error, want error for unknown constraint feature")
	}
}

func TestEncodeCFM_UnboundIntervalOmitsUpper(t *testing.T) {
	cfm := fixtures.SandwichUnbound()
	data, err := EncodeCFM(cfm)
	if err != nil {
		t.Fatalf("EncodeCFM() failed: %v", err)
	}

	roundtripped, err := DecodeCFM(data)
	if err != nil {
		t.Fatalf("DecodeCFM() failed: %v", err)
	}
	if !roundtripped.IsUnbound() {
		t.Error("roundtripped CFM lost its unbound interval")
	}
}
