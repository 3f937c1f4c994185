package cfmio

import (
	"bytes"
	"testing"

	"github.com/cfmtoolbox/cfm-core/pkg/fixtures"
	"github.com/cfmtoolbox/cfm-core/pkg/model"
)

func TestRenderCFM_ProducesSVGDocument(t *testing.T) {
	cfm := fixtures.Sandwich()
	data, err := RenderCFM(cfm, nil, DefaultSVGOptions())
	if err != nil {
		t.Fatalf("RenderCFM() failed: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("rendered output missing <svg> element")
	}
	for _, name := range []string{"Sandwich", "Bread", "CheeseMix", "Veggies"} {
		if !bytes.Contains(data, []byte(name)) {
			t.Errorf("rendered output missing feature label %q", name)
		}
	}
}

func TestRenderCFM_WithOverlayShowsCounts(t *testing.T) {
	cfm := fixtures.Sandwich()
	config := model.NewConfigurationNode("Sandwich", 0,
		model.NewConfigurationNode("Bread", 0,
			model.NewConfigurationNode("Sourdough", 0)),
	)
	opts := DefaultSVGOptions()
	opts.ShowCounts = true

	data, err := RenderCFM(cfm, config, opts)
	if err != nil {
		t.Fatalf("RenderCFM() failed: %v", err)
	}
	if !bytes.Contains(data, []byte("count=1")) {
		t.Error("rendered output missing overlay count for Bread")
	}
	if !bytes.Contains(data, []byte("count=0")) {
		t.Error("rendered output missing overlay count for an uninstantiated feature")
	}
}

func TestRenderCFM_NilRootErrors(t *testing.T) {
	if _, err := RenderCFM(&model.CFM{}, nil, DefaultSVGOptions()); err == nil {
		t.Fatal("RenderCFM() = nil error, want error for CFM with no root")
	}
}
