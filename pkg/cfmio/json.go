package cfmio

import (
	"encoding/json"
	"fmt"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
)

// intervalJSON mirrors spec.md §3's textual form at the wire level: a
// finite interval carries both bounds; an unbounded one omits upper.
type intervalJSON struct {
	Lower uint32  `json:"lower"`
	Upper *uint32 `json:"upper,omitempty"`
}

func toIntervalJSON(iv model.Interval) intervalJSON {
	return intervalJSON{Lower: iv.Lower, Upper: iv.Upper}
}

func fromIntervalJSON(iv intervalJSON) model.Interval {
	return model.Interval{Lower: iv.Lower, Upper: iv.Upper}
}

func toCardinalityJSON(c model.Cardinality) []intervalJSON {
	out := make([]intervalJSON, 0, len(c))
	for _, iv := range c {
		out = append(out, toIntervalJSON(iv))
	}
	return out
}

func fromCardinalityJSON(ivs []intervalJSON) model.Cardinality {
	out := make(model.Cardinality, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, fromIntervalJSON(iv))
	}
	return out
}

// featureJSON mirrors a model.Feature, minus the Parent back-reference
// (redundant on the wire: the parent is whichever featureJSON listed
// this one under Children).
type featureJSON struct {
	Name                     string        `json:"name"`
	InstanceCardinality      []intervalJSON `json:"instance_cardinality"`
	GroupTypeCardinality     []intervalJSON `json:"group_type_cardinality"`
	GroupInstanceCardinality []intervalJSON `json:"group_instance_cardinality"`
	Children                 []featureJSON  `json:"children,omitempty"`
}

func toFeatureJSON(f *model.Feature) featureJSON {
	out := featureJSON{
		Name:                     f.Name,
		InstanceCardinality:      toCardinalityJSON(f.InstanceCardinality),
		GroupTypeCardinality:     toCardinalityJSON(f.GroupTypeCardinality),
		GroupInstanceCardinality: toCardinalityJSON(f.GroupInstanceCardinality),
	}
	for _, child := range f.Children {
		out.Children = append(out.Children, toFeatureJSON(child))
	}
	return out
}

func fromFeatureJSON(fj featureJSON) *model.Feature {
	f := model.NewFeature(
		fj.Name,
		fromCardinalityJSON(fj.InstanceCardinality),
		fromCardinalityJSON(fj.GroupTypeCardinality),
		fromCardinalityJSON(fj.GroupInstanceCardinality),
	)
	for _, cj := range fj.Children {
		f.AddChild(fromFeatureJSON(cj))
	}
	return f
}

// constraintJSON references features by name rather than identity; this
// is what DecodeCFM must resolve against the already-built tree (§3
// invariant 4).
type constraintJSON struct {
	Require          bool           `json:"require"`
	First            string         `json:"first"`
	FirstCardinality []intervalJSON `json:"first_cardinality"`
	Second           string         `json:"second"`
	SecondCardinality []intervalJSON `json:"second_cardinality"`
}

func toConstraintJSON(c model.Constraint) constraintJSON {
	return constraintJSON{
		Require:           c.Require,
		First:             c.First.Name,
		FirstCardinality:  toCardinalityJSON(c.FirstCard),
		Second:            c.Second.Name,
		SecondCardinality: toCardinalityJSON(c.SecondCard),
	}
}

type cfmJSON struct {
	Root        featureJSON       `json:"root"`
	Constraints []constraintJSON  `json:"constraints,omitempty"`
}

// EncodeCFM serializes cfm to indented JSON.
func EncodeCFM(cfm *model.CFM) ([]byte, error) {
	if cfm == nil || cfm.Root == nil {
		return nil, fmt.Errorf("cfmio: cfm has no root")
	}
	out := cfmJSON{Root: toFeatureJSON(cfm.Root)}
	for _, c := range cfm.Constraints {
		out.Constraints = append(out.Constraints, toConstraintJSON(c))
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeCFM parses JSON produced by EncodeCFM (or a hand-written CFM
// document of the same shape) back into a model.CFM, re-resolving each
// constraint's First/Second feature references by name against the
// rebuilt tree.
func DecodeCFM(data []byte) (*model.CFM, error) {
	var raw cfmJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cfmio: parsing CFM JSON: %w", err)
	}

	root := fromFeatureJSON(raw.Root)
	cfm := &model.CFM{Root: root}

	for _, cj := range raw.Constraints {
		first := cfm.FeatureByName(cj.First)
		if first == nil {
			return nil, fmt.Errorf("cfmio: constraint references unknown feature %q", cj.First)
		}
		second := cfm.FeatureByName(cj.Second)
		if second == nil {
			return nil, fmt.Errorf("cfmio: constraint references unknown feature %q", cj.Second)
		}
		cfm.Constraints = append(cfm.Constraints, model.Constraint{
			Require:    cj.Require,
			First:      first,
			FirstCard:  fromCardinalityJSON(cj.FirstCardinality),
			Second:     second,
			SecondCard: fromCardinalityJSON(cj.SecondCardinality),
		})
	}
	return cfm, nil
}

// EncodeConfiguration serializes a ConfigurationNode tree to indented
// JSON via model.ConfigurationNode's own MarshalJSON ({"value",
// "children"} shape, §3).
func EncodeConfiguration(config *model.ConfigurationNode) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

// DecodeConfiguration parses a {"value", "children"} JSON document into
// a ConfigurationNode tree.
func DecodeConfiguration(data []byte) (*model.ConfigurationNode, error) {
	var node model.ConfigurationNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("cfmio: parsing configuration JSON: %w", err)
	}
	return &node, nil
}
