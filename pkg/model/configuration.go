package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ConfigurationNode is a node of a concrete configuration tree claimed to
// satisfy a CFM. Every node names a feature instance: FeatureName is the
// feature it instantiates and Index is the 0-based sequence number of
// this instance among all instances of FeatureName encountered during a
// pre-order walk of the whole tree.
//
// §9 prefers this split-field form over repeatedly parsing a
// "name#index" string during validation; Value/ParseValue below restore
// that string form only at the serialization boundary.
type ConfigurationNode struct {
	FeatureName string
	Index       int
	Children    []*ConfigurationNode
}

// NewConfigurationNode builds a node for the given feature instance.
func NewConfigurationNode(featureName string, index int, children ...*ConfigurationNode) *ConfigurationNode {
	return &ConfigurationNode{FeatureName: featureName, Index: index, Children: children}
}

// Value renders the node's identity in "name#index" form.
func (n *ConfigurationNode) Value() string {
	return fmt.Sprintf("%s#%d", n.FeatureName, n.Index)
}

// ParseValue splits a "name#index" string into its feature name and
// index. It returns an error if the string has no '#' or the suffix is
// not a valid non-negative integer.
func ParseValue(value string) (name string, index int, err error) {
	pos := strings.LastIndex(value, "#")
	if pos < 0 {
		return "", 0, fmt.Errorf("configuration value %q missing '#index' suffix", value)
	}
	name = value[:pos]
	index, err = strconv.Atoi(value[pos+1:])
	if err != nil {
		return "", 0, fmt.Errorf("configuration value %q has non-integer index: %w", value, err)
	}
	return name, index, nil
}

// configurationNodeJSON mirrors the wire shape from §3: {value, children}.
type configurationNodeJSON struct {
	Value    string                  `json:"value"`
	Children []configurationNodeJSON `json:"children"`
}

// MarshalJSON emits the node in {"value": "name#index", "children": [...]}
// form, matching the FeatureNode shape the original cfmtoolbox used.
func (n *ConfigurationNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(toConfigurationNodeJSON(n))
}

func toConfigurationNodeJSON(n *ConfigurationNode) configurationNodeJSON {
	out := configurationNodeJSON{Value: n.Value(), Children: make([]configurationNodeJSON, 0, len(n.Children))}
	for _, c := range n.Children {
		out.Children = append(out.Children, toConfigurationNodeJSON(c))
	}
	return out
}

// UnmarshalJSON parses a {"value", "children"} tree into split
// FeatureName/Index fields.
func (n *ConfigurationNode) UnmarshalJSON(data []byte) error {
	var raw configurationNodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	node, err := fromConfigurationNodeJSON(raw)
	if err != nil {
		return err
	}
	*n = *node
	return nil
}

func fromConfigurationNodeJSON(raw configurationNodeJSON) (*ConfigurationNode, error) {
	name, index, err := ParseValue(raw.Value)
	if err != nil {
		return nil, err
	}
	node := &ConfigurationNode{FeatureName: name, Index: index}
	for _, c := range raw.Children {
		child, err := fromConfigurationNodeJSON(c)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
