package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rules is the category rule file: an ordered mapping of group name to
// patterns, tested against the identifier fields in order.
type Rules struct {
	Identifiers []string `yaml:"identifiers"`
	Groups      Groups   `yaml:"groups"`
}

// Group is one category and its patterns.
type Group struct {
	Name     string
	Patterns []string
}

// Groups keeps the order of the YAML mapping it was decoded from.
type Groups []Group

// UnmarshalYAML decodes a mapping node pair by pair so that file order
// becomes rule precedence.
func (g *Groups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: groups must be a mapping", node.Line)
	}
	out := make(Groups, 0, len(node.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("line %d: duplicate group %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		var patterns []string
		if err := val.Decode(&patterns); err != nil {
			return fmt.Errorf("line %d: group %q: %w", val.Line, key.Value, err)
		}
		out = append(out, Group{Name: key.Value, Patterns: patterns})
	}
	*g = out
	return nil
}

// MarshalYAML encodes groups as an ordered mapping.
func (g Groups) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, grp := range g {
		var val yaml.Node
		if err := val.Encode(grp.Patterns); err != nil {
			return nil, fmt.Errorf("encoding group %q: %w", grp.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: grp.Name},
			&val,
		)
	}
	return node, nil
}

// LoadRules reads a category rule file.
func LoadRules(path string) (*Rules, error) {
	var r Rules
	if err := loadYAML(path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveRules writes a category rule file.
func SaveRules(path string, r *Rules) error {
	return saveYAML(path, r)
}

// DefaultRules returns a starter rule file.
func DefaultRules() *Rules {
	return &Rules{
		Identifiers: []string{"usage", "customer"},
		Groups: Groups{
			{Name: "income", Patterns: []string{"paycheck", "salary", "gehalt", "lohn"}},
			{Name: "living", Patterns: []string{"rent", "miete", "landlord"}},
			{Name: "groceries", Patterns: []string{"store", "supermarket", "rewe", "edeka"}},
			{Name: "mobility", Patterns: []string{"gas station", "taxi", "cab", "tankstelle"}},
			{Name: "hobby", Patterns: []string{"book"}},
		},
	}
}
