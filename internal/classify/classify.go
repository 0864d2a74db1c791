// Package classify assigns category groups to ledger records using ordered
// regular-expression rule sets.
package classify

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cleared-dev/saldo/internal/config"
	"github.com/cleared-dev/saldo/internal/model"
)

// NoMatchWarning notes a category whose patterns matched no record.
type NoMatchWarning struct {
	Group string
}

func (w NoMatchWarning) String() string {
	return fmt.Sprintf("group %q matched no transactions", w.Group)
}

type rule struct {
	group   model.Group
	pattern *regexp.Regexp
}

// RuleSet is a compiled, immutable set of category rules.
type RuleSet struct {
	fields []string
	rules  []rule
	empty  []string // groups without patterns, never matching
}

// Compile validates the rule file and builds one case-insensitive
// alternation per group.
func Compile(r *config.Rules) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, f := range r.Identifiers {
		if _, ok := (model.Transaction{}).Field(f); !ok {
			return nil, fmt.Errorf("unknown identifier field %q (valid: %s)", f, strings.Join(model.TextFields, ", "))
		}
		rs.fields = append(rs.fields, f)
	}

	for _, g := range r.Groups {
		if g.Name == "" || g.Name == model.UnclassifiedName {
			return nil, fmt.Errorf("invalid group name %q", g.Name)
		}
		var patterns []string
		for _, p := range g.Patterns {
			if p != "" {
				patterns = append(patterns, "(?:"+p+")")
			}
		}
		if len(patterns) == 0 {
			rs.empty = append(rs.empty, g.Name)
			continue
		}
		re, err := regexp.Compile("(?i)" + strings.Join(patterns, "|"))
		if err != nil {
			return nil, fmt.Errorf("compiling group %q: %w", g.Name, err)
		}
		rs.rules = append(rs.rules, rule{group: model.Classified(g.Name), pattern: re})
	}
	return rs, nil
}

// Fields returns the identifier fields in test order.
func (rs *RuleSet) Fields() []string { return slices.Clone(rs.fields) }

// Classify assigns a group to every Unclassified record matched by a rule.
// Fields are tried in order and, per field, groups in file order; the first
// match wins and classified records are never overwritten. It returns one
// warning per group that matched no record at all.
func (rs *RuleSet) Classify(txs []model.Transaction) []NoMatchWarning {
	hits := make([]int, len(rs.rules))
	for _, field := range rs.fields {
		for ri, r := range rs.rules {
			for i := range txs {
				text, _ := txs[i].Field(field)
				if !r.pattern.MatchString(text) {
					continue
				}
				hits[ri]++
				if !txs[i].Group.IsClassified() {
					txs[i].Group = r.group
				}
			}
		}
	}

	var warnings []NoMatchWarning
	for ri, r := range rs.rules {
		if hits[ri] == 0 {
			warnings = append(warnings, NoMatchWarning{Group: r.group.Name()})
		}
	}
	for _, name := range rs.empty {
		warnings = append(warnings, NoMatchWarning{Group: name})
	}
	return warnings
}

// Reclassify resets every record and classifies from scratch.
func (rs *RuleSet) Reclassify(txs []model.Transaction) []NoMatchWarning {
	model.ResetGroups(txs)
	return rs.Classify(txs)
}
