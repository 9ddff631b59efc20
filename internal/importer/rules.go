// Package importer turns OFX bank statements into transactions, with a
// YAML rule set assigning categories from transaction descriptions.
package importer

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

// MatchType defines how patterns are matched against descriptions.
type MatchType string

const (
	MatchTypeExact    MatchType = "exact"
	MatchTypeContains MatchType = "contains"
)

// Rule maps a description pattern to a category. Higher priority wins
// when several rules match.
type Rule struct {
	Name      string    `yaml:"name"`
	Pattern   string    `yaml:"pattern"`
	MatchType MatchType `yaml:"match_type"`
	Priority  int       `yaml:"priority"`
	Category  string    `yaml:"category"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleSet holds validated categorization rules sorted by priority.
type RuleSet struct {
	rules []Rule
}

// LoadEmbedded loads the rule set shipped with the binary.
func LoadEmbedded() (*RuleSet, error) {
	return LoadRules(embeddedRules)
}

// LoadRulesFile loads a rule set from a YAML file on disk.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return LoadRules(data)
}

// LoadRules parses and validates YAML rules.
func LoadRules(data []byte) (*RuleSet, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	for i, r := range f.Rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d (%s): pattern cannot be empty", i, r.Name)
		}
		if r.MatchType != MatchTypeExact && r.MatchType != MatchTypeContains {
			return nil, fmt.Errorf("rule %d (%s): invalid match_type %q", i, r.Name, r.MatchType)
		}
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("rule %d (%s): category cannot be empty", i, r.Name)
		}
	}

	rules := make([]Rule, len(f.Rules))
	copy(rules, f.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	return &RuleSet{rules: rules}, nil
}

// Categorize returns the category of the highest-priority matching rule,
// or "" when nothing matches. Matching is case-insensitive.
func (rs *RuleSet) Categorize(description string) string {
	if rs == nil {
		return ""
	}
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, r := range rs.rules {
		pattern := strings.ToLower(r.Pattern)
		switch r.MatchType {
		case MatchTypeExact:
			if desc == pattern {
				return r.Category
			}
		case MatchTypeContains:
			if strings.Contains(desc, pattern) {
				return r.Category
			}
		}
	}
	return ""
}

// Len returns the number of loaded rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}
