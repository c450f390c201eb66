// Package rules provides a YAML-based rules engine tagging statement
// records with a payment method.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

//go:embed rules.yaml
var embeddedRules []byte

// MatchType defines how patterns are matched against record descriptions.
type MatchType string

const (
	// MatchTypeExact requires the pattern to match the entire description.
	MatchTypeExact MatchType = "exact"
	// MatchTypeContains requires the pattern to be a substring of the
	// description.
	MatchTypeContains MatchType = "contains"
)

// Rule maps one description pattern to a payment method.
//
// Rules are normally created by YAML loading (NewEngine, LoadEmbedded,
// LoadFromFile), which validates every invariant: priority in [0,999],
// non-empty pattern, known match type and known payment method. Direct
// struct construction bypasses validation; fields stay exported for YAML
// unmarshaling and tests.
type Rule struct {
	Name      string               `yaml:"name"`
	Pattern   string               `yaml:"pattern"`
	MatchType MatchType            `yaml:"match_type"`
	Priority  int                  `yaml:"priority"`
	Method    domain.PaymentMethod `yaml:"method"`
}

// RuleSet is the top-level YAML structure.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// Engine performs rule matching on record descriptions.
type Engine struct {
	rules []Rule // sorted by priority, highest first
}

// NewEngine creates a rules engine from YAML data.
func NewEngine(rulesData []byte) (*Engine, error) {
	var ruleSet RuleSet
	if err := yaml.Unmarshal(rulesData, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rules (check syntax, indentation, and field names): %w", err)
	}

	for i, rule := range ruleSet.Rules {
		if !domain.ValidateMethod(rule.Method) {
			return nil, fmt.Errorf("rule %d (%s): invalid method %q", i, rule.Name, rule.Method)
		}
		if rule.Priority < 0 || rule.Priority > 999 {
			return nil, fmt.Errorf("rule %d (%s): priority must be in [0,999], got %d", i, rule.Name, rule.Priority)
		}
		if rule.MatchType != MatchTypeExact && rule.MatchType != MatchTypeContains {
			return nil, fmt.Errorf("rule %d (%s): invalid match_type %q (must be 'exact' or 'contains')", i, rule.Name, rule.MatchType)
		}
		if strings.TrimSpace(rule.Pattern) == "" {
			return nil, fmt.Errorf("rule %d (%s): pattern cannot be empty", i, rule.Name)
		}
	}

	// Stable sort keeps YAML file order for equal priorities, so matching
	// stays deterministic.
	sortedRules := make([]Rule, len(ruleSet.Rules))
	copy(sortedRules, ruleSet.Rules)
	sort.SliceStable(sortedRules, func(i, j int) bool {
		return sortedRules[i].Priority > sortedRules[j].Priority
	})

	return &Engine{rules: sortedRules}, nil
}

// LoadEmbedded loads the embedded rules.yaml file.
func LoadEmbedded() (*Engine, error) {
	engine, err := NewEngine(embeddedRules)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded rules (possible binary corruption): %w", err)
	}
	return engine, nil
}

// LoadFromFile loads rules from a filesystem path.
func LoadFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	engine, err := NewEngine(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %q: %w", path, err)
	}
	return engine, nil
}

// Method applies the rules to a record description and returns the payment
// method of the first match, or MethodUnknown when nothing matches.
func (e *Engine) Method(description string) domain.PaymentMethod {
	for _, rule := range e.rules {
		matched := false
		switch rule.MatchType {
		case MatchTypeExact:
			matched = description == rule.Pattern
		case MatchTypeContains:
			matched = strings.Contains(description, rule.Pattern)
		}
		if matched {
			return rule.Method
		}
	}
	return domain.MethodUnknown
}

// Rules returns a copy of the rules in matching order, for inspection.
func (e *Engine) Rules() []Rule {
	result := make([]Rule, len(e.rules))
	copy(result, e.rules)
	return result
}
