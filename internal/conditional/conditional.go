// internal/conditional/conditional.go
package conditional

import (
	"strconv"
	"strings"
)

// Mode controls how a passing evaluation is interpreted.
// "show" means: process when the conditions match.
// "stop" means: process when the conditions do NOT match (result inverted).
type Mode string

const (
	ModeShow Mode = "show"
	ModeStop Mode = "stop"
)

// Operator compares one submitted field value against a configured value.
type Operator string

const (
	OpEquals      Operator = "=="
	OpNotEquals   Operator = "!="
	OpEmpty       Operator = "e"
	OpNotEmpty    Operator = "!e"
	OpContains    Operator = "c"
	OpNotContains Operator = "!c"
	OpStartsWith  Operator = "^"
	OpEndsWith    Operator = "~"
	OpGreaterThan Operator = ">"
	OpLessThan    Operator = "<"
)

// Condition is a single check against a submitted field value.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// RuleSet is the merchant-configured conditional logic attached to a
// processing path (single payment or a recurring plan).
type RuleSet struct {
	Enabled    bool        `json:"enabled"`
	Mode       Mode        `json:"mode"`
	Conditions []Condition `json:"conditions"`
}

// Inert reports whether the rule set can never block processing.
// An absent/disabled rule set, a missing mode, or an empty condition list
// all evaluate to "proceed".
func (rs RuleSet) Inert() bool {
	return !rs.Enabled || rs.Mode == "" || len(rs.Conditions) == 0
}

// Evaluate decides whether a processing path may run for the submitted
// field values. Pure function: no side effects, no network calls.
func Evaluate(rs RuleSet, fields map[string]string) bool {
	if rs.Inert() {
		return true
	}

	process := true
	for _, cond := range rs.Conditions {
		if !matches(cond, fields[cond.Field]) {
			process = false
			break
		}
	}

	// "stop" mode inverts the raw result: conditions matching means
	// processing is stopped, not started.
	if rs.Mode == ModeStop {
		process = !process
	}

	return process
}

func matches(cond Condition, value string) bool {
	switch cond.Operator {
	case OpEquals:
		return value == cond.Value
	case OpNotEquals:
		return value != cond.Value
	case OpEmpty:
		return strings.TrimSpace(value) == ""
	case OpNotEmpty:
		return strings.TrimSpace(value) != ""
	case OpContains:
		return strings.Contains(value, cond.Value)
	case OpNotContains:
		return !strings.Contains(value, cond.Value)
	case OpStartsWith:
		return strings.HasPrefix(value, cond.Value)
	case OpEndsWith:
		return strings.HasSuffix(value, cond.Value)
	case OpGreaterThan:
		a, errA := strconv.ParseFloat(strings.TrimSpace(value), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(cond.Value), 64)
		return errA == nil && errB == nil && a > b
	case OpLessThan:
		a, errA := strconv.ParseFloat(strings.TrimSpace(value), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(cond.Value), 64)
		return errA == nil && errB == nil && a < b
	}
	// Unknown operators never match.
	return false
}
