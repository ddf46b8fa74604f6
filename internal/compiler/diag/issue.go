// Package diag defines the compiler's diagnostic types and renderers,
// shared by the validator, the IR transformer, and codegen failures.
package diag

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/pacedproton/mdslc/internal/compiler/ast"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Rule identifies which validator rule produced an Issue.
type Rule string

const (
	RuleDuplicateUnit           Rule = "duplicate_unit"
	RuleDuplicateVocabulary     Rule = "duplicate_vocabulary"
	RuleDuplicateFamily         Rule = "duplicate_family"
	RuleMissingPrimaryKey       Rule = "missing_primary_key"
	RuleEmptyUnit               Rule = "empty_unit"
	RuleEmptyVocabulary         Rule = "empty_vocabulary"
	RuleDuplicateVocabularyKey  Rule = "duplicate_vocabulary_key"
	RuleEmptyFamily             Rule = "empty_family"
	RuleOutletMissingID         Rule = "outlet_missing_id"
	RuleOutletIDConflict        Rule = "outlet_id_conflict"
	RuleDuplicateOutletID       Rule = "duplicate_outlet_id"
	RuleTextLengthZero          Rule = "text_length_zero"
	RuleTextLengthHuge          Rule = "text_length_huge"
	RuleEmptyCategory           Rule = "empty_category"
	RuleDuplicateCategoryValue  Rule = "duplicate_category_value"
	RuleInvalidIdentifier       Rule = "invalid_identifier"
	RuleUnknownRelationshipType Rule = "unknown_relationship_type"
	RuleUnresolvedOutletRef     Rule = "unresolved_outlet_reference"
	RuleImplausibleStake        Rule = "implausible_stake_percentage"
	RuleUnrecognizedKey         Rule = "unrecognized_key"
)

// Issue is a single validator finding, carrying the severity, a
// human-readable message, the rule that fired, and its source position.
type Issue struct {
	Severity Severity
	Rule     Rule
	Message  string
	Pos      ast.Position
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", i.Pos.Line, i.Pos.Column, i.Severity, i.Message)
}

// Bag is an accumulating, order-stable collection of Issues: diagnostics
// accumulate and the caller decides what to do with them once collection
// finishes.
type Bag struct {
	issues []Issue
}

// NewBag creates an empty diagnostic Bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends an Issue to the bag.
func (b *Bag) Add(severity Severity, rule Rule, message string, pos ast.Position) {
	b.issues = append(b.issues, Issue{Severity: severity, Rule: rule, Message: message, Pos: pos})
}

// Errorf records an Error-severity issue.
func (b *Bag) Errorf(rule Rule, pos ast.Position, format string, args ...interface{}) {
	b.Add(SeverityError, rule, fmt.Sprintf(format, args...), pos)
}

// Warnf records a Warning-severity issue.
func (b *Bag) Warnf(rule Rule, pos ast.Position, format string, args ...interface{}) {
	b.Add(SeverityWarning, rule, fmt.Sprintf(format, args...), pos)
}

// Infof records an Info-severity issue.
func (b *Bag) Infof(rule Rule, pos ast.Position, format string, args ...interface{}) {
	b.Add(SeverityInfo, rule, fmt.Sprintf(format, args...), pos)
}

// Issues returns the accumulated issues sorted by (line, column), stable
// with respect to original insertion order.
func (b *Bag) Issues() []Issue {
	sorted := make([]Issue, len(b.issues))
	copy(sorted, b.issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, c := sorted[i].Pos, sorted[j].Pos
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		return a.Column < c.Column
	})
	return sorted
}

// HasErrors reports whether any Error-severity issue was recorded.
func (b *Bag) HasErrors() bool {
	for _, issue := range b.issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the total number of accumulated issues.
func (b *Bag) Count() int {
	return len(b.issues)
}

// jsonIssue is the wire shape for Bag.ToJSON.
type jsonIssue struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// ToJSON renders all issues as a JSON array, sorted the same way Issues
// is, for machine-readable consumption by external callers.
func (b *Bag) ToJSON() ([]byte, error) {
	issues := b.Issues()
	out := make([]jsonIssue, len(issues))
	for i, issue := range issues {
		out[i] = jsonIssue{
			Severity: issue.Severity.String(),
			Rule:     string(issue.Rule),
			Message:  issue.Message,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
		}
	}
	return json.Marshal(out)
}

// FormatTerminal renders all issues for a terminal, colorizing by severity.
func (b *Bag) FormatTerminal() string {
	var sb strings.Builder
	for _, issue := range b.Issues() {
		var label string
		switch issue.Severity {
		case SeverityError:
			label = color.New(color.FgRed, color.Bold).Sprint("error")
		case SeverityWarning:
			label = color.New(color.FgYellow, color.Bold).Sprint("warning")
		default:
			label = color.New(color.FgCyan).Sprint("info")
		}
		fmt.Fprintf(&sb, "%s: %d:%d: %s [%s]\n", label, issue.Pos.Line, issue.Pos.Column, issue.Message, issue.Rule)
	}
	return sb.String()
}
