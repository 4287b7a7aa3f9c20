// Package lint provides the rule engine, registry, and fix composer for mdfix.
//
// Rules work on a document held as lines. A Rule reports violations; a rule
// that also implements Fixer can rewrite the document so those violations
// disappear. The Composer folds several fixers into one pass and the Linter
// drives whole-document lint and fix runs.
package lint

// Range is a half-open, 0-based byte span within a line.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Violation is a single style issue found in a document.
type Violation struct {
	// RuleID is the identifier of the rule that produced this violation.
	RuleID string `json:"ruleId"`

	// RuleName is the human-readable name of the rule (e.g., "no-trailing-spaces").
	RuleName string `json:"ruleName"`

	// LineNumber is the 1-based line of the issue.
	LineNumber int `json:"lineNumber"`

	// Details describes the issue. It may be empty.
	Details string `json:"details,omitempty"`

	// Range locates the offending text within the line, when known.
	Range *Range `json:"range,omitempty"`
}

// NewViolation creates a violation at a 1-based line with a column span.
// The Linter fills in the rule identity.
func NewViolation(lineNumber int, details string, start, end int) Violation {
	return Violation{
		LineNumber: lineNumber,
		Details:    details,
		Range:      &Range{Start: start, End: end},
	}
}

// NewLineViolation creates a violation that covers a whole line.
func NewLineViolation(lineNumber int, details string) Violation {
	return Violation{
		LineNumber: lineNumber,
		Details:    details,
	}
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "MD044").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// Tags returns categorization tags for this rule (e.g., ["headings"]).
	Tags() []string

	// Validate scans the document and returns every violation.
	//
	// Rules must:
	//   - Never panic, whatever the lines or options contain.
	//   - Treat missing or mistyped options as their defaults.
	//   - Return violations in line order.
	Validate(rc *RuleContext) []Violation
}

// Fixer is implemented by rules that can repair their own violations.
type Fixer interface {
	Rule

	// Fix returns a new document with this rule's violations removed.
	//
	// Fix must not modify rc.Lines, must be deterministic, and applying it to
	// its own output must return that output unchanged.
	Fix(rc *RuleContext) []string
}

// Aliased is implemented by rules with legacy names that configuration files
// may still use.
type Aliased interface {
	Aliases() []string
}

// IsFixable reports whether rule implements Fixer.
func IsFixable(rule Rule) bool {
	_, ok := rule.(Fixer)
	return ok
}
