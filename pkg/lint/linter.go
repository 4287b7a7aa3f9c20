package lint

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/mdfix/pkg/config"
)

// ErrRuleFailed wraps a panic raised inside a rule's Validate.
var ErrRuleFailed = errors.New("rule failed")

// Linter runs the enabled rules of a registry over documents.
type Linter struct {
	// Registry holds all available rules.
	Registry *Registry

	// Telemetry receives advisory counters (may be nil).
	Telemetry *Telemetry
}

// NewLinter creates a Linter over the given registry.
func NewLinter(registry *Registry) *Linter {
	return &Linter{Registry: registry}
}

// Lint runs every rule enabled by cfg and returns the violations sorted by
// line, then rule ID. A rule that panics contributes no violations; its
// failure is reported in the returned error while the other rules still run.
func (l *Linter) Lint(lines []string, cfg *config.Config) ([]Violation, error) {
	var (
		violations []Violation
		errs       []error
	)

	for _, rr := range ResolveRules(l.Registry, cfg) {
		found, err := l.validate(rr, lines)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		violations = append(violations, found...)
	}

	slices.SortStableFunc(violations, func(a, b Violation) int {
		if c := cmp.Compare(a.LineNumber, b.LineNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.RuleID, b.RuleID)
	})

	return violations, errors.Join(errs...)
}

func (l *Linter) validate(rr ResolvedRule, lines []string) (found []Violation, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			found = nil
			err = fmt.Errorf("%w: %s: %v", ErrRuleFailed, rr.Rule.ID(), recovered)
		}
	}()

	rc := NewRuleContext(lines, rr.Options)
	rc.Telemetry = l.Telemetry

	found = rr.Rule.Validate(rc)
	for idx := range found {
		found[idx].RuleID = rr.Rule.ID()
		found[idx].RuleName = rr.Rule.Name()
	}
	return found, nil
}

// FixOptions controls a fix run.
type FixOptions struct {
	// Rules restricts fixing to these rule IDs, names, or aliases. Empty means
	// every fixable rule that reported a violation.
	Rules []string
}

// FixResult describes the outcome of a fix run on one document.
type FixResult struct {
	// Lines is the fixed document.
	Lines []string

	// Before holds the violations found before fixing.
	Before []Violation

	// After holds the violations that remain after fixing.
	After []Violation

	// RulesApplied lists the fixers run, in the order they ran.
	RulesApplied []string

	// EstimatedFixes approximates the number of fixes from the change in line
	// count; it is at least 1 whenever the document changed. Advisory only.
	EstimatedFixes int

	// Changed reports whether Lines differs from the input.
	Changed bool
}

// Fix lints the document, applies the fixers of the rules that reported
// violations in the order their first violation appeared, and lints the
// result again. A fixer failure returns a nil result wrapping ErrFixAborted;
// a failing Validate returns the result together with an ErrRuleFailed error.
func (l *Linter) Fix(lines []string, cfg *config.Config, opts FixOptions) (*FixResult, error) {
	before, lintErr := l.Lint(lines, cfg)

	ids := l.fixOrder(before, cfg, opts)

	composer := NewComposer(l.Registry, cfg)
	composer.Telemetry = l.Telemetry

	fixed, err := composer.ApplyRuleFixes(lines, ids)
	if err != nil {
		return nil, err
	}

	after, afterErr := l.Lint(fixed, cfg)

	result := &FixResult{
		Lines:        fixed,
		Before:       before,
		After:        after,
		RulesApplied: ids,
		Changed:      !slices.Equal(lines, fixed),
	}
	if result.Changed {
		result.EstimatedFixes = max(len(fixed)-len(lines), 1)
	}

	return result, errors.Join(lintErr, afterErr)
}

// fixOrder returns the fixable rule IDs in order of first violation.
func (l *Linter) fixOrder(violations []Violation, cfg *config.Config, opts FixOptions) []string {
	allowed := make(map[string]bool, len(opts.Rules))
	for _, key := range opts.Rules {
		if id, _, ok := l.Registry.Resolve(key); ok {
			allowed[id] = true
		}
	}

	seen := make(map[string]bool)
	var ids []string
	for _, v := range violations {
		if seen[v.RuleID] {
			continue
		}
		seen[v.RuleID] = true

		if len(opts.Rules) > 0 && !allowed[v.RuleID] {
			continue
		}
		if !cfg.RuleEnabled(v.RuleID) {
			continue
		}
		if rule, ok := l.Registry.GetByID(v.RuleID); ok && IsFixable(rule) {
			ids = append(ids, v.RuleID)
		}
	}

	return ids
}
