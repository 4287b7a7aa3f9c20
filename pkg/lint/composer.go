package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/mdfix/pkg/config"
)

// ErrFixAborted is returned when a fixer fails during a composed fix pass.
// No partially fixed document is returned alongside it.
var ErrFixAborted = errors.New("fix aborted")

// Composer folds the fixes of several rules into one pass over a document.
type Composer struct {
	// Registry resolves rule IDs.
	Registry *Registry

	// Config supplies per-rule options (may be nil for defaults).
	Config *config.Config

	// Telemetry receives advisory counters from the fixers (may be nil).
	Telemetry *Telemetry
}

// NewComposer creates a Composer over the given registry and configuration.
func NewComposer(registry *Registry, cfg *config.Config) *Composer {
	return &Composer{
		Registry: registry,
		Config:   cfg,
	}
}

// ApplyRuleFixes applies each rule's fix in the given order, feeding every
// fixer the output of the previous one. Unknown IDs and rules without a fixer
// are skipped. The input slice is never modified.
//
// The result depends on the order of ids: fixers are not assumed to commute.
func (c *Composer) ApplyRuleFixes(lines []string, ids []string) ([]string, error) {
	working := make([]string, len(lines))
	copy(working, lines)

	for _, id := range ids {
		_, rule, ok := c.Registry.Resolve(id)
		if !ok {
			continue
		}

		fixer, ok := rule.(Fixer)
		if !ok {
			continue
		}

		fixed, err := c.runFixer(fixer, working)
		if err != nil {
			return nil, err
		}
		working = fixed
	}

	return working, nil
}

// runFixer runs one fixer, converting a panic into ErrFixAborted.
func (c *Composer) runFixer(fixer Fixer, lines []string) (fixed []string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			fixed = nil
			err = fmt.Errorf("%w: rule %s: %v", ErrFixAborted, fixer.ID(), recovered)
		}
	}()

	rc := NewRuleContext(lines, c.Config.RuleOptions(fixer.ID()))
	rc.Telemetry = c.Telemetry

	fixed = fixer.Fix(rc)
	if fixed == nil {
		fixed = []string{}
	}
	return fixed, nil
}

// ApplyRuleFixes applies the given rules' fixes from DefaultRegistry using
// each rule's default options.
func ApplyRuleFixes(lines []string, ids []string) ([]string, error) {
	return NewComposer(DefaultRegistry, nil).ApplyRuleFixes(lines, ids)
}
