package configloader

import (
	"fmt"
	"math"
	"sort"

	"github.com/yaklabco/mdfix/pkg/config"
)

// optionKind is the value type a rule option expects.
type optionKind int

const (
	kindInt optionKind = iota
	kindBool
	kindString
	kindStringList
)

func (k optionKind) String() string {
	switch k {
	case kindInt:
		return "an integer"
	case kindBool:
		return "a boolean"
	case kindString:
		return "a string"
	default:
		return "a list of strings"
	}
}

// optionKinds lists the known option names and their types. Options not
// listed are accepted as-is.
//
//nolint:gochecknoglobals // Read-only lookup table.
var optionKinds = map[string]optionKind{
	"line_length":            kindInt,
	"heading_line_length":    kindInt,
	"code_block_line_length": kindInt,
	"maximum":                kindInt,
	"lines_above":            kindInt,
	"lines_below":            kindInt,
	"spaces_per_tab":         kindInt,
	"br_spaces":              kindInt,
	"level":                  kindInt,
	"heading_level":          kindInt,
	"ul_single":              kindInt,
	"ol_single":              kindInt,
	"ul_multi":               kindInt,
	"ol_multi":               kindInt,

	"strict":        kindBool,
	"code_blocks":   kindBool,
	"headings":      kindBool,
	"tables":        kindBool,
	"list_items":    kindBool,
	"siblings_only": kindBool,

	"style":              kindString,
	"punctuation":        kindString,
	"front_matter_title": kindString,
	"default_language":   kindString,

	"names":             kindStringList,
	"allowed_elements":  kindStringList,
	"allowed_languages": kindStringList,
}

// Validate reports rule options whose values have the wrong type. Rules fall
// back to their defaults for such values, so the findings are warnings.
func Validate(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}

	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []string
	for _, id := range ids {
		opts := cfg.Rules[id].Options

		names := make([]string, 0, len(opts))
		for name := range opts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			kind, known := optionKinds[name]
			if !known || matchesKind(opts[name], kind) {
				continue
			}
			warnings = append(warnings,
				fmt.Sprintf("rules.%s.%s: expected %s, got %v; using the default", id, name, kind, opts[name]))
		}
	}

	return warnings
}

func matchesKind(value any, kind optionKind) bool {
	switch kind {
	case kindInt:
		switch typed := value.(type) {
		case int, int64:
			return true
		case float64:
			return typed == math.Trunc(typed)
		}
		return false
	case kindBool:
		_, ok := value.(bool)
		return ok
	case kindString:
		_, ok := value.(string)
		return ok
	default:
		switch typed := value.(type) {
		case []string:
			return true
		case []any:
			for _, item := range typed {
				if _, ok := item.(string); !ok {
					return false
				}
			}
			return true
		}
		return false
	}
}
