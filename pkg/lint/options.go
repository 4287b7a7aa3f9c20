package lint

// Options holds rule-specific settings as decoded from JSON or YAML.
// Lookups never fail: a missing or mistyped value yields the caller's default.
type Options map[string]any

// Has reports whether key is set.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Int returns an integer option. JSON numbers decode as float64 and are
// truncated.
func (o Options) Int(key string, defaultValue int) int {
	switch val := o[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// String returns a string option.
func (o Options) String(key string, defaultValue string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return defaultValue
}

// Bool returns a boolean option.
func (o Options) Bool(key string, defaultValue bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return defaultValue
}

// StringSlice returns a string list option. Non-string elements of a decoded
// []any are skipped; a list with no strings yields the default.
func (o Options) StringSlice(key string, defaultValue []string) []string {
	switch val := o[key].(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
