package configloader

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdfix/pkg/config"
)

// ReadFile reads a markdownlint configuration file. Keys are kept as
// written; the returned warnings describe ignored settings.
func ReadFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw, err := decode(path, content)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg, warnings := config.FromMarkdownlint(raw)
	return cfg, warnings, nil
}

func decode(path string, content []byte) (map[string]any, error) {
	raw := make(map[string]any)

	switch DetectFormat(path) {
	case "json":
		if err := parseJSONC(content, &raw); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", path)
	}

	return raw, nil
}

// parseJSONC parses JSON that may contain // and /* */ comments.
func parseJSONC(content []byte, target any) error {
	if err := json.Unmarshal(content, target); err == nil {
		return nil
	}

	if err := json.Unmarshal(stripJSONComments(content), target); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return nil
}

// stripJSONComments removes comments outside string literals. Newlines that
// end line comments are kept so offsets in error messages stay close.
func stripJSONComments(content []byte) []byte {
	out := make([]byte, 0, len(content))

	const (
		code = iota
		str
		lineComment
		blockComment
	)
	state := code

	for idx := 0; idx < len(content); idx++ {
		char := content[idx]
		var next byte
		if idx+1 < len(content) {
			next = content[idx+1]
		}

		switch state {
		case lineComment:
			if char == '\n' {
				state = code
				out = append(out, char)
			}
		case blockComment:
			if char == '*' && next == '/' {
				state = code
				idx++
			}
		case str:
			out = append(out, char)
			switch char {
			case '\\':
				if idx+1 < len(content) {
					idx++
					out = append(out, next)
				}
			case '"':
				state = code
			}
		default:
			switch {
			case char == '"':
				state = str
				out = append(out, char)
			case char == '/' && next == '/':
				state = lineComment
				idx++
			case char == '/' && next == '*':
				state = blockComment
				idx++
			default:
				out = append(out, char)
			}
		}
	}

	return out
}

// MigrationHeader is written above a configuration converted by Convert.
const MigrationHeader = "# Generated by mdfix from %s\n"

// Convert reads a markdownlint configuration file and returns it with rule
// keys normalized to rule IDs, encoded as markdownlint YAML.
func Convert(path string, resolver config.KeyResolver) ([]byte, []string, error) {
	cfg, warnings, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, cfg.Normalize(resolver)...)

	body, err := yaml.Marshal(cfg.ToMarkdownlint())
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", path, err)
	}

	return append(fmt.Appendf(nil, MigrationHeader, path), body...), warnings, nil
}
