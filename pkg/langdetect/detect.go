// Package langdetect guesses the fence tag for the content of a code block.
// Strong textual signatures are checked first; go-enry's shebang lookup and
// classifier decide the rest.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be determined with confidence.
const Unknown = "text"

// maxSample bounds the number of content bytes examined.
const maxSample = 64 * 1024

// classifierCandidates limits the classifier to languages common in docs.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// fenceTags maps go-enry language names to the tags used in fence info
// strings where the two differ.
var fenceTags = map[string]string{
	"Shell":       "bash",
	"C++":         "cpp",
	"C#":          "csharp",
	"Objective-C": "objc",
	"Vim Script":  "vim",
}

// signature recognizes a language from unmistakable markers.
type signature struct {
	lang  string
	match func(sample []byte, text string) bool
}

// signatures are tried in order; earlier entries are more specific.
var signatures = []signature{
	{"go", func(sample []byte, _ string) bool {
		return bytes.HasPrefix(sample, []byte("package "))
	}},
	{"python", func(_ []byte, text string) bool {
		if strings.Contains(text, "def ") && strings.Contains(text, "):") {
			return true
		}
		if strings.Contains(text, "__name__") || strings.Contains(text, "__main__") {
			return true
		}
		return strings.HasPrefix(text, "import ") && !strings.Contains(text, "import (") ||
			strings.Contains(text, "from ") && strings.Contains(text, "import ") && !strings.Contains(text, "import (")
	}},
	{"html", func(sample []byte, _ string) bool {
		lower := bytes.ToLower(sample)
		for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(marker)) {
				return true
			}
		}
		return false
	}},
	{"json", func(sample []byte, _ string) bool {
		return (sample[0] == '{' || sample[0] == '[') && bytes.IndexByte(sample, '"') >= 0
	}},
	{"dockerfile", func(sample []byte, text string) bool {
		return bytes.HasPrefix(sample, []byte("FROM ")) ||
			strings.Contains(text, "\nFROM ") && strings.Contains(text, "\nRUN ") ||
			strings.Contains(text, "WORKDIR ") && strings.Contains(text, "COPY ")
	}},
	{"sql", func(_ []byte, text string) bool {
		upper := strings.ToUpper(text)
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(_ []byte, text string) bool {
		return strings.Contains(text, "fn main()") ||
			strings.Contains(text, "println!") ||
			strings.Contains(text, "let mut ")
	}},
	{"javascript", func(_ []byte, text string) bool {
		for _, marker := range []string{"=>", "const ", "let ", "console.log"} {
			if strings.Contains(text, marker) {
				return true
			}
		}
		return false
	}},
	{"yaml", func(sample []byte, _ string) bool {
		return yamlPairs(sample) >= 2
	}},
}

// Detect returns the fence tag for content, or Unknown.
func Detect(content []byte) string {
	if len(content) > maxSample {
		content = content[:maxSample]
	}

	sample := bytes.TrimSpace(content)
	if len(sample) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(sample); safe {
		return fenceTag(lang)
	}

	text := string(sample)
	for _, sig := range signatures {
		if sig.match(sample, text) {
			return sig.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(sample, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}

	return Unknown
}

// DetectLines is Detect over lines joined with newlines.
func DetectLines(lines []string) string {
	return Detect([]byte(strings.Join(lines, "\n")))
}

func fenceTag(lang string) string {
	if tag, ok := fenceTags[lang]; ok {
		return tag
	}
	return strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
}

// yamlPairs counts lines that look like "key: value" or a root list item.
func yamlPairs(sample []byte) int {
	count := 0
	for _, line := range bytes.Split(sample, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count
}
