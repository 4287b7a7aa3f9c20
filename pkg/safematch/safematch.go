// Package safematch provides substring matching for user-configured text.
//
// Configured names, front matter keys, and punctuation sets come from
// configuration files that may be attacker controlled. None of the helpers in
// this package compile their input into a pattern; they use plain substring
// search with single-byte boundary checks, so the cost is bounded by
// len(line) * len(needle) regardless of content.
package safematch

import (
	"strings"
	"unicode/utf8"
)

// MaxPatternLength is the longest front matter pattern or punctuation set that
// is honored. Longer values never match.
const MaxPatternLength = 200

// DefaultPunctuation is the punctuation set used when a rule has none configured.
const DefaultPunctuation = ".,;:!?"

// patternMetachars are the characters that would make a configured string
// behave as a pattern rather than a literal.
const patternMetachars = `\[]^$.|?*+()`

// FindWordMatches returns the byte offsets of every case-insensitive,
// whole-word occurrence of needle in line, in ascending order.
//
// A hit counts only when the byte before and the byte after it are not word
// characters ([A-Za-z0-9_]); the start and end of the line count as
// boundaries. The search advances one byte past each candidate, so
// overlapping occurrences are each tested. An empty needle matches nothing.
func FindWordMatches(line, needle string) []int {
	if needle == "" || len(needle) > len(line) {
		return nil
	}

	folded := FoldASCII(line)
	search := FoldASCII(needle)

	var matches []int
	for start := 0; start+len(search) <= len(folded); {
		rel := strings.Index(folded[start:], search)
		if rel < 0 {
			break
		}

		idx := start + rel
		end := idx + len(search)

		beforeIsWord := idx > 0 && IsWordByte(line[idx-1])
		afterIsWord := end < len(line) && IsWordByte(line[end])
		if !beforeIsWord && !afterIsWord {
			matches = append(matches, idx)
		}

		start = idx + 1
	}

	return matches
}

// ContainsFold reports whether substr occurs in s, ignoring ASCII case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(FoldASCII(s), FoldASCII(substr))
}

// HasPatternMetachars reports whether s contains characters that would be
// meaningful in a regular expression.
func HasPatternMetachars(s string) bool {
	return strings.ContainsAny(s, patternMetachars)
}

// HasFrontMatterTitle reports whether a front matter line declares a title.
//
// With an empty pattern the line must start with "title" followed by optional
// whitespace and ":" or "=", ignoring case. Otherwise pattern is treated as a
// literal, case-insensitive substring. Metacharacters are stripped from it
// first, and patterns longer than MaxPatternLength never match.
func HasFrontMatterTitle(line, pattern string) bool {
	trimmed := strings.TrimSpace(line)

	if pattern == "" {
		return hasDefaultTitleKey(trimmed)
	}

	normalized := strings.ToLower(strings.TrimSpace(pattern))
	if len(normalized) > MaxPatternLength {
		return false
	}

	if HasPatternMetachars(normalized) {
		normalized = stripMetachars(normalized)
	}
	if normalized == "" {
		return false
	}

	return ContainsFold(trimmed, normalized)
}

// EndsWithPunctuation reports whether the last rune of content is one of the
// runes in punctuation. An empty or over-long punctuation set never matches.
func EndsWithPunctuation(content, punctuation string) bool {
	if punctuation == "" || len(punctuation) > MaxPatternLength || content == "" {
		return false
	}

	last, _ := utf8.DecodeLastRuneInString(content)
	if last == utf8.RuneError {
		return false
	}

	return strings.ContainsRune(punctuation, last)
}

// IsWordByte reports whether b is an ASCII letter, digit, or underscore.
func IsWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// hasDefaultTitleKey matches `title\s*[:=]` at the start of s, ignoring case.
func hasDefaultTitleKey(s string) bool {
	const key = "title"
	if len(s) < len(key) || !strings.EqualFold(s[:len(key)], key) {
		return false
	}

	rest := strings.TrimLeft(s[len(key):], " \t")
	return rest != "" && (rest[0] == ':' || rest[0] == '=')
}

func stripMetachars(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(patternMetachars, r) {
			return -1
		}
		return r
	}, s)
}

// FoldASCII lowercases ASCII letters only, so byte offsets in the result line
// up with offsets in the input.
func FoldASCII(s string) string {
	idx := 0
	for idx < len(s) && (s[idx] < 'A' || s[idx] > 'Z') {
		idx++
	}
	if idx == len(s) {
		return s
	}

	buf := []byte(s)
	for ; idx < len(buf); idx++ {
		if buf[idx] >= 'A' && buf[idx] <= 'Z' {
			buf[idx] += 'a' - 'A'
		}
	}
	return string(buf)
}
