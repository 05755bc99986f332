package work

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher decides whether a token counts as an occurrence of the target.
// A token matches when it equals the target or one of its variants exactly,
// or, with case folding enabled, when it equals any of them ignoring case.
type Matcher struct {
	target     string
	accepted   map[string]struct{}
	ignoreCase bool
}

// NewMatcher builds a Matcher for target. Without variants it accepts the
// target and its capitalised form, so "the" also counts "The".
func NewMatcher(target string, variants ...string) Matcher {
	if variants == nil {
		variants = DefaultVariants(target)
	}
	accepted := make(map[string]struct{}, len(variants)+1)
	accepted[target] = struct{}{}
	for _, v := range variants {
		if v != "" {
			accepted[v] = struct{}{}
		}
	}
	return Matcher{target: target, accepted: accepted}
}

// DefaultVariants returns the capitalised form of target, or nothing when
// capitalising does not change it.
func DefaultVariants(target string) []string {
	r, size := utf8.DecodeRuneInString(target)
	if r == utf8.RuneError {
		return []string{}
	}
	capitalised := string(unicode.ToUpper(r)) + target[size:]
	if capitalised == target {
		return []string{}
	}
	return []string{capitalised}
}

// WithIgnoreCase returns a copy that compares tokens case-insensitively.
func (m Matcher) WithIgnoreCase(ignore bool) Matcher {
	m.ignoreCase = ignore
	return m
}

func (m Matcher) Target() string {
	return m.target
}

// Variants lists the accepted spellings other than the target, unordered.
func (m Matcher) Variants() []string {
	out := make([]string, 0, len(m.accepted))
	for v := range m.accepted {
		if v != m.target {
			out = append(out, v)
		}
	}
	return out
}

func (m Matcher) Match(token string) bool {
	if _, ok := m.accepted[token]; ok {
		return true
	}
	if !m.ignoreCase {
		return false
	}
	for v := range m.accepted {
		if strings.EqualFold(v, token) {
			return true
		}
	}
	return false
}

// CountLine splits line on whitespace and counts matching tokens.
func (m Matcher) CountLine(line string) int {
	count := 0
	for _, token := range strings.Fields(line) {
		if m.Match(token) {
			count++
		}
	}
	return count
}
