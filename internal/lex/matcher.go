package lex

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher recognizes a prefix of text.
//
// Match returns the matched prefix and true on success. Matching the empty
// string is a success and is distinct from failing to match.
type Matcher interface {
	Match(text string) (string, bool)
}

// Exact matches a fixed literal.
type Exact string

func (m Exact) Match(text string) (string, bool) {
	if strings.HasPrefix(text, string(m)) {
		return text[:len(m)], true
	}
	return "", false
}

func (m Exact) String() string { return fmt.Sprintf("Exact(%q)", string(m)) }

// PreExact matches a fixed literal but consumes it minus its last byte, so a
// terminator like the newline ending a line comment is left for the next token.
//
// A PreExact newline also matches at end of input, which lets a trailing line
// comment without a final newline terminate.
type PreExact string

func (m PreExact) Match(text string) (string, bool) {
	if m == "" {
		return "", true
	}
	if strings.HasPrefix(text, string(m)) {
		return text[:len(m)-1], true
	}
	if m == "\n" && text == "" {
		return "", true
	}
	return "", false
}

func (m PreExact) String() string { return fmt.Sprintf("PreExact(%q)", string(m)) }

// Repeat matches zero or more back-to-back copies of a literal.
type Repeat string

func (m Repeat) Match(text string) (string, bool) {
	if m == "" {
		return "", true
	}
	i := 0
	for strings.HasPrefix(text[i:], string(m)) {
		i += len(m)
	}
	return text[:i], true
}

func (m Repeat) String() string { return fmt.Sprintf("Repeat(%q)", string(m)) }

// AnyAlphaNumeric matches the longest run of letters and digits, possibly empty.
type AnyAlphaNumeric struct{}

func (AnyAlphaNumeric) Match(text string) (string, bool) {
	for i, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return text[:i], true
		}
	}
	return text, true
}

func (AnyAlphaNumeric) String() string { return "AnyAlphaNumeric" }

// Func delegates matching to a caller supplied extraction function. The
// returned prefix must be a prefix of text.
type Func func(text string) (string, bool)

func (m Func) Match(text string) (string, bool) {
	prefix, ok := m(text)
	if !ok || !strings.HasPrefix(text, prefix) {
		return "", false
	}
	return prefix, true
}

func (Func) String() string { return "Func" }

// Empty matches the empty string.
type Empty struct{}

func (Empty) Match(string) (string, bool) { return "", true }

func (Empty) String() string { return "Empty" }

// Any consumes nothing and always succeeds. It reads as "no constraint" in a
// key position, where Empty reads as "nothing here".
type Any struct{}

func (Any) Match(string) (string, bool) { return "", true }

func (Any) String() string { return "Any" }

// runeStart reports whether offset i of s begins a rune or is the end of s.
func runeStart(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}
