package lex

import (
	"strings"
	"unicode"
)

// Language is a lexical rule table. Items are tried in declaration order and
// the first whose begin matches wins, so order is part of the table's meaning.
type Language struct {
	Name  string
	Items []Item
	// Meaningful reports whether a Source fragment counts as real code. Nil
	// means DefaultMeaningful.
	Meaningful func(fragment string) bool
}

// IsMeaningfulFragment applies the table's fragment predicate.
func (l *Language) IsMeaningfulFragment(fragment string) bool {
	if l.Meaningful == nil {
		return DefaultMeaningful(fragment)
	}
	return l.Meaningful(fragment)
}

// IsMeaningful reports whether tok is a Source token holding a meaningful
// fragment.
func (l *Language) IsMeaningful(tok Token) bool {
	return tok.Kind == TokenSource && l.IsMeaningfulFragment(tok.Text)
}

// DefaultMeaningful accepts any fragment with a non-whitespace character.
func DefaultMeaningful(fragment string) bool {
	return strings.IndexFunc(fragment, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// IgnoringRunes returns a predicate that rejects fragments made only of
// whitespace and the given delimiter runes.
func IgnoringRunes(delims string) func(string) bool {
	return func(fragment string) bool {
		return strings.IndexFunc(fragment, func(r rune) bool {
			return !unicode.IsSpace(r) && !strings.ContainsRune(delims, r)
		}) >= 0
	}
}

// beginMatch returns the index of the first item whose begin matches text.
func (l *Language) beginMatch(text string) (int, Matches, bool) {
	for i, item := range l.Items {
		if m, ok := item.Begin().Match(text); ok {
			return i, m, true
		}
	}
	return -1, Matches{}, false
}
