package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

// Ruby only strips comments. String interpolation can nest arbitrarily, so
// strings are left as source.
var Ruby = &lex.Language{
	Name: "ruby",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("#").PreFixedEnd("\n"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("=begin").FixedEnd("\n=end"), false)),
	},
}
