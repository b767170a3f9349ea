package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

// Java has no escapes outside plain strings. Text blocks must come before the
// plain string rule since both open with a quote.
var Java = &lex.Language{
	Name: "java",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
		lex.UnEscaped(lex.String(lex.FixedStart(`"""`).FixedEnd(`"""`), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
	},
	Meaningful: lex.IgnoringRunes("{}"),
}
