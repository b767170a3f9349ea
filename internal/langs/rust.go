package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

// Rust raw strings are keyed on the run of '#' between r and the quote.
var Rust = &lex.Language{
	Name: "rust",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
		lex.Escaped(lex.String(lex.FixedStart(`b"`).FixedEnd(`"`), false)),
		lex.UnEscaped(lex.String(
			lex.StartMatcher(lex.Exact("r"), lex.Repeat("#"), lex.Exact(`"`)).
				EndMatcher(lex.Exact(`"`), lex.Repeat("#"), lex.Empty{}),
			true,
		)),
	},
	Meaningful: lex.IgnoringRunes("{}()"),
}
