package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

// C covers C and C++. Line comments honour a trailing backslash, and raw
// strings R"key(...)key" close only on the same key.
var C = &lex.Language{
	Name: "c",
	Items: []lex.Item{
		lex.Escaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
		lex.UnEscaped(lex.String(
			lex.StartMatcher(lex.Exact(`R"`), lex.AnyAlphaNumeric{}, lex.Exact("(")).
				EndMatcher(lex.Exact(")"), lex.AnyAlphaNumeric{}, lex.Exact(`"`)),
			true,
		)),
	},
	Meaningful: lex.IgnoringRunes("{}"),
}
