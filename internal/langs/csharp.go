package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

var CSharp = &lex.Language{
	Name: "csharp",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
	},
}
