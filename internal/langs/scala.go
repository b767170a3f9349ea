package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

var Scala = &lex.Language{
	Name: "scala",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
	},
}
