package langs

import "github.com/gnoswap-labs/dracula/internal/lex"

// JSX does not strip template literals: their interpolations are code.
var JSX = &lex.Language{
	Name: "jsx",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("<!--").FixedEnd("-->"), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
		lex.Escaped(lex.String(lex.FixedStart(`'`).FixedEnd(`'`), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
	},
}

// TypeScript shares the script comment and string rules without the HTML
// comment form.
var TypeScript = &lex.Language{
	Name: "typescript",
	Items: []lex.Item{
		lex.UnEscaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
		lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
		lex.Escaped(lex.String(lex.FixedStart(`'`).FixedEnd(`'`), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
	},
}
