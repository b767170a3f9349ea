package langs

import (
	"strings"

	"github.com/gnoswap-labs/dracula/internal/lex"
)

// PythonStringPrefix accepts up to two of the b, r and u prefixes in either
// case, or none.
func PythonStringPrefix(src string) (string, bool) {
	const prefixes = "bruBRU"
	if len(src) > 0 && strings.IndexByte(prefixes, src[0]) >= 0 {
		if len(src) > 1 && strings.IndexByte(prefixes, src[1]) >= 0 {
			return src[:2], true
		}
		return src[:1], true
	}
	return "", true
}

// PythonFormatPrefix accepts f, fr and rf in any case and fails otherwise.
func PythonFormatPrefix(src string) (string, bool) {
	if len(src) >= 2 {
		switch strings.ToLower(src[:2]) {
		case "fr", "rf":
			return src[:2], true
		}
	}
	if len(src) >= 1 && (src[0] == 'f' || src[0] == 'F') {
		return src[:1], true
	}
	return "", false
}

func pythonQuoted(prefix lex.Func, quote string) lex.ItemRange {
	return lex.StartMatcher(prefix, lex.Empty{}, lex.Exact(quote)).
		EndMatcher(lex.Exact(quote), lex.Empty{}, lex.Empty{})
}

// Python treats docstrings as strings and format strings as source, since the
// expressions they embed are code. Triple quoted rules precede the single
// quoted ones sharing their prefix.
var Python = &lex.Language{
	Name: "python",
	Items: []lex.Item{
		lex.UnEscaped(lex.String(pythonQuoted(PythonStringPrefix, `"""`), false)),
		lex.UnEscaped(lex.String(pythonQuoted(PythonStringPrefix, `'''`), false)),
		lex.UnEscaped(lex.InSource(pythonQuoted(PythonFormatPrefix, `"""`), false)),
		lex.UnEscaped(lex.InSource(pythonQuoted(PythonFormatPrefix, `'''`), false)),
		lex.UnEscaped(lex.Comment(lex.FixedStart("#").PreFixedEnd("\n"), false)),
		lex.Escaped(lex.String(pythonQuoted(PythonStringPrefix, `"`), false)),
		lex.Escaped(lex.String(pythonQuoted(PythonStringPrefix, `'`), false)),
		lex.Escaped(lex.InSource(pythonQuoted(PythonFormatPrefix, `"`), false)),
		lex.Escaped(lex.InSource(pythonQuoted(PythonFormatPrefix, `'`), false)),
	},
}
