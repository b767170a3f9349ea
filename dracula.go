// Package dracula counts the lines of a source file that hold real code.
//
// Two independent classifiers are exposed. The native path tokenizes with a
// per-language rule table and reports 0-based line indices. The tree path
// parses with a tree-sitter grammar and reports 1-based line numbers. The two
// can disagree and are not reconciled.
package dracula

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/gnoswap-labs/dracula/internal/langs"
	"github.com/gnoswap-labs/dracula/internal/lex"
	"github.com/gnoswap-labs/dracula/internal/lines"
	"github.com/gnoswap-labs/dracula/internal/tree"
	"github.com/gnoswap-labs/dracula/internal/types"
)

// Errors shared with the internal classifiers, for use with errors.Is.
var (
	ErrInvalidEncoding     = types.ErrInvalidEncoding
	ErrUnsupportedLanguage = langs.ErrUnsupportedLanguage
	ErrUnsupportedGrammar  = tree.ErrUnsupportedGrammar
	ErrParseFailed         = tree.ErrParseFailed
)

// InvalidCount is returned by MeaningfulLineCount on failure.
const InvalidCount uint64 = math.MaxUint64

// Lang selects a native rule table.
type Lang = langs.ID

const (
	Python Lang = langs.PythonID
	C      Lang = langs.CID
	Rust   Lang = langs.RustID
	Java   Lang = langs.JavaID
	CSharp Lang = langs.CSharpID
	Scala  Lang = langs.ScalaID
	Ruby   Lang = langs.RubyID
	JSX    Lang = langs.JSXID

	TypeScript Lang = langs.TypeScriptID
)

// Grammar selects a tree-sitter grammar.
type Grammar = tree.Grammar

const (
	GrammarPython     = tree.Python
	GrammarRust       = tree.Rust
	GrammarC          = tree.C
	GrammarJava       = tree.Java
	GrammarTypeScript = tree.TypeScript
	GrammarJavaScript = tree.JavaScript
	GrammarScala      = tree.Scala
	GrammarCSharp     = tree.CSharp
	GrammarRuby       = tree.Ruby
)

func prepare(src []byte, lang Lang) (string, *lex.Language, error) {
	table, err := langs.ByID(lang)
	if err != nil {
		return "", nil, err
	}
	if !utf8.Valid(src) {
		return "", nil, ErrInvalidEncoding
	}
	return string(src), table, nil
}

// MeaningfulLineCount returns the number of meaningful lines of src, or
// InvalidCount for an unknown language or invalid encoding.
func MeaningfulLineCount(src []byte, lang uint32) uint64 {
	n, err := CountMeaningfulLines(src, Lang(lang))
	if err != nil {
		return InvalidCount
	}
	out, err := safecast.Conv[uint64](n)
	if err != nil {
		return InvalidCount
	}
	return out
}

// MeaningfulLineIndices returns the 0-based meaningful line indices of src.
// The result is nil on failure and is owned by the caller.
func MeaningfulLineIndices(src []byte, lang uint32) []uint64 {
	idx, err := MeaningfulLines(src, Lang(lang))
	if err != nil || len(idx) == 0 {
		return nil
	}
	out := make([]uint64, len(idx))
	for i, v := range idx {
		u, err := safecast.Conv[uint64](v)
		if err != nil {
			return nil
		}
		out[i] = u
	}
	return out
}

// CleanedSource returns src reduced to its meaningful fragments, or the empty
// string on failure.
func CleanedSource(src []byte, lang uint32) string {
	out, err := Clean(src, Lang(lang))
	if err != nil {
		return ""
	}
	return out
}

// CountMeaningfulLines is MeaningfulLineCount with an explicit error.
func CountMeaningfulLines(src []byte, lang Lang) (int, error) {
	text, table, err := prepare(src, lang)
	if err != nil {
		return 0, err
	}
	return lines.MeaningfulLineCount(text, table), nil
}

// MeaningfulLines returns the 0-based indices of the meaningful lines of src.
func MeaningfulLines(src []byte, lang Lang) ([]int, error) {
	text, table, err := prepare(src, lang)
	if err != nil {
		return nil, err
	}
	return lines.MeaningfulLineIndices(text, table), nil
}

// Clean returns src with comments, strings and blank lines removed.
func Clean(src []byte, lang Lang) (string, error) {
	text, table, err := prepare(src, lang)
	if err != nil {
		return "", err
	}
	return lines.CleanedSource(text, table), nil
}

// ExecutableLines returns the 1-based numbers of the lines of src that hold
// code according to grammar g. The second result is false when the grammar is
// unknown, src is not valid UTF-8 or the parse fails; callers decide whether
// that means every line counts or the file is skipped.
func ExecutableLines(ctx context.Context, src []byte, g Grammar) ([]int, bool) {
	out, err := ExecutableLinesErr(ctx, src, g)
	return out, err == nil
}

// ExecutableLinesErr is ExecutableLines reporting why no answer is available.
func ExecutableLinesErr(ctx context.Context, src []byte, g Grammar) ([]int, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidEncoding
	}
	p, err := tree.NewParser(g)
	if err != nil {
		return nil, err
	}
	out, err := p.ExecutableLines(ctx, string(src))
	if err != nil {
		return nil, fmt.Errorf("executable lines: %w", err)
	}
	return out, nil
}
