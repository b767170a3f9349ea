// Package lines reconciles tokenizer output against newline delimited lines.
package lines

import (
	"strings"

	"github.com/gnoswap-labs/dracula/internal/lex"
)

// TokenSource is the pull interface of lex.Tokenizer.
type TokenSource interface {
	Next() (lex.Token, bool)
}

// Verdict is the classification of one line. Start and End are byte offsets
// of the line including its trailing newline, if any.
type Verdict struct {
	Index      int
	Start      int
	End        int
	Meaningful bool
}

type carryKind uint8

const (
	noCarry carryKind = iota
	carrying
)

// carry is a token whose bytes run past the end of the line that pulled it.
// It is reused for the following lines instead of being scanned again.
type carry struct {
	kind carryKind
	tok  lex.Token
}

// Classifier yields one Verdict per line of its source.
type Classifier struct {
	src   string
	lang  *lex.Language
	toks  TokenSource
	carry carry

	consumed  int
	lineStart int
	index     int
	exhausted bool
	buf       []lex.Token
}

// NewClassifier classifies src with a fresh tokenizer for lang.
func NewClassifier(src string, lang *lex.Language) *Classifier {
	return NewClassifierFrom(src, lang, lex.NewTokenizer(src, lang))
}

// NewClassifierFrom classifies src using an existing token stream, which
// must tokenize exactly src.
func NewClassifierFrom(src string, lang *lex.Language, toks TokenSource) *Classifier {
	return &Classifier{src: src, lang: lang, toks: toks}
}

// Next returns the verdict for the next line, or false after the last one.
func (c *Classifier) Next() (Verdict, bool) {
	if c.lineStart >= len(c.src) {
		return Verdict{}, false
	}

	end := len(c.src)
	if nl := strings.IndexByte(c.src[c.lineStart:], '\n'); nl >= 0 {
		end = c.lineStart + nl + 1
	}

	c.buf = c.buf[:0]
	if c.carry.kind == carrying {
		c.buf = append(c.buf, c.carry.tok)
	}

	for c.consumed < end && !c.exhausted {
		tok, ok := c.toks.Next()
		if !ok {
			c.exhausted = true
			break
		}
		c.buf = append(c.buf, tok)
		c.consumed += tok.Len()
	}

	v := Verdict{Index: c.index, Start: c.lineStart, End: end}
	for _, tok := range c.buf {
		if c.lang.IsMeaningful(tok) {
			v.Meaningful = true
			break
		}
	}

	c.carry = carry{kind: noCarry}
	if n := len(c.buf); n > 0 && c.consumed > end {
		c.carry = carry{kind: carrying, tok: c.buf[n-1]}
	}

	c.lineStart = end
	c.index++
	return v, true
}

// Verdicts classifies every line of src.
func Verdicts(src string, lang *lex.Language) []Verdict {
	c := NewClassifier(src, lang)
	var out []Verdict
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		out = append(out, v)
	}
	return out
}

// MeaningfulLineIndices returns the 0-based indices of meaningful lines in
// ascending order.
func MeaningfulLineIndices(src string, lang *lex.Language) []int {
	c := NewClassifier(src, lang)
	var out []int
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		if v.Meaningful {
			out = append(out, v.Index)
		}
	}
	return out
}

// MeaningfulLineCount is the number of meaningful lines in src. It always
// equals the length of MeaningfulLineIndices.
func MeaningfulLineCount(src string, lang *lex.Language) int {
	return len(MeaningfulLineIndices(src, lang))
}

// CleanedSource rebuilds src from its meaningful source fragments only. Each
// line that keeps at least one fragment ends with a newline, except a final
// line that had none in src; every other line is dropped.
func CleanedSource(src string, lang *lex.Language) string {
	var (
		out  strings.Builder
		line bool
	)
	tz := lex.NewTokenizer(src, lang)
	for tok, ok := tz.Next(); ok; tok, ok = tz.Next() {
		switch {
		case tok.IsBoundary():
			if line && tok.Kind == lex.TokenEOL {
				out.WriteByte('\n')
				line = false
			}
		case lang.IsMeaningful(tok):
			out.WriteString(tok.Text)
			line = true
		}
	}
	return out.String()
}

// Totals summarizes a source file.
type Totals struct {
	Lines      int
	Meaningful int
	Indices    []int
}

// Count classifies src once and returns its physical line count together with
// the meaningful line indices.
func Count(src string, lang *lex.Language) Totals {
	var t Totals
	c := NewClassifier(src, lang)
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		t.Lines++
		if v.Meaningful {
			t.Indices = append(t.Indices, v.Index)
		}
	}
	t.Meaningful = len(t.Indices)
	return t
}

// LineCount is the number of lines in src. A final line without a trailing
// newline counts; an empty src has none.
func LineCount(src string) int {
	n := strings.Count(src, "\n")
	if src != "" && !strings.HasSuffix(src, "\n") {
		n++
	}
	return n
}
