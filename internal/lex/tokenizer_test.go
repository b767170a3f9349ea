package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cLike = &Language{
	Name: "c-like",
	Items: []Item{
		Escaped(Comment(FixedStart("//").PreFixedEnd("\n"), false)),
		UnEscaped(Comment(FixedStart("/*").FixedEnd("*/"), false)),
		Escaped(String(FixedStart(`"`).FixedEnd(`"`), false)),
		UnEscaped(String(
			StartMatcher(Exact(`R"`), AnyAlphaNumeric{}, Exact("(")).
				EndMatcher(Exact(")"), AnyAlphaNumeric{}, Exact(`"`)),
			true,
		)),
	},
	Meaningful: IgnoringRunes("{}"),
}

var rustLike = &Language{
	Name: "rust-like",
	Items: []Item{
		UnEscaped(Comment(FixedStart("//").PreFixedEnd("\n"), false)),
		UnEscaped(Comment(FixedStart("/*").FixedEnd("*/"), false)),
		Escaped(String(FixedStart(`"`).FixedEnd(`"`), false)),
		UnEscaped(String(
			StartMatcher(Exact("r"), Repeat("#"), Exact(`"`)).
				EndMatcher(Exact(`"`), Repeat("#"), Empty{}),
			true,
		)),
	},
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeHaltsOnEmptyInput(t *testing.T) {
	t.Parallel()

	for _, lang := range []*Language{cLike, rustLike} {
		toks := Tokenize("", lang)
		require.Len(t, toks, 1)
		assert.Equal(t, TokenEOF, toks[0].Kind)
	}
}

func TestTokenizeEndsWithSingleEOF(t *testing.T) {
	t.Parallel()

	tz := NewTokenizer("int x; // c\n", cLike)
	var eofs int
	for tok, ok := tz.Next(); ok; tok, ok = tz.Next() {
		if tok.Kind == TokenEOF {
			eofs++
		}
	}
	assert.Equal(t, 1, eofs)

	_, ok := tz.Next()
	assert.False(t, ok, "tokenizer must stay exhausted")
}

func TestTokenizeBasicLine(t *testing.T) {
	t.Parallel()

	toks := Tokenize("int x = 1; // trailing\n", cLike)
	require.Equal(t, []TokenKind{TokenSource, TokenComment, TokenEOL, TokenEOF}, kinds(toks))
	assert.Equal(t, "int x = 1; ", toks[0].Text)
	assert.Equal(t, "// trailing", toks[1].Text)
	assert.Equal(t, 11, toks[1].Offset)
	assert.Equal(t, 22, toks[2].Offset)
}

func TestTokenizeLineCommentAtEndOfInput(t *testing.T) {
	t.Parallel()

	toks := Tokenize("x //", cLike)
	require.Equal(t, []TokenKind{TokenSource, TokenComment, TokenEOF}, kinds(toks))
	assert.Equal(t, "//", toks[1].Text)
}

func TestTokenizeKeyedRawStrings(t *testing.T) {
	t.Parallel()

	toks := Tokenize(`r##"a"#b"##`, rustLike)
	require.Equal(t, []TokenKind{TokenString, TokenEOF}, kinds(toks))
	assert.Equal(t, `r##"a"#b"##`, toks[0].Text)

	toks = Tokenize(`r#"a"#;`, rustLike)
	require.Equal(t, []TokenKind{TokenString, TokenSource, TokenEOF}, kinds(toks))
	assert.Equal(t, `r#"a"#`, toks[0].Text)
	assert.Equal(t, ";", toks[1].Text)
}

func TestTokenizeCRawStringAcrossLines(t *testing.T) {
	t.Parallel()

	toks := Tokenize("R\"TAG(raw\nstring)TAG\";\n", cLike)
	require.Equal(t, []TokenKind{TokenString, TokenSource, TokenEOL, TokenEOF}, kinds(toks))
	assert.Equal(t, "R\"TAG(raw\nstring)TAG\"", toks[0].Text)

	// A closing tag that differs from the opening one does not terminate.
	toks = Tokenize(`R"A()B")A"`, cLike)
	require.Equal(t, []TokenKind{TokenString, TokenEOF}, kinds(toks))
}

func TestTokenizeEscapes(t *testing.T) {
	t.Parallel()

	toks := Tokenize(`"a\"b"`, cLike)
	require.Equal(t, []TokenKind{TokenString, TokenEOF}, kinds(toks))
	assert.Equal(t, `"a\"b"`, toks[0].Text)

	toks = Tokenize(`"a\\"b"`, cLike)
	require.Equal(t, []TokenKind{TokenString, TokenSource, TokenSource, TokenEOF}, kinds(toks))
	assert.Equal(t, `"a\\"`, toks[0].Text)
	assert.Equal(t, "b", toks[1].Text)

	// An escaped line comment continues past a backslash-newline.
	toks = Tokenize("// a \\\nb\nc", cLike)
	require.Equal(t, []TokenKind{TokenComment, TokenEOL, TokenSource, TokenEOF}, kinds(toks))
	assert.Equal(t, "// a \\\nb", toks[0].Text)

	// Unescaped rules ignore backslashes entirely.
	toks = Tokenize(`r"\"x`, rustLike)
	assert.Equal(t, `r"\"`, toks[0].Text)
}

func TestTokenizeMultiLineComment(t *testing.T) {
	t.Parallel()

	toks := Tokenize("/* line1\nline2 */", cLike)
	require.Equal(t, []TokenKind{TokenComment, TokenEOF}, kinds(toks))
	assert.Equal(t, 17, toks[0].Len())
}

func TestTokenizeUnterminatedDegradesToSource(t *testing.T) {
	t.Parallel()

	toks := Tokenize("/* open\nx", cLike)
	assert.NotContains(t, kinds(toks), TokenComment)
	assert.Equal(t, TokenEOF, toks[len(toks)-1].Kind)

	var consumed int
	for _, tok := range toks {
		consumed += tok.Len()
	}
	assert.Equal(t, len("/* open\nx"), consumed)
}

func TestTokenizeForcesProgress(t *testing.T) {
	t.Parallel()

	broken := &Language{
		Name: "broken",
		Items: []Item{
			UnEscaped(Comment(StartMatcher(Empty{}, Empty{}, Empty{}).EndMatcher(Empty{}, Empty{}, Empty{}), false)),
		},
	}
	toks := Tokenize("abc", broken)
	require.Equal(t, []TokenKind{TokenInvalid, TokenEOF}, kinds(toks))
	assert.Equal(t, 0, toks[0].Offset)
	assert.Equal(t, 3, toks[0].Size)
	assert.Equal(t, 0, toks[0].Len())
}

func TestTokenizeMultiByteSource(t *testing.T) {
	t.Parallel()

	src := "let यह = \"काम\"; // ok"
	toks := Tokenize(src, rustLike)
	require.Equal(t, []TokenKind{TokenSource, TokenString, TokenSource, TokenComment, TokenEOF}, kinds(toks))

	var rebuilt string
	for _, tok := range toks {
		rebuilt += tok.Text
	}
	assert.Equal(t, src, rebuilt)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	t.Parallel()

	// With the single quote rule first, a triple quote opens an empty
	// string instead of a block.
	single := String(FixedStart(`"`).FixedEnd(`"`), false)
	triple := String(FixedStart(`"""`).FixedEnd(`"""`), false)

	ordered := &Language{Items: []Item{triple, single}}
	toks := Tokenize(`"""a"b"""`, ordered)
	require.Equal(t, []TokenKind{TokenString, TokenEOF}, kinds(toks))

	reversed := &Language{Items: []Item{single, triple}}
	toks = Tokenize(`"""a"b"""`, reversed)
	assert.Equal(t, `""`, toks[0].Text)
}

func TestLanguageMeaningfulFragments(t *testing.T) {
	t.Parallel()

	assert.True(t, DefaultMeaningful(" x "))
	assert.False(t, DefaultMeaningful(" \t"))
	assert.False(t, DefaultMeaningful(""))

	assert.False(t, cLike.IsMeaningfulFragment("  } "))
	assert.True(t, cLike.IsMeaningfulFragment("} else {"))
	assert.True(t, rustLike.IsMeaningfulFragment("}"))

	assert.False(t, cLike.IsMeaningful(Token{Kind: TokenComment, Text: "x"}))
	assert.True(t, cLike.IsMeaningful(Token{Kind: TokenSource, Text: "x"}))
}
