package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/dracula/internal/langs"
	"github.com/gnoswap-labs/dracula/internal/lex"
)

func TestPythonScenario(t *testing.T) {
	t.Parallel()

	src := "# skip this\ndef f():\n    pass # comment\n"
	assert.Equal(t, 2, MeaningfulLineCount(src, langs.Python))
	assert.Equal(t, []int{1, 2}, MeaningfulLineIndices(src, langs.Python))
	assert.Equal(t, "def f():\n    pass \n", CleanedSource(src, langs.Python))
}

func TestCRawStringScenario(t *testing.T) {
	t.Parallel()

	src := "R\"TAG(raw\nstring)TAG\";\n"
	assert.Equal(t, []int{1}, MeaningfulLineIndices(src, langs.C))
	assert.Equal(t, ";\n", CleanedSource(src, langs.C))
}

func TestCleanedSourceFinalLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{"int x;", "int x;"},
		{"int x;\n", "int x;\n"},
		{"int x; // c", "int x; "},
		{"a;\n// c", "a;\n"},
		{"a;\nb; /* c */", "a;\nb; "},
		{"// only", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanedSource(tt.src, langs.C), tt.src)
	}
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	for id := langs.PythonID; id <= langs.TypeScriptID; id++ {
		lang, err := langs.ByID(id)
		require.NoError(t, err)

		assert.Zero(t, MeaningfulLineCount("", lang))
		assert.Empty(t, MeaningfulLineIndices("", lang))
		assert.Empty(t, CleanedSource("", lang))
		assert.Empty(t, Verdicts("", lang))
	}
}

func TestLineStraddling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []int
	}{
		{"block comment only", "/* line1\nline2 */", nil},
		{"code before", "x; /* line1\nline2 */", []int{0}},
		{"code after", "/* line1\nline2 */ y;", []int{1}},
		{"three lines", "a;\n/* 1\n2\n3 */\nb;\n", []int{0, 4}},
		{"string across lines", "s = \"a\\\nb\";\n", []int{0, 1}},
		{"unterminated", "int x;\n/* open\nstill open\n", []int{0, 1, 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MeaningfulLineIndices(tt.src, langs.C))
		})
	}
}

func TestBracesAreNotMeaningful(t *testing.T) {
	t.Parallel()

	src := "fn main() {\n    {\n    }\n    ()\n}\n"
	assert.Equal(t, []int{0}, MeaningfulLineIndices(src, langs.Rust))
	assert.Equal(t, []int{0, 3}, MeaningfulLineIndices(src, langs.C))
}

func TestCleanedSourceIsIdempotent(t *testing.T) {
	t.Parallel()

	srcs := []string{
		"int main() {\n  // c\n  return 0; /* x */\n}\n",
		"char *s = \"/* not a comment */\"; // yes\n\n\nint y;",
		"R\"x(\n)x\" z;",
	}
	for _, src := range srcs {
		once := CleanedSource(src, langs.C)
		assert.Equal(t, once, CleanedSource(once, langs.C), src)
	}
}

func TestIndexCountAgreement(t *testing.T) {
	t.Parallel()

	srcs := []string{
		"",
		"\n\n\n",
		"a\nb\nc",
		"/* a\nb */ c\n// d\n",
		"x = '''\nstring\n''' # c\n",
		"r#\"a\n\"# ;\n\"unterminated\n",
		"=begin\nx\n=end\ny\n",
	}
	for id := langs.PythonID; id <= langs.TypeScriptID; id++ {
		lang, err := langs.ByID(id)
		require.NoError(t, err)
		for _, src := range srcs {
			idx := MeaningfulLineIndices(src, lang)
			assert.Equal(t, len(idx), MeaningfulLineCount(src, lang), "%s %q", lang.Name, src)
			assert.Equal(t, idx, Count(src, lang).Indices)
		}
	}
}

func TestVerdictOffsets(t *testing.T) {
	t.Parallel()

	vs := Verdicts("a\n\nbc", langs.C)
	require.Len(t, vs, 3)
	assert.Equal(t, Verdict{Index: 0, Start: 0, End: 2, Meaningful: true}, vs[0])
	assert.Equal(t, Verdict{Index: 1, Start: 2, End: 3}, vs[1])
	assert.Equal(t, Verdict{Index: 2, Start: 3, End: 5, Meaningful: true}, vs[2])
}

func TestCountTotals(t *testing.T) {
	t.Parallel()

	got := Count("// c\nint x;\n\n", langs.C)
	assert.Equal(t, Totals{Lines: 3, Meaningful: 1, Indices: []int{1}}, got)
}

type drained struct{}

func (drained) Next() (lex.Token, bool) { return lex.Token{}, false }

func TestClassifierStopsOnExhaustedStream(t *testing.T) {
	t.Parallel()

	c := NewClassifierFrom("a\nb\n", langs.C, drained{})
	var n int
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		assert.False(t, v.Meaningful)
		n++
	}
	assert.Equal(t, 2, n)
}

func TestInvalidRemainderIsNotMeaningful(t *testing.T) {
	t.Parallel()

	zero := &lex.Language{
		Name: "zero",
		Items: []lex.Item{
			lex.UnEscaped(lex.Comment(lex.StartMatcher(lex.Empty{}, lex.Empty{}, lex.Empty{}).
				EndMatcher(lex.Empty{}, lex.Empty{}, lex.Empty{}), false)),
		},
	}
	assert.Empty(t, MeaningfulLineIndices("x\ny\n", zero))
	assert.Empty(t, CleanedSource("x\ny\n", zero))
}

func TestLineCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, LineCount(""))
	assert.Equal(t, 1, LineCount("a"))
	assert.Equal(t, 1, LineCount("a\n"))
	assert.Equal(t, 3, LineCount("a\n\nb"))
	assert.Equal(t, Count("a\n\nb", langs.C).Lines, LineCount("a\n\nb"))
}
