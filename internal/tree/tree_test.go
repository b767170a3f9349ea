package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/dracula/internal/span"
)

type fakeNode struct {
	kind       string
	start, end int
	children   []*fakeNode
}

func (f *fakeNode) Kind() string    { return f.kind }
func (f *fakeNode) StartByte() int  { return f.start }
func (f *fakeNode) EndByte() int    { return f.end }
func (f *fakeNode) ChildCount() int { return len(f.children) }
func (f *fakeNode) Child(i int) Node {
	if i < 0 || i >= len(f.children) {
		return nil
	}
	return f.children[i]
}

// leaf makes a node covering the first occurrence of text at or after from.
func leaf(src, kind, text string, from int) *fakeNode {
	i := strings.Index(src[from:], text)
	if i < 0 {
		panic("missing " + text)
	}
	return &fakeNode{kind: kind, start: from + i, end: from + i + len(text)}
}

func parent(kind string, children ...*fakeNode) *fakeNode {
	return &fakeNode{
		kind:     kind,
		start:    children[0].start,
		end:      children[len(children)-1].end,
		children: children,
	}
}

func TestExtractSkipsOpaqueSubtrees(t *testing.T) {
	t.Parallel()

	src := `f("a", g("b")) // c`
	inner := parent("call", leaf(src, "identifier", "g", 7), leaf(src, "string", `"b"`, 8))
	root := parent("program",
		parent("call",
			leaf(src, "identifier", "f", 0),
			leaf(src, "string", `"a"`, 0),
			inner,
		),
		leaf(src, "comment", "// c", 0),
	)

	table := NewKindTable([]string{"string", "comment", "opaque_call"})
	got := Extract(src, root, table)
	assert.Equal(t, []span.Opaque{{2, 5}, {9, 12}, {15, 19}}, got)

	// An opaque call hides the string inside it.
	inner.kind = "opaque_call"
	got = Extract(src, root, table)
	assert.Equal(t, []span.Opaque{{2, 5}, {7, 12}, {15, 19}}, got)
}

func TestExtractIsSortedAndDisjoint(t *testing.T) {
	t.Parallel()

	src := "a /*x*/ b /*y*/ c /*z*/"
	var children []*fakeNode
	from := 0
	for _, tok := range []string{"a", "/*x*/", "b", "/*y*/", "c", "/*z*/"} {
		kind := "identifier"
		if strings.HasPrefix(tok, "/*") {
			kind = "comment"
		}
		n := leaf(src, kind, tok, from)
		from = n.end
		children = append(children, n)
	}

	got := Extract(src, parent("program", children...), NewKindTable([]string{"comment"}))
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].End, got[i].Start)
	}
	assert.Equal(t, got, span.Normalize(got))
}

func TestKindTableException(t *testing.T) {
	t.Parallel()

	table := NewKindTable(
		[]string{"parameters"},
		Exception{Kind: "parameters", DescendIfContains: "="},
	)
	assert.True(t, table.IsOpaque("parameters", "(a, b)"))
	assert.False(t, table.IsOpaque("parameters", "(a, b=f())"))
	assert.False(t, table.IsOpaque("identifier", "a"))

	// Tables decoded from configuration index lazily.
	decoded := &KindTable{Opaque: []string{"comment"}}
	assert.True(t, decoded.IsOpaque("comment", "# x"))
}

func TestExtractEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Extract("", nil, Tables[Python]))
	assert.Nil(t, Extract("", &fakeNode{kind: "module"}, Tables[Python]))
}

func TestParseGrammar(t *testing.T) {
	t.Parallel()

	for g, name := range grammarNames {
		got, err := ParseGrammar(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, g, got)
		assert.Equal(t, name, g.String())
		assert.Contains(t, Tables, g)
	}

	_, err := ParseGrammar("cobol")
	assert.ErrorIs(t, err, ErrUnsupportedGrammar)

	_, err = NewParser(Grammar(42))
	assert.ErrorIs(t, err, ErrUnsupportedGrammar)
	assert.Equal(t, "Grammar(42)", Grammar(42).String())
}

func TestParserExecutableLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		grammar Grammar
		src     string
		want    []int
	}{
		{
			Python,
			"def f(a, b):\n    # note\n    return a\n",
			[]int{1, 3},
		},
		{
			Python,
			"def g(\n    a,\n    b=1,\n):\n    \"\"\"doc\"\"\"\n    return b\n",
			[]int{1, 2, 3, 4, 6},
		},
		{
			Rust,
			"fn main() {\n    // hi\n    let s = r#\"x\"#;\n}\n",
			[]int{1, 3},
		},
		{
			C,
			"int main(void)\n{\n    /* c */\n    return 0;\n}\n",
			[]int{1, 4},
		},
		{
			JavaScript,
			"const a = `plain`;\nconst b = `${a}`;\n// done\n",
			[]int{1, 2},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.grammar.String(), func(t *testing.T) {
			t.Parallel()
			p, err := NewParser(tt.grammar)
			require.NoError(t, err)

			got, err := p.ExecutableLines(context.Background(), tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParserEmptySource(t *testing.T) {
	t.Parallel()

	for g := range grammarNames {
		p, err := NewParser(g)
		require.NoError(t, err)
		got, err := p.ExecutableLines(context.Background(), "")
		require.NoError(t, err, g.String())
		assert.Empty(t, got)
	}
}

func TestParserReportsSyntaxErrors(t *testing.T) {
	t.Parallel()

	p, err := NewParser(Python)
	require.NoError(t, err)

	_, err = p.OpaqueSpans(context.Background(), "def (:\n")
	assert.ErrorIs(t, err, ErrParseFailed)
}
