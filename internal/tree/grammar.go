package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/gnoswap-labs/dracula/internal/span"
)

var (
	ErrUnsupportedGrammar = errors.New("unsupported grammar")
	ErrParseFailed        = errors.New("syntax tree parse failed")
)

// Grammar selects an external tree-sitter grammar.
type Grammar uint8

const (
	Python Grammar = iota + 1
	Rust
	C
	Java
	TypeScript
	JavaScript
	Scala
	CSharp
	Ruby
)

var grammarNames = map[Grammar]string{
	Python:     "python",
	Rust:       "rust",
	C:          "c",
	Java:       "java",
	TypeScript: "typescript",
	JavaScript: "javascript",
	Scala:      "scala",
	CSharp:     "csharp",
	Ruby:       "ruby",
}

func (g Grammar) String() string {
	if name, ok := grammarNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Grammar(%d)", uint8(g))
}

// ParseGrammar resolves a grammar by its lower case name.
func ParseGrammar(name string) (Grammar, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range grammarNames {
		if n == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedGrammar, name)
}

func (g Grammar) language() *sitter.Language {
	switch g {
	case Python:
		return python.GetLanguage()
	case Rust:
		return rust.GetLanguage()
	case C:
		return c.GetLanguage()
	case Java:
		return java.GetLanguage()
	case TypeScript:
		return typescript.GetLanguage()
	case JavaScript:
		return javascript.GetLanguage()
	case Scala:
		return scala.GetLanguage()
	case CSharp:
		return csharp.GetLanguage()
	case Ruby:
		return ruby.GetLanguage()
	default:
		return nil
	}
}

// Parser extracts opaque spans using one grammar and kind table. It is safe
// for concurrent use; each call parses with its own tree-sitter parser.
type Parser struct {
	grammar Grammar
	lang    *sitter.Language
	table   *KindTable
}

// NewParser returns a parser for g using its built-in kind table.
func NewParser(g Grammar) (*Parser, error) {
	table, ok := Tables[g]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGrammar, g)
	}
	return NewParserWithTable(g, table)
}

// NewParserWithTable is NewParser with a caller supplied kind table.
func NewParserWithTable(g Grammar, table *KindTable) (*Parser, error) {
	lang := g.language()
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGrammar, g)
	}
	return &Parser{grammar: g, lang: lang, table: table}, nil
}

func (p *Parser) Grammar() Grammar { return p.grammar }

// OpaqueSpans parses src and returns its opaque spans. A tree holding syntax
// errors yields ErrParseFailed.
func (p *Parser) OpaqueSpans(ctx context.Context, src string) ([]span.Opaque, error) {
	if src == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.lang)

	t, err := parser.ParseCtx(ctx, nil, []byte(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailed, p.grammar, err)
	}
	defer t.Close()

	root := t.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, p.grammar)
	}
	return Extract(src, sitterNode{root}, p.table), nil
}

// ExecutableLines returns the 1-based lines of src with code outside every
// opaque span.
func (p *Parser) ExecutableLines(ctx context.Context, src string) ([]int, error) {
	spans, err := p.OpaqueSpans(ctx, src)
	if err != nil {
		return nil, err
	}
	return span.ExecutableLines(src, spans), nil
}

// sitterNode adapts a tree-sitter node to Node.
type sitterNode struct {
	n *sitter.Node
}

func (s sitterNode) Kind() string    { return s.n.Type() }
func (s sitterNode) StartByte() int  { return int(s.n.StartByte()) }
func (s sitterNode) EndByte() int    { return int(s.n.EndByte()) }
func (s sitterNode) ChildCount() int { return int(s.n.ChildCount()) }

func (s sitterNode) Child(i int) Node {
	c := s.n.Child(i)
	if c == nil {
		return nil
	}
	return sitterNode{c}
}
