// Package tree computes opaque byte spans from a concrete syntax tree.
//
// A KindTable names the node kinds whose whole subtree is opaque, such as
// comments and string literals, plus exceptions reconsidered by the text of
// the node. Extract walks a tree in pre-order and never descends into an
// opaque node, so the spans it returns are sorted and disjoint.
package tree

import (
	"strings"
	"sync"

	"github.com/gnoswap-labs/dracula/internal/span"
)

// Node is the subset of a syntax tree node the extractor reads. Children
// include anonymous tokens such as punctuation.
type Node interface {
	Kind() string
	StartByte() int
	EndByte() int
	ChildCount() int
	Child(i int) Node
}

// Exception overrides the opaque verdict for one kind: a node of that kind is
// descended into when its text contains DescendIfContains, and is opaque
// otherwise.
type Exception struct {
	Kind              string `yaml:"kind" toml:"kind"`
	DescendIfContains string `yaml:"descend-if-contains" toml:"descend-if-contains"`
}

// KindTable is the opaque-kind configuration of one grammar.
type KindTable struct {
	Opaque     []string    `yaml:"opaque" toml:"opaque"`
	Exceptions []Exception `yaml:"exceptions,omitempty" toml:"exceptions,omitempty"`

	once   sync.Once
	opaque map[string]struct{}
	except map[string]Exception
}

// NewKindTable builds a table from opaque kinds and exceptions.
func NewKindTable(opaque []string, exceptions ...Exception) *KindTable {
	t := &KindTable{Opaque: opaque, Exceptions: exceptions}
	t.once.Do(t.index)
	return t
}

func (t *KindTable) index() {
	t.opaque = make(map[string]struct{}, len(t.Opaque))
	for _, k := range t.Opaque {
		t.opaque[k] = struct{}{}
	}
	t.except = make(map[string]Exception, len(t.Exceptions))
	for _, e := range t.Exceptions {
		t.except[e.Kind] = e
	}
}

// IsOpaque decides whether a node of the given kind and source text is
// skipped as a whole.
func (t *KindTable) IsOpaque(kind, text string) bool {
	t.once.Do(t.index)
	if e, ok := t.except[kind]; ok {
		return !strings.Contains(text, e.DescendIfContains)
	}
	_, ok := t.opaque[kind]
	return ok
}

// Extract returns the opaque spans of the tree rooted at root, in source
// order. src must be the text root was parsed from.
func Extract(src string, root Node, table *KindTable) []span.Opaque {
	if root == nil {
		return nil
	}

	var (
		out   []span.Opaque
		stack = []Node{root}
	)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		start, end := n.StartByte(), n.EndByte()
		if end > len(src) {
			end = len(src)
		}
		if start >= end {
			continue
		}
		if table.IsOpaque(n.Kind(), src[start:end]) {
			out = append(out, span.Opaque{Start: start, End: end})
			continue
		}
		for i := n.ChildCount() - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return out
}
