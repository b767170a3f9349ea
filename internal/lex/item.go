package lex

// ItemKind is the token kind an Item produces when it matches.
type ItemKind uint8

const (
	ItemComment ItemKind = iota
	ItemString
	// ItemInSource is a delimited region whose content is still source code,
	// such as a format string with embedded expressions.
	ItemInSource
)

func (k ItemKind) String() string {
	switch k {
	case ItemComment:
		return "comment"
	case ItemString:
		return "string"
	case ItemInSource:
		return "in-source"
	default:
		return "unknown"
	}
}

// Item is one lexical rule of a language table. Leaves carry a range and a
// keyed flag; the Escaped and UnEscaped wrappers only change whether a
// backslash escapes the closing sequence. All queries resolve by descending
// into wrapped items.
type Item interface {
	Begin() EndPoint
	End() EndPoint
	Keyed() bool
	Escaped() bool
	Kind() ItemKind
}

type leaf struct {
	kind  ItemKind
	rng   ItemRange
	keyed bool
}

func (l leaf) Begin() EndPoint { return l.rng.Begin }
func (l leaf) End() EndPoint   { return l.rng.End }
func (l leaf) Keyed() bool     { return l.keyed }
func (l leaf) Escaped() bool   { return false }
func (l leaf) Kind() ItemKind  { return l.kind }

// Comment is a rule producing Comment tokens. keyed requires the closing key
// to equal the opening key.
func Comment(r ItemRange, keyed bool) Item { return leaf{kind: ItemComment, rng: r, keyed: keyed} }

// String is a rule producing String tokens.
func String(r ItemRange, keyed bool) Item { return leaf{kind: ItemString, rng: r, keyed: keyed} }

// InSource is a rule whose matched text is emitted as Source.
func InSource(r ItemRange, keyed bool) Item { return leaf{kind: ItemInSource, rng: r, keyed: keyed} }

type wrapped struct {
	inner   Item
	escaped bool
}

func (w wrapped) Begin() EndPoint { return w.inner.Begin() }
func (w wrapped) End() EndPoint   { return w.inner.End() }
func (w wrapped) Keyed() bool     { return w.inner.Keyed() }
func (w wrapped) Escaped() bool   { return w.escaped }
func (w wrapped) Kind() ItemKind  { return w.inner.Kind() }

// Escaped marks item so that a closing sequence preceded by an unescaped
// backslash does not terminate it.
func Escaped(item Item) Item { return wrapped{inner: item, escaped: true} }

// UnEscaped marks item as ignoring backslashes.
func UnEscaped(item Item) Item { return wrapped{inner: item, escaped: false} }

// tokenFor builds the token item produces for the matched text.
func tokenFor(item Item, text string, offset int) Token {
	switch item.Kind() {
	case ItemComment:
		return Token{Kind: TokenComment, Text: text, Offset: offset}
	case ItemString:
		return Token{Kind: TokenString, Text: text, Offset: offset}
	default:
		return Token{Kind: TokenSource, Text: text, Offset: offset}
	}
}
