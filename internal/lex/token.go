package lex

import "fmt"

// TokenKind classifies a Token.
type TokenKind uint8

const (
	TokenComment TokenKind = iota
	TokenString
	TokenSource
	TokenInvalid
	TokenEOL
	TokenEOF
)

var tokenKindNames = [...]string{
	TokenComment: "Comment",
	TokenString:  "String",
	TokenSource:  "Source",
	TokenInvalid: "Invalid",
	TokenEOL:     "EOL",
	TokenEOF:     "EOF",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is one unit of tokenizer output.
//
// Text is the consumed text for Comment, String, Source and EOL tokens. For
// Invalid tokens Offset and Size locate the unscanned remainder, Text is its
// content, and nothing counts as consumed.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
	Size   int
}

// Len is the number of bytes the token consumed: 0 for EOF and Invalid, 1 for
// EOL, the text length otherwise.
func (t Token) Len() int {
	switch t.Kind {
	case TokenEOL:
		return 1
	case TokenInvalid, TokenEOF:
		return 0
	default:
		return len(t.Text)
	}
}

// IsBoundary reports whether the token closes a line.
func (t Token) IsBoundary() bool {
	return t.Kind == TokenEOL || t.Kind == TokenEOF
}

func (t Token) String() string {
	switch t.Kind {
	case TokenInvalid:
		return fmt.Sprintf("Invalid(%d,%d)", t.Offset, t.Size)
	case TokenEOL, TokenEOF:
		return t.Kind.String()
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
}
