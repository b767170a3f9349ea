package lex

// Tokenizer is a pull scanner over a source string. It emits Comment, String
// and Source tokens, an EOL token per newline, and exactly one EOF token at the
// end. A Tokenizer is single use.
type Tokenizer struct {
	src  string
	lang *Language
	pos  int
	done bool
}

// NewTokenizer returns a tokenizer over src using the rules of lang.
func NewTokenizer(src string, lang *Language) *Tokenizer {
	return &Tokenizer{src: src, lang: lang}
}

// Next returns the next token. The second result is false once EOF has been
// returned.
func (t *Tokenizer) Next() (Token, bool) {
	if t.done {
		return Token{}, false
	}
	if t.pos >= len(t.src) {
		t.done = true
		return Token{Kind: TokenEOF, Offset: len(t.src)}, true
	}

	tok, ok := t.scan(t.src[t.pos:])
	if !ok || tok.Len() == 0 {
		// Give up on the remainder: the cursor must always move forward.
		tok = Token{
			Kind:   TokenInvalid,
			Text:   t.src[t.pos:],
			Offset: t.pos,
			Size:   len(t.src) - t.pos,
		}
		t.pos = len(t.src)
		return tok, true
	}
	tok.Offset = t.pos
	t.pos += tok.Len()
	return tok, true
}

// Tokens drains the tokenizer, EOF included.
func (t *Tokenizer) Tokens() []Token {
	var toks []Token
	for {
		tok, ok := t.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

// Tokenize is a convenience wrapper returning every token of src.
func Tokenize(src string, lang *Language) []Token {
	return NewTokenizer(src, lang).Tokens()
}

func (t *Tokenizer) scan(text string) (Token, bool) {
	if text[0] == '\n' {
		return Token{Kind: TokenEOL, Text: text[:1]}, true
	}

	if i, begin, ok := t.lang.beginMatch(text); ok {
		if tok, ok := scanItem(t.lang.Items[i], text, begin); ok {
			return tok, true
		}
	}

	// Plain source runs until a newline, the end, or the start of any rule.
	for end := 1; end <= len(text); end++ {
		if !runeStart(text, end) {
			continue
		}
		if end == len(text) || text[end] == '\n' {
			return Token{Kind: TokenSource, Text: text[:end]}, true
		}
		if _, _, ok := t.lang.beginMatch(text[end:]); ok {
			return Token{Kind: TokenSource, Text: text[:end]}, true
		}
	}
	return Token{}, false
}

// scanItem searches forward from the end of the begin match for the first
// position where the item's end matches. Escaped items skip the byte that
// follows an unescaped backslash.
func scanItem(item Item, text string, begin Matches) (Token, bool) {
	k := begin.Key()
	key := text[k.Start:k.End]
	end := item.End()
	escaped := item.Escaped()
	keyed := item.Keyed()

	escape := false
	for b := begin.End(); b <= len(text); b++ {
		if escape {
			escape = false
			continue
		}
		if !runeStart(text, b) {
			continue
		}
		if escaped && b < len(text) && text[b] == '\\' {
			escape = true
			continue
		}

		var (
			m  Matches
			ok bool
		)
		if keyed {
			m, ok = end.MatchKey(text[b:], key)
		} else {
			m, ok = end.Match(text[b:])
		}
		if ok {
			return tokenFor(item, text[:b+m.End()], 0), true
		}
	}
	return Token{}, false
}
