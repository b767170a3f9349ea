// Package lex implements a table driven tokenizer that tracks only comment and
// string boundaries.
//
// A Language is an ordered list of Items. Each Item pairs a begin EndPoint with
// an end EndPoint, both built from prefix Matchers:
//
//	lang := &lex.Language{
//	    Name: "c-like",
//	    Items: []lex.Item{
//	        lex.Escaped(lex.Comment(lex.FixedStart("//").PreFixedEnd("\n"), false)),
//	        lex.UnEscaped(lex.Comment(lex.FixedStart("/*").FixedEnd("*/"), false)),
//	        lex.Escaped(lex.String(lex.FixedStart(`"`).FixedEnd(`"`), false)),
//	    },
//	}
//
//	tz := lex.NewTokenizer(src, lang)
//	for tok, ok := tz.Next(); ok; tok, ok = tz.Next() {
//	    // ...
//	}
//
// The first item whose begin matches at the cursor wins; there is no
// longest-match resolution. An item whose end never matches degrades to plain
// source, and the scanner always halts.
package lex
