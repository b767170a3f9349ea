package lex

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Matches holds the start, key and end spans of a successful EndPoint match.
type Matches [3]Span

// Key returns the span captured by the key matcher.
func (m Matches) Key() Span { return m[1] }

// End returns the offset just past the whole match.
func (m Matches) End() int { return m[2].End }

// EndPoint is an ordered triple of matchers applied back to back without
// backtracking: Start at offset 0, Key right after it, End right after that.
type EndPoint struct {
	Start Matcher
	Key   Matcher
	End   Matcher
}

// Match applies the three matchers in order. It fails as a whole if any of
// them fails.
func (e EndPoint) Match(text string) (Matches, bool) {
	var m Matches
	start, ok := match(e.Start, text)
	if !ok {
		return m, false
	}
	s1 := len(start)
	key, ok := match(e.Key, text[s1:])
	if !ok {
		return m, false
	}
	s2 := s1 + len(key)
	end, ok := match(e.End, text[s2:])
	if !ok {
		return m, false
	}
	s3 := s2 + len(end)
	m[0] = Span{0, s1}
	m[1] = Span{s1, s2}
	m[2] = Span{s2, s3}
	return m, true
}

// MatchKey is Match with the extra requirement that the captured key text
// equals key.
func (e EndPoint) MatchKey(text, key string) (Matches, bool) {
	m, ok := e.Match(text)
	if !ok {
		return m, false
	}
	k := m.Key()
	if text[k.Start:k.End] != key {
		return m, false
	}
	return m, true
}

// match treats a nil matcher as Empty.
func match(m Matcher, text string) (string, bool) {
	if m == nil {
		return "", true
	}
	return m.Match(text)
}

// ItemRange describes how the opening and closing sequences of a token are
// recognized.
type ItemRange struct {
	Begin EndPoint
	End   EndPoint
}

// RangeBuilder carries a begin EndPoint until the end is supplied.
type RangeBuilder struct {
	begin EndPoint
}

// FixedStart begins a range with a literal opening sequence.
func FixedStart(lit string) RangeBuilder {
	return RangeBuilder{begin: EndPoint{Start: Exact(lit), Key: Empty{}, End: Empty{}}}
}

// StartMatcher begins a range with an arbitrary matcher triple.
func StartMatcher(start, key, end Matcher) RangeBuilder {
	return RangeBuilder{begin: EndPoint{Start: start, Key: key, End: end}}
}

// FixedEnd closes the range with a literal.
func (b RangeBuilder) FixedEnd(lit string) ItemRange {
	return ItemRange{
		Begin: b.begin,
		End:   EndPoint{Start: Exact(lit), Key: Empty{}, End: Empty{}},
	}
}

// PreFixedEnd closes the range with a literal whose last byte is left
// unconsumed.
func (b RangeBuilder) PreFixedEnd(lit string) ItemRange {
	if lit == "" {
		panic("lex: PreFixedEnd needs a non-empty literal")
	}
	return ItemRange{
		Begin: b.begin,
		End:   EndPoint{Start: PreExact(lit), Key: Empty{}, End: Empty{}},
	}
}

// EndMatcher closes the range with an arbitrary matcher triple.
func (b RangeBuilder) EndMatcher(start, key, end Matcher) ItemRange {
	return ItemRange{Begin: b.begin, End: EndPoint{Start: start, Key: key, End: end}}
}
