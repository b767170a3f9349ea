// Package span maps opaque byte ranges of a source file back to its lines.
package span

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Opaque is a half-open byte range [Start, End) judged non-executable.
type Opaque struct {
	Start int
	End   int
}

// Overlaps reports whether s intersects [start, end).
func (s Opaque) Overlaps(start, end int) bool {
	return s.Start < end && s.End > start
}

// Normalize drops empty spans, sorts the rest and merges overlapping or
// touching ones.
func Normalize(spans []Opaque) []Opaque {
	if len(spans) == 0 {
		return nil
	}
	out := make([]Opaque, 0, len(spans))
	for _, s := range spans {
		if s.End > s.Start {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	merged := out[:0]
	for _, s := range out {
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			if s.End > merged[n-1].End {
				merged[n-1].End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// ExecutableLines returns the 1-based numbers of the lines of src holding at
// least one non-whitespace byte outside every span. spans must be sorted and
// non-overlapping.
func ExecutableLines(src string, spans []Opaque) []int {
	var (
		out   []int
		start int
		work  = spans
	)
	for line := 1; start < len(src); line++ {
		end := len(src)
		if nl := strings.IndexByte(src[start:], '\n'); nl >= 0 {
			end = start + nl + 1
		}

		for len(work) > 0 && work[0].End <= start {
			work = work[1:]
		}
		if lineHasCode(src, start, end, work) {
			out = append(out, line)
		}
		start = end
	}
	return out
}

// lineHasCode checks the gaps between the spans overlapping [start, end).
func lineHasCode(src string, start, end int, spans []Opaque) bool {
	cursor := start
	for _, s := range spans {
		if s.Start >= end {
			break
		}
		if s.Start > cursor && !blank(src[cursor:s.Start]) {
			return true
		}
		if s.End > cursor {
			cursor = s.End
		}
		if cursor >= end {
			return false
		}
	}
	return !blank(src[cursor:end])
}

func blank(s string) bool {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if !unicode.IsSpace(r) {
			return false
		}
		s = s[size:]
	}
	return true
}
