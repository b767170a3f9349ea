package types

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which classifiers run on a file.
type Mode uint8

const (
	// ModeNative runs the rule table tokenizer only.
	ModeNative Mode = iota
	// ModeTree runs the tree-sitter extractor only.
	ModeTree
	// ModeBoth runs both classifiers.
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeTree:
		return "tree"
	case ModeBoth:
		return "both"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func (m Mode) Native() bool { return m == ModeNative || m == ModeBoth }
func (m Mode) Tree() bool   { return m == ModeTree || m == ModeBoth }

// ParseMode resolves a mode name. The empty string is ModeNative.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return ModeNative, nil
	case "tree":
		return ModeTree, nil
	case "both":
		return ModeBoth, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FileStat is the classification of one source file.
//
// Meaningful and Indices come from the rule table tokenizer and use 0-based
// line indices. Executable comes from the syntax tree and uses 1-based line
// numbers; Unknown is set when the tree path ran but produced no answer.
type FileStat struct {
	Filename   string `json:"filename" msgpack:"filename"`
	Language   string `json:"language" msgpack:"language"`
	Lines      int    `json:"lines" msgpack:"lines"`
	Meaningful int    `json:"meaningful" msgpack:"meaningful"`
	Indices    []int  `json:"indices,omitempty" msgpack:"indices,omitempty"`
	Executable []int  `json:"executable,omitempty" msgpack:"executable,omitempty"`
	Unknown    bool   `json:"unknown,omitempty" msgpack:"unknown,omitempty"`
}

// Summary totals a set of file stats.
type Summary struct {
	Files      int `json:"files"`
	Lines      int `json:"lines"`
	Meaningful int `json:"meaningful"`
	Executable int `json:"executable"`
	Unknown    int `json:"unknown"`
}

// Summarize adds up stats.
func Summarize(stats []FileStat) Summary {
	var s Summary
	for _, st := range stats {
		s.Files++
		s.Lines += st.Lines
		s.Meaningful += st.Meaningful
		s.Executable += len(st.Executable)
		if st.Unknown {
			s.Unknown++
		}
	}
	return s
}

// ErrInvalidEncoding reports source bytes that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("source is not valid utf-8")
