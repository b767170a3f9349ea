package langs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gnoswap-labs/dracula/internal/lex"
)

var (
	ErrInvalidTable       = errors.New("invalid language table")
	ErrUnknownMatcherFunc = errors.New("unknown matcher function")
)

// matcherFuncs are the extraction functions a table record can reference by
// name.
var matcherFuncs = map[string]lex.Func{
	"python-string-prefix": PythonStringPrefix,
	"python-format-prefix": PythonFormatPrefix,
}

// MatcherFuncNames lists the names usable in a matcher record's func field.
func MatcherFuncNames() []string {
	names := make([]string, 0, len(matcherFuncs))
	for name := range matcherFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatcherRecord selects one matcher. At most one field may be set; a record
// with none set is Empty.
type MatcherRecord struct {
	Exact        string `yaml:"exact,omitempty" toml:"exact,omitempty"`
	PreExact     string `yaml:"pre-exact,omitempty" toml:"pre-exact,omitempty"`
	Repeat       string `yaml:"repeat,omitempty" toml:"repeat,omitempty"`
	AlphaNumeric bool   `yaml:"alphanumeric,omitempty" toml:"alphanumeric,omitempty"`
	Func         string `yaml:"func,omitempty" toml:"func,omitempty"`
	Any          bool   `yaml:"any,omitempty" toml:"any,omitempty"`
}

// Build resolves the record into a matcher.
func (r MatcherRecord) Build() (lex.Matcher, error) {
	var (
		set []string
		m   lex.Matcher = lex.Empty{}
	)
	if r.Exact != "" {
		set, m = append(set, "exact"), lex.Exact(r.Exact)
	}
	if r.PreExact != "" {
		set, m = append(set, "pre-exact"), lex.PreExact(r.PreExact)
	}
	if r.Repeat != "" {
		set, m = append(set, "repeat"), lex.Repeat(r.Repeat)
	}
	if r.AlphaNumeric {
		set, m = append(set, "alphanumeric"), lex.AnyAlphaNumeric{}
	}
	if r.Func != "" {
		fn, ok := matcherFuncs[r.Func]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMatcherFunc, r.Func)
		}
		set, m = append(set, "func"), fn
	}
	if r.Any {
		set, m = append(set, "any"), lex.Any{}
	}
	if len(set) > 1 {
		return nil, fmt.Errorf("%w: matcher sets %v", ErrInvalidTable, set)
	}
	return m, nil
}

// EndPointRecord is the start, key and end matcher triple of one endpoint.
type EndPointRecord struct {
	Start MatcherRecord `yaml:"start" toml:"start"`
	Key   MatcherRecord `yaml:"key,omitempty" toml:"key,omitempty"`
	End   MatcherRecord `yaml:"end,omitempty" toml:"end,omitempty"`
}

func (r EndPointRecord) Build() (lex.EndPoint, error) {
	start, err := r.Start.Build()
	if err != nil {
		return lex.EndPoint{}, fmt.Errorf("start: %w", err)
	}
	key, err := r.Key.Build()
	if err != nil {
		return lex.EndPoint{}, fmt.Errorf("key: %w", err)
	}
	end, err := r.End.Build()
	if err != nil {
		return lex.EndPoint{}, fmt.Errorf("end: %w", err)
	}
	return lex.EndPoint{Start: start, Key: key, End: end}, nil
}

// ItemRecord is one rule of a language table.
type ItemRecord struct {
	Kind    string         `yaml:"kind" toml:"kind"`
	Escaped bool           `yaml:"escaped,omitempty" toml:"escaped,omitempty"`
	Keyed   bool           `yaml:"keyed,omitempty" toml:"keyed,omitempty"`
	Begin   EndPointRecord `yaml:"begin" toml:"begin"`
	End     EndPointRecord `yaml:"end" toml:"end"`
}

func (r ItemRecord) Build() (lex.Item, error) {
	begin, err := r.Begin.Build()
	if err != nil {
		return nil, fmt.Errorf("begin %w", err)
	}
	end, err := r.End.Build()
	if err != nil {
		return nil, fmt.Errorf("end %w", err)
	}
	if _, ok := begin.Start.(lex.Empty); ok && !r.Keyed {
		if _, ok := begin.End.(lex.Empty); ok {
			return nil, fmt.Errorf("%w: begin endpoint matches nothing", ErrInvalidTable)
		}
	}

	rng := lex.ItemRange{Begin: begin, End: end}
	var item lex.Item
	switch r.Kind {
	case "comment":
		item = lex.Comment(rng, r.Keyed)
	case "string":
		item = lex.String(rng, r.Keyed)
	case "in-source":
		item = lex.InSource(rng, r.Keyed)
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", ErrInvalidTable, r.Kind)
	}
	if r.Escaped {
		return lex.Escaped(item), nil
	}
	return lex.UnEscaped(item), nil
}

// TableRecord is a language table in configuration form. Ignore lists runes
// that, together with whitespace, do not make a source fragment meaningful.
type TableRecord struct {
	Name       string       `yaml:"name" toml:"name"`
	Extensions []string     `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	Ignore     string       `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
	Items      []ItemRecord `yaml:"items" toml:"items"`
}

// Build compiles the record into a language table.
func (r TableRecord) Build() (*lex.Language, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidTable)
	}
	if len(r.Items) == 0 {
		return nil, fmt.Errorf("%w: %s has no items", ErrInvalidTable, r.Name)
	}

	lang := &lex.Language{Name: r.Name, Items: make([]lex.Item, 0, len(r.Items))}
	for i, rec := range r.Items {
		item, err := rec.Build()
		if err != nil {
			return nil, fmt.Errorf("%s item %d: %w", r.Name, i, err)
		}
		lang.Items = append(lang.Items, item)
	}
	if r.Ignore != "" {
		lang.Meaningful = lex.IgnoringRunes(r.Ignore)
	}
	return lang, nil
}

// RegisterTables builds every record and adds it to reg. No table is
// registered if any record fails.
func RegisterTables(reg *Registry, records []TableRecord) error {
	built := make([]*lex.Language, len(records))
	for i, rec := range records {
		lang, err := rec.Build()
		if err != nil {
			return err
		}
		built[i] = lang
	}
	for i, lang := range built {
		reg.Register(lang, records[i].Extensions...)
	}
	return nil
}
