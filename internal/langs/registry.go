package langs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gnoswap-labs/dracula/internal/lex"
)

// ErrUnsupportedLanguage is returned for unknown language ids, names and file
// extensions.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ID selects a built-in language table. The first three values are part of
// the native interface and must not change.
type ID uint32

const (
	PythonID ID = 1
	CID      ID = 2
	RustID   ID = 3
	JavaID   ID = 4
	CSharpID ID = 5
	ScalaID  ID = 6
	RubyID   ID = 7
	JSXID    ID = 8

	TypeScriptID ID = 9
)

var builtins = map[ID]*lex.Language{
	PythonID: Python,
	CID:      C,
	RustID:   Rust,
	JavaID:   Java,
	CSharpID: CSharp,
	ScalaID:  Scala,
	RubyID:   Ruby,
	JSXID:    JSX,

	TypeScriptID: TypeScript,
}

var builtinExtensions = map[ID][]string{
	PythonID: {".py", ".pyi"},
	CID:      {".c", ".h", ".cc", ".cpp", ".cxx", ".hh", ".hpp"},
	RustID:   {".rs"},
	JavaID:   {".java"},
	CSharpID: {".cs"},
	ScalaID:  {".scala", ".sc"},
	RubyID:   {".rb"},
	JSXID:    {".jsx", ".js", ".mjs"},

	TypeScriptID: {".ts", ".mts", ".cts"},
}

// ByID returns the built-in table for id.
func ByID(id ID) (*lex.Language, error) {
	if lang, ok := builtins[id]; ok {
		return lang, nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnsupportedLanguage, id)
}

// Registry maps language names and file extensions to tables. The zero value
// is empty; use NewRegistry for one seeded with the built-ins.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*lex.Language
	byExt  map[string]string
}

// NewRegistry returns a registry holding every built-in table.
func NewRegistry() *Registry {
	r := &Registry{}
	for id, lang := range builtins {
		r.Register(lang, builtinExtensions[id]...)
	}
	return r
}

// Register adds or replaces lang and routes the given extensions to it.
func (r *Registry) Register(lang *lex.Language, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byName == nil {
		r.byName = make(map[string]*lex.Language)
		r.byExt = make(map[string]string)
	}
	r.byName[lang.Name] = lang
	for _, ext := range exts {
		r.byExt[normalizeExt(ext)] = lang.Name
	}
}

// MapExtension routes ext to an already registered language.
func (r *Registry) MapExtension(ext, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
	r.byExt[normalizeExt(ext)] = name
	return nil
}

// Lookup returns the table registered under name.
func (r *Registry) Lookup(name string) (*lex.Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if lang, ok := r.byName[name]; ok {
		return lang, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
}

// ForPath selects a table by the extension of path.
func (r *Registry) ForPath(path string) (*lex.Language, error) {
	ext := normalizeExt(filepath.Ext(path))

	r.mu.RLock()
	name, ok := r.byExt[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
	return r.Lookup(name)
}

// Extensions lists every routed extension in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
