package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/dracula/internal/langs"
	"github.com/gnoswap-labs/dracula/internal/lines"
	"github.com/gnoswap-labs/dracula/internal/tree"
	tt "github.com/gnoswap-labs/dracula/internal/types"
)

// ErrIgnoredPath is returned by Run for paths matching an ignore pattern.
var ErrIgnoredPath = errors.New("path is ignored")

// defaultGrammars routes built-in language tables to tree-sitter grammars.
var defaultGrammars = map[string]tree.Grammar{
	"python":     tree.Python,
	"c":          tree.C,
	"rust":       tree.Rust,
	"java":       tree.Java,
	"csharp":     tree.CSharp,
	"scala":      tree.Scala,
	"ruby":       tree.Ruby,
	"jsx":        tree.JavaScript,
	"typescript": tree.TypeScript,
}

// Options configures an Engine.
type Options struct {
	Mode     tt.Mode
	Registry *langs.Registry
	// Grammars overrides the language name to grammar routing.
	Grammars map[string]tree.Grammar
	// KindTables replace the built-in opaque-kind table of a grammar.
	KindTables map[tree.Grammar]*tree.KindTable
	// CacheDir enables the on-disk result cache when set.
	CacheDir string
	MaxAge   time.Duration
	// Dependencies are files whose change invalidates every cached entry,
	// typically the configuration file.
	Dependencies []string
	Logger       *zap.Logger
}

// Engine classifies source files.
type Engine struct {
	registry     *langs.Registry
	mode         tt.Mode
	grammars     map[string]tree.Grammar
	kindTables   map[tree.Grammar]*tree.KindTable
	ignoredPaths []string
	cache        *Cache
	logger       *zap.Logger

	parserMu sync.Mutex
	parsers  map[tree.Grammar]*tree.Parser

	watcher    *fsnotify.Watcher
	watchDirs  []string
	watchMu    sync.Mutex
	isWatching bool
	stop       chan struct{}
	onChange   func(tt.FileStat)
}

// NewEngine creates an engine rooted at rootDir, which is the directory
// watched by StartWatching.
func NewEngine(rootDir string, opts Options) (*Engine, error) {
	e := &Engine{
		registry:   opts.Registry,
		mode:       opts.Mode,
		grammars:   make(map[string]tree.Grammar, len(defaultGrammars)),
		kindTables: opts.KindTables,
		logger:     opts.Logger,
		parsers:    make(map[tree.Grammar]*tree.Parser),
		watchDirs:  []string{rootDir},
	}
	if e.registry == nil {
		e.registry = langs.NewRegistry()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	for name, g := range defaultGrammars {
		e.grammars[name] = g
	}
	for name, g := range opts.Grammars {
		e.grammars[name] = g
	}

	if opts.CacheDir != "" {
		cache, err := NewCache(opts.CacheDir)
		if err != nil {
			return nil, err
		}
		if opts.MaxAge > 0 {
			cache.SetMaxAge(opts.MaxAge)
		}
		if err := cache.SetDependencies(opts.Dependencies...); err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

func (e *Engine) Mode() tt.Mode { return e.mode }

// Registry returns the language registry used to select tables.
func (e *Engine) Registry() *langs.Registry { return e.registry }

// IgnorePath skips files whose path matches pattern, either as a glob on the
// path or base name, or as a path prefix.
func (e *Engine) IgnorePath(pattern string) {
	if pattern == "" {
		return
	}
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(pattern))
}

func (e *Engine) isIgnored(path string) bool {
	clean := filepath.Clean(path)
	for _, p := range e.ignoredPaths {
		if ok, _ := filepath.Match(p, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(clean)); ok {
			return true
		}
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Supports reports whether a language table is registered for path.
func (e *Engine) Supports(path string) bool {
	_, err := e.registry.ForPath(path)
	return err == nil
}

// Run classifies the file at filename, using the cache when enabled.
func (e *Engine) Run(ctx context.Context, filename string) (tt.FileStat, error) {
	if e.isIgnored(filename) {
		return tt.FileStat{}, fmt.Errorf("%w: %s", ErrIgnoredPath, filename)
	}

	if e.cache != nil {
		if stat, ok := e.cache.Get(filename, e.mode); ok {
			return stat, nil
		}
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return tt.FileStat{}, fmt.Errorf("error reading file: %w", err)
	}

	stat, err := e.RunSource(ctx, filename, content)
	if err != nil {
		return tt.FileStat{}, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, e.mode, stat); err != nil {
			e.logger.Warn("Error caching result", zap.String("file", filename), zap.Error(err))
		}
	}
	return stat, nil
}

// RunSource classifies src, choosing the language by the extension of name.
func (e *Engine) RunSource(ctx context.Context, name string, src []byte) (tt.FileStat, error) {
	if err := ctx.Err(); err != nil {
		return tt.FileStat{}, err
	}
	lang, err := e.registry.ForPath(name)
	if err != nil {
		return tt.FileStat{}, err
	}
	if !utf8.Valid(src) {
		return tt.FileStat{}, fmt.Errorf("%w: %s", tt.ErrInvalidEncoding, name)
	}
	text := string(src)

	stat := tt.FileStat{Filename: name, Language: lang.Name}
	if e.mode.Native() {
		totals := lines.Count(text, lang)
		stat.Lines = totals.Lines
		stat.Meaningful = totals.Meaningful
		stat.Indices = totals.Indices
	} else {
		stat.Lines = lines.LineCount(text)
	}

	if e.mode.Tree() {
		exec, err := e.executableLines(ctx, lang.Name, text)
		switch {
		case err == nil:
			stat.Executable = exec
		case ctx.Err() != nil:
			return tt.FileStat{}, ctx.Err()
		default:
			e.logger.Info("No syntax tree answer", zap.String("file", name), zap.Error(err))
			stat.Unknown = true
		}
	}
	return stat, nil
}

func (e *Engine) executableLines(ctx context.Context, language, src string) ([]int, error) {
	g, ok := e.grammars[language]
	if !ok {
		return nil, fmt.Errorf("%w: no grammar for %s", tree.ErrUnsupportedGrammar, language)
	}
	p, err := e.parser(g)
	if err != nil {
		return nil, err
	}
	return p.ExecutableLines(ctx, src)
}

func (e *Engine) parser(g tree.Grammar) (*tree.Parser, error) {
	e.parserMu.Lock()
	defer e.parserMu.Unlock()

	if p, ok := e.parsers[g]; ok {
		return p, nil
	}
	var (
		p   *tree.Parser
		err error
	)
	if table, ok := e.kindTables[g]; ok {
		p, err = tree.NewParserWithTable(g, table)
	} else {
		p, err = tree.NewParser(g)
	}
	if err != nil {
		return nil, err
	}
	e.parsers[g] = p
	return p, nil
}

// Close stops watching and flushes the cache to disk.
func (e *Engine) Close() error {
	e.watchMu.Lock()
	watching := e.isWatching
	e.watchMu.Unlock()

	var errs []error
	if watching {
		errs = append(errs, e.StopWatching())
	}
	if e.cache != nil {
		errs = append(errs, e.cache.Save())
	}
	return errors.Join(errs...)
}
