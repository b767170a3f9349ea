package count

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/dracula/internal"
	tt "github.com/gnoswap-labs/dracula/internal/types"
	"github.com/gnoswap-labs/dracula/scanner"
)

const maxShowRecentFiles = 10

type CountEngine interface {
	Run(ctx context.Context, filePath string) (tt.FileStat, error)
	RunSource(ctx context.Context, name string, source []byte) (tt.FileStat, error)
	Supports(filePath string) bool
	IgnorePath(path string)
}

// Source is an in-memory input. Name selects the language by extension.
type Source struct {
	Name    string
	Content []byte
}

// Processor classifies one file.
type Processor func(ctx context.Context, engine CountEngine, filePath string) (tt.FileStat, error)

// SourceProcessor classifies one in-memory source.
type SourceProcessor func(ctx context.Context, engine CountEngine, source Source) (tt.FileStat, error)

// Options controls directory dispatch.
type Options struct {
	// Jobs bounds the number of files classified at once. Zero or less
	// means GOMAXPROCS.
	Jobs int
	// Progress receives the progress bar and recently started files. Nil
	// disables both.
	Progress io.Writer
}

// New creates an engine from the configuration file at configurationPath.
func New(rootDir string, configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(rootDir, config, logger)
}

// NewWithConfig creates an engine from an already loaded configuration.
func NewWithConfig(rootDir string, config Config, logger *zap.Logger) (*internal.Engine, error) {
	reg, err := config.Registry()
	if err != nil {
		return nil, err
	}
	grammars, tables, err := config.trees()
	if err != nil {
		return nil, err
	}
	maxAge, err := config.Cache.maxAge()
	if err != nil {
		return nil, err
	}

	opts := internal.Options{
		Mode:       config.Mode,
		Registry:   reg,
		Grammars:   grammars,
		KindTables: tables,
		MaxAge:     maxAge,
		Logger:     logger,
	}
	if config.Cache.Dir != "" {
		opts.CacheDir = config.Cache.Dir
		if !filepath.IsAbs(opts.CacheDir) {
			opts.CacheDir = filepath.Join(rootDir, opts.CacheDir)
		}
		if config.path != "" {
			opts.Dependencies = []string{config.path}
		}
	}

	engine, err := internal.NewEngine(rootDir, opts)
	if err != nil {
		return nil, err
	}
	for _, p := range config.IgnorePaths {
		engine.IgnorePath(p)
		if !filepath.IsAbs(p) {
			engine.IgnorePath(filepath.Join(rootDir, p))
		}
	}
	if opts.CacheDir != "" {
		engine.IgnorePath(opts.CacheDir)
	}
	return engine, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine CountEngine,
	sources []Source,
	processor SourceProcessor,
) ([]tt.FileStat, error) {
	stats := make([]tt.FileStat, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stat, err := processor(ctx, engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.String("source", source.Name), zap.Error(err))
			}
			return nil, err
		}
		stats = append(stats, stat)
	}

	return stats, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine CountEngine,
	paths []string,
	opts Options,
	processor Processor,
) ([]tt.FileStat, error) {
	var allStats []tt.FileStat
	for _, path := range paths {
		stats, err := ProcessPath(ctx, logger, engine, path, opts, processor)
		allStats = append(allStats, stats...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allStats, err
		}
	}

	return allStats, nil
}

// ProcessPath classifies a file, or every supported file below a directory.
// Directory results are sorted by path. A failing file does not stop the
// others; its error is joined into the returned error. On cancellation the
// results gathered so far are returned with the context error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine CountEngine,
	path string,
	opts Options,
	processor Processor,
) ([]tt.FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		stats := []tt.FileStat{}
		if !engine.Supports(path) {
			if logger != nil {
				logger.Warn("Skipping unsupported file", zap.String("file", path))
			}
			return stats, nil
		}
		stat, err := processor(ctx, engine, path)
		if errors.Is(err, internal.ErrIgnoredPath) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		return append(stats, stat), nil
	}

	scanned, err := scanner.New(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	var files []string
	for _, f := range scanned {
		if engine.Supports(f.Path) {
			files = append(files, f.Path)
		}
	}

	return processFiles(ctx, logger, engine, path, files, opts, processor)
}

type slot struct {
	stat tt.FileStat
	ok   bool
	err  error
}

func processFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine CountEngine,
	root string,
	files []string,
	opts Options,
	processor Processor,
) ([]tt.FileStat, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	progress := newProgress(opts.Progress, root, len(files))
	defer progress.finish()

	// each goroutine owns its slot
	results := make([]slot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))

	for i, filePath := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			// show the start of file processing
			progress.start(filepath.Base(filePath))
			defer progress.done()

			stat, err := processor(gctx, engine, filePath)
			switch {
			case errors.Is(err, internal.ErrIgnoredPath):
			case err != nil:
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", filePath), zap.Error(err))
				}
				results[i].err = err
			default:
				results[i] = slot{stat: stat, ok: true}
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := make([]tt.FileStat, 0, len(files))
	var errs []error
	for _, r := range results {
		if r.ok {
			stats = append(stats, r.stat)
		}
		if r.err != nil && !errors.Is(r.err, context.Canceled) && !errors.Is(r.err, context.DeadlineExceeded) {
			errs = append(errs, r.err)
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, errors.Join(errs...)
}

func ProcessFile(ctx context.Context, engine CountEngine, filePath string) (tt.FileStat, error) {
	return engine.Run(ctx, filePath)
}

func ProcessSource(ctx context.Context, engine CountEngine, source Source) (tt.FileStat, error) {
	return engine.RunSource(ctx, source.Name, source.Content)
}

// progress draws a bar followed by the names of the most recently started
// files.
type progress struct {
	w      io.Writer
	bar    *progressbar.ProgressBar
	mu     sync.Mutex
	recent []string
}

func newProgress(w io.Writer, description string, total int) *progress {
	p := &progress{w: w}
	if w == nil || total == 0 {
		return p
	}

	p.recent = make([]string, maxShowRecentFiles)
	// make space for recent files
	for range maxShowRecentFiles + 1 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\033[%dA", maxShowRecentFiles+1)

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return p
}

func (p *progress) start(filename string) {
	if p.bar == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	copy(p.recent[1:], p.recent[:len(p.recent)-1])
	p.recent[0] = filename

	// save the cursor, step below the bar and redraw the list
	fmt.Fprint(p.w, "\0337\n")
	for _, name := range p.recent {
		// \033[2K: clear the line
		fmt.Fprintf(p.w, "\033[2K\r%s\n", name)
	}
	fmt.Fprint(p.w, "\0338")
}

func (p *progress) done() {
	if p.bar == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprint(p.w, "\033[J\n")
}
