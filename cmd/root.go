package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gnoswap-labs/dracula/count"
	"github.com/gnoswap-labs/dracula/internal"
	tt "github.com/gnoswap-labs/dracula/internal/types"
)

const (
	defaultTimeout   = 5 * time.Minute
	defaultStdinName = "stdin.py"
)

// options holds the global flags and the logger shared by every subcommand.
type options struct {
	cfgFile string
	timeout time.Duration
	jobs    int
	color   string
	mode    string
	verbose bool

	logger *zap.Logger
}

// NewRootCmd builds the dracula command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:              "dracula [paths...]",
		Short:            "dracula - count the meaningful lines of source files",
		Args:             cobra.ArbitraryArgs,
		SilenceUsage:     true,
		TraverseChildren: true, // Prioritize subcommands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// no subcommand
			if len(args) == 0 {
				return cmd.Help()
			}
			// Format: dracula [path1 path2 ...] => behaves like the count subcommand
			return runCount(cmd, opts, countFlags{progress: true, stdinName: defaultStdinName}, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "", "Configuration file (default "+count.DefaultConfigFile+" when present)")
	pf.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Abort after this long")
	pf.IntVarP(&opts.jobs, "jobs", "j", 0, "Files classified at once (default GOMAXPROCS)")
	pf.StringVar(&opts.color, "color", "auto", "Colorize output (auto|on|off)")
	pf.StringVar(&opts.mode, "mode", "", "Classifier mode (native|tree|both), overrides the configuration")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable development logging")

	rootCmd.AddCommand(
		newCountCmd(opts),
		newLinesCmd(opts),
		newCleanCmd(opts),
		newExecCmd(opts),
		newInitCmd(opts),
		newWatchCmd(opts),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) setup(cmd *cobra.Command) error {
	var err error
	if o.verbose {
		o.logger, err = zap.NewDevelopment()
	} else {
		o.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	return applyColor(o.color, cmd.OutOrStdout())
}

func applyColor(mode string, out io.Writer) error {
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(out)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newEngine loads the configuration and builds an engine rooted at rootDir.
// A forced mode wins over the --mode flag, which wins over the configuration.
func (o *options) newEngine(rootDir string, forced *tt.Mode) (*internal.Engine, error) {
	config, err := count.LoadConfig(o.cfgFile)
	if err != nil {
		return nil, err
	}
	if o.mode != "" {
		config.Mode, err = tt.ParseMode(o.mode)
		if err != nil {
			return nil, err
		}
	}
	if forced != nil {
		config.Mode = *forced
	}
	return count.NewWithConfig(rootDir, config, o.logger)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

// readInput reads a single file argument. "-" reads standard input, named
// stdinName for language selection.
func readInput(cmd *cobra.Command, path, stdinName string) (string, []byte, error) {
	if path == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("error reading standard input: %w", err)
		}
		return stdinName, src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("error reading file: %w", err)
	}
	return path, src, nil
}

func validUTF8(name string, src []byte) error {
	if !utf8.Valid(src) {
		return fmt.Errorf("%w: %s", tt.ErrInvalidEncoding, name)
	}
	return nil
}

func modePtr(m tt.Mode) *tt.Mode { return &m }
