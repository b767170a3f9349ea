package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/dracula/count"
	"github.com/gnoswap-labs/dracula/formatter"
	tt "github.com/gnoswap-labs/dracula/internal/types"
)

type countFlags struct {
	json      bool
	output    string
	stdinName string
	progress  bool
}

type countReport struct {
	Files   []tt.FileStat `json:"files"`
	Summary tt.Summary    `json:"summary"`
}

func newCountCmd(opts *options) *cobra.Command {
	flags := countFlags{}

	countCmd := &cobra.Command{
		Use:   "count [paths...]",
		Short: "Count meaningful lines per file",
		Long: `Counts physical, meaningful and executable lines of every supported file
under the given paths. "-" reads one source from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runCount(cmd, opts, flags, args)
		},
	}

	countCmd.Flags().BoolVar(&flags.json, "json", false, "Output results in JSON format")
	countCmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output path (when using JSON)")
	countCmd.Flags().StringVar(&flags.stdinName, "stdin-filename", defaultStdinName, "File name used to pick the language of standard input")
	countCmd.Flags().BoolVar(&flags.progress, "progress", true, "Show progress on a terminal")
	return countCmd
}

func runCount(cmd *cobra.Command, opts *options, flags countFlags, paths []string) error {
	engine, err := opts.newEngine(".", nil)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			opts.logger.Warn("Error closing engine", zap.Error(err))
		}
	}()

	ctx, cancel := opts.context(cmd)
	defer cancel()

	var stats []tt.FileStat
	if len(paths) == 1 && paths[0] == "-" {
		src, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("error reading standard input: %w", readErr)
		}
		stats, err = count.ProcessSources(ctx, opts.logger, engine,
			[]count.Source{{Name: flags.stdinName, Content: src}}, count.ProcessSource)
	} else {
		dispatch := count.Options{Jobs: opts.jobs}
		if flags.progress && !flags.json && isTerminal(os.Stderr) {
			dispatch.Progress = os.Stderr
		}
		stats, err = count.ProcessFiles(ctx, opts.logger, engine, paths, dispatch, count.ProcessFile)
	}

	if printErr := printStats(cmd.OutOrStdout(), stats, engine.Mode(), flags); printErr != nil {
		return errors.Join(err, printErr)
	}
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}
	return nil
}

func printStats(out io.Writer, stats []tt.FileStat, mode tt.Mode, flags countFlags) error {
	if !flags.json {
		// text output
		_, err := fmt.Fprint(out, formatter.GenerateSummary(stats, mode))
		return err
	}

	// JSON output
	if stats == nil {
		stats = []tt.FileStat{}
	}
	d, err := json.MarshalIndent(countReport{Files: stats, Summary: tt.Summarize(stats)}, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	d = append(d, '\n')

	if flags.output == "" {
		_, err = out.Write(d)
		return err
	}
	if err := os.WriteFile(flags.output, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
