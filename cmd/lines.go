package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/dracula/formatter"
	"github.com/gnoswap-labs/dracula/internal/lines"
	"github.com/gnoswap-labs/dracula/internal/tree"
	tt "github.com/gnoswap-labs/dracula/internal/types"
)

// ErrNoTreeAnswer reports a file the syntax tree path could not classify.
var ErrNoTreeAnswer = errors.New("no syntax tree answer")

func newLinesCmd(opts *options) *cobra.Command {
	var (
		executable bool
		annotate   bool
		stdinName  string
	)

	linesCmd := &cobra.Command{
		Use:   "lines <file>",
		Short: "Print the meaningful line indices of a file",
		Long: `Prints the 0-based indices of the meaningful lines of a file. With
--executable, prints the 1-based numbers of the lines holding code outside
comments and string literals instead. With --annotate, prints the source
with both markers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := tt.ModeNative
			switch {
			case annotate:
				mode = tt.ModeBoth
			case executable:
				mode = tt.ModeTree
			}

			engine, err := opts.newEngine(".", modePtr(mode))
			if err != nil {
				return err
			}
			defer engine.Close()

			name, src, err := readInput(cmd, args[0], stdinName)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			stat, err := engine.RunSource(ctx, name, src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case annotate:
				fmt.Fprint(out, formatter.GenerateAnnotatedSource(stat, string(src), mode))
			case executable:
				if stat.Unknown {
					return fmt.Errorf("%w: %s", ErrNoTreeAnswer, name)
				}
				fmt.Fprintln(out, formatter.GenerateLineList(stat.Executable))
			default:
				fmt.Fprintln(out, formatter.GenerateLineList(stat.Indices))
			}
			return nil
		},
	}

	linesCmd.Flags().BoolVar(&executable, "executable", false, "Print 1-based executable line numbers from the syntax tree")
	linesCmd.Flags().BoolVar(&annotate, "annotate", false, "Print the source annotated with line markers")
	linesCmd.Flags().StringVar(&stdinName, "stdin-filename", defaultStdinName, "File name used to pick the language of standard input")
	return linesCmd
}

func newCleanCmd(opts *options) *cobra.Command {
	var stdinName string

	cleanCmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Print a file with comments and string literals removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.newEngine(".", modePtr(tt.ModeNative))
			if err != nil {
				return err
			}
			defer engine.Close()

			name, src, err := readInput(cmd, args[0], stdinName)
			if err != nil {
				return err
			}
			lang, err := engine.Registry().ForPath(name)
			if err != nil {
				return err
			}
			if err := validUTF8(name, src); err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), lines.CleanedSource(string(src), lang))
			return err
		},
	}

	cleanCmd.Flags().StringVar(&stdinName, "stdin-filename", defaultStdinName, "File name used to pick the language of standard input")
	return cleanCmd
}

func newExecCmd(opts *options) *cobra.Command {
	var (
		grammarName string
		stdinName   string
	)

	execCmd := &cobra.Command{
		Use:   "exec <file>",
		Short: "Print the 1-based executable line numbers of a file",
		Long: `Parses a file with tree-sitter and prints the 1-based numbers of the lines
holding code outside comments and string literals. --grammar overrides the
grammar chosen from the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readInput(cmd, args[0], stdinName)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			if grammarName != "" {
				g, err := tree.ParseGrammar(grammarName)
				if err != nil {
					return err
				}
				if err := validUTF8(name, src); err != nil {
					return err
				}
				p, err := tree.NewParser(g)
				if err != nil {
					return err
				}
				exec, err := p.ExecutableLines(ctx, string(src))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.GenerateLineList(exec))
				return nil
			}

			engine, err := opts.newEngine(".", modePtr(tt.ModeTree))
			if err != nil {
				return err
			}
			defer engine.Close()

			stat, err := engine.RunSource(ctx, name, src)
			if err != nil {
				return err
			}
			if stat.Unknown {
				return fmt.Errorf("%w: %s", ErrNoTreeAnswer, name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.GenerateLineList(stat.Executable))
			return nil
		},
	}

	execCmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "Grammar to parse with (python, rust, c, java, typescript, javascript, scala, csharp, ruby)")
	execCmd.Flags().StringVar(&stdinName, "stdin-filename", defaultStdinName, "File name used to pick the language of standard input")
	return execCmd
}
