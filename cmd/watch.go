package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/dracula/formatter"
	tt "github.com/gnoswap-labs/dracula/internal/types"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recount files as they are written",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			engine, err := opts.newEngine(dir, nil)
			if err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			engine.OnChange(func(stat tt.FileStat) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintln(out, formatter.GenerateStatLine(stat, engine.Mode()))
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := engine.StartWatching(ctx); err != nil {
				return err
			}
			opts.logger.Info("Watching for changes", zap.String("dir", dir))

			<-ctx.Done()
			return engine.Close()
		},
	}
}
