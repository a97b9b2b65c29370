package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/keymapfmt/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Reformat keymap files whenever they are saved",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine(logger, false)
		if err != nil {
			logger.Fatal("Failed to initialize format engine", zap.Error(err))
		}

		if err := engine.StartWatching(ctx, args...); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}
		logger.Info("Watching for changes", zap.Strings("dirs", args))

		<-ctx.Done()
		if err := engine.StopWatching(); err != nil && !errors.Is(err, internal.ErrNotWatching) {
			logger.Error("Error stopping watcher", zap.Error(err))
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}
