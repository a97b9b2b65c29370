package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/keymapfmt/format"
	"github.com/gnoswap-labs/keymapfmt/formatter"
	"github.com/gnoswap-labs/keymapfmt/internal"
	"github.com/gnoswap-labs/keymapfmt/internal/fixer"
)

const defaultCacheDir = ".keymapfmt_cache"

var (
	dryRun      bool
	useCache    bool
	cacheDir    string
	ignorePaths string
	fromStdin   bool
)

var formatCmd = &cobra.Command{
	Use:   "format [paths...]",
	Short: "Rewrite keymap binding lists in place",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && !fromStdin {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(logger, useCache)
		if err != nil {
			logger.Fatal("Failed to initialize format engine", zap.Error(err))
		}

		if fromStdin {
			if err := runStdin(ctx, logger, engine, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logger.Error("Error formatting standard input", zap.Error(err))
				os.Exit(1)
			}
			return
		}

		if err := runFormat(ctx, logger, engine, args, dryRun, cmd.OutOrStdout()); err != nil {
			logger.Error("Error formatting files", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	formatCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the changes as diffs instead of writing them")
	formatCmd.Flags().BoolVar(&useCache, "cache", false, "Skip files known to be formatted since the last run")
	formatCmd.Flags().StringVar(&cacheDir, "cache-dir", defaultCacheDir, "Directory of the formatted-file cache")
	formatCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	formatCmd.Flags().BoolVar(&fromStdin, "stdin", false, "Format standard input and write the result to standard output")
}

// newEngine builds an engine from the --config file, applying the
// --ignore-paths and cache flags.
func newEngine(logger *zap.Logger, withCache bool) (*internal.Engine, error) {
	engine, err := format.New(cfgFile, logger)
	if err != nil {
		return nil, err
	}

	if ignorePaths != "" {
		for _, path := range strings.Split(ignorePaths, ",") {
			engine.IgnorePath(strings.TrimSpace(path))
		}
	}

	if withCache {
		cache, err := internal.NewCache(cacheDir)
		if err != nil {
			return nil, err
		}
		// a changed configuration invalidates every entry
		if err := cache.AddDependency(cfgFile); err != nil {
			return nil, err
		}
		engine.UseCache(cache)
	}
	return engine, nil
}

func runFormat(ctx context.Context, logger *zap.Logger, engine format.FormatEngine, paths []string, dryRun bool, out io.Writer) error {
	results, err := format.ProcessFiles(ctx, logger, engine, paths, format.ProcessFile)
	if err != nil {
		return err
	}

	fix := fixer.New(dryRun)
	fix.Out = out
	verb := "would format"
	if !dryRun {
		// the summary lists written files
		fix.Out = io.Discard
		verb = "formatted"
	}

	var fixErr error
	for _, result := range results {
		if err := fix.Fix(result); err != nil {
			logger.Error("Error writing file", zap.String("file", result.Filename), zap.Error(err))
			fixErr = err
		}
	}

	fmt.Fprint(out, formatter.GenerateSummary(results, verb))
	return fixErr
}

// runStdin formats in and writes the whole document to out, for editors
// that pipe a buffer through the formatter.
func runStdin(ctx context.Context, logger *zap.Logger, engine format.FormatEngine, in io.Reader, out io.Writer) error {
	source, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	results, err := format.ProcessSources(ctx, logger, engine, [][]byte{source}, format.ProcessSource)
	if err != nil {
		return err
	}
	for _, result := range results {
		if _, err := out.Write(result.Formatted); err != nil {
			return err
		}
	}
	return nil
}
