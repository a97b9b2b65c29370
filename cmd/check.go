package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/keymapfmt/format"
	"github.com/gnoswap-labs/keymapfmt/formatter"
	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
)

var checkJSONOutput bool

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report files whose binding lists are not formatted",
	Long: `Prints a diff for every file that format would change and exits with
status 1 if there is any.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(logger, false)
		if err != nil {
			logger.Fatal("Failed to initialize format engine", zap.Error(err))
		}

		changed, err := runCheck(ctx, logger, engine, args, checkJSONOutput, cmd.OutOrStdout())
		if err != nil {
			logger.Error("Error checking files", zap.Error(err))
			os.Exit(1)
		}
		if changed {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output results in JSON format")
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}

// runCheck reports whether any file under paths would be changed.
func runCheck(ctx context.Context, logger *zap.Logger, engine format.FormatEngine, paths []string, isJSON bool, out io.Writer) (bool, error) {
	results, err := format.ProcessFiles(ctx, logger, engine, paths, format.ProcessFile)
	if err != nil {
		return false, err
	}

	changed := false
	for _, result := range results {
		changed = changed || result.Changed
	}

	if isJSON {
		return changed, printJSON(results, out)
	}

	for _, result := range results {
		diff, err := formatter.GenerateFormattedDiff(result)
		if err != nil {
			logger.Error("Error generating diff", zap.String("file", result.Filename), zap.Error(err))
			continue
		}
		fmt.Fprint(out, diff)
	}
	fmt.Fprint(out, formatter.GenerateSummary(results, "unformatted"))
	return changed, nil
}

func printJSON(results []tt.Result, out io.Writer) error {
	byFile := make(map[string]bool, len(results))
	for _, result := range results {
		byFile[result.Filename] = result.Changed
	}

	d, err := json.Marshal(byFile)
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(d))
	return err
}
