package format

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/keymapfmt/internal"
	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
	"github.com/gnoswap-labs/keymapfmt/scanner"
)

type FormatEngine interface {
	Run(filename string) (tt.Result, error)
	RunSource(source []byte) (tt.Result, error)
	IgnorePath(path string)
	Extensions() []string
}

// New builds an engine from the configuration file at configurationPath.
func New(configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	opts, err := config.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configurationPath, err)
	}

	return internal.NewEngine(opts, config.Extensions, logger), nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine FormatEngine,
	sources [][]byte,
	processor func(FormatEngine, []byte) (tt.Result, error),
) ([]tt.Result, error) {
	results := make([]tt.Result, 0, len(sources))
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine FormatEngine,
	paths []string,
	processor func(FormatEngine, string) (tt.Result, error),
) ([]tt.Result, error) {
	var allResults []tt.Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allResults, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

// ProcessPath formats the file at path, or every target file below it when
// path is a directory. Files of a directory are processed concurrently and
// returned sorted by name. A file that fails is logged and left out.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine FormatEngine,
	path string,
	processor func(FormatEngine, string) (tt.Result, error),
) ([]tt.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	scan := scanner.New(path, engine.Extensions()...)
	if !info.IsDir() {
		if !scan.IsTargetFile(path) {
			return nil, nil
		}
		result, err := processor(engine, path)
		if err != nil {
			return nil, err
		}
		return []tt.Result{result}, nil
	}

	files, err := scan.Scan()
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]tt.Result, 0, len(files))
		ctxErr  error
	)

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())

	for _, file := range files {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(fp string) {
			defer func() {
				<-sem
				wg.Done()
			}()

			result, err := processor(engine, fp)
			_ = bar.Add(1)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(file.Path)
	}
	wg.Wait()
	_ = bar.Finish()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Filename < results[j].Filename
	})
	return results, ctxErr
}

func ProcessFile(engine FormatEngine, filePath string) (tt.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine FormatEngine, source []byte) (tt.Result, error) {
	return engine.RunSource(source)
}
