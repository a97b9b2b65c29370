package fixer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gnoswap-labs/keymapfmt/formatter"
	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Fixer writes formatted content back to the files it came from.
type Fixer struct {
	DryRun bool
	Out    io.Writer
}

func New(dryRun bool) *Fixer {
	return &Fixer{
		DryRun: dryRun,
		Out:    os.Stdout,
	}
}

// Fix applies result to disk. In dry-run mode the diff is printed instead.
func (f *Fixer) Fix(result tt.Result) error {
	if !result.Changed {
		return nil
	}

	if f.DryRun {
		diff, err := formatter.GenerateFormattedDiff(result)
		if err != nil {
			return err
		}
		fmt.Fprint(f.Out, diff)
		return nil
	}

	if err := writeFile(result.Filename, result.Formatted); err != nil {
		return err
	}
	fmt.Fprintf(f.Out, "Formatted %s\n", result.Filename)
	return nil
}

// writeFile replaces filename with content through a temporary file in the
// same directory, keeping the original permissions.
func writeFile(filename string, content []byte) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
