package format

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/keymapfmt/internal/document"
	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
	"github.com/gnoswap-labs/keymapfmt/scanner"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".keymapfmt.yaml"

// Config is the content of a configuration file.
type Config struct {
	Name       string       `yaml:"name" toml:"name"`
	Extensions []string     `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	Format     FormatConfig `yaml:"format" toml:"format"`
}

// FormatConfig mirrors document.Options. Empty fields keep their defaults.
type FormatConfig struct {
	Marker  string `yaml:"marker,omitempty" toml:"marker,omitempty"`
	Comment string `yaml:"comment,omitempty" toml:"comment,omitempty"`
	Sigil   string `yaml:"sigil,omitempty" toml:"sigil,omitempty"`
	Open    string `yaml:"open,omitempty" toml:"open,omitempty"`
	Close   string `yaml:"close,omitempty" toml:"close,omitempty"`
	Indent  int    `yaml:"indent,omitempty" toml:"indent,omitempty"`
	Columns string `yaml:"columns,omitempty" toml:"columns,omitempty"`
}

// DefaultConfig returns the configuration written by `keymapfmt init`.
func DefaultConfig() Config {
	opts := document.DefaultOptions()
	return Config{
		Name:       "keymapfmt",
		Extensions: scanner.DefaultExtensions,
		Format: FormatConfig{
			Marker:  opts.Marker,
			Comment: opts.Comment,
			Sigil:   opts.Sigil,
			Open:    opts.Open,
			Close:   opts.Close,
			Indent:  opts.Indent,
			Columns: opts.Columns.String(),
		},
	}
}

// Options converts the format section into document options.
func (c Config) Options() (document.Options, error) {
	mode, err := tt.ParseColumnMode(c.Format.Columns)
	if err != nil {
		return document.Options{}, err
	}
	return document.Options{
		Marker:  c.Format.Marker,
		Comment: c.Format.Comment,
		Sigil:   c.Format.Sigil,
		Open:    c.Format.Open,
		Close:   c.Format.Close,
		Indent:  c.Format.Indent,
		Columns: mode,
	}, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig reads the configuration file at path, decoding TOML when the
// file has a .toml extension and YAML otherwise. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig encodes config to path in the format implied by its extension.
func WriteConfig(path string, config Config) error {
	if path == "" {
		path = DefaultConfigFile
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(config)
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
