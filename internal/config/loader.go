package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a config file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Source names a candidate config file.
type Source struct {
	Path   string
	Format Format
}

// Candidates returns the files Load looks for in dir, in priority order.
func Candidates(dir string) []Source {
	return []Source{
		{Path: filepath.Join(dir, "remaps.toml"), Format: FormatTOML},
		{Path: filepath.Join(dir, "remaps.yaml"), Format: FormatYAML},
		{Path: filepath.Join(dir, "remaps.yml"), Format: FormatYAML},
	}
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Load reads the first existing candidate file in dir. When none exists the
// defaults are returned with a nil error.
func Load(dir string) (*Config, error) {
	var accumulated error
	for _, candidate := range Candidates(dir) {
		data, err := os.ReadFile(candidate.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			accumulated = errors.Join(accumulated, fmt.Errorf("read remaps %q: %w", candidate.Path, err))
			continue
		}
		return parseSource(candidate, data)
	}

	if accumulated != nil {
		return nil, accumulated
	}
	return Default(), nil
}

// LoadFile reads a single config file; the format follows the extension.
func LoadFile(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read remaps %q: %w", path, err)
	}
	return parseSource(Source{Path: path, Format: format}, data)
}

// Parse decodes and builds a config from raw data.
func Parse(data []byte, format Format) (*Config, error) {
	return parseSource(Source{Path: "<input>", Format: format}, data)
}

func parseSource(src Source, data []byte) (*Config, error) {
	f, err := decode(data, src.Format)
	if err != nil {
		return nil, &ParseError{Path: src.Path, Err: err}
	}

	cfg, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("remaps %q: %w", src.Path, err)
	}
	cfg.Path = src.Path
	cfg.Format = src.Format
	return cfg, nil
}

func decode(data []byte, format Format) (*File, error) {
	var f File
	if len(bytes.TrimSpace(data)) == 0 {
		return &f, nil
	}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
	return &f, nil
}
