package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dshills/keyremap/internal/logging"
	"github.com/dshills/keyremap/internal/remap"
)

const sampleTOML = `
leader = ","
log_level = "debug"

[[insert]]
before = ["j", "j"]
after = ["<Esc>"]

[[insert_nonrecursive]]
before = "jk"
after = "<esc>"

[[other_modes]]
before = ["<leader>", "w"]
commands = [{ command = ":w" }]

[[other_modes_nonrecursive]]
before = ",q"
commands = [{ command = "buffer.close", args = { force = true } }]
`

const sampleYAML = `
leader: ","
log_level: debug

insert:
  - before: [j, j]
    after: ["<Esc>"]

insert_nonrecursive:
  - before: jk
    after: "<esc>"

other_modes:
  - before: ["<leader>", w]
    commands:
      - command: ":w"

other_modes_nonrecursive:
  - before: ",q"
    commands:
      - command: buffer.close
        args:
          force: true
`

func wantSample() remap.Config {
	return remap.Config{
		Insert:             []remap.Binding{{Before: []string{"j", "j"}, After: []string{"<Esc>"}}},
		InsertNonRecursive: []remap.Binding{{Before: []string{"j", "k"}, After: []string{"<Esc>"}}},
		Other: []remap.Binding{{
			Before:   []string{"<leader>", "w"},
			Commands: []remap.Command{{Name: ":w"}},
		}},
		OtherNonRecursive: []remap.Binding{{
			Before:   []string{"<leader>", "q"},
			Commands: []remap.Command{{Name: "buffer.close", Args: map[string]any{"force": true}}},
		}},
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"toml", sampleTOML, FormatTOML},
		{"yaml", sampleYAML, FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.Leader != "," {
				t.Errorf("Leader = %q, want %q", cfg.Leader, ",")
			}
			if cfg.LogLevel != logging.LevelDebug {
				t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
			}
			if !reflect.DeepEqual(cfg.Remaps, wantSample()) {
				t.Errorf("Remaps = %#v\nwant %#v", cfg.Remaps, wantSample())
			}
			if cfg.BindingCount() != 4 {
				t.Errorf("BindingCount() = %d, want 4", cfg.BindingCount())
			}
		})
	}
}

func TestParseDefaultLeader(t *testing.T) {
	data := `
[[other_modes]]
before = '\w'
after = ["<C-W>", "v"]
`
	cfg, err := Parse([]byte(data), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	got := cfg.Remaps.Other[0]
	if !reflect.DeepEqual(got.Before, []string{"<leader>", "w"}) {
		t.Errorf("Before = %q", got.Before)
	}
	if !reflect.DeepEqual(got.After, []string{"<C-w>", "v"}) {
		t.Errorf("After = %q", got.After)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		cfg, err := Parse([]byte("  \n"), format)
		if err != nil {
			t.Fatalf("%s: Parse() error = %v", format, err)
		}
		if cfg.BindingCount() != 0 || cfg.Leader != `\` {
			t.Errorf("%s: cfg = %+v", format, cfg)
		}
	}
}

func TestParseValidation(t *testing.T) {
	data := `
insert:
  - before: []
    after: x
other_modes:
  - before: [j, 3]
  - before: ok
    commands:
      - command: ""
`
	_, err := Parse([]byte(data), FormatYAML)
	if err == nil {
		t.Fatal("Parse() should fail")
	}

	for _, want := range []error{ErrEmptyBefore, ErrInvalidKeys, ErrEmptyCommand} {
		if !errors.Is(err, want) {
			t.Errorf("error %v does not contain %v", err, want)
		}
	}

	var be *BindingError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BindingError", err)
	}
	if be.Group != GroupInsert || be.Index != 0 || be.Field != "before" {
		t.Errorf("first BindingError = %+v", be)
	}
}

func TestParseInvalidKeySpec(t *testing.T) {
	data := `
[[other_modes]]
before = "<NoSuchKey>"
`
	_, err := Parse([]byte(data), FormatTOML)
	var be *BindingError
	if !errors.As(err, &be) || be.Field != "before" {
		t.Errorf("error = %v, want before BindingError", err)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("[[insert]\nbefore = "), FormatTOML)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("x"), Format("json"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		wantPath   string
		wantFormat Format
		wantCount  int
	}{
		{"no files uses defaults", nil, "", "", 0},
		{"toml", map[string]string{"remaps.toml": sampleTOML}, "remaps.toml", FormatTOML, 4},
		{"yml", map[string]string{"remaps.yml": sampleYAML}, "remaps.yml", FormatYAML, 4},
		{
			"toml wins over yaml",
			map[string]string{"remaps.toml": "[[insert]]\nbefore = \"jj\"\n", "remaps.yaml": sampleYAML},
			"remaps.toml", FormatTOML, 1,
		},
		{
			"yaml wins over yml",
			map[string]string{"remaps.yaml": "insert:\n  - before: jj\n", "remaps.yml": sampleYAML},
			"remaps.yaml", FormatYAML, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			wantPath := ""
			if tt.wantPath != "" {
				wantPath = filepath.Join(dir, tt.wantPath)
			}
			if cfg.Path != wantPath {
				t.Errorf("Path = %q, want %q", cfg.Path, wantPath)
			}
			if cfg.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.wantFormat)
			}
			if cfg.BindingCount() != tt.wantCount {
				t.Errorf("BindingCount() = %d, want %d", cfg.BindingCount(), tt.wantCount)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path || cfg.Format != FormatYAML {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadFile(filepath.Join(dir, "remaps.json")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("json error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing error = %v, want not exist", err)
	}
}

func TestLoadParseErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remaps.toml")
	if err := os.WriteFile(path, []byte("leader = "), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"a.YAML", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.json", "", true},
		{"remaps", "", true},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, err)
		}
	}
}
