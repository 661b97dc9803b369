package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textcore/internal/config/loader"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "TEXTCORE_"

// Config holds every textcore setting.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig configures text storage.
type EditorConfig struct {
	// TabSize is the display width of a tab stop.
	TabSize int `toml:"tab_size" yaml:"tab_size"`
	// MaxLineLength caps the code points in a single line.
	MaxLineLength int `toml:"max_line_length" yaml:"max_line_length"`
	// MaxLines caps the number of lines.
	MaxLines int `toml:"max_lines" yaml:"max_lines"`
	// EastAsianWidth counts ambiguous-width characters as two columns.
	EastAsianWidth bool `toml:"east_asian_width" yaml:"east_asian_width"`
	// LineEnding is used when writing text out: "lf", "crlf" or "cr".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`
	// NormalizeLineEndings converts CRLF and CR to LF on load.
	NormalizeLineEndings bool `toml:"normalize_line_endings" yaml:"normalize_line_endings"`
	// StripBOM drops a leading byte order mark on load.
	StripBOM bool `toml:"strip_bom" yaml:"strip_bom"`
}

// HistoryConfig configures undo and redo.
type HistoryConfig struct {
	Enabled  bool `toml:"enabled" yaml:"enabled"`
	Capacity int  `toml:"capacity" yaml:"capacity"`
}

// LoggingConfig configures tracing.
type LoggingConfig struct {
	// Level is one of "error", "info" or "debug".
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabSize:              4,
			MaxLineLength:        65536,
			MaxLines:             1 << 22,
			LineEnding:           "lf",
			NormalizeLineEndings: true,
			StripBOM:             true,
		},
		History: HistoryConfig{
			Enabled:  true,
			Capacity: 256,
		},
		Logging: LoggingConfig{
			Level: "error",
		},
	}
}

// Load reads defaults, then the file at path (skipped when path is
// empty or missing), then the environment through lookup (skipped when
// nil). The result is validated.
func Load(path string, lookup loader.LookupFunc) (Config, error) {
	return LoadFS(loader.DefaultFS(), path, lookup)
}

// LoadFS is Load over an explicit file system.
func LoadFS(fsys loader.FileSystem, path string, lookup loader.LookupFunc) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := loader.LoadFile(fsys, path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadReader decodes a document in the named format ("toml" or "yaml")
// over the defaults and validates the result.
func LoadReader(r io.Reader, format string) (Config, error) {
	f, err := loader.ForName(format)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := loader.LoadReader(r, f, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays TEXTCORE_* variables found through lookup.
// The overlay is round-tripped through TOML so env values get the same
// type checking as file values.
func (c *Config) ApplyEnv(lookup loader.LookupFunc) error {
	values := loader.NewEnvLoader(EnvPrefix).Load(lookup)
	if len(values) == 0 {
		return nil
	}
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding environment overlay: %w", err)
	}
	if err := (loader.TOML{}).Unmarshal(data, c); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	positive := []struct {
		path  string
		value int
	}{
		{"editor.tab_size", c.Editor.TabSize},
		{"editor.max_line_length", c.Editor.MaxLineLength},
		{"editor.max_lines", c.Editor.MaxLines},
		{"history.capacity", c.History.Capacity},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{
				Path:    p.path,
				Message: "must be positive",
				Value:   strconv.Itoa(p.value),
				Code:    ErrCodeNotPositive,
			}
		}
	}
	switch strings.ToLower(c.Editor.LineEnding) {
	case "lf", "crlf", "cr":
	default:
		return &ValidationError{
			Path:    "editor.line_ending",
			Message: "must be lf, crlf or cr",
			Value:   c.Editor.LineEnding,
			Code:    ErrCodeUnknownName,
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "error", "info", "debug":
	default:
		return &ValidationError{
			Path:    "logging.level",
			Message: "must be error, info or debug",
			Value:   c.Logging.Level,
			Code:    ErrCodeUnknownName,
		}
	}
	return nil
}
