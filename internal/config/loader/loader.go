// Package loader reads textcore configuration files and environment
// variables.
//
// Files are decoded by format, chosen from the file extension: TOML for
// ".toml", YAML for ".yaml" and ".yml". A missing file is not an error.
// Environment variables are mapped onto dotted setting paths.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat indicates a file extension no format handles.
var ErrUnknownFormat = errors.New("unknown config format")

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format decodes one configuration syntax into a Go value.
type Format interface {
	Name() string
	Unmarshal(data []byte, v any) error
}

// ForPath returns the format for a file name by its extension.
func ForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML{}, nil
	case ".yaml", ".yml":
		return YAML{}, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// ForName returns the format called name ("toml", "yaml" or "yml").
func ForName(name string) (Format, error) {
	return ForPath("config." + name)
}

// LoadFile decodes the file at path into v. It reports false, with no
// error, when the file does not exist.
func LoadFile(fsys FileSystem, path string, v any) (bool, error) {
	format, err := ForPath(path)
	if err != nil {
		return false, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil // File doesn't exist, not an error
		}
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := decode(format, path, data, v); err != nil {
		return false, err
	}
	return true, nil
}

// LoadReader decodes everything read from r into v.
func LoadReader(r io.Reader, format Format, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return decode(format, "<reader>", data, v)
}

func decode(format Format, source string, data []byte, v any) error {
	if err := format.Unmarshal(data, v); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		if p, ok := err.(interface{ Position() (int, int) }); ok {
			perr.Line, perr.Column = p.Position()
		}
		return perr
	}
	return nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
