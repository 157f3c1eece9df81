// Package catalog loads and serves tool profiles from YAML or JSON
// catalog files. Loading is fail-soft per tool: one broken profile is
// skipped with a reason instead of rejecting the whole catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/selector-go/domain/profile"
	"github.com/felixgeelhaar/selector-go/infrastructure/config"
)

// Format represents a catalog file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// catalogFile is the on-disk shape of a catalog.
type catalogFile struct {
	Tools map[string]*profile.ToolProfile `yaml:"tools" json:"tools"`
}

// SkippedTool records a tool profile dropped at load time.
type SkippedTool struct {
	Name   string
	Reason string
}

// Catalog is the result of one load: the usable tools plus everything
// that was skipped.
type Catalog struct {
	Tools   map[string]*profile.ToolProfile
	Skipped []SkippedTool
}

// Loader loads tool catalogs from files.
type Loader struct {
	// ExpandEnv enables ${VAR} expansion in the raw catalog text.
	ExpandEnv bool
	// StrictEnv fails the load when a referenced variable is unset.
	StrictEnv bool

	validator *profile.Validator
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) { l.ExpandEnv = enabled }
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) { l.StrictEnv = enabled }
}

// NewLoader creates a catalog loader with default settings.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		ExpandEnv: true,
		validator: profile.NewValidator(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile loads a catalog from a file path, picking the format from
// the extension.
func (l *Loader) LoadFile(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("failed to access catalog file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	return l.Load(f, format)
}

// Load loads a catalog from a reader.
func (l *Loader) Load(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if l.ExpandEnv {
		expanded, err := config.Expand(string(data), l.StrictEnv)
		if err != nil {
			return nil, err
		}
		data = []byte(expanded)
	}

	var file catalogFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	cat := &Catalog{Tools: make(map[string]*profile.ToolProfile, len(file.Tools))}

	names := make([]string, 0, len(file.Tools))
	for name := range file.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tool := file.Tools[name]
		if tool == nil {
			cat.Skipped = append(cat.Skipped, SkippedTool{Name: name, Reason: "empty profile"})
			continue
		}
		tool.Name = name
		if errs := l.validator.Validate(tool); len(errs) > 0 {
			cat.Skipped = append(cat.Skipped, SkippedTool{Name: name, Reason: errs.Error()})
			continue
		}
		tool.ApplyDefaults()
		cat.Tools[name] = tool
	}

	if len(cat.Tools) == 0 {
		return nil, fmt.Errorf("%w: %d skipped", ErrNoTools, len(cat.Skipped))
	}
	return cat, nil
}

// LoadString loads a catalog from a string.
func (l *Loader) LoadString(content string, format Format) (*Catalog, error) {
	return l.Load(strings.NewReader(content), format)
}
