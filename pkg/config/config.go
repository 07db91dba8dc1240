// File: pkg/config/config.go
// Package config loads byteweaver settings from a YAML, JSON or HCL file.
package config

import (
	"context"
	"os"
	"path/filepath"

	"byteweaver/pkg/combine"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
)

// Parser decodes a config file of one format.
type Parser interface {
	// Parse decodes the config from raw bytes.
	Parse(ctx context.Context, data []byte) (*Config, error)

	// CanParse reports whether the parser handles the given file name.
	CanParse(filename string) bool
}

var parsers []Parser

// Register adds a parser to the registry.
func Register(p Parser) {
	parsers = append(parsers, p)
}

// GetParser returns the first registered parser that handles filename, or nil.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DiscoverNames are the config file names looked up by Discover, in order.
var DiscoverNames = []string{
	".byteweaver.yaml",
	".byteweaver.yml",
	".byteweaver.json",
	".byteweaver.hcl",
}

// Config mirrors the command line flags that can be preset in a file.
type Config struct {
	Recursive bool     `json:"recursive" yaml:"recursive"`
	Exclude   []string `json:"exclude" yaml:"exclude"`
	Include   []string `json:"include" yaml:"include"`
	Minify    bool     `json:"minify" yaml:"minify"`
	Header    string   `json:"header" yaml:"header"`
	Footer    string   `json:"footer" yaml:"footer"`
	Template  string   `json:"template" yaml:"template"`
	ImageMode string   `json:"image_mode" yaml:"image_mode"`
	Tree      bool     `json:"tree" yaml:"tree"`
	Gitignore bool     `json:"gitignore" yaml:"gitignore"`
	Workers   int      `json:"workers" yaml:"workers"`
	Debug     bool     `json:"debug" yaml:"debug"`
}

// Load reads and validates the config file at path. Relative template paths
// are resolved against the directory holding the file.
func Load(ctx context.Context, path string) (*Config, error) {
	zap.L().Debug("Loading configuration", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}

	if cfg.Template != "" && !filepath.IsAbs(cfg.Template) {
		cfg.Template = filepath.Join(filepath.Dir(path), cfg.Template)
	}
	return cfg, nil
}

// Discover returns the path of the first config file found in dir, or ""
// when there is none.
func Discover(dir string) string {
	for _, name := range DiscoverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// Validate checks the values that the pipeline cannot check itself.
func (cfg *Config) Validate() error {
	if _, err := combine.ParseImageMode(cfg.ImageMode); err != nil {
		return err
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return nil
}

// Options converts the config into pipeline options. Validate must have
// succeeded.
func (cfg *Config) Options() combine.Options {
	mode, _ := combine.ParseImageMode(cfg.ImageMode)
	return combine.Options{
		Recursive: cfg.Recursive,
		Exclude:   cfg.Exclude,
		Include:   cfg.Include,
		Minify:    cfg.Minify,
		Header:    cfg.Header,
		Footer:    cfg.Footer,
		Template:  cfg.Template,
		ImageMode: mode,
		Tree:      cfg.Tree,
		Gitignore: cfg.Gitignore,
		Workers:   cfg.Workers,
	}
}
