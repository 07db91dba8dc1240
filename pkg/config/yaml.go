package config

import (
	"bytes"
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// YAMLParser reads .yaml and .yml files. Unknown keys are rejected.
type YAMLParser struct{}

func (p *YAMLParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
