package config

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&JSONParser{})
}

// JSONParser reads .json files. Unknown keys are rejected.
type JSONParser struct{}

func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}
