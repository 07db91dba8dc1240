package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// HCLParser reads .hcl files. Expressions may reference env.NAME for
// environment variables, e.g. header = "Bundle for ${env.USER}".
type HCLParser struct{}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclConfig struct {
	Recursive bool     `hcl:"recursive,optional"`
	Exclude   []string `hcl:"exclude,optional"`
	Include   []string `hcl:"include,optional"`
	Minify    bool     `hcl:"minify,optional"`
	Header    string   `hcl:"header,optional"`
	Footer    string   `hcl:"footer,optional"`
	Template  string   `hcl:"template,optional"`
	ImageMode string   `hcl:"image_mode,optional"`
	Tree      bool     `hcl:"tree,optional"`
	Gitignore bool     `hcl:"gitignore,optional"`
	Workers   int      `hcl:"workers,optional"`
	Debug     bool     `hcl:"debug,optional"`
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "byteweaver.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Config(hclCfg)
	return &cfg, nil
}

// envObject exposes the process environment to HCL expressions.
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return cty.ObjectVal(vars)
}
