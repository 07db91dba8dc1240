package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"byteweaver/pkg/combine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		file string
		want Parser
	}{
		{".byteweaver.yaml", &YAMLParser{}},
		{"conf.YML", &YAMLParser{}},
		{".byteweaver.json", &JSONParser{}},
		{".byteweaver.hcl", &HCLParser{}},
		{"config.toml", nil},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := GetParser(tt.file)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("BYTEWEAVER_TEST_OWNER", "docs-team")

	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, path string, cfg *Config)
		wantErr string
	}{
		{
			name: "yaml",
			file: ".byteweaver.yaml",
			content: `recursive: true
exclude: [node_modules, .git]
include: ["*.go"]
minify: true
header: "# Bundle"
image_mode: markdown
workers: 4
`,
			check: func(t *testing.T, path string, cfg *Config) {
				assert.True(t, cfg.Recursive)
				assert.Equal(t, []string{"node_modules", ".git"}, cfg.Exclude)
				assert.Equal(t, []string{"*.go"}, cfg.Include)
				assert.True(t, cfg.Minify)
				assert.Equal(t, "# Bundle", cfg.Header)
				assert.Equal(t, "markdown", cfg.ImageMode)
				assert.Equal(t, 4, cfg.Workers)
			},
		},
		{
			name:    "empty_yaml",
			file:    ".byteweaver.yml",
			content: "",
			check: func(t *testing.T, path string, cfg *Config) {
				assert.Equal(t, Config{}, *cfg)
			},
		},
		{
			name:    "json",
			file:    ".byteweaver.json",
			content: `{"tree": true, "gitignore": true, "footer": "end", "template": "tmpl/page.html"}`,
			check: func(t *testing.T, path string, cfg *Config) {
				assert.True(t, cfg.Tree)
				assert.True(t, cfg.Gitignore)
				assert.Equal(t, "end", cfg.Footer)
				assert.Equal(t, filepath.Join(filepath.Dir(path), "tmpl", "page.html"), cfg.Template, "relative templates resolve next to the config")
			},
		},
		{
			name: "hcl_with_env",
			file: ".byteweaver.hcl",
			content: `recursive = true
exclude   = ["vendor"]
header    = "Bundle for ${env.BYTEWEAVER_TEST_OWNER}"
image_mode = "none"
`,
			check: func(t *testing.T, path string, cfg *Config) {
				assert.True(t, cfg.Recursive)
				assert.Equal(t, []string{"vendor"}, cfg.Exclude)
				assert.Equal(t, "Bundle for docs-team", cfg.Header)
				assert.Equal(t, "none", cfg.ImageMode)
			},
		},
		{
			name:    "yaml_unknown_key",
			file:    ".byteweaver.yaml",
			content: "recursiv: true\n",
			wantErr: "parsing YAML",
		},
		{
			name:    "json_unknown_key",
			file:    ".byteweaver.json",
			content: `{"output": "x"}`,
			wantErr: "parsing JSON",
		},
		{
			name:    "hcl_syntax_error",
			file:    ".byteweaver.hcl",
			content: "recursive = = true",
			wantErr: "parsing HCL",
		},
		{
			name:    "invalid_image_mode",
			file:    ".byteweaver.yaml",
			content: "image_mode: ascii\n",
			wantErr: "unknown image mode",
		},
		{
			name:    "negative_workers",
			file:    ".byteweaver.json",
			content: `{"workers": -1}`,
			wantErr: "workers must not be negative",
		},
		{
			name:    "unsupported_format",
			file:    "byteweaver.toml",
			content: "recursive = true",
			wantErr: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, err := Load(context.Background(), path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, path, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), ".byteweaver.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Discover(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".byteweaver.hcl"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, ".byteweaver.hcl"), Discover(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".byteweaver.yaml"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, ".byteweaver.yaml"), Discover(dir), "yaml wins over hcl")

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".byteweaver.yml"), 0o755))
	assert.Equal(t, filepath.Join(dir, ".byteweaver.yaml"), Discover(dir))
}

func TestOptions(t *testing.T) {
	cfg := &Config{
		Recursive: true,
		Exclude:   []string{"dist"},
		ImageMode: "md",
		Workers:   2,
		Template:  "/tmp/page.html",
	}
	require.NoError(t, cfg.Validate())

	opts := cfg.Options()
	assert.True(t, opts.Recursive)
	assert.Equal(t, []string{"dist"}, opts.Exclude)
	assert.Equal(t, combine.ImageMarkdown, opts.ImageMode)
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, "/tmp/page.html", opts.Template)
}
