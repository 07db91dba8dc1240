// File: pkg/combine/config.go
package combine

import (
	"os"
	"runtime"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ImageMode selects how image files are embedded in the output.
type ImageMode int

const (
	ImageHTML     ImageMode = iota // <img> tag with a data URI (default)
	ImageMarkdown                  // Markdown image with a data URI
	ImageNone                      // image files are left out
)

// String returns the canonical flag value of the mode.
func (m ImageMode) String() string {
	switch m {
	case ImageHTML:
		return "html"
	case ImageMarkdown:
		return "markdown"
	case ImageNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseImageMode accepts the flag spellings of an ImageMode. The empty string
// selects the default.
func ParseImageMode(s string) (ImageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "base64-html":
		return ImageHTML, nil
	case "markdown", "md", "base64-markdown":
		return ImageMarkdown, nil
	case "none", "skip":
		return ImageNone, nil
	default:
		return ImageHTML, errors.Errorf("unknown image mode %q (want html, markdown or none)", s)
	}
}

// Options holds the configuration for a single pipeline run.
type Options struct {
	Recursive bool      // Descend into subdirectories.
	Exclude   []string  // Patterns of paths to leave out; checked before Include.
	Include   []string  // Patterns of files to keep; empty keeps everything.
	Minify    bool      // Minify every text file and the assembled output.
	Header    string    // Text placed before the file blocks.
	Footer    string    // Text placed after the file blocks.
	Template  string    // Optional path of a template containing ContentMarker.
	ImageMode ImageMode // How image files are embedded.
	Tree      bool      // Prepend a tree of the processed files.
	Gitignore bool      // Also honour .gitignore files while traversing.
	Workers   int       // Concurrent file reads; <= 0 means runtime.NumCPU().
	Check     bool      // Compare with the existing output instead of writing it.
	WorkDir   string    // Base for relative pattern matching; empty means the process cwd.
	Omit      []string  // Files that are never inputs, such as the config file of the run.
}

// Resolve returns a copy of o with every default filled in, so that no
// component below the pipeline entry point has to fall back on its own.
func (o Options) Resolve() (Options, error) {
	resolved := o
	resolved.Exclude = cleanPatterns(o.Exclude)
	resolved.Include = cleanPatterns(o.Include)

	if resolved.ImageMode < ImageHTML || resolved.ImageMode > ImageNone {
		return Options{}, errors.Errorf("invalid image mode %d", int(resolved.ImageMode))
	}
	if resolved.Workers <= 0 {
		resolved.Workers = runtime.NumCPU()
	}
	if resolved.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Options{}, errors.Errorf("getting working directory: %w", err)
		}
		resolved.WorkDir = wd
	}
	return resolved, nil
}

// cleanPatterns trims patterns and drops empty ones; an empty substring
// pattern would otherwise match every path.
func cleanPatterns(patterns []string) []string {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
