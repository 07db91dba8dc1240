package combine

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
)

// Assembler combines header, blocks and footer into the final output.
type Assembler struct {
	fs     FileSystem
	root   string
	opts   Options
	logger *zap.Logger
}

// NewAssembler creates an Assembler for resolved options.
func NewAssembler(fsys FileSystem, root string, opts Options, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{fs: fsys, root: root, opts: opts, logger: logger}
}

// Assemble joins the blocks in order between the header and footer, applies
// whole-output minification and then template substitution. Image fragments
// are held out of minification; base64 payloads routinely contain "//".
func (a *Assembler) Assemble(blocks []Block) (string, error) {
	var out strings.Builder
	var images []string

	if a.opts.Header != "" {
		out.WriteString(a.opts.Header)
		out.WriteString("\n\n")
	}

	if a.opts.Tree {
		candidates := make([]Candidate, len(blocks))
		for i, b := range blocks {
			candidates[i] = b.Candidate
		}
		out.WriteString(RenderTree(a.root, candidates))
	}

	for _, b := range blocks {
		if a.opts.Minify && b.Kind == BlockImage {
			out.WriteString("\n" + imagePlaceholder(len(images)) + "\n")
			images = append(images, strings.TrimSpace(b.Text))
			continue
		}
		out.WriteString(b.Text)
	}

	if a.opts.Footer != "" {
		out.WriteString("\n\n")
		out.WriteString(a.opts.Footer)
	}

	content := out.String()
	if a.opts.Minify {
		content = Minify(content)
		for i, img := range images {
			content = strings.Replace(content, imagePlaceholder(i), img, 1)
		}
	}

	if a.opts.Template == "" {
		return content, nil
	}
	return a.applyTemplate(content)
}

// imagePlaceholder stands in for the i-th image during minification. It holds
// no whitespace or comment characters, so Minify leaves it intact.
func imagePlaceholder(i int) string {
	return "\x00byteweaver-image-" + strconv.Itoa(i) + "\x00"
}

// applyTemplate substitutes the first ContentMarker of the template with
// content. Later markers are left as they are.
func (a *Assembler) applyTemplate(content string) (string, error) {
	data, err := a.fs.ReadFile(a.opts.Template)
	if err != nil {
		return "", newError(KindTemplate, a.opts.Template, errors.Errorf("reading template file: %w", err))
	}

	tmpl := string(data)
	if !strings.Contains(tmpl, ContentMarker) {
		return "", newError(KindTemplate, a.opts.Template, errors.Errorf("template has no %s marker", ContentMarker))
	}

	a.logger.Debug("Applying template", zap.String("template", a.opts.Template))
	return strings.Replace(tmpl, ContentMarker, content, 1), nil
}
