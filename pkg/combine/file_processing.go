package combine

import (
	"fmt"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
)

// Transformer turns a candidate file into its output Block.
type Transformer struct {
	fs        FileSystem
	root      string
	minify    bool
	imageMode ImageMode
	logger    *zap.Logger
}

// NewTransformer creates a Transformer. root is the traversal root that text
// block headers are made relative to.
func NewTransformer(fsys FileSystem, root string, opts Options, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		fs:        fsys,
		root:      root,
		minify:    opts.Minify,
		imageMode: opts.ImageMode,
		logger:    logger,
	}
}

// Transform reads c and formats its block. A file that cannot be read yields
// a KindIO error; the pipeline skips such files and carries on.
func (t *Transformer) Transform(c Candidate) (Block, error) {
	if isImage(c.Path) {
		return t.transformImage(c)
	}
	return t.transformText(c)
}

func (t *Transformer) transformImage(c Candidate) (Block, error) {
	block := Block{Candidate: c, Kind: BlockImage}
	if t.imageMode == ImageNone {
		t.logger.Debug("Leaving out image file", zap.String("filePath", c.Path))
		block.Omitted = true
		return block, nil
	}

	data, err := t.fs.ReadFile(c.Path)
	if err != nil {
		return Block{}, newError(KindIO, c.Path, errors.Errorf("reading image: %w", err))
	}

	uri := dataURI(mimeType(c.Path), data)
	block.Text = "\n" + imageFragment(t.imageMode, c.Name, uri) + "\n"

	t.logger.Debug("Embedded image file",
		zap.String("filePath", c.Path),
		zap.Int("contentSizeBytes", len(data)),
		zap.String("imageMode", t.imageMode.String()))
	return block, nil
}

func (t *Transformer) transformText(c Candidate) (Block, error) {
	data, err := t.fs.ReadFile(c.Path)
	if err != nil {
		return Block{}, newError(KindIO, c.Path, errors.Errorf("reading file: %w", err))
	}

	content := string(data)
	if t.minify {
		content = Minify(content)
	}

	t.logger.Debug("Read text file",
		zap.String("filePath", c.Path),
		zap.Int("contentSizeBytes", len(data)),
		zap.Bool("minified", t.minify))

	return Block{
		Candidate: c,
		Kind:      BlockText,
		Text:      fmt.Sprintf("\n<!-- File: %s -->\n%s\n", t.relative(c.Path), content),
	}, nil
}

// relative returns path relative to the root in slash form, falling back to
// the path itself.
func (t *Transformer) relative(path string) string {
	rel, err := filepath.Rel(t.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
