package combine

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageClassification(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPEG", "a.png", "a.Gif", "a.svg", "a.webp"} {
		assert.True(t, isImage(name), name)
	}
	for _, name := range []string{"a.bmp", "a.txt", "png", "a.png.txt"} {
		assert.False(t, isImage(name), name)
	}

	assert.Equal(t, "image/jpeg", mimeType("x.JPG"))
	assert.Equal(t, "image/svg+xml", mimeType("x.svg"))
	assert.Equal(t, "application/octet-stream", mimeType("x.bin"))
}

func TestImageFragment(t *testing.T) {
	uri := dataURI("image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, "data:image/png;base64,iVBORw==", uri)

	assert.Equal(t, `<img src="`+uri+`" alt="pic.png" />`, imageFragment(ImageHTML, "pic.png", uri))
	assert.Equal(t, "![pic.png]("+uri+")", imageFragment(ImageMarkdown, "pic.png", uri))
	assert.Equal(t, "", imageFragment(ImageNone, "pic.png", uri))
	assert.Contains(t, imageFragment(ImageHTML, `a"b.png`, uri), `alt="a&quot;b.png"`)
}

func TestTransform(t *testing.T) {
	pngBytes := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

	tests := []struct {
		name  string
		file  string
		opts  Options
		check func(t *testing.T, block Block)
	}{
		{
			name: "text_block_names_file",
			file: "sub/note.txt",
			check: func(t *testing.T, block Block) {
				assert.Equal(t, BlockText, block.Kind)
				assert.Equal(t, "\n<!-- File: sub/note.txt -->\nhello // ignored\nworld\n", block.Text)
			},
		},
		{
			name: "text_block_minified",
			file: "note.txt",
			opts: Options{Minify: true},
			check: func(t *testing.T, block Block) {
				assert.Equal(t, "\n<!-- File: note.txt -->\nhello world\n", block.Text)
			},
		},
		{
			name: "image_as_markup",
			file: "pic.png",
			check: func(t *testing.T, block Block) {
				assert.Equal(t, BlockImage, block.Kind)
				want := `<img src="data:image/png;base64,` + base64.StdEncoding.EncodeToString(pngBytes) + `" alt="pic.png" />`
				assert.Equal(t, "\n"+want+"\n", block.Text)
			},
		},
		{
			name: "image_as_markdown",
			file: "pic.png",
			opts: Options{ImageMode: ImageMarkdown},
			check: func(t *testing.T, block Block) {
				assert.Contains(t, block.Text, "![pic.png](data:image/png;base64,")
			},
		},
		{
			name: "image_not_minified",
			file: "pic.png",
			opts: Options{Minify: true},
			check: func(t *testing.T, block Block) {
				assert.Contains(t, block.Text, base64.StdEncoding.EncodeToString(pngBytes))
			},
		},
		{
			name: "image_omitted",
			file: "pic.png",
			opts: Options{ImageMode: ImageNone},
			check: func(t *testing.T, block Block) {
				assert.True(t, block.Omitted)
				assert.Empty(t, block.Text)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, map[string]string{
				"note.txt":     "hello // ignored\nworld",
				"sub/note.txt": "hello // ignored\nworld",
				"pic.png":      string(pngBytes),
			})

			path := filepath.Join(root, filepath.FromSlash(tt.file))
			c := Candidate{Path: path, Name: filepath.Base(path)}

			block, err := NewTransformer(OSFileSystem{}, root, tt.opts, nil).Transform(c)
			require.NoError(t, err)
			assert.Equal(t, c, block.Candidate)
			tt.check(t, block)
		})
	}
}

func TestTransformReadFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"locked.txt": "secret", "locked.png": "img"})

	spy := newSpyFS()
	tr := NewTransformer(spy, root, Options{}, nil)
	for _, name := range []string{"locked.txt", "locked.png"} {
		path := filepath.Join(root, name)
		spy.failRead[path] = true

		_, err := tr.Transform(Candidate{Path: path, Name: name})
		require.Error(t, err, name)
		assert.True(t, IsKind(err, KindIO), "read failures are i/o errors")
		assert.Equal(t, path, err.(*Error).Path)
	}
}
