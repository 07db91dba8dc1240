// File: pkg/combine/image.go
package combine

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

// imageTypes maps the image extensions that are embedded as data URIs to
// their MIME types.
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

const defaultMimeType = "application/octet-stream"

// isImage reports whether path has an image extension, ignoring case.
func isImage(path string) bool {
	_, ok := imageTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// mimeType returns the MIME type for path's extension.
func mimeType(path string) string {
	if mt, ok := imageTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return defaultMimeType
}

// dataURI encodes data as a base64 data URI.
func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// imageFragment wraps a data URI for the given mode. ImageNone yields "".
func imageFragment(mode ImageMode, name, uri string) string {
	switch mode {
	case ImageMarkdown:
		return fmt.Sprintf("![%s](%s)", name, uri)
	case ImageNone:
		return ""
	default:
		return fmt.Sprintf(`<img src="%s" alt="%s" />`, uri, escapeAttr(name))
	}
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
