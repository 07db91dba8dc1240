package combine

import (
	"regexp"
	"strings"
)

var (
	lineCommentPattern  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	emptyLinePattern    = regexp.MustCompile(`(?m)^[ \t]*\r?\n`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// Minify strips C-style comments and collapses whitespace: "//" comments to
// the end of the line, then "/* */" blocks, then empty lines; every remaining
// whitespace run becomes one space and the result is trimmed.
//
// Comment markers inside string literals are treated as comments too, e.g.
// "http://example.com" loses everything from "//".
func Minify(content string) string {
	content = lineCommentPattern.ReplaceAllString(content, "")
	content = blockCommentPattern.ReplaceAllString(content, "")
	content = emptyLinePattern.ReplaceAllString(content, "")
	content = whitespacePattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}
