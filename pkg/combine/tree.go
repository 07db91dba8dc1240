// File: pkg/combine/tree.go
package combine

import (
	"path/filepath"
	"sort"
	"strings"
)

// treeNode is a directory or file in the rendered tree.
type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) isDir() bool { return n.children != nil }

// RenderTree draws the processed files as a tree rooted at root. It works on
// the candidate list only, so it shows exactly what the output contains.
func RenderTree(root string, candidates []Candidate) string {
	top := &treeNode{children: map[string]*treeNode{}}
	for _, c := range candidates {
		rel, err := filepath.Rel(root, c.Path)
		if err != nil {
			rel = c.Path
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		node := top
		for i, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part}
				if i < len(parts)-1 {
					child.children = map[string]*treeNode{}
				}
				node.children[part] = child
			}
			node = child
		}
	}

	var tree strings.Builder
	tree.WriteString(strings.TrimSuffix(filepath.ToSlash(root), "/") + "/\n")
	renderChildren(&tree, top, "")
	return tree.String()
}

// renderChildren writes n's children, directories first, then files,
// alphabetically.
func renderChildren(tree *strings.Builder, n *treeNode, prefix string) {
	children := make([]*treeNode, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].isDir() != children[j].isDir() {
			return children[i].isDir()
		}
		return strings.ToLower(children[i].name) < strings.ToLower(children[j].name)
	})

	for i, child := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}

		if child.isDir() {
			tree.WriteString(prefix + connector + child.name + "/\n")
			renderChildren(tree, child, prefix+extension)
			continue
		}
		tree.WriteString(prefix + connector + child.name + "\n")
	}
}
