package syntax

import (
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Tree is a parsed script. It owns the tree-sitter tree and the source bytes
// every Node borrows from.
type Tree struct {
	tree       *sitter.Tree
	lang       Language
	source     []byte
	lineStarts []int
}

func newTree(tree *sitter.Tree, lang Language, source []byte) *Tree {
	lineStarts := []int{0}
	for i, b := range source {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Tree{
		tree:       tree,
		lang:       lang,
		source:     source,
		lineStarts: lineStarts,
	}
}

// Language returns the grammar the tree was parsed with.
func (t *Tree) Language() Language {
	return t.lang
}

// Source returns the parsed bytes.
func (t *Tree) Source() []byte {
	return t.source
}

// Root returns the program node. ok is false for a closed or empty tree.
func (t *Tree) Root() (Node, bool) {
	if t == nil || t.tree == nil {
		return Node{}, false
	}
	root := t.tree.RootNode()
	if root == nil {
		return Node{}, false
	}
	return Node{n: root, tree: t}, true
}

// LineAndColumn converts a byte offset into zero-based line and column.
func (t *Tree) LineAndColumn(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.source) {
		offset = len(t.source)
	}
	line = sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	}) - 1
	return line, offset - t.lineStarts[line]
}

// Close releases the underlying tree-sitter tree. Nodes must not be used afterwards.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}
