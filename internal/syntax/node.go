package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node is a borrowed, read-only view of one syntax node. The zero Node is
// invalid; check IsZero before use when a lookup may fail.
type Node struct {
	n    *sitter.Node
	tree *Tree
}

// IsZero reports whether the node is the invalid zero value.
func (n Node) IsZero() bool {
	return n.n == nil
}

// Kind returns the grammar node type, e.g. "member_expression".
func (n Node) Kind() string {
	return n.n.Kind()
}

// Category returns the closed classification of the node.
func (n Node) Category() Category {
	return classify(n)
}

// Text returns the exact source span of the node.
func (n Node) Text() string {
	return string(n.tree.source[n.n.StartByte():n.n.EndByte()])
}

// FullText returns the span plus its leading trivia (whitespace and comments
// back to the end of the previous sibling, or the start of the parent).
func (n Node) FullText() string {
	start := uint(0)
	if prev := n.n.PrevSibling(); prev != nil {
		start = prev.EndByte()
	} else if parent := n.n.Parent(); parent != nil {
		start = parent.StartByte()
	}
	return string(n.tree.source[start:n.n.EndByte()])
}

// StartByte returns the byte offset where the node begins.
func (n Node) StartByte() int {
	return int(n.n.StartByte())
}

// Line returns the zero-based line the node starts on.
func (n Node) Line() int {
	return int(n.n.StartPosition().Row)
}

// Parent returns the enclosing node. It is a non-owning back-reference and is
// never followed by tree walks.
func (n Node) Parent() (Node, bool) {
	p := n.n.Parent()
	if p == nil {
		return Node{}, false
	}
	return Node{n: p, tree: n.tree}, true
}

// Field returns the child stored under a grammar field name ("name", "value", ...).
func (n Node) Field(name string) (Node, bool) {
	c := n.n.ChildByFieldName(name)
	if c == nil {
		return Node{}, false
	}
	return Node{n: c, tree: n.tree}, true
}

// ForEachChild invokes visit once per named child, in source order.
// Anonymous tokens (punctuation, keywords) are skipped.
func (n Node) ForEachChild(visit func(Node)) {
	count := n.n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		c := n.n.NamedChild(i)
		if c == nil {
			continue
		}
		visit(Node{n: c, tree: n.tree})
	}
}

// hasToken reports whether an anonymous keyword token such as "get", "static"
// or "const" appears among the node's direct children.
func (n Node) hasToken(kind string) bool {
	count := n.n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.n.Child(i)
		if c != nil && !c.IsNamed() && c.Kind() == kind {
			return true
		}
	}
	return false
}

// hasTokenBeforeField is like hasToken but only inspects children that precede
// the named field. This separates the accessor keyword in `get x()` from a
// method literally called `get`.
func (n Node) hasTokenBeforeField(kind, field string) bool {
	fieldNode := n.n.ChildByFieldName(field)
	count := n.n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.n.Child(i)
		if c == nil {
			continue
		}
		if fieldNode != nil && c.StartByte() >= fieldNode.StartByte() {
			return false
		}
		if !c.IsNamed() && c.Kind() == kind {
			return true
		}
	}
	return false
}

// Tree returns the tree the node belongs to.
func (n Node) Tree() *Tree {
	return n.tree
}
