package analysis

import "github.com/mvp-joe/scriptlens/internal/syntax"

// Walk visits node and then its descendants in pre-order. When visit returns
// false the node's children are skipped.
func Walk(node syntax.Node, visit func(syntax.Node) bool) {
	if node.IsZero() {
		return
	}

	if !visit(node) {
		return
	}

	node.ForEachChild(func(child syntax.Node) {
		Walk(child, visit)
	})
}

// Inspect is a pre-order walk with an exit hook: leave runs once the whole
// subtree of a node has been visited, including when enter skipped it.
func Inspect(node syntax.Node, enter func(syntax.Node) bool, leave func(syntax.Node)) {
	if node.IsZero() {
		return
	}

	if enter(node) {
		node.ForEachChild(func(child syntax.Node) {
			Inspect(child, enter, leave)
		})
	}

	if leave != nil {
		leave(node)
	}
}
