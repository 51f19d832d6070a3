package analysis

import (
	"strings"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

const (
	anonymousName      = "{}"
	anonymousArrowName = "() => {}"
	constructorName    = "constructor ()"
)

// BuildOutline returns the structural declarations of tree in discovery
// (pre-order) order. A tree without a root yields an empty outline.
func BuildOutline(tree *syntax.Tree) []OutlineToken {
	tokens := []OutlineToken{}
	root, ok := tree.Root()
	if !ok {
		return tokens
	}

	state := &TraversalState{}
	var containers []bool

	Inspect(root,
		func(n syntax.Node) bool {
			token, container := outlineStep(n)
			if token != nil {
				tokens = append(tokens, state.Emit(token.name, token.kind, n.Line()))
			}
			if container {
				state.Enter()
			}
			containers = append(containers, container)
			return true
		},
		func(n syntax.Node) {
			last := len(containers) - 1
			if containers[last] {
				state.Leave()
			}
			containers = containers[:last]
		},
	)

	return tokens
}

type pendingToken struct {
	name string
	kind OutlineKind
}

// outlineStep classifies one node. It returns the token to emit (nil for
// none) and whether the node is a structural container.
func outlineStep(n syntax.Node) (*pendingToken, bool) {
	category := n.Category()
	switch {
	case category == syntax.CategoryClass:
		name := anonymousName
		if id, ok := n.Field("name"); ok {
			name = id.Text()
		}
		return &pendingToken{name: name, kind: KindClass}, true

	case category.IsFunctionLike():
		return &pendingToken{name: functionName(n, category), kind: functionKind(n, category)}, true

	case category == syntax.CategoryObjectLiteral:
		if !qualifiesForOutline(n) {
			return nil, false
		}
		name, ok := boundName(n)
		if !ok {
			name = anonymousName
		}
		return &pendingToken{name: name, kind: KindObjectLiteral}, true
	}

	return nil, false
}

func functionKind(n syntax.Node, category syntax.Category) OutlineKind {
	switch category {
	case syntax.CategoryConstructor:
		return KindConstructor
	case syntax.CategoryGetAccessor:
		return KindGet
	case syntax.CategorySetAccessor:
		return KindSet
	case syntax.CategoryMethod:
		return KindMethod
	}

	// Function values attached to a property with `key: value` are methods.
	if parent, ok := n.Parent(); ok && parent.Category() == syntax.CategoryPropertyAssignment {
		return KindMethod
	}
	return KindFunction
}

func functionName(n syntax.Node, category syntax.Category) string {
	if category == syntax.CategoryConstructor {
		return constructorName
	}
	if id, ok := n.Field("name"); ok {
		return id.Text()
	}
	if name, ok := boundName(n); ok {
		return name
	}
	if category == syntax.CategoryArrowFunction {
		return anonymousArrowName
	}
	return anonymousName
}

// boundName derives a name for an anonymous construct from where it is
// attached: a property or variable binding, a call it is passed to, or the
// left side of a plain assignment.
func boundName(n syntax.Node) (string, bool) {
	parent, ok := syntacticParent(n)
	if !ok {
		return "", false
	}

	switch parent.Category() {
	case syntax.CategoryPropertyAssignment:
		if key, ok := parent.Field("key"); ok {
			return key.Text(), true
		}
	case syntax.CategoryVariableDeclarator:
		if name, ok := parent.Field("name"); ok {
			return name.Text(), true
		}
	case syntax.CategoryCallExpression:
		if callee, ok := parent.Field("function"); ok {
			return lastLine(callee.Text()) + "()", true
		}
	case syntax.CategoryAssignment:
		left, ok := parent.Field("left")
		if !ok {
			return "", false
		}
		if left.Category() == syntax.CategoryVariableDeclarator {
			if name, ok := left.Field("name"); ok {
				return name.Text(), true
			}
		}
		return lastLine(left.Text()), true
	}
	return "", false
}

// syntacticParent returns the parent, looking through the argument list
// wrapper so a callback's parent is its call expression.
func syntacticParent(n syntax.Node) (syntax.Node, bool) {
	parent, ok := n.Parent()
	if !ok {
		return syntax.Node{}, false
	}
	if parent.Category() == syntax.CategoryArguments {
		if call, ok := parent.Parent(); ok && call.Category() == syntax.CategoryCallExpression {
			return call, true
		}
	}
	return parent, true
}

// qualifiesForOutline reports whether an object literal holds an accessor, a
// method declaration, or a property whose value is a function.
func qualifiesForOutline(obj syntax.Node) bool {
	qualifies := false
	obj.ForEachChild(func(member syntax.Node) {
		if qualifies {
			return
		}
		category := member.Category()
		switch {
		case category.IsFunctionLike():
			qualifies = true
		case category == syntax.CategoryPropertyAssignment:
			if value, ok := member.Field("value"); ok && value.Category().IsFunctionValue() {
				qualifies = true
			}
		}
	})
	return qualifies
}

func lastLine(text string) string {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}
