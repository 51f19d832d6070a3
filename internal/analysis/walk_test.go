package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

func TestWalk_PreOrderAndSkip(t *testing.T) {
	t.Parallel()

	tree := parse(t, syntax.TypeScript, `class A { m() { x.y } }
function f() {}`)
	root, ok := tree.Root()
	require.True(t, ok)

	var seen []syntax.Category
	Walk(root, func(n syntax.Node) bool {
		switch c := n.Category(); c {
		case syntax.CategoryClass, syntax.CategoryMethod, syntax.CategoryMemberAccess, syntax.CategoryFunctionDeclaration:
			seen = append(seen, c)
		}
		return true
	})
	assert.Equal(t, []syntax.Category{
		syntax.CategoryClass,
		syntax.CategoryMethod,
		syntax.CategoryMemberAccess,
		syntax.CategoryFunctionDeclaration,
	}, seen)

	seen = nil
	Walk(root, func(n syntax.Node) bool {
		if n.Category() == syntax.CategoryClass {
			seen = append(seen, n.Category())
			return false
		}
		if n.Category() == syntax.CategoryMemberAccess {
			seen = append(seen, n.Category())
		}
		return true
	})
	assert.Equal(t, []syntax.Category{syntax.CategoryClass}, seen)
}

func TestInspect_LeavePairsWithEnter(t *testing.T) {
	t.Parallel()

	tree := parse(t, syntax.JavaScript, `const o = { a() { return () => 1 } }`)
	root, ok := tree.Root()
	require.True(t, ok)

	depth, maxDepth, entered, left := 0, 0, 0, 0
	Inspect(root,
		func(n syntax.Node) bool {
			entered++
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
			// Skipping a subtree still produces a leave for the skipped node.
			return n.Category() != syntax.CategoryArrowFunction
		},
		func(n syntax.Node) {
			left++
			depth--
		},
	)

	assert.Equal(t, entered, left)
	assert.Equal(t, 0, depth)
	assert.Greater(t, maxDepth, 3)
}

func TestWalk_ZeroNode(t *testing.T) {
	t.Parallel()

	called := false
	Walk(syntax.Node{}, func(syntax.Node) bool {
		called = true
		return true
	})
	Inspect(syntax.Node{}, func(syntax.Node) bool {
		called = true
		return true
	}, nil)
	assert.False(t, called)
}
