package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexOf returns the index expressions of every subscript in source order.
func indexes(t *testing.T, tree *Tree) []Node {
	t.Helper()
	var out []Node
	for _, sub := range findAll(tree, "subscript_expression") {
		idx, ok := sub.Field("index")
		require.True(t, ok)
		out = append(out, idx)
	}
	return out
}

func TestLiteralTypes(t *testing.T) {
	t.Parallel()

	src := `enum Keys { Lamp = "lamp", Count = 3, Bare }
class Names { static readonly Door = "door"; readonly Hall = "hall" }
const Frozen = { a: "x", deep: { b: 'y' } } as const
const Open = { a: "x" }
let Later = { a: "x" } as const
const Dup = { a: "one" } as const
const Dup2 = 1

T[Keys.Lamp]
T[Keys.Count]
T[Keys.Bare]
T[Names.Door]
T[Names.Hall]
T[Frozen.a]
T[Frozen.deep.b]
T[Frozen.deep]
T[Open.a]
T[Later.a]
T[("direct")]
T[Missing.a]
`
	tree := mustParse(t, TypeScript, src)
	lookup := NewLiteralTypes(tree)

	want := []struct {
		value string
		ok    bool
	}{
		{"lamp", true},
		{"", false},
		{"", false},
		{"door", true},
		{"", false},
		{"x", true},
		{"y", true},
		{"", false},
		{"", false},
		{"", false},
		{"direct", true},
		{"", false},
	}

	idx := indexes(t, tree)
	require.Len(t, idx, len(want))
	for i, n := range idx {
		value, ok := lookup.InferType(n).Literal()
		assert.Equal(t, want[i].ok, ok, n.Text())
		assert.Equal(t, want[i].value, value, n.Text())
	}
}

func TestLiteralTypes_DuplicateDeclarationIsAmbiguous(t *testing.T) {
	t.Parallel()

	src := `const K = { a: "one" } as const
function f() { const K = { a: "two" } as const }
T[K.a]
`
	tree := mustParse(t, TypeScript, src)
	idx := indexes(t, tree)
	require.Len(t, idx, 1)

	_, ok := NewLiteralTypes(tree).InferType(idx[0]).Literal()
	assert.False(t, ok)
}

func TestLiteralType(t *testing.T) {
	t.Parallel()

	v, ok := LiteralType("lamp").Literal()
	assert.True(t, ok)
	assert.Equal(t, "lamp", v)

	_, ok = TypeInfo{}.Literal()
	assert.False(t, ok)
}
