package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutlineToken_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(OutlineToken{Name: "run", Kind: KindMethod, Ordinal: 2, Line: 0, IndentAmount: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"run","kind":"Method","ordinal":2,"line":0,"indentAmount":1}`, string(data))

	var decoded OutlineToken
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","kind":"Get","ordinal":1,"line":4,"indentAmount":0}`), &decoded))
	assert.Equal(t, OutlineToken{Name: "x", Kind: KindGet, Ordinal: 1, Line: 4}, decoded)
}

func TestOutlineKind_Unknown(t *testing.T) {
	t.Parallel()

	var k OutlineKind
	assert.Error(t, k.UnmarshalText([]byte("Namespace")))

	_, err := OutlineKind(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "OutlineKind(42)", OutlineKind(42).String())
}

func TestReferenceMap(t *testing.T) {
	t.Parallel()

	refs := NewReferenceMap([]string{"Things", "Users", "Things"})
	require.Len(t, refs, 2)

	refs["Things"].Add("lamp")
	refs["Things"].Add("fan")
	refs["Things"].Add("lamp")

	assert.True(t, refs["Things"].Has("fan"))
	assert.False(t, refs["Users"].Has("fan"))
	assert.Equal(t, map[string][]string{
		"Things": {"fan", "lamp"},
		"Users":  {},
	}, refs.Lists())
}
