package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

var errMissing = errors.New("missing")

type mapSource map[string]string

func (m mapSource) ResolveTree(fileID string) (*syntax.Tree, error) {
	src, ok := m[fileID]
	if !ok {
		return nil, errMissing
	}
	return syntax.Parse(syntax.TypeScript, []byte(src))
}

func TestAnalyzer(t *testing.T) {
	t.Parallel()

	source := mapSource{
		"rule.ts": `class Rule { run() { Users[principal].notify(Things.lamp) } }`,
	}
	a := NewAnalyzer(source)
	ctx := context.Background()

	assert.Equal(t, []OutlineToken{
		tok("Rule", KindClass, 1, 0, 0),
		tok("run", KindMethod, 2, 0, 1),
	}, a.BuildOutline(ctx, "rule.ts"))

	assert.Equal(t, ReferenceMap{
		"Things": members("lamp"),
		"Users":  members("System"),
		"Items":  members(),
	}, a.ExtractReferences(ctx, "rule.ts", []string{"Things", "Users", "Items"}))
}

func TestAnalyzer_UnresolvableFileIsEmpty(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(mapSource{})
	ctx := context.Background()

	outline := a.BuildOutline(ctx, "missing.ts")
	assert.NotNil(t, outline)
	assert.Empty(t, outline)

	assert.Equal(t, ReferenceMap{"Things": members()}, a.ExtractReferences(ctx, "missing.ts", []string{"Things"}))
}

func TestAnalyzer_CanceledContext(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(mapSource{"a.ts": `class A {}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, a.BuildOutline(ctx, "a.ts"))
	assert.Equal(t, ReferenceMap{"Things": members()}, a.ExtractReferences(ctx, "a.ts", []string{"Things"}))
}

func TestAnalyzer_PrincipalPolicyOption(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(mapSource{"a.ts": `Users[principal]`}, WithPrincipalPolicy(PrincipalPolicy{}))

	assert.Equal(t, ReferenceMap{"Users": members()}, a.ExtractReferences(context.Background(), "a.ts", []string{"Users"}))
}
