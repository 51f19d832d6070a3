package analysis

import (
	"context"
	"log/slog"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

// TreeSource resolves a file id to a freshly parsed tree owned by the caller.
type TreeSource interface {
	ResolveTree(fileID string) (*syntax.Tree, error)
}

// Analyzer runs the outline and reference analyses against files supplied by
// a TreeSource. A file that cannot be resolved produces an empty result, not
// an error.
type Analyzer struct {
	source    TreeSource
	principal PrincipalPolicy
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPrincipalPolicy replaces the default Users/principal/System rule.
func WithPrincipalPolicy(p PrincipalPolicy) Option {
	return func(a *Analyzer) {
		a.principal = p
	}
}

// WithLogger sets the logger used for resolution misses.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer over source.
func NewAnalyzer(source TreeSource, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:    source,
		principal: DefaultPrincipalPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildOutline returns the outline of fileID.
func (a *Analyzer) BuildOutline(ctx context.Context, fileID string) []OutlineToken {
	tree := a.resolve(ctx, fileID)
	if tree == nil {
		return []OutlineToken{}
	}
	defer tree.Close()

	return BuildOutline(tree)
}

// ExtractReferences returns the members accessed off each of rootNames in fileID.
func (a *Analyzer) ExtractReferences(ctx context.Context, fileID string, rootNames []string) ReferenceMap {
	tree := a.resolve(ctx, fileID)
	if tree == nil {
		return NewReferenceMap(rootNames)
	}
	defer tree.Close()

	return ExtractReferences(tree, rootNames, ReferenceOptions{Principal: a.principal})
}

func (a *Analyzer) resolve(ctx context.Context, fileID string) *syntax.Tree {
	if err := ctx.Err(); err != nil {
		a.logger.Debug("analysis skipped", "file", fileID, "error", err)
		return nil
	}
	tree, err := a.source.ResolveTree(fileID)
	if err != nil {
		a.logger.Debug("file not resolvable", "file", fileID, "error", err)
		return nil
	}
	return tree
}
