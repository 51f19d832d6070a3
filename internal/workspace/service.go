package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/syntax"
)

// CacheOptions bounds the analysis result cache.
type CacheOptions struct {
	MaxEntries int
	TTL        time.Duration
}

// CacheStats reports result cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Service runs analyses against workspace documents and memoizes the results.
// Entries are keyed by document id, content hash and request, so an edit
// never serves a stale result; superseded entries age out of the cache.
// Trees are not cached: every miss parses afresh and closes the tree.
type Service struct {
	ws       *Workspace
	opts     []analysis.Option
	outlines otter.Cache[string, []analysis.OutlineToken]
	refs     otter.Cache[string, analysis.ReferenceMap]
	logger   *slog.Logger
}

// NewService wires a workspace to the analyses behind a result cache.
// analyzerOpts configure every analyzer the service creates.
func NewService(ws *Workspace, opts CacheOptions, logger *slog.Logger, analyzerOpts ...analysis.Option) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxEntries <= 0 {
		return nil, fmt.Errorf("cache max entries must be positive, got %d", opts.MaxEntries)
	}

	outlines, err := newCache[[]analysis.OutlineToken](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create outline cache: %w", err)
	}
	refs, err := newCache[analysis.ReferenceMap](opts)
	if err != nil {
		outlines.Close()
		return nil, fmt.Errorf("failed to create reference cache: %w", err)
	}

	return &Service{
		ws:       ws,
		opts:     append([]analysis.Option{analysis.WithLogger(logger)}, analyzerOpts...),
		outlines: outlines,
		refs:     refs,
		logger:   logger,
	}, nil
}

func newCache[V any](opts CacheOptions) (otter.Cache[string, V], error) {
	builder := otter.MustBuilder[string, V](opts.MaxEntries).CollectStats()
	if opts.TTL > 0 {
		return builder.WithTTL(opts.TTL).Build()
	}
	return builder.Build()
}

// Workspace returns the document store the service reads from.
func (s *Service) Workspace() *Workspace {
	return s.ws
}

// Outline returns the outline of a document. Unknown documents yield an empty outline.
func (s *Service) Outline(ctx context.Context, uri string) []analysis.OutlineToken {
	doc, ok := s.ws.Get(uri)
	if !ok {
		return s.analyzerFor(nil).BuildOutline(ctx, uri)
	}

	key := cacheKey("outline", doc, nil)
	if tokens, ok := s.outlines.Get(key); ok {
		return slices.Clone(tokens)
	}

	tokens := s.analyzerFor(doc).BuildOutline(ctx, uri)
	if ctx.Err() == nil {
		s.outlines.Set(key, tokens)
	}
	return slices.Clone(tokens)
}

// References returns the members accessed off each root in a document.
// Unknown documents yield a map of empty sets.
func (s *Service) References(ctx context.Context, uri string, roots []string) analysis.ReferenceMap {
	doc, ok := s.ws.Get(uri)
	if !ok {
		return s.analyzerFor(nil).ExtractReferences(ctx, uri, roots)
	}

	key := cacheKey("refs", doc, roots)
	if refs, ok := s.refs.Get(key); ok {
		return cloneReferences(refs)
	}

	refs := s.analyzerFor(doc).ExtractReferences(ctx, uri, roots)
	if ctx.Err() == nil {
		s.refs.Set(key, refs)
	}
	return cloneReferences(refs)
}

// analyzerFor binds an analyzer to one document snapshot so the result always
// matches the hash it is cached under, even if the document changes mid-call.
func (s *Service) analyzerFor(doc *Document) *analysis.Analyzer {
	return analysis.NewAnalyzer(snapshot{doc: doc}, s.opts...)
}

type snapshot struct {
	doc *Document
}

func (s snapshot) ResolveTree(fileID string) (*syntax.Tree, error) {
	if s.doc == nil || s.doc.URI != fileID {
		return nil, fmt.Errorf("resolve %s: %w", fileID, ErrNotFound)
	}
	return syntax.Parse(s.doc.Language, s.doc.Text)
}

// Stats sums hits and misses across both result caches.
func (s *Service) Stats() CacheStats {
	o, r := s.outlines.Stats(), s.refs.Stats()
	return CacheStats{
		Hits:   o.Hits() + r.Hits(),
		Misses: o.Misses() + r.Misses(),
	}
}

// Close releases the caches.
func (s *Service) Close() {
	s.outlines.Close()
	s.refs.Close()
}

// cacheKey quotes the uri and every root so no two distinct requests share a
// key, e.g. roots ["a", "b"] and ["a|b"].
func cacheKey(kind string, doc *Document, roots []string) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('|')
	b.WriteString(strconv.Quote(doc.URI))
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(doc.Hash, 16))
	b.WriteByte('|')
	b.WriteString(string(doc.Language))
	for _, root := range roots {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(root))
	}
	return b.String()
}

func cloneReferences(refs analysis.ReferenceMap) analysis.ReferenceMap {
	out := make(analysis.ReferenceMap, len(refs))
	for root, members := range refs {
		set := make(analysis.MemberSet, len(members))
		for m := range members {
			set.Add(m)
		}
		out[root] = set
	}
	return out
}
