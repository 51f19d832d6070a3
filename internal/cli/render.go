package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/config"
)

type outlineDocument struct {
	File    string                  `json:"file"`
	Outline []analysis.OutlineToken `json:"outline,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

type referencesDocument struct {
	File       string              `json:"file"`
	References map[string][]string `json:"references,omitempty"`
	Error      string              `json:"error,omitempty"`
}

func renderOutlines(w io.Writer, format string, results []fileResult[[]analysis.OutlineToken]) error {
	if format == config.FormatJSON {
		docs := make([]outlineDocument, 0, len(results))
		for _, r := range results {
			doc := outlineDocument{File: r.File, Outline: r.Result}
			if r.Err != nil {
				doc.Error = r.Err.Error()
			} else if doc.Outline == nil {
				doc.Outline = []analysis.OutlineToken{}
			}
			docs = append(docs, doc)
		}
		return writeJSON(w, docs)
	}

	for _, r := range results {
		writeOutlineText(w, r.File, r.Result, r.Err)
	}
	return nil
}

func writeOutlineText(w io.Writer, file string, tokens []analysis.OutlineToken, err error) {
	fmt.Fprintln(w, file)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  error: %v\n", err)
	case len(tokens) == 0:
		fmt.Fprintln(w, "  (no declarations)")
	}
	writeOutlineTokens(w, tokens)
}

// writeOutlineTokens prints one token per line, indented by nesting depth,
// with a one-based line number.
func writeOutlineTokens(w io.Writer, tokens []analysis.OutlineToken) {
	for _, t := range tokens {
		indent := strings.Repeat("  ", t.IndentAmount+1)
		fmt.Fprintf(w, "%s%-13s %s  :%d\n", indent, t.Kind, t.Name, t.Line+1)
	}
}

func renderReferences(w io.Writer, format string, results []fileResult[analysis.ReferenceMap]) error {
	if format == config.FormatJSON {
		docs := make([]referencesDocument, 0, len(results))
		for _, r := range results {
			doc := referencesDocument{File: r.File}
			if r.Err != nil {
				doc.Error = r.Err.Error()
			} else {
				doc.References = r.Result.Lists()
			}
			docs = append(docs, doc)
		}
		return writeJSON(w, docs)
	}

	for _, r := range results {
		var refs map[string][]string
		if r.Err == nil {
			refs = r.Result.Lists()
		}
		writeReferencesText(w, r.File, refs, r.Err)
	}
	return nil
}

func writeReferencesText(w io.Writer, file string, refs map[string][]string, err error) {
	fmt.Fprintln(w, file)
	if err != nil {
		fmt.Fprintf(w, "  error: %v\n", err)
		return
	}

	roots := make([]string, 0, len(refs))
	for root := range refs {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	for _, root := range roots {
		members := refs[root]
		if len(members) == 0 {
			fmt.Fprintf(w, "  %s: (none)\n", root)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", root, strings.Join(members, ", "))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
