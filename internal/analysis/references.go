package analysis

import "github.com/mvp-joe/scriptlens/internal/syntax"

// PrincipalPolicy normalizes `Root[identifier]` to a fixed member. With the
// default convention `Users[principal]` always records `System`, whatever the
// runtime value of principal.
type PrincipalPolicy struct {
	Enabled    bool
	Root       string
	Identifier string
	Actor      string
}

// DefaultPrincipalPolicy returns the Users/principal/System convention.
func DefaultPrincipalPolicy() PrincipalPolicy {
	return PrincipalPolicy{
		Enabled:    true,
		Root:       "Users",
		Identifier: "principal",
		Actor:      "System",
	}
}

func (p PrincipalPolicy) matches(root, identifier string) bool {
	return p.Enabled && root == p.Root && identifier == p.Identifier
}

// ReferenceOptions tunes reference extraction.
type ReferenceOptions struct {
	Principal PrincipalPolicy
	// Types resolves literal-typed indexers. Nil uses syntax.NewLiteralTypes.
	Types syntax.TypeLookup
}

// ExtractReferences collects, for every root name, the members accessed off
// it with `root.member`, `root["member"]` or `root[Const.member]`. Accesses
// whose member cannot be determined statically are not recorded.
func ExtractReferences(tree *syntax.Tree, rootNames []string, opts ReferenceOptions) ReferenceMap {
	refs := NewReferenceMap(rootNames)
	root, ok := tree.Root()
	if !ok || len(refs) == 0 {
		return refs
	}

	types := opts.Types
	if types == nil {
		types = syntax.NewLiteralTypes(tree)
	}

	Walk(root, func(n syntax.Node) bool {
		switch n.Category() {
		case syntax.CategoryMemberAccess:
			recordMemberAccess(n, refs)
		case syntax.CategoryElementAccess:
			recordElementAccess(n, refs, opts.Principal, types)
		}
		return true
	})

	return refs
}

func recordMemberAccess(n syntax.Node, refs ReferenceMap) {
	base, ok := n.Field("object")
	if !ok {
		return
	}
	members, ok := refs[base.Text()]
	if !ok {
		return
	}
	if prop, ok := n.Field("property"); ok {
		members.Add(prop.Text())
	}
}

func recordElementAccess(n syntax.Node, refs ReferenceMap, principal PrincipalPolicy, types syntax.TypeLookup) {
	base, ok := n.Field("object")
	if !ok {
		return
	}
	rootName := base.Text()
	members, ok := refs[rootName]
	if !ok {
		return
	}
	index, ok := n.Field("index")
	if !ok {
		return
	}

	switch index.Category() {
	case syntax.CategoryIdentifier:
		if principal.matches(rootName, index.Text()) {
			members.Add(principal.Actor)
		}
	case syntax.CategoryMemberAccess:
		if value, ok := types.InferType(index).Literal(); ok {
			members.Add(value)
		}
	case syntax.CategoryStringLiteral:
		if value, ok := syntax.StringValue(index); ok {
			members.Add(value)
		}
	}
}
