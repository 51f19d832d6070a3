package analysis

import (
	"fmt"
	"sort"
)

// OutlineKind is the closed set of structural declaration kinds in an outline.
type OutlineKind int

const (
	KindClass OutlineKind = iota
	KindObjectLiteral
	KindMethod
	KindConstructor
	KindFunction
	KindGet
	KindSet
)

var outlineKindNames = map[OutlineKind]string{
	KindClass:         "Class",
	KindObjectLiteral: "ObjectLiteral",
	KindMethod:        "Method",
	KindConstructor:   "Constructor",
	KindFunction:      "Function",
	KindGet:           "Get",
	KindSet:           "Set",
}

func (k OutlineKind) String() string {
	if name, ok := outlineKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OutlineKind(%d)", int(k))
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k OutlineKind) MarshalText() ([]byte, error) {
	name, ok := outlineKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown outline kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *OutlineKind) UnmarshalText(text []byte) error {
	for kind, name := range outlineKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown outline kind %q", string(text))
}

// OutlineToken is one structural declaration discovered in a script.
type OutlineToken struct {
	Name string      `json:"name"`
	Kind OutlineKind `json:"kind"`
	// Ordinal is the 1-based discovery index, assigned when the token is created.
	Ordinal int `json:"ordinal"`
	// Line is zero-based.
	Line int `json:"line"`
	// IndentAmount counts enclosing structural containers, not braces.
	IndentAmount int `json:"indentAmount"`
}

// MemberSet is a set of member names accessed off one root.
type MemberSet map[string]struct{}

// Add records a member name.
func (s MemberSet) Add(member string) {
	s[member] = struct{}{}
}

// Has reports whether member was recorded.
func (s MemberSet) Has(member string) bool {
	_, ok := s[member]
	return ok
}

// Sorted returns the members in lexical order.
func (s MemberSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ReferenceMap maps each requested root name to the members accessed off it.
// Every requested root is present, even when nothing was found.
type ReferenceMap map[string]MemberSet

// NewReferenceMap returns a map keyed by roots, each with an empty set.
func NewReferenceMap(roots []string) ReferenceMap {
	refs := make(ReferenceMap, len(roots))
	for _, root := range roots {
		if _, ok := refs[root]; !ok {
			refs[root] = MemberSet{}
		}
	}
	return refs
}

// Lists converts the map to sorted slices, the shape transports serialize.
func (r ReferenceMap) Lists() map[string][]string {
	out := make(map[string][]string, len(r))
	for root, members := range r {
		out[root] = members.Sorted()
	}
	return out
}
