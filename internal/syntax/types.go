package syntax

// TypeInfo is the statically inferred type of an expression. Only literal
// string types carry a value.
type TypeInfo struct {
	literal    string
	hasLiteral bool
}

// LiteralType returns a TypeInfo carrying a string literal value.
func LiteralType(value string) TypeInfo {
	return TypeInfo{literal: value, hasLiteral: true}
}

// Literal returns the literal string value, if the type has one.
func (t TypeInfo) Literal() (string, bool) {
	return t.literal, t.hasLiteral
}

// TypeLookup infers static types for expressions in one file.
type TypeLookup interface {
	InferType(n Node) TypeInfo
}

// LiteralTypes is a single-file TypeLookup that recovers literal string types
// from declarations the file itself makes:
//
//	enum Keys { Lamp = "lamp" }            // Keys.Lamp
//	class Keys { static readonly Lamp = "lamp" }
//	const Keys = { lamp: "lamp" } as const // Keys.lamp
//	const Keys = { lamp: "lamp" as const }
//
// A name declared more than once in the file is treated as unknown.
type LiteralTypes struct {
	tree  *Tree
	decls map[string]Node
	built bool
}

// NewLiteralTypes returns a lookup over tree. Declarations are indexed on the
// first query.
func NewLiteralTypes(tree *Tree) *LiteralTypes {
	return &LiteralTypes{tree: tree}
}

// InferType implements TypeLookup.
func (l *LiteralTypes) InferType(n Node) TypeInfo {
	if n.IsZero() {
		return TypeInfo{}
	}

	n, _ = unwrapExpression(n)
	switch n.Category() {
	case CategoryStringLiteral:
		if v, ok := StringValue(n); ok {
			return LiteralType(v)
		}
	case CategoryMemberAccess:
		base, path, ok := memberPath(n)
		if !ok {
			return TypeInfo{}
		}
		l.build()
		decl, ok := l.decls[base]
		if !ok || decl.IsZero() {
			return TypeInfo{}
		}
		if v, ok := resolveDeclPath(decl, path); ok {
			return LiteralType(v)
		}
	}
	return TypeInfo{}
}

func (l *LiteralTypes) build() {
	if l.built {
		return
	}
	l.built = true
	l.decls = make(map[string]Node)

	root, ok := l.tree.Root()
	if !ok {
		return
	}

	var visit func(Node)
	visit = func(n Node) {
		switch n.Kind() {
		case "enum_declaration", "class_declaration", "abstract_class_declaration", "variable_declarator":
			if name, ok := n.Field("name"); ok && name.Kind() != "object_pattern" && name.Kind() != "array_pattern" {
				l.declare(name.Text(), n)
			}
		}
		n.ForEachChild(visit)
	}
	visit(root)
}

func (l *LiteralTypes) declare(name string, decl Node) {
	if _, seen := l.decls[name]; seen {
		l.decls[name] = Node{}
		return
	}
	l.decls[name] = decl
}

// memberPath flattens `a.b.c` into base "a" and path ["b", "c"].
func memberPath(n Node) (string, []string, bool) {
	var path []string
	for {
		n, _ = unwrapExpression(n)
		switch n.Category() {
		case CategoryIdentifier:
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return n.Text(), path, true
		case CategoryMemberAccess:
			prop, ok := n.Field("property")
			if !ok {
				return "", nil, false
			}
			obj, ok := n.Field("object")
			if !ok {
				return "", nil, false
			}
			path = append(path, prop.Text())
			n = obj
		default:
			return "", nil, false
		}
	}
}

func resolveDeclPath(decl Node, path []string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}

	switch decl.Kind() {
	case "enum_declaration":
		if len(path) != 1 {
			return "", false
		}
		return enumMember(decl, path[0])
	case "class_declaration", "abstract_class_declaration":
		if len(path) != 1 {
			return "", false
		}
		return staticReadonlyField(decl, path[0])
	case "variable_declarator":
		if !isConstBinding(decl) {
			return "", false
		}
		value, ok := decl.Field("value")
		if !ok {
			return "", false
		}
		return objectPath(value, path, false)
	}
	return "", false
}

func enumMember(decl Node, member string) (string, bool) {
	body, ok := decl.Field("body")
	if !ok {
		return "", false
	}
	var (
		value string
		found bool
	)
	body.ForEachChild(func(c Node) {
		if found || c.Kind() != "enum_assignment" {
			return
		}
		name, ok := c.Field("name")
		if !ok || propertyKey(name) != member {
			return
		}
		if v, ok := c.Field("value"); ok {
			value, found = StringValue(v)
		}
	})
	return value, found
}

func staticReadonlyField(decl Node, member string) (string, bool) {
	body, ok := decl.Field("body")
	if !ok {
		return "", false
	}
	var (
		value string
		found bool
	)
	body.ForEachChild(func(c Node) {
		if found || c.Kind() != "public_field_definition" {
			return
		}
		if !c.hasToken("static") || !c.hasToken("readonly") {
			return
		}
		name, ok := c.Field("name")
		if !ok || propertyKey(name) != member {
			return
		}
		if v, ok := c.Field("value"); ok {
			v, _ = unwrapExpression(v)
			value, found = StringValue(v)
		}
	})
	return value, found
}

// objectPath follows path through nested object literals. Property values are
// only literal when an enclosing or local `as const` assertion applies.
func objectPath(value Node, path []string, frozen bool) (string, bool) {
	value, asConst := unwrapExpression(value)
	frozen = frozen || asConst

	if len(path) == 0 {
		if !frozen {
			return "", false
		}
		return StringValue(value)
	}
	if value.Category() != CategoryObjectLiteral {
		return "", false
	}

	var (
		next  Node
		found bool
	)
	value.ForEachChild(func(c Node) {
		if found || c.Category() != CategoryPropertyAssignment {
			return
		}
		key, ok := c.Field("key")
		if !ok || propertyKey(key) != path[0] {
			return
		}
		if v, ok := c.Field("value"); ok {
			next, found = v, true
		}
	})
	if !found {
		return "", false
	}
	return objectPath(next, path[1:], frozen)
}

// propertyKey normalizes identifier and string keys to their name.
func propertyKey(n Node) string {
	if v, ok := StringValue(n); ok {
		return v
	}
	return n.Text()
}

func isConstBinding(declarator Node) bool {
	parent, ok := declarator.Parent()
	if !ok || parent.Kind() != "lexical_declaration" {
		return false
	}
	return parent.hasToken("const")
}
