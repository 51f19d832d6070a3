package syntax

// Category is the closed set of node shapes the analyses branch on. Every
// grammar node type not listed here maps to CategoryOther.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryClass
	CategoryConstructor
	CategoryMethod
	CategoryGetAccessor
	CategorySetAccessor
	CategoryFunctionDeclaration
	CategoryFunctionExpression
	CategoryArrowFunction
	CategoryObjectLiteral
	CategoryPropertyAssignment
	CategoryVariableDeclarator
	CategoryCallExpression
	CategoryArguments
	CategoryAssignment
	CategoryMemberAccess
	CategoryElementAccess
	CategoryStringLiteral
	CategoryIdentifier
)

var categoryNames = [...]string{
	CategoryOther:               "other",
	CategoryClass:               "class",
	CategoryConstructor:         "constructor",
	CategoryMethod:              "method",
	CategoryGetAccessor:         "get_accessor",
	CategorySetAccessor:         "set_accessor",
	CategoryFunctionDeclaration: "function_declaration",
	CategoryFunctionExpression:  "function_expression",
	CategoryArrowFunction:       "arrow_function",
	CategoryObjectLiteral:       "object_literal",
	CategoryPropertyAssignment:  "property_assignment",
	CategoryVariableDeclarator:  "variable_declarator",
	CategoryCallExpression:      "call_expression",
	CategoryArguments:           "arguments",
	CategoryAssignment:          "assignment",
	CategoryMemberAccess:        "member_access",
	CategoryElementAccess:       "element_access",
	CategoryStringLiteral:       "string_literal",
	CategoryIdentifier:          "identifier",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// IsFunctionLike reports whether the category is a method, constructor,
// accessor or function shape.
func (c Category) IsFunctionLike() bool {
	switch c {
	case CategoryConstructor, CategoryMethod, CategoryGetAccessor, CategorySetAccessor,
		CategoryFunctionDeclaration, CategoryFunctionExpression, CategoryArrowFunction:
		return true
	}
	return false
}

// IsFunctionValue reports whether a node of this category can be the value of
// a property assignment that makes it method-shaped.
func (c Category) IsFunctionValue() bool {
	switch c {
	case CategoryFunctionExpression, CategoryArrowFunction:
		return true
	}
	return false
}

// kindCategories covers both the TypeScript and JavaScript grammars.
var kindCategories = map[string]Category{
	"class_declaration":              CategoryClass,
	"abstract_class_declaration":     CategoryClass,
	"class":                          CategoryClass,
	"method_definition":              CategoryMethod,
	"method_signature":               CategoryMethod,
	"abstract_method_signature":      CategoryMethod,
	"function_declaration":           CategoryFunctionDeclaration,
	"generator_function_declaration": CategoryFunctionDeclaration,
	"function_signature":             CategoryFunctionDeclaration,
	"function_expression":            CategoryFunctionExpression,
	"function":                       CategoryFunctionExpression,
	"generator_function":             CategoryFunctionExpression,
	"arrow_function":                 CategoryArrowFunction,
	"object":                         CategoryObjectLiteral,
	"pair":                           CategoryPropertyAssignment,
	"variable_declarator":            CategoryVariableDeclarator,
	"call_expression":                CategoryCallExpression,
	"arguments":                      CategoryArguments,
	"assignment_expression":          CategoryAssignment,
	"member_expression":              CategoryMemberAccess,
	"subscript_expression":           CategoryElementAccess,
	"string":                         CategoryStringLiteral,
	"identifier":                     CategoryIdentifier,
}

func classify(n Node) Category {
	if n.IsZero() {
		return CategoryOther
	}
	c, ok := kindCategories[n.Kind()]
	if !ok {
		return CategoryOther
	}
	if c != CategoryMethod {
		return c
	}

	// Methods split further into constructors and accessors.
	switch {
	case n.hasTokenBeforeField("get", "name"):
		return CategoryGetAccessor
	case n.hasTokenBeforeField("set", "name"):
		return CategorySetAccessor
	}
	if n.Kind() != "method_definition" {
		return CategoryMethod
	}
	if parent, ok := n.Parent(); !ok || parent.Kind() != "class_body" {
		return CategoryMethod
	}
	if name, ok := n.Field("name"); ok && name.Text() == "constructor" {
		return CategoryConstructor
	}
	return CategoryMethod
}
