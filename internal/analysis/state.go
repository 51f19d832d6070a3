package analysis

// TraversalState is the mutable state of one outline traversal: the ordinal
// counter and the structural nesting depth. It is created per traversal and
// never shared.
type TraversalState struct {
	ordinal int
	indent  int
}

// Ordinal returns the last ordinal handed out (0 before the first token).
func (s *TraversalState) Ordinal() int {
	return s.ordinal
}

// Indent returns the current structural depth.
func (s *TraversalState) Indent() int {
	return s.indent
}

// Emit creates a token at the current depth with the next ordinal.
func (s *TraversalState) Emit(name string, kind OutlineKind, line int) OutlineToken {
	s.ordinal++
	return OutlineToken{
		Name:         name,
		Kind:         kind,
		Ordinal:      s.ordinal,
		Line:         line,
		IndentAmount: s.indent,
	}
}

// Enter records entry into a structural container.
func (s *TraversalState) Enter() {
	s.indent++
}

// Leave records exit from a structural container. Every Leave pairs with one Enter.
func (s *TraversalState) Leave() {
	if s.indent == 0 {
		panic("analysis: unbalanced outline indentation")
	}
	s.indent--
}
