package token

// Token is the unit the external lexer/parser pair is expected to
// produce: a kind, plus a 1-based line and column for diagnostics.
type Token struct {
	Kind Kind
	Line uint32
	Col  uint32

	// Start and End are byte offsets into the source file, used by the
	// parser to build source.Span values for AST nodes. Zero-valued for
	// a Token built by hand (tests), since spans are optional plumbing
	// rather than part of the kind/line/col contract the core consumes.
	Start uint32
	End   uint32

	// Text is the literal spelling of the token: the identifier name, the
	// string contents, or the numeric literal's source text. Unused for
	// fixed-spelling tokens (punctuation, operators, keywords).
	Text string

	// Number holds the decoded value for Kind == Number. Fyg has no
	// integer/float distinction at the token level; everything lexes as
	// a double per spec.
	Number float64
}

// IsKeyword reports whether t spells one of Fyg's reserved words.
func (t Token) IsKeyword() bool {
	_, ok := Keywords[t.Text]
	return ok && t.Kind != LowerIdent && t.Kind != UpperIdent
}
