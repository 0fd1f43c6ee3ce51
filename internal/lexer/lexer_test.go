package lexer

import (
	"testing"

	"fygc/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want []token.Kind) {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q): got %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize(%q): token %d = %v, want %v (full: %v)", src, i, got[i], want[i], got)
		}
	}
}

func TestBasicTokens(t *testing.T) {
	assertKinds(t, "const", []token.Kind{token.KwConst, token.Newline, token.EOF})
	assertKinds(t, "foo", []token.Kind{token.LowerIdent, token.Newline, token.EOF})
	assertKinds(t, "Foo", []token.Kind{token.UpperIdent, token.Newline, token.EOF})
	assertKinds(t, "true", []token.Kind{token.True, token.Newline, token.EOF})
	assertKinds(t, "false", []token.Kind{token.False, token.Newline, token.EOF})
}

func TestCommentSkipping(t *testing.T) {
	assertKinds(t, "const /* a block\ncomment */ x", []token.Kind{
		token.KwConst, token.LowerIdent, token.Newline, token.EOF,
	})
}

func TestNumberLexing(t *testing.T) {
	toks, err := Tokenize("42 3.5")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != token.Number || toks[0].Number != 42 {
		t.Fatalf("want 42, got %+v", toks[0])
	}
	if toks[1].Kind != token.Number || toks[1].Number != 3.5 {
		t.Fatalf("want 3.5, got %+v", toks[1])
	}
}

func TestStringLexingWithEscapedBacktick(t *testing.T) {
	toks, err := Tokenize("`a``b`")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != token.String || toks[0].Text != "a`b" {
		t.Fatalf("got %+v, want text %q", toks[0], "a`b")
	}
}

func TestOperatorsAndPunctuation(t *testing.T) {
	assertKinds(t, "( ) { } [ ] , . : + - * / == != <= >= < > => -> |>", []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.LBracket, token.RBracket, token.Comma, token.Dot, token.Colon,
		token.Plus, token.Minus, token.Star, token.Slash,
		token.EqEq, token.NotEq, token.LtEq, token.GtEq, token.Lt, token.Gt,
		token.FatArrow, token.ThinArrow, token.Pipe,
		token.Newline, token.EOF,
	})
}

func TestTypeDecKeywords(t *testing.T) {
	assertKinds(t, "type enum extern exporting import expose from as", []token.Kind{
		token.KwType, token.KwEnum, token.KwExtern, token.KwExporting,
		token.KwImport, token.KwExpose, token.KwFrom, token.KwAs,
		token.Newline, token.EOF,
	})
}

func TestUnterminatedStringErrors(t *testing.T) {
	if _, err := Tokenize("`unterminated"); err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestUnterminatedBlockCommentErrors(t *testing.T) {
	if _, err := Tokenize("/* unterminated"); err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
}
