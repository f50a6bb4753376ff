package lexer

import "testing"

func TestTokenizeBasicLine(t *testing.T) {
	toks, err := New("t.asm", "ld l0, 0x42\n").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{TokIdent, TokIdent, TokComma, TokNumber, TokNewline, TokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %v want %v", i, toks[i].Type, w)
		}
	}
	if toks[3].IntVal != 0x42 {
		t.Fatalf("expected immediate 0x42, got %d", toks[3].IntVal)
	}
}

func TestDirectiveLexesAsSingleIdent(t *testing.T) {
	toks, err := New("t.asm", ".org 0x2000\n").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != TokIdent || toks[0].Lexeme != ".org" {
		t.Fatalf("expected leading directive token '.org', got %+v", toks[0])
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks, err := New("t.asm", "nop ; a comment\nhalt\n").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var idents []string
	for _, tok := range toks {
		if tok.Type == TokIdent {
			idents = append(idents, tok.Lexeme)
		}
	}
	if len(idents) != 2 || idents[0] != "nop" || idents[1] != "halt" {
		t.Fatalf("expected [nop halt], got %v", idents)
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	_, err := New("t.asm", "\"unterminated\n").Tokenize()
	if err == nil {
		t.Fatalf("expected lexical error for unterminated string")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

func TestUnknownCharacterIsLexError(t *testing.T) {
	_, err := New("t.asm", "@@@\n").Tokenize()
	if err == nil {
		t.Fatalf("expected lexical error for unknown character")
	}
}

func TestBracketsAndColon(t *testing.T) {
	toks, err := New("t.asm", "start:\n    ld l0, [d2]\n").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	found := map[TokenType]bool{}
	for _, typ := range types {
		found[typ] = true
	}
	for _, want := range []TokenType{TokColon, TokLBracket, TokRBracket} {
		if !found[want] {
			t.Fatalf("expected token type %v present, got %v", want, types)
		}
	}
}
