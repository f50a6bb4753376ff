package keyword

import "testing"

func TestLookupCaseInsensitive(t *testing.T) {
	a, okA := Lookup("ld")
	b, okB := Lookup("LD")
	c, okC := Lookup("Ld")
	if !okA || !okB || !okC {
		t.Fatalf("expected ld/LD/Ld all to resolve")
	}
	if a != b || b != c {
		t.Fatalf("case variants resolved to different entries: %+v %+v %+v", a, b, c)
	}
}

func TestRegisterPacking(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   RegKind
		index  int
		width  int
	}{
		{"D0", Kind32, 0, 4},
		{"D15", Kind32, 15, 4},
		{"W7", Kind16, 7, 2},
		{"H3", KindHigh8, 3, 1},
		{"L3", KindLow8, 3, 1},
	}
	for _, tt := range tests {
		e, ok := Lookup(tt.lexeme)
		if !ok {
			t.Fatalf("%s: not found", tt.lexeme)
		}
		if e.Category != Register {
			t.Fatalf("%s: not a register entry", tt.lexeme)
		}
		if e.Register.Kind() != tt.kind || e.Register.Index() != tt.index {
			t.Fatalf("%s: got kind=%v index=%d", tt.lexeme, e.Register.Kind(), e.Register.Index())
		}
		if e.Register.Width() != tt.width {
			t.Fatalf("%s: want width %d got %d", tt.lexeme, tt.width, e.Register.Width())
		}
	}
}

func TestHighLowAliasesDistinguishable(t *testing.T) {
	h, _ := Lookup("H2")
	l, _ := Lookup("L2")
	if h.Register == l.Register {
		t.Fatalf("H2 and L2 must pack to distinct register ids, got %v for both", h.Register)
	}
	if !h.Register.IsHigh() || l.Register.IsHigh() {
		t.Fatalf("IsHigh should distinguish H/L aliases")
	}
}

func TestConditionCodeNumericEncoding(t *testing.T) {
	want := map[string]Condition{"nc": NC, "zs": ZS, "zc": ZC, "cs": CS, "cc": CC, "vs": VS, "vc": VC}
	for name, code := range want {
		e, ok := Lookup(name)
		if !ok || e.Category != ConditionKeyword {
			t.Fatalf("%s: not a condition keyword", name)
		}
		if e.Condition != code || byte(code) != byte(want[name]) {
			t.Fatalf("%s: want code %d got %d", name, want[name], e.Condition)
		}
	}
	if NC != 0 || ZS != 1 || ZC != 2 || CS != 3 || CC != 4 || VS != 5 || VC != 6 {
		t.Fatalf("condition numeric values deviated from fixed table")
	}
}

func TestMnemonicAliasesNormalize(t *testing.T) {
	jp, _ := Lookup("jp")
	jmp, _ := Lookup("jmp")
	if jp.Mnemonic.Canonical != jmp.Mnemonic.Canonical {
		t.Fatalf("JP must normalize to JMP's identity")
	}

	jr, _ := Lookup("jr")
	jpb, _ := Lookup("jpb")
	if jr.Mnemonic.Canonical != jpb.Mnemonic.Canonical {
		t.Fatalf("JR must normalize to JPB's identity")
	}

	cp, _ := Lookup("cp")
	cmp, _ := Lookup("cmp")
	if cp.Mnemonic.Canonical != cmp.Mnemonic.Canonical {
		t.Fatalf("CP must normalize to CMP's identity")
	}

	tcf, _ := Lookup("tcf")
	ccf, _ := Lookup("ccf")
	if tcf.Mnemonic.Canonical != ccf.Mnemonic.Canonical {
		t.Fatalf("TCF must normalize to CCF's identity")
	}

	cpl, _ := Lookup("cpl")
	if cpl.Mnemonic.Canonical != "NOT" || cpl.Mnemonic.ImplicitOperand != "L0" {
		t.Fatalf("CPL must normalize to NOT with implicit L0, got %+v", cpl.Mnemonic)
	}
}

func TestUnknownLexeme(t *testing.T) {
	if _, ok := Lookup("NOTAKEYWORD"); ok {
		t.Fatalf("expected NOTAKEYWORD to not resolve")
	}
}
