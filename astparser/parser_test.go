package astparser

import (
	"testing"

	"github.com/g10toolchain/g10asm/asmerr"
	"github.com/g10toolchain/g10asm/ast"
	"github.com/g10toolchain/g10asm/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	toks, err := lexer.New("t.asm", src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return New("t.asm", toks).Parse()
}

func TestParseMinimalProgram(t *testing.T) {
	prog, err := parseSource(t, ".org 0x2000\nstart:\n    ld l0, 0x42\n    halt\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d: %+v", len(prog.Statements), prog.Statements)
	}
	if prog.Statements[0].Kind != ast.StmtDirectiveOrg || prog.Statements[0].OrgAddress != 0x2000 {
		t.Fatalf("expected .org 0x2000, got %+v", prog.Statements[0])
	}
	if prog.Statements[1].Kind != ast.StmtLabelDefinition || prog.Statements[1].LabelName != "start" {
		t.Fatalf("expected label 'start', got %+v", prog.Statements[1])
	}
	if prog.Statements[2].Mnemonic != "LD" {
		t.Fatalf("expected LD, got %+v", prog.Statements[2])
	}
	if prog.Statements[3].Mnemonic != "HALT" {
		t.Fatalf("expected HALT, got %+v", prog.Statements[3])
	}
	if idx, ok := prog.Labels["start"]; !ok || idx != 1 {
		t.Fatalf("expected label map start->1, got %v %v", idx, ok)
	}
}

func TestParseConditionalJump(t *testing.T) {
	prog, err := parseSource(t, "jp nc, start\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stmt := prog.Statements[0]
	if stmt.Mnemonic != "JMP" {
		t.Fatalf("JP must normalize to JMP, got %s", stmt.Mnemonic)
	}
	if len(stmt.Operands) != 2 {
		t.Fatalf("expected 2 operands (condition + target), got %d", len(stmt.Operands))
	}
	if stmt.Operands[0].Kind != ast.OperandImmediate {
		t.Fatalf("expected condition operand to be an immediate, got %+v", stmt.Operands[0])
	}
	if stmt.Operands[1].Kind != ast.OperandLabelReference || stmt.Operands[1].Label != "start" {
		t.Fatalf("expected label reference 'start', got %+v", stmt.Operands[1])
	}
}

func TestCPLExpandsToImplicitNOT(t *testing.T) {
	prog, err := parseSource(t, "cpl\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stmt := prog.Statements[0]
	if stmt.Mnemonic != "NOT" {
		t.Fatalf("CPL must normalize to NOT, got %s", stmt.Mnemonic)
	}
	if len(stmt.Operands) != 1 || stmt.Operands[0].Kind != ast.OperandRegister {
		t.Fatalf("expected a single synthesized register operand, got %+v", stmt.Operands)
	}
}

func TestDuplicateGlobalIsSemanticError(t *testing.T) {
	_, err := parseSource(t, ".global main\n.global main\n")
	if err == nil {
		t.Fatalf("expected a semantic error for duplicate .global")
	}
}

func TestGlobalAndExternSameNameRejected(t *testing.T) {
	_, err := parseSource(t, ".global helper\n.extern helper\n")
	if err == nil {
		t.Fatalf("expected a semantic error for name declared both global and extern")
	}
}

func TestBitOpParsesIndexAndOperand(t *testing.T) {
	prog, err := parseSource(t, "set 5, [d2]\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stmt := prog.Statements[0]
	if !stmt.HasBitIndex || stmt.BitIndex != 5 {
		t.Fatalf("expected bit index 5, got %+v", stmt)
	}
	if len(stmt.Operands) != 1 || stmt.Operands[0].Kind != ast.OperandIndirectRegister {
		t.Fatalf("expected one indirect-register operand, got %+v", stmt.Operands)
	}
}

func TestIntVectorOutOfRangeIsSemanticError(t *testing.T) {
	_, err := parseSource(t, "int 32\n")
	if err == nil {
		t.Fatalf("expected semantic error for out-of-range INT vector")
	}
}

func TestDuplicateLabelIsSemanticError(t *testing.T) {
	_, err := parseSource(t, "start:\nstart:\n")
	if err == nil {
		t.Fatalf("expected semantic error for duplicate label")
	}
}

func TestPanicModeRecoversAfterSyntaxError(t *testing.T) {
	// The first line is malformed (bad directive); the second is valid.
	// Panic-mode recovery should still surface the second statement's
	// own (absent) error rather than cascading off the first.
	toks, err := lexer.New("t.asm", ".bogus\nhalt\n").Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, perr := New("t.asm", toks).Parse()
	if perr == nil {
		t.Fatalf("expected a syntax error for unknown directive")
	}
	list, ok := perr.(*asmerr.List)
	if !ok || len(list.Errors) != 1 {
		t.Fatalf("expected exactly one error (no cascade onto the valid second line), got %v", perr)
	}
}

func TestCharLiteralUsableAsNumericImmediate(t *testing.T) {
	prog, err := parseSource(t, "ld l0, 'A'\n.byte 'A', 'B', 0\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ldStmt := prog.Statements[0]
	if len(ldStmt.Operands) != 2 || ldStmt.Operands[1].Kind != ast.OperandImmediate || ldStmt.Operands[1].Imm != 'A' {
		t.Fatalf("expected char literal 'A' as immediate 65, got %+v", ldStmt.Operands)
	}
	dataStmt := prog.Statements[1]
	want := []int64{'A', 'B', 0}
	if len(dataStmt.DataValues) != len(want) {
		t.Fatalf("expected %d data values, got %+v", len(want), dataStmt.DataValues)
	}
	for i, v := range want {
		if dataStmt.DataValues[i] != v {
			t.Fatalf("data value %d: expected %d, got %d", i, v, dataStmt.DataValues[i])
		}
	}
}
