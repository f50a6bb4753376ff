// Package astparser turns a token stream into an ast.Program. It is
// grounded on the teacher's parser/parser.go recursive-descent shape
// (Instruction/Directive/Program structs, a firstPass-style statement
// loop) generalized from ARM mnemonics/directives to G10's. Only the
// AST contract of spec §4.2 is load-bearing for the assembler; this
// package exists so the repository has a producer for its own AST, kept
// deliberately thin — it owns syntax only, never instruction-size or
// opcode decisions (those live in codegen, consulting the same keyword
// table this package consults for lexeme identity).
package astparser

import (
	"fmt"
	"strings"

	"github.com/g10toolchain/g10asm/asmerr"
	"github.com/g10toolchain/g10asm/ast"
	"github.com/g10toolchain/g10asm/keyword"
	"github.com/g10toolchain/g10asm/lexer"
)

// Parser builds an ast.Program from one file's token stream. Multiple
// files are parsed into independent Programs and merged by the caller
// (see Merge in this package) so label/extern scope can span them in source
// order, per SPEC_FULL.md's multi-file supplement.
type Parser struct {
	file   string
	tokens []lexer.Token
	pos    int
	errors asmerr.List
	prog   *ast.Program
}

// New constructs a Parser over file's already-lexed tokens.
func New(file string, tokens []lexer.Token) *Parser {
	return &Parser{file: file, tokens: tokens, prog: ast.NewProgram()}
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) atEOF() bool       { return p.cur().Type == lexer.TokEOF }
func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) pos2(tok lexer.Token) ast.Pos { return ast.Pos{File: p.file, Line: tok.Line} }

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) {
	p.errors.Add(asmerr.New(asmerr.Syntactic,
		asmerr.Position{File: p.file, Line: tok.Line, Column: tok.Column},
		tok.Lexeme, fmt.Sprintf(format, args...)))
}

func (p *Parser) semanticErrorf(tok lexer.Token, format string, args ...interface{}) {
	p.errors.Add(asmerr.New(asmerr.Semantic,
		asmerr.Position{File: p.file, Line: tok.Line, Column: tok.Column},
		tok.Lexeme, fmt.Sprintf(format, args...)))
}

// skipLine is the panic-mode recovery of spec §7: skip tokens until the
// next newline (or EOF), so subsequent statements can still be parsed
// and their own errors reported.
func (p *Parser) skipLine() {
	for !p.atEOF() && p.cur().Type != lexer.TokNewline {
		p.advance()
	}
	if p.cur().Type == lexer.TokNewline {
		p.advance()
	}
}

// isNumericToken reports whether tok carries a usable numeric value —
// either a decimal/hex/binary literal or a char literal (lexer.go resolves
// 'A' to its byte value in IntVal), so `.byte 'A', 0` and `ld l0, 'A'` work
// the same as their numeric-literal equivalents.
func isNumericToken(tok lexer.Token) bool {
	return tok.Type == lexer.TokNumber || tok.Type == lexer.TokChar
}

func (p *Parser) skipNewlines() {
	for !p.atEOF() && p.cur().Type == lexer.TokNewline {
		p.advance()
	}
}

// Parse consumes the whole token stream, returning the built Program. If
// any syntax or semantic error was recorded, it returns nil and the
// aggregated error (the caller must not proceed to codegen).
func (p *Parser) Parse() (*ast.Program, error) {
	for {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		p.parseStatement()
	}
	if p.errors.HasErrors() {
		return nil, &p.errors
	}
	return p.prog, nil
}

func (p *Parser) parseStatement() {
	tok := p.cur()
	if tok.Type != lexer.TokIdent {
		p.errorf(tok, "expected a label, directive, or instruction")
		p.skipLine()
		return
	}

	if strings.HasPrefix(tok.Lexeme, ".") {
		p.parseDirective()
		return
	}

	// Label definition: IDENT ':'
	if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Type == lexer.TokColon {
		p.advance() // ident
		p.advance() // colon
		name := tok.Lexeme
		if _, dup := p.prog.Labels[name]; dup {
			p.semanticErrorf(tok, "duplicate label definition for `%s`", name)
			return
		}
		idx := len(p.prog.Statements)
		p.prog.Labels[name] = idx
		p.prog.Statements = append(p.prog.Statements, ast.Statement{
			Kind: ast.StmtLabelDefinition, Pos: p.pos2(tok), LabelName: name,
		})
		p.expectLineEnd()
		return
	}

	p.parseInstruction()
}

func (p *Parser) expectLineEnd() {
	if p.atEOF() {
		return
	}
	if p.cur().Type != lexer.TokNewline {
		p.errorf(p.cur(), "unexpected token after statement")
		p.skipLine()
		return
	}
	p.advance()
}

func (p *Parser) parseDirective() {
	tok := p.advance()
	entry, ok := keyword.Lookup(tok.Lexeme)
	if !ok || entry.Category != keyword.DirectiveKeyword {
		p.errorf(tok, "unknown directive")
		p.skipLine()
		return
	}

	switch entry.Directive {
	case keyword.DirOrg:
		p.parseOrg(tok)
	case keyword.DirByte, keyword.DirWord, keyword.DirDword:
		p.parseData(tok, entry.Directive)
	case keyword.DirGlobal:
		p.parseNameList(tok, true)
	case keyword.DirExtern:
		p.parseNameList(tok, false)
	}
}

func (p *Parser) parseOrg(tok lexer.Token) {
	if p.cur().Type != lexer.TokNumber {
		p.errorf(p.cur(), ".org requires a numeric address")
		p.skipLine()
		return
	}
	n := p.advance()
	p.prog.Statements = append(p.prog.Statements, ast.Statement{
		Kind: ast.StmtDirectiveOrg, Pos: p.pos2(tok), OrgAddress: uint32(n.IntVal),
	})
	p.expectLineEnd()
}

func (p *Parser) parseData(tok lexer.Token, dir keyword.Directive) {
	width, _ := dir.DataWidth()
	var values []int64
	for {
		if !isNumericToken(p.cur()) {
			p.errorf(p.cur(), "expected a numeric value in data directive")
			p.skipLine()
			return
		}
		values = append(values, p.advance().IntVal)
		if p.cur().Type == lexer.TokComma {
			p.advance()
			continue
		}
		break
	}
	p.prog.Statements = append(p.prog.Statements, ast.Statement{
		Kind: ast.StmtDirectiveData, Pos: p.pos2(tok),
		DataWidth: width, DataValues: values, DataMode: ast.DataModeUnresolved,
	})
	p.expectLineEnd()
}

func (p *Parser) parseNameList(tok lexer.Token, isGlobal bool) {
	var names []string
	for {
		if p.cur().Type != lexer.TokIdent {
			p.errorf(p.cur(), "expected an identifier")
			p.skipLine()
			return
		}
		name := p.advance().Lexeme
		names = append(names, name)

		if isGlobal {
			if p.prog.Globals[name] {
				p.semanticErrorf(tok, "duplicate global declaration for `%s`", name)
				return
			}
			if p.prog.Externs[name] {
				p.semanticErrorf(tok, "`%s` cannot be both .global and .extern", name)
				return
			}
			p.prog.Globals[name] = true
		} else {
			if p.prog.Externs[name] {
				p.semanticErrorf(tok, "duplicate extern declaration for `%s`", name)
				return
			}
			if p.prog.Globals[name] {
				p.semanticErrorf(tok, "`%s` cannot be both .global and .extern", name)
				return
			}
			p.prog.Externs[name] = true
		}

		if p.cur().Type == lexer.TokComma {
			p.advance()
			continue
		}
		break
	}

	kind := ast.StmtDirectiveGlobal
	if !isGlobal {
		kind = ast.StmtDirectiveExtern
	}
	p.prog.Statements = append(p.prog.Statements, ast.Statement{Kind: kind, Pos: p.pos2(tok), Names: names})
	p.expectLineEnd()
}

func (p *Parser) parseInstruction() {
	tok := p.advance()
	entry, ok := keyword.Lookup(tok.Lexeme)
	if !ok || entry.Category != keyword.Mnemonic {
		p.errorf(tok, "unknown mnemonic")
		p.skipLine()
		return
	}

	stmt := ast.Statement{Kind: ast.StmtInstruction, Pos: p.pos2(tok), Mnemonic: entry.Mnemonic.Canonical}

	isBitOp := stmt.Mnemonic == "BIT" || stmt.Mnemonic == "SET" || stmt.Mnemonic == "RES" || stmt.Mnemonic == "TOG"
	if isBitOp {
		if p.cur().Type != lexer.TokNumber {
			p.errorf(p.cur(), "%s requires a bit index operand", stmt.Mnemonic)
			p.skipLine()
			return
		}
		idxTok := p.advance()
		if idxTok.IntVal < 0 || idxTok.IntVal > 7 {
			p.semanticErrorf(idxTok, "%s bit index must be 0..7", stmt.Mnemonic)
			return
		}
		stmt.HasBitIndex = true
		stmt.BitIndex = int(idxTok.IntVal)
		if p.cur().Type != lexer.TokComma {
			p.errorf(p.cur(), "expected ',' after bit index")
			p.skipLine()
			return
		}
		p.advance()
	}

	if stmt.Mnemonic == "INT" {
		if p.cur().Type != lexer.TokNumber {
			p.errorf(p.cur(), "INT requires a numeric vector operand")
			p.skipLine()
			return
		}
		vecTok := p.advance()
		if vecTok.IntVal < 0 || vecTok.IntVal > 31 {
			p.semanticErrorf(vecTok, "INT vector out of range 0..31")
			return
		}
		stmt.Operands = append(stmt.Operands, ast.Operand{Kind: ast.OperandImmediate, Imm: vecTok.IntVal, Pos: p.pos2(vecTok)})
		p.prog.Statements = append(p.prog.Statements, stmt)
		p.expectLineEnd()
		return
	}

	if !p.atOperandBoundary() {
		op, ok := p.parseOperand()
		if !ok {
			return
		}
		stmt.Operands = append(stmt.Operands, op)
		for p.cur().Type == lexer.TokComma {
			p.advance()
			op2, ok := p.parseOperand()
			if !ok {
				return
			}
			stmt.Operands = append(stmt.Operands, op2)
		}
	}

	// CPL has no explicit operand; synthesize its implicit accumulator.
	if entry.Mnemonic.ImplicitOperand != "" && len(stmt.Operands) == 0 {
		reg, _ := keyword.Lookup(entry.Mnemonic.ImplicitOperand)
		stmt.Operands = append(stmt.Operands, ast.Operand{
			Kind: ast.OperandRegister, Register: reg.Register, Pos: p.pos2(tok),
		})
	}

	p.prog.Statements = append(p.prog.Statements, stmt)
	p.expectLineEnd()
}

func (p *Parser) atOperandBoundary() bool {
	return p.atEOF() || p.cur().Type == lexer.TokNewline
}

func (p *Parser) parseOperand() (ast.Operand, bool) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokLBracket:
		p.advance()
		inner := p.cur()
		switch inner.Type {
		case lexer.TokIdent:
			if entry, ok := keyword.Lookup(inner.Lexeme); ok && entry.Category == keyword.Register {
				p.advance()
				if p.cur().Type != lexer.TokRBracket {
					p.errorf(p.cur(), "expected ']'")
					p.skipLine()
					return ast.Operand{}, false
				}
				p.advance()
				return ast.Operand{Kind: ast.OperandIndirectRegister, Register: entry.Register, Pos: p.pos2(tok)}, true
			}
			// [label]
			p.advance()
			if p.cur().Type != lexer.TokRBracket {
				p.errorf(p.cur(), "expected ']'")
				p.skipLine()
				return ast.Operand{}, false
			}
			p.advance()
			return ast.Operand{Kind: ast.OperandMemoryAbsolute, Label: inner.Lexeme, Pos: p.pos2(tok)}, true
		case lexer.TokNumber:
			p.advance()
			if p.cur().Type != lexer.TokRBracket {
				p.errorf(p.cur(), "expected ']'")
				p.skipLine()
				return ast.Operand{}, false
			}
			p.advance()
			return ast.Operand{Kind: ast.OperandMemoryAbsolute, Addr: uint32(inner.IntVal), Pos: p.pos2(tok)}, true
		default:
			p.errorf(inner, "expected a register or address inside '[' ']'")
			p.skipLine()
			return ast.Operand{}, false
		}
	case lexer.TokNumber, lexer.TokChar:
		p.advance()
		return ast.Operand{Kind: ast.OperandImmediate, Imm: tok.IntVal, Pos: p.pos2(tok)}, true
	case lexer.TokIdent:
		if entry, ok := keyword.Lookup(tok.Lexeme); ok {
			switch entry.Category {
			case keyword.Register:
				p.advance()
				return ast.Operand{Kind: ast.OperandRegister, Register: entry.Register, Pos: p.pos2(tok)}, true
			case keyword.ConditionKeyword:
				p.advance()
				return ast.Operand{Kind: ast.OperandImmediate, Imm: int64(entry.Condition), Pos: p.pos2(tok)}, true
			}
		}
		p.advance()
		return ast.Operand{Kind: ast.OperandLabelReference, Label: tok.Lexeme, Pos: p.pos2(tok)}, true
	default:
		p.errorf(tok, "expected an operand")
		p.skipLine()
		return ast.Operand{}, false
	}
}
