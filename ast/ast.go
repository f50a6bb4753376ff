// Package ast defines the typed statement and operand tree the parser
// hands to the code generator, per the AST contract of spec §3/§4.2.
// The assembler package treats this shape as an external contract: the
// lexer/parser pipeline that builds it is a collaborator, not something
// codegen reaches back into.
package ast

import "github.com/g10toolchain/g10asm/keyword"

// Pos is the source provenance every operand and statement carries.
type Pos struct {
	File string
	Line int
}

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandImmediate
	OperandMemoryAbsolute
	OperandIndirectRegister
	OperandLabelReference
)

// Operand is the tagged variant over the five operand shapes named in
// spec §3. Only the fields relevant to Kind are meaningful.
type Operand struct {
	Kind     OperandKind
	Register keyword.RegisterID // OperandRegister, OperandIndirectRegister
	Imm      int64              // OperandImmediate
	Addr     uint32             // OperandMemoryAbsolute (resolved numeric form)
	Label    string             // OperandMemoryAbsolute (label form) / OperandLabelReference
	Pos      Pos
}

// StatementKind tags the variant held by a Statement.
type StatementKind int

const (
	StmtLabelDefinition StatementKind = iota
	StmtInstruction
	StmtDirectiveOrg
	StmtDirectiveData
	StmtDirectiveGlobal
	StmtDirectiveExtern
)

// DataMode distinguishes how a DirectiveData statement is interpreted,
// decided once (at Pass 1, when the active section's ROM/RAM status is
// known) rather than re-decided at emit time — per the Design Note in
// spec §9.
type DataMode int

const (
	DataModeUnresolved DataMode = iota
	DataModeLiteralValues          // ROM: every value in Values is a literal
	DataModeReservedCount          // RAM: Values[0] is a unit count; no bytes emitted
)

// Statement is the tagged variant over spec §3's six statement forms.
type Statement struct {
	Kind StatementKind
	Pos  Pos

	// StmtLabelDefinition
	LabelName string

	// StmtInstruction
	Mnemonic string // normalized/canonical, never an alias spelling
	Operands []Operand
	BitIndex int  // operand0 of BIT/SET/RES/TOG, 0..7
	HasBitIndex bool

	// StmtDirectiveOrg
	OrgAddress uint32

	// StmtDirectiveData
	DataWidth  int // 1, 2, or 4
	DataValues []int64
	DataMode   DataMode

	// StmtDirectiveGlobal / StmtDirectiveExtern
	Names []string
}

// Program is the ordered statement sequence plus the bookkeeping the
// emitter needs without re-scanning: label-name -> statement index, and
// the declared global/extern name sets.
type Program struct {
	Statements []Statement
	Labels     map[string]int
	Globals    map[string]bool
	Externs    map[string]bool
}

// NewProgram returns an empty, ready-to-populate Program.
func NewProgram() *Program {
	return &Program{
		Labels:  make(map[string]int),
		Globals: make(map[string]bool),
		Externs: make(map[string]bool),
	}
}
