package codegen

import (
	"fmt"

	"github.com/g10toolchain/g10asm/asmerr"
	"github.com/g10toolchain/g10asm/ast"
	"github.com/g10toolchain/g10asm/object"
	"github.com/g10toolchain/g10asm/symtab"
)

// DefaultOrigin is the logical program counter an assembly unit starts
// at before any .ORG directive, per spec §4.3.
const DefaultOrigin uint32 = 0x00002000

// Resolved is everything Pass 2 needs that Pass 1 computed: every
// statement's starting address and owning section, the section list
// itself (sized but not yet holding real bytes), and the symbol table
// seeded with every label and extern placeholder.
type Resolved struct {
	StatementAddr    []uint32
	StatementSection []int
	Sections         []*object.Section
	Symbols          *symtab.Table
}

// ResolveAddresses is Pass 1 (spec §4.3): it walks the program once,
// tracking a logical program counter that starts at DefaultOrigin and
// moves forward by each statement's encoded size, opening or reusing a
// section on every .ORG, and recording each label's address as it is
// reached. It also decides, for every DirectiveData statement, whether
// the active section's ROM/RAM status makes it a literal-bytes region
// or a reserved-but-uninitialized region (ast.DataMode) — decided once
// here so Pass 2 never has to re-derive it.
//
// Duplicate label and duplicate .global/.extern conflicts are already
// rejected by the parser (astparser). Besides computing addresses, this
// pass rejects an instruction in a RAM section, overlapping sections, an
// .extern name that is also defined as a label, and a .global name that
// is never defined.
func ResolveAddresses(prog *ast.Program) (*Resolved, error) {
	symbols := symtab.New()
	var sections []*object.Section
	sectionByBase := make(map[uint32]int)

	openOrReuse := func(base uint32) int {
		if idx, ok := sectionByBase[base]; ok {
			return idx
		}
		s := &object.Section{Base: base, Flags: object.FlagsForBase(base), Alignment: 1}
		sections = append(sections, s)
		idx := len(sections) - 1
		sectionByBase[base] = idx
		return idx
	}

	cursor := DefaultOrigin
	curIdx := openOrReuse(cursor)

	addrs := make([]uint32, len(prog.Statements))
	secIdx := make([]int, len(prog.Statements))

	for i := range prog.Statements {
		stmt := &prog.Statements[i]
		addrs[i] = cursor
		secIdx[i] = curIdx

		switch stmt.Kind {
		case ast.StmtLabelDefinition:
			isGlobal := prog.Globals[stmt.LabelName]
			symbols.AddLabel(stmt.LabelName, cursor, uint16(curIdx), isGlobal)

		case ast.StmtDirectiveOrg:
			curIdx = openOrReuse(stmt.OrgAddress)
			cursor = stmt.OrgAddress

		case ast.StmtDirectiveGlobal:
			// No bytes, no size; prog.Globals already carries the names.

		case ast.StmtDirectiveExtern:
			for _, name := range stmt.Names {
				symbols.AddExternPlaceholder(name)
			}

		case ast.StmtDirectiveData:
			n, err := dataDirectiveSize(stmt, sections[curIdx].Base)
			if err != nil {
				return nil, err
			}
			if object.IsRAM(sections[curIdx].Base) {
				// BSS reservation: no byte is appended, per spec §8's
				// RAM-isolation invariant and the glossary's "bytes
				// omitted from the file, size preserved" — only the
				// logical size grows.
				sections[curIdx].ReservedSize += uint32(n)
			} else {
				sections[curIdx].Bytes = append(sections[curIdx].Bytes, make([]byte, n)...)
			}
			cursor += uint32(n)

		case ast.StmtInstruction:
			if object.IsRAM(sections[curIdx].Base) {
				return nil, asmerr.New(asmerr.Semantic, asmerr.Position{File: stmt.Pos.File, Line: stmt.Pos.Line}, stmt.Mnemonic, "instruction cannot be emitted into a RAM section")
			}
			n, err := Size(stmt)
			if err != nil {
				return nil, asmerr.New(asmerr.Encoder, asmerr.Position{File: stmt.Pos.File, Line: stmt.Pos.Line}, stmt.Mnemonic, err.Error())
			}
			sections[curIdx].Bytes = append(sections[curIdx].Bytes, make([]byte, n)...)
			cursor += uint32(n)
		}
	}

	for _, sec := range sections {
		for _, other := range sections {
			if sec == other {
				continue
			}
			if sec.Overlaps(other) {
				return nil, fmt.Errorf("semantic error: sections at 0x%08X and 0x%08X overlap", sec.Base, other.Base)
			}
		}
	}

	// Spec §3's symbol invariants: an .extern name must not be defined
	// locally, and a .global name must also be defined as a label
	// somewhere in the program. Both are checked only after the whole
	// program has been walked, since a label can be declared .global or
	// .extern before its LabelDefinition statement is reached.
	for name := range prog.Externs {
		if _, defined := prog.Labels[name]; defined {
			return nil, asmerr.New(asmerr.Semantic, directivePos(prog, name, ast.StmtDirectiveExtern), name,
				fmt.Sprintf("`%s` is declared .extern but is also defined locally as a label", name))
		}
	}
	for name := range prog.Globals {
		if _, defined := prog.Labels[name]; !defined {
			return nil, asmerr.New(asmerr.Semantic, directivePos(prog, name, ast.StmtDirectiveGlobal), name,
				fmt.Sprintf("`%s` is declared .global but is never defined as a label", name))
		}
	}

	return &Resolved{StatementAddr: addrs, StatementSection: secIdx, Sections: sections, Symbols: symbols}, nil
}

// directivePos locates the .global/.extern statement that named name, for
// diagnostic attribution. Falls back to a zero Pos if somehow absent
// (unreachable in practice: the name came from prog.Globals/prog.Externs,
// which are only ever populated from such a statement).
func directivePos(prog *ast.Program, name string, kind ast.StatementKind) asmerr.Position {
	for i := range prog.Statements {
		stmt := &prog.Statements[i]
		if stmt.Kind != kind {
			continue
		}
		for _, n := range stmt.Names {
			if n == name {
				return asmerr.Position{File: stmt.Pos.File, Line: stmt.Pos.Line}
			}
		}
	}
	return asmerr.Position{}
}

// dataDirectiveSize implements spec §4.3's ROM/RAM split for .byte/.word/
// .dword: a RAM section (bit 31 of its base set) treats the single value
// as a reservation count and emits no literal bytes at assembly time; a
// ROM section treats every listed value as a literal to be written. The
// chosen mode is recorded back onto the statement for Pass 2 to consult.
func dataDirectiveSize(stmt *ast.Statement, sectionBase uint32) (int, error) {
	if object.IsRAM(sectionBase) {
		if len(stmt.DataValues) != 1 {
			return 0, fmt.Errorf("semantic error: data directive in a RAM section takes exactly one reserve count")
		}
		stmt.DataMode = ast.DataModeReservedCount
		return int(stmt.DataValues[0]) * stmt.DataWidth, nil
	}
	stmt.DataMode = ast.DataModeLiteralValues
	return len(stmt.DataValues) * stmt.DataWidth, nil
}
