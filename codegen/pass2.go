package codegen

import (
	"encoding/binary"

	"github.com/g10toolchain/g10asm/asmerr"
	"github.com/g10toolchain/g10asm/ast"
	"github.com/g10toolchain/g10asm/object"
	"github.com/g10toolchain/g10asm/symtab"
)

// Emit is Pass 2 (spec §4.5): given the addresses Pass 1 resolved, it
// walks the program again, building each statement's opcode, immediate,
// and (for address-shaped operands) relocation, writing bytes directly
// into the Resolved.Sections buffers Pass 1 already sized. The returned
// object.File is ready for object.Write.
func Emit(sourceFilename string, prog *ast.Program, res *Resolved) (*object.File, error) {
	for i := range prog.Statements {
		stmt := &prog.Statements[i]
		addr := res.StatementAddr[i]
		sec := res.Sections[res.StatementSection[i]]
		off := addr - sec.Base

		switch stmt.Kind {
		case ast.StmtDirectiveData:
			if err := emitData(stmt, sec, off); err != nil {
				return nil, wrapEncoderErr(stmt, err)
			}
		case ast.StmtInstruction:
			if err := emitInstruction(stmt, addr, sec, off, res.StatementSection[i], res.Symbols); err != nil {
				return nil, wrapEncoderErr(stmt, err)
			}
		}
	}

	_, unresolved, ok := res.Symbols.ResolveRelocations()
	if !ok {
		return nil, asmerr.New(asmerr.Writer, asmerr.Position{}, unresolved, "unresolved relocation symbol")
	}

	return &object.File{
		SourceFilename: sourceFilename,
		Sections:       res.Sections,
		Symbols:        res.Symbols.Symbols,
		Relocations:    res.Symbols.Relocations,
	}, nil
}

func wrapEncoderErr(stmt *ast.Statement, err error) error {
	return asmerr.New(asmerr.Encoder, asmerr.Position{File: stmt.Pos.File, Line: stmt.Pos.Line}, stmt.Mnemonic, err.Error())
}

func emitData(stmt *ast.Statement, sec *object.Section, off uint32) error {
	if stmt.DataMode == ast.DataModeReservedCount {
		// RAM reservation: Pass 1 only grew the section's ReservedSize,
		// never its Bytes, so there is nothing to write — the region
		// stays absent from the file entirely (FlagZero).
		return nil
	}
	for i, v := range stmt.DataValues {
		pos := off + uint32(i*stmt.DataWidth)
		switch stmt.DataWidth {
		case 1:
			sec.Bytes[pos] = byte(v)
		case 2:
			binary.LittleEndian.PutUint16(sec.Bytes[pos:], uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(sec.Bytes[pos:], uint32(v))
		}
	}
	return nil
}

func emitInstruction(stmt *ast.Statement, addr uint32, sec *object.Section, off uint32, sectionIdx int, symbols *symtab.Table) error {
	d, err := describe(stmt.Mnemonic, stmt.Operands, stmt.HasBitIndex, stmt.BitIndex)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint16(sec.Bytes[off:], d.Opcode)
	cursor := off + 2

	if d.ImmOperand >= 0 {
		v := stmt.Operands[d.ImmOperand].Imm
		switch d.ImmWidth {
		case 1:
			sec.Bytes[cursor] = byte(v)
		case 2:
			binary.LittleEndian.PutUint16(sec.Bytes[cursor:], uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(sec.Bytes[cursor:], uint32(v))
		}
		cursor += uint32(d.ImmWidth)
	}

	if d.literalAddr16 {
		op := stmt.Operands[d.literalAddrOperand]
		binary.LittleEndian.PutUint16(sec.Bytes[cursor:], uint16(op.Addr))
		cursor += 2
	}
	if d.literalAddr8 {
		op := stmt.Operands[d.literalAddrOperand]
		sec.Bytes[cursor] = byte(op.Addr)
		cursor += 1
	}

	if d.AddrOperand >= 0 {
		op := stmt.Operands[d.AddrOperand]
		switch d.AddrKind {
		case addrAbs32:
			// Always a placeholder + relocation, even for a locally
			// defined label (spec §4.5 / scenario S3): the final link
			// address is never inlined by the assembler.
			name := op.Label
			if name == "" {
				// A literal [abs32] or bare imm32 address with no symbol:
				// write the numeric address directly, no relocation
				// needed. Bracketed literals carry their value in Addr;
				// bare numeric jump/call/lsp targets (spec §4.4's
				// unbracketed "imm32" forms) carry it in Imm instead.
				addr := op.Addr
				if op.Kind == ast.OperandImmediate {
					addr = uint32(op.Imm)
				}
				binary.LittleEndian.PutUint32(sec.Bytes[cursor:], addr)
			} else {
				if _, found := symbols.Lookup(name); !found {
					symbols.AddExternPlaceholder(name)
				}
				// Offset is section-relative ("bytes already emitted in
				// section", spec §4.5), not an absolute file address.
				symbols.AddRelocation(symtab.Relocation{
					Offset: cursor, SectionIndex: uint16(sectionIdx), SymbolName: name, Type: symtab.RelAbs32,
				})
			}
			cursor += 4

		case addrPCRel16:
			name := op.Label
			if name == "" {
				return asmerr.New(asmerr.Semantic, asmerr.Position{}, "", "JPB target must be a label")
			}
			if idx, found := symbols.Lookup(name); found {
				target := symbols.Symbols[idx]
				offset := int32(target.Value) - int32(addr+4)
				binary.LittleEndian.PutUint16(sec.Bytes[cursor:], uint16(int16(offset)))
			} else {
				symbols.AddExternPlaceholder(name)
				symbols.AddRelocation(symtab.Relocation{
					Offset: cursor, SectionIndex: uint16(sectionIdx), SymbolName: name, Type: symtab.RelRel16,
				})
			}
			cursor += 2
		}
	}

	return nil
}
