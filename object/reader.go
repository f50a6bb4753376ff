package object

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/g10toolchain/g10asm/asmerr"
	"github.com/g10toolchain/g10asm/symtab"
)

// Read parses a .g10obj byte stream into a File, performing the
// validation a reader must do per spec §6.1: magic, version, reserved
// word, section count, code-size agreement, section offset bounds and
// non-overlap, string-table name-offset bounds, and symbol/relocation
// section-index validity.
func Read(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, readErr("truncated header")
	}
	r := bytes.NewReader(data)

	var header struct {
		Magic           uint32
		Version         uint16
		Flags           uint16
		SectionCount    uint16
		SymbolCount     uint16
		RelocationCount uint32
		StringTableSize uint32
		CodeSize        uint32
		SourceNameOff   uint32
		Reserved        uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, readErr("read header: " + err.Error())
	}
	if header.Magic != Magic {
		return nil, readErr(fmt.Sprintf("bad magic 0x%08X", header.Magic))
	}
	if header.Version != Version {
		return nil, readErr(fmt.Sprintf("unsupported version 0x%04X", header.Version))
	}
	if header.Reserved != 0 {
		// Warn-only per §6.1; not fatal.
		_ = header.Reserved
	}
	if header.SectionCount < 1 {
		return nil, readErr("section count must be >= 1")
	}

	type sectionRaw struct {
		Base      uint32
		Size      uint32
		Offset    uint32
		Flags     uint16
		Alignment uint16
	}
	sections := make([]sectionRaw, header.SectionCount)
	for i := range sections {
		if err := binary.Read(r, binary.LittleEndian, &sections[i]); err != nil {
			return nil, readErr("read section table: " + err.Error())
		}
	}

	type symbolRaw struct {
		NameOffset uint32
		Value      uint32
		Section    uint16
		Type       uint8
		Binding    uint8
		Size       uint32
	}
	symbols := make([]symbolRaw, header.SymbolCount)
	for i := range symbols {
		if err := binary.Read(r, binary.LittleEndian, &symbols[i]); err != nil {
			return nil, readErr("read symbol table: " + err.Error())
		}
	}

	type relocationRaw struct {
		Offset    uint32
		Section   uint16
		SymIndex  uint16
		Addend    int32
		Type      uint8
		Reserved0 uint8
		Reserved1 uint8
		Reserved2 uint8
	}
	relocations := make([]relocationRaw, header.RelocationCount)
	for i := range relocations {
		if err := binary.Read(r, binary.LittleEndian, &relocations[i]); err != nil {
			return nil, readErr("read relocation table: " + err.Error())
		}
	}

	stringTable := make([]byte, header.StringTableSize)
	if err := binary.Read(r, binary.LittleEndian, &stringTable); err != nil {
		return nil, readErr("read string table: " + err.Error())
	}

	// Σ physical-size == header.code_size; offsets in bounds; no overlap.
	// A BSS section's wire Size is its full logical (reserved) size per
	// spec §3's glossary, but its bytes are omitted from CodeData
	// entirely, so only non-BSS (non-FlagZero) sections contribute to
	// the physical byte count checked against code_size.
	var total uint32
	for _, s := range sections {
		phys := physicalSectionSize(s.Flags, s.Size)
		total += phys
		if uint64(s.Offset)+uint64(phys) > uint64(header.CodeSize) {
			return nil, readErr("section offset+size exceeds code size")
		}
	}
	if total != header.CodeSize {
		return nil, readErr("sum of section physical sizes does not match header code size")
	}
	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			if rangesOverlap(sections[i].Base, sections[i].Size, sections[j].Base, sections[j].Size) {
				return nil, readErr("sections overlap")
			}
		}
	}

	code := make([]byte, header.CodeSize)
	if err := binary.Read(r, binary.LittleEndian, &code); err != nil {
		return nil, readErr("read code data: " + err.Error())
	}

	readString := func(off uint32) (string, error) {
		if off >= uint32(len(stringTable)) {
			return "", fmt.Errorf("name offset %d out of bounds", off)
		}
		end := off
		for end < uint32(len(stringTable)) && stringTable[end] != 0 {
			end++
		}
		if end >= uint32(len(stringTable)) {
			return "", fmt.Errorf("unterminated string at offset %d", off)
		}
		return string(stringTable[off:end]), nil
	}

	sourceName, err := readString(header.SourceNameOff)
	if err != nil {
		return nil, readErr(err.Error())
	}

	file := &File{SourceFilename: sourceName}
	for _, s := range sections {
		phys := physicalSectionSize(s.Flags, s.Size)
		sec := &Section{Base: s.Base, Flags: s.Flags, Alignment: s.Alignment, ReservedSize: s.Size - phys}
		if phys > 0 {
			sec.Bytes = code[s.Offset : s.Offset+phys]
		}
		file.Sections = append(file.Sections, sec)
	}

	for _, s := range symbols {
		name, err := readString(s.NameOffset)
		if err != nil {
			return nil, readErr(err.Error())
		}
		if s.Section != ExternSentinelU16() && int(s.Section) >= len(sections) {
			return nil, readErr("symbol references invalid section index")
		}
		file.Symbols = append(file.Symbols, symtab.Symbol{
			Name: name, Value: s.Value, SectionIndex: s.Section,
			Type: symtab.Type(s.Type), Binding: symtab.Binding(s.Binding), Size: s.Size,
		})
	}

	for _, r := range relocations {
		if int(r.SymIndex) >= len(symbols) {
			return nil, readErr("relocation references invalid symbol index")
		}
		if int(r.Section) >= len(sections) {
			return nil, readErr("relocation references invalid section index")
		}
		file.Relocations = append(file.Relocations, symtab.Relocation{
			Offset: r.Offset, SectionIndex: r.Section,
			SymbolName: file.Symbols[r.SymIndex].Name,
			Type:       symtab.RelocationType(r.Type), Addend: r.Addend,
		})
	}

	return file, nil
}

// ExternSentinelU16 exposes symtab.ExternSentinel for reader comparisons
// without importing symtab's package-level constant twice in this file.
func ExternSentinelU16() uint16 { return symtab.ExternSentinel }

// physicalSectionSize returns how much of a section's wire Size is
// actually present in CodeData: none of it, for a BSS (FlagZero) section
// whose bytes are omitted from the file per spec §3's glossary; all of
// it otherwise.
func physicalSectionSize(flags uint16, size uint32) uint32 {
	if flags&FlagZero != 0 {
		return 0
	}
	return size
}

func rangesOverlap(baseA, sizeA, baseB, sizeB uint32) bool {
	aStart, aEnd := uint64(baseA), uint64(baseA)+uint64(sizeA)
	bStart, bEnd := uint64(baseB), uint64(baseB)+uint64(sizeB)
	return aStart < bEnd && bStart < aEnd
}

func readErr(msg string) error {
	return asmerr.New(asmerr.Writer, asmerr.Position{}, "", msg)
}
