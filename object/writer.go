package object

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/g10toolchain/g10asm/asmerr"
)

// Magic identifies a .g10obj file: 0x47313041 ("G10A"), per spec §4.6.
const Magic uint32 = 0x47313041

// Version is the only object format version this writer/reader supports.
const Version uint16 = 0x0001

const headerSize = 32
const sectionEntrySize = 16
const symbolEntrySize = 16
const relocationEntrySize = 16

// Write serializes file to w in the little-endian .g10obj layout of
// spec §4.6: Header, SectionTable, SymbolTable, RelocationTable,
// StringTable, CodeData. It writes into an in-memory buffer first and
// flushes only on success, so a failure never leaves a partial object on
// disk (spec §5's "partial outputs are never flushed on failure").
func Write(w io.Writer, file *File) error {
	pool := NewStringPool()
	sourceOff := pool.Add(file.SourceFilename)

	nameOffsets := make([]uint32, len(file.Symbols))
	for i, sym := range file.Symbols {
		nameOffsets[i] = pool.Add(sym.Name)
	}

	nameToIndex := make(map[string]int, len(file.Symbols))
	for i, sym := range file.Symbols {
		nameToIndex[sym.Name] = i
	}

	// sectionOffsets/codeSize track physical bytes only (len(s.Bytes)): a
	// BSS section's ReservedSize is never written to CodeData, per spec
	// §3's glossary ("bytes are omitted from the file and whose size is
	// preserved") and spec §8's RAM-isolation invariant.
	sectionOffsets := make([]uint32, len(file.Sections))
	var codeSize uint32
	for i, s := range file.Sections {
		sectionOffsets[i] = codeSize
		codeSize += uint32(len(s.Bytes))
	}

	var buf bytes.Buffer

	header := struct {
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
	}{
		Magic:           Magic,
		Version:         Version,
		Flags:           0,
		SectionCount:    uint16(len(file.Sections)),
		SymbolCount:     uint16(len(file.Symbols)),
		RelocationCount: uint32(len(file.Relocations)),
		// StringTableSize is set just below, from the pool that has
		// already absorbed the source filename and every symbol name.
		CodeSize:      codeSize,
		SourceNameOff: sourceOff,
		Reserved:      0,
	}
	header.StringTableSize = uint32(len(pool.Bytes()))

	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("write header: %v", err))
	}

	for i, s := range file.Sections {
		// Size is the section's full logical size (s.Size(), physical
		// bytes plus any BSS reservation) so the linker still learns how
		// large a BSS region is even though Offset only locates its
		// (possibly zero-length) physical bytes in CodeData.
		entry := struct {
			Base      uint32
			Size      uint32
			Offset    uint32
			Flags     uint16
			Alignment uint16
		}{Base: s.Base, Size: s.Size(), Offset: sectionOffsets[i], Flags: s.Flags, Alignment: alignmentOrDefault(s.Alignment)}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("write section table: %v", err))
		}
	}

	for i, sym := range file.Symbols {
		entry := struct {
			NameOffset uint32
			Value      uint32
			Section    uint16
			Type       uint8
			Binding    uint8
			Size       uint32
		}{
			NameOffset: nameOffsets[i],
			Value:      sym.Value,
			Section:    sym.SectionIndex,
			Type:       uint8(sym.Type),
			Binding:    uint8(sym.Binding),
			Size:       sym.Size,
		}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("write symbol table: %v", err))
		}
	}

	for _, r := range file.Relocations {
		idx, ok := nameToIndex[r.SymbolName]
		if !ok {
			return asmerr.New(asmerr.Writer, asmerr.Position{}, r.SymbolName,
				"relocation references unknown symbol")
		}
		entry := struct {
			Offset    uint32
			Section   uint16
			SymIndex  uint16
			Addend    int32
			Type      uint8
			Reserved0 uint8
			Reserved1 uint8
			Reserved2 uint8
		}{
			Offset:   r.Offset,
			Section:  r.SectionIndex,
			SymIndex: uint16(idx),
			Addend:   r.Addend,
			Type:     uint8(r.Type),
		}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("write relocation table: %v", err))
		}
	}

	buf.Write(pool.Bytes())

	// A BSS section's Bytes is always empty (see object.Section's
	// ReservedSize doc), so this naturally writes zero physical bytes
	// for it without any flag check here.
	for _, s := range file.Sections {
		buf.Write(s.Bytes)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("flush output: %v", err))
	}
	return nil
}

func alignmentOrDefault(a uint16) uint16 {
	if a == 0 {
		return 1
	}
	return a
}
