// Package object is the in-memory G10 object model: sections, the pooled
// string table, and (via writer.go/reader.go) the little-endian .g10obj
// on-disk format of spec §4.6/§6.1. It is grounded on the teacher's
// loader/loader.go directive-writing sweep, generalized from "write bytes
// into VM memory" to "write bytes into a section buffer owned by this
// object", and on symtab for the symbol/relocation shapes it serializes.
package object

import "github.com/g10toolchain/g10asm/symtab"

// Section flag bits, per the contract in spec §4.7.
const (
	FlagExecutable uint16 = 1 << 0
	FlagInitialized uint16 = 1 << 1
	FlagWritable   uint16 = 1 << 2
	FlagZero       uint16 = 1 << 3
)

// RAMBase is the address at or above which .ORG opens a BSS-style RAM
// section (spec §3): bit 31 set.
const RAMBase uint32 = 0x80000000

// IsRAM reports whether a base address falls in the RAM partition.
func IsRAM(base uint32) bool { return base&0x80000000 != 0 }

// FlagsForBase returns the section flags a base address implies, per the
// §4.7 contract table.
func FlagsForBase(base uint32) uint16 {
	if IsRAM(base) {
		return FlagWritable | FlagZero
	}
	return FlagExecutable | FlagInitialized
}

// Section is one in-memory, contiguous block of assembled bytes.
//
// ReservedSize holds bytes a RAM (BSS) section has reserved via a data
// directive without ever growing Bytes — per spec §3's glossary, a BSS
// section's bytes are omitted from the file while its size is preserved,
// so Bytes must stay empty for the "no byte is appended to a RAM
// section" invariant of spec §8 to hold literally.
type Section struct {
	Base         uint32
	Flags        uint16
	Alignment    uint16
	Bytes        []byte
	ReservedSize uint32
}

// Size is the section's total logical length: physical bytes plus any
// RAM reservation, matching the amount Pass 1's cursor advanced for it.
func (s *Section) Size() uint32 { return uint32(len(s.Bytes)) + s.ReservedSize }

// Overlaps reports whether s and other's address ranges intersect.
func (s *Section) Overlaps(other *Section) bool {
	aStart, aEnd := uint64(s.Base), uint64(s.Base)+uint64(s.Size())
	bStart, bEnd := uint64(other.Base), uint64(other.Base)+uint64(other.Size())
	return aStart < bEnd && bStart < aEnd
}

// StringPool is the pooled, deduplicated string buffer of spec §3.
// Offset 0 is always the empty string (a single null byte); every other
// stored string is added with a trailing null and reused on a repeat
// insertion of an identical string.
type StringPool struct {
	buf     []byte
	offsets map[string]uint32
}

// NewStringPool returns a pool seeded with the empty string at offset 0.
func NewStringPool() *StringPool {
	p := &StringPool{buf: []byte{0}, offsets: map[string]uint32{"": 0}}
	return p
}

// Add inserts s (if not already present) and returns its stable offset.
// Idempotent: Add(s) called twice returns the same offset both times and
// does not grow the buffer on the second call (spec §8).
func (p *StringPool) Add(s string) uint32 {
	if off, ok := p.offsets[s]; ok {
		return off
	}
	off := uint32(len(p.buf))
	p.buf = append(p.buf, []byte(s)...)
	p.buf = append(p.buf, 0)
	p.offsets[s] = off
	return off
}

// Bytes returns the pool's backing buffer.
func (p *StringPool) Bytes() []byte { return p.buf }

// File is the finalized in-memory object: everything the writer needs to
// serialize, and everything the reader reconstructs.
type File struct {
	SourceFilename string
	Sections       []*Section
	Symbols        []symtab.Symbol
	Relocations    []symtab.Relocation
}
