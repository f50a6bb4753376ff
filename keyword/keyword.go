// Package keyword resolves assembly lexemes (register names, condition
// codes, directives, mnemonics) to numeric identities via a static,
// case-insensitive table. The encoder and the size calculator both consult
// this table, never a parallel switch statement, so the two passes cannot
// silently disagree on what a lexeme means.
package keyword

import "strings"

// Category distinguishes the four kinds of keyword entry.
type Category int

const (
	Register Category = iota
	ConditionKeyword
	DirectiveKeyword
	Mnemonic
)

// RegKind is the high-nibble width tag of a packed register identity, per
// the packing the emitter depends on: width in the high nibble, index in
// the low nibble.
type RegKind byte

const (
	Kind32     RegKind = 0x0 // D0..D15
	Kind16     RegKind = 0x1 // W0..W15
	KindHigh8  RegKind = 0x2 // H0..H15
	KindLow8   RegKind = 0x4 // L0..L15
)

// RegisterID is the packed (kind<<4 | index) register identity used
// throughout the AST and codegen. This is the single source of truth for
// register packing named in spec §4.1 and §9.
type RegisterID byte

// Pack builds a RegisterID from a kind and a 0..15 index.
func Pack(kind RegKind, index int) RegisterID {
	return RegisterID(byte(kind)<<4 | byte(index&0xF))
}

// Kind returns the width tag of a packed register identity.
func (r RegisterID) Kind() RegKind { return RegKind(byte(r) >> 4) }

// Index returns the 0..15 register index of a packed register identity.
func (r RegisterID) Index() int { return int(byte(r) & 0xF) }

// Width returns the register's width in bytes: 4, 2, or 1.
func (r RegisterID) Width() int {
	switch r.Kind() {
	case Kind32:
		return 4
	case Kind16:
		return 2
	default:
		return 1
	}
}

// IsHigh reports whether a width-1 register is the high-byte alias.
func (r RegisterID) IsHigh() bool { return r.Kind() == KindHigh8 }

// Condition is the 7-value closed condition-code set, numeric encoding
// fixed per spec §3.
type Condition byte

const (
	NC Condition = 0
	ZS Condition = 1
	ZC Condition = 2
	CS Condition = 3
	CC Condition = 4
	VS Condition = 5
	VC Condition = 6
)

func (c Condition) String() string {
	switch c {
	case NC:
		return "nc"
	case ZS:
		return "zs"
	case ZC:
		return "zc"
	case CS:
		return "cs"
	case CC:
		return "cc"
	case VS:
		return "vs"
	case VC:
		return "vc"
	default:
		return "?"
	}
}

// Directive identifies one of the six assembler directives.
type Directive int

const (
	DirOrg Directive = iota
	DirByte
	DirWord
	DirDword
	DirGlobal
	DirExtern
)

// DataWidth returns the byte width a data directive emits per value, and
// ok=false for directives that carry no per-value width (.org/.global/
// .extern).
func (d Directive) DataWidth() (width int, ok bool) {
	switch d {
	case DirByte:
		return 1, true
	case DirWord:
		return 2, true
	case DirDword:
		return 4, true
	default:
		return 0, false
	}
}

// MnemonicEntry is the canonical identity a mnemonic lexeme resolves to.
// Aliases (JP, JR, CP, CPL, TCF) resolve to the same canonical entry as
// their target, so the emitter never sees an alias spelling — see
// spec §4.2 "normalized mnemonic identity".
type MnemonicEntry struct {
	Canonical string
	// ImplicitOperand names a register lexeme the parser must synthesize
	// as operand 0 when the alias is used with zero explicit operands.
	// Only CPL (-> NOT L0) needs this.
	ImplicitOperand string
}

// Entry is one row of the keyword table.
type Entry struct {
	Lexeme   string
	Category Category
	Register RegisterID
	Condition Condition
	Directive Directive
	Mnemonic  MnemonicEntry
}

var table map[string]Entry

func init() {
	table = make(map[string]Entry, 64+7+6+70)
	addRegisters()
	addConditions()
	addDirectives()
	addMnemonics()
}

func add(lexeme string, e Entry) {
	e.Lexeme = lexeme
	table[strings.ToUpper(lexeme)] = e
}

func addRegisters() {
	kinds := []struct {
		prefix string
		kind   RegKind
	}{
		{"D", Kind32},
		{"W", Kind16},
		{"H", KindHigh8},
		{"L", KindLow8},
	}
	for _, k := range kinds {
		for i := 0; i < 16; i++ {
			lexeme := k.prefix + itoa(i)
			add(lexeme, Entry{Category: Register, Register: Pack(k.kind, i)})
		}
	}
}

func addConditions() {
	for _, c := range []Condition{NC, ZS, ZC, CS, CC, VS, VC} {
		add(c.String(), Entry{Category: ConditionKeyword, Condition: c})
	}
}

func addDirectives() {
	add(".org", Entry{Category: DirectiveKeyword, Directive: DirOrg})
	add(".byte", Entry{Category: DirectiveKeyword, Directive: DirByte})
	add(".word", Entry{Category: DirectiveKeyword, Directive: DirWord})
	add(".dword", Entry{Category: DirectiveKeyword, Directive: DirDword})
	add(".global", Entry{Category: DirectiveKeyword, Directive: DirGlobal})
	add(".extern", Entry{Category: DirectiveKeyword, Directive: DirExtern})
}

// canonicalMnemonics is every mnemonic the encoder defines an opcode for.
// Aliases are layered on in addMnemonics.
var canonicalMnemonics = []string{
	// zero-operand control
	"NOP", "STOP", "HALT", "DI", "EI", "EII", "DAA", "SCF", "CCF", "CLV", "SEV",
	"RLA", "RRA", "RRCA", "RLCA", "RETI",
	// single register ops
	"PUSH", "POP", "INC", "DEC", "NOT", "SLA", "SRA", "SRL", "SWAP",
	"RL", "RLC", "RR", "RRC", "SPO", "SPI", "SSP",
	"RET", "INT",
	// load/store/move family
	"LD", "ST", "LDQ", "STQ", "LDP", "STP", "MV", "MWH", "MWL",
	// arithmetic / logic
	"ADD", "ADC", "SUB", "SBC", "AND", "OR", "XOR", "CMP",
	// bit ops
	"BIT", "SET", "RES", "TOG",
	// branches
	"JMP", "JPB", "CALL",
	"LSP",
}

func addMnemonics() {
	for _, m := range canonicalMnemonics {
		add(m, Entry{Category: Mnemonic, Mnemonic: MnemonicEntry{Canonical: m}})
	}
	add("JP", Entry{Category: Mnemonic, Mnemonic: MnemonicEntry{Canonical: "JMP"}})
	add("JR", Entry{Category: Mnemonic, Mnemonic: MnemonicEntry{Canonical: "JPB"}})
	add("CP", Entry{Category: Mnemonic, Mnemonic: MnemonicEntry{Canonical: "CMP"}})
	add("TCF", Entry{Category: Mnemonic, Mnemonic: MnemonicEntry{Canonical: "CCF"}})
	add("CPL", Entry{Category: Mnemonic, Mnemonic: MnemonicEntry{Canonical: "NOT", ImplicitOperand: "L0"}})
}

// Lookup resolves a lexeme case-insensitively, returning the matching
// entry and true, or a zero Entry and false if the lexeme is not a
// keyword.
func Lookup(lexeme string) (Entry, bool) {
	e, ok := table[strings.ToUpper(lexeme)]
	return e, ok
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := [2]byte{}
	n := 0
	for i > 0 {
		digits[n] = byte('0' + i%10)
		i /= 10
		n++
	}
	b := make([]byte, n)
	for j := 0; j < n; j++ {
		b[j] = digits[n-1-j]
	}
	return string(b)
}
