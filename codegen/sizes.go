package codegen

import "github.com/g10toolchain/g10asm/ast"

// Size returns the byte length an instruction statement will occupy,
// without needing any label to be resolved yet — required by Pass 1
// (spec §4.3), which must know every instruction's size before any
// address is known. It is a thin wrapper over describe so Pass 1 and
// Pass 2 can never disagree about how many bytes a statement takes.
func Size(stmt *ast.Statement) (int, error) {
	d, err := describe(stmt.Mnemonic, stmt.Operands, stmt.HasBitIndex, stmt.BitIndex)
	if err != nil {
		return 0, err
	}
	return d.Size, nil
}
