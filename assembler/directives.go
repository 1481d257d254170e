package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// parseNop parses the bare "nop" mnemonic.
func parseNop(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 0 {
		return ast.Instr{}, fmt.Errorf("nop takes no operands")
	}
	return ast.Instr{Address: addr, Kind: ast.KindNop}, nil
}

// parseIntDirective parses ".int N" or ".int 0xN", emitting the literal
// 32-bit word verbatim. Grounded on spec.md §4.1's directive table.
func parseIntDirective(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 1 {
		return ast.Instr{}, fmt.Errorf(".int requires a single value")
	}
	v, err := parseImm(operands[0])
	if err != nil {
		return ast.Instr{}, err
	}
	return ast.Instr{Address: addr, Kind: ast.KindDirective, DirectiveWord: uint32(v)}, nil
}
