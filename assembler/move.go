package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// parseMov parses the "mov rd, op2" pseudo-instruction as an alias for
// ORR rd, RZR, op2. Grounded on spec.md §4.1's mnemonic table ("mov | ORR
// | rd, op2 — rn = RZR (alias)").
func parseMov(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) < 2 {
		return ast.Instr{}, fmt.Errorf("mov requires rd, op2")
	}
	rd, err := parseReg(operands[0])
	if err != nil {
		return ast.Instr{}, err
	}
	op2, err := parseDPOp2(operands[1:])
	if err != nil {
		return ast.Instr{}, err
	}
	return ast.Instr{Address: addr, Kind: ast.KindDP, DPOp: ast.OpORR, Rd: rd, Rn: ast.RZR(rd.Extended), Op2: op2}, nil
}

// parseMovImm parses "movn/movz/movk rd, #imm{, lsl #n}". Grounded on
// assembler/parser/parse.c's p_mov.
func parseMovImm(op ast.DPOp) parseFn {
	return func(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
		if len(operands) < 2 {
			return ast.Instr{}, fmt.Errorf("%s requires rd, #imm", op)
		}
		rd, err := parseReg(operands[0])
		if err != nil {
			return ast.Instr{}, err
		}
		imm, err := parseImm(operands[1])
		if err != nil {
			return ast.Instr{}, err
		}
		shift, err := parseShift(operands[2:])
		if err != nil {
			return ast.Instr{}, err
		}
		if shift.Amount != 0 && shift.Amount != 16 && shift.Amount != 32 && shift.Amount != 48 {
			return ast.Instr{}, fmt.Errorf("mov shift amount must be 0, 16, 32, or 48")
		}
		return ast.Instr{
			Address: addr, Kind: ast.KindDP, DPOp: op, Rd: rd,
			Op2: ast.Op2{Kind: ast.Op2ImmShift, Imm: uint32(imm), Shift: shift},
		}, nil
	}
}
