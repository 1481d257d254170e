package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// parseLogical parses "op rd, rn, op2" for AND/BIC/ORR/ORN/EOR/EON/ANDS/
// BICS — same operand shape as the add/sub family. Grounded on
// assembler/parser/parse.c's p_dp reused for the logical family.
func parseLogical(op ast.DPOp) parseFn {
	return func(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
		if len(operands) < 3 {
			return ast.Instr{}, fmt.Errorf("%s requires rd, rn, op2", op)
		}
		rd, err := parseReg(operands[0])
		if err != nil {
			return ast.Instr{}, err
		}
		rn, err := parseReg(operands[1])
		if err != nil {
			return ast.Instr{}, err
		}
		op2, err := parseDPOp2(operands[2:])
		if err != nil {
			return ast.Instr{}, err
		}
		return ast.Instr{Address: addr, Kind: ast.KindDP, DPOp: op, Rd: rd, Rn: rn, Op2: op2}, nil
	}
}

// parseTst parses "tst rn, op2" as ANDS with rd = RZR.
func parseTst(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) < 2 {
		return ast.Instr{}, fmt.Errorf("tst requires rn, op2")
	}
	rn, err := parseReg(operands[0])
	if err != nil {
		return ast.Instr{}, err
	}
	op2, err := parseDPOp2(operands[1:])
	if err != nil {
		return ast.Instr{}, err
	}
	return ast.Instr{Address: addr, Kind: ast.KindDP, DPOp: ast.OpANDS, Rd: ast.RZR(rn.Extended), Rn: rn, Op2: op2}, nil
}
