package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// parseAddSub parses "op rd, rn, op2" for ADD/SUB/ADDS/SUBS, where op2 is
// either "#imm{, shift #n}" or "rm{, shift #n}". Grounded on
// assembler/parser/parse.c's p_dp.
func parseAddSub(op ast.DPOp) parseFn {
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

// parseDPOp2 parses a DP instruction's second operand: an immediate (with
// optional shift) or a register (with optional shift).
func parseDPOp2(tokens []string) (ast.Op2, error) {
	first := tokens[0]
	if len(first) > 0 && first[0] == '#' {
		imm, err := parseImm(first)
		if err != nil {
			return ast.Op2{}, err
		}
		shift, err := parseShift(tokens[1:])
		if err != nil {
			return ast.Op2{}, err
		}
		return ast.Op2{Kind: ast.Op2ImmShift, Imm: uint32(imm), Shift: shift}, nil
	}
	rm, err := parseReg(first)
	if err != nil {
		return ast.Op2{}, err
	}
	shift, err := parseShift(tokens[1:])
	if err != nil {
		return ast.Op2{}, err
	}
	return ast.Op2{Kind: ast.Op2RegShift, Rm: rm, Shift: shift}, nil
}

// parseCmp parses "cmp/cmn rn, op2" as SUBS/ADDS with rd = RZR. Grounded
// on spec.md §4.1's mnemonic table.
func parseCmp(op ast.DPOp) parseFn {
	return func(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
		if len(operands) < 2 {
			return ast.Instr{}, fmt.Errorf("cmp/cmn requires rn, op2")
		}
		rn, err := parseReg(operands[0])
		if err != nil {
			return ast.Instr{}, err
		}
		op2, err := parseDPOp2(operands[1:])
		if err != nil {
			return ast.Instr{}, err
		}
		return ast.Instr{Address: addr, Kind: ast.KindDP, DPOp: op, Rd: ast.RZR(rn.Extended), Rn: rn, Op2: op2}, nil
	}
}

// parseMul parses "mul rd, rn, rm" as MADD with ra = RZR.
func parseMul(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 3 {
		return ast.Instr{}, fmt.Errorf("mul requires rd, rn, rm")
	}
	return parseMulForm(ast.OpMADD, operands[0], operands[1], operands[2], "", addr)
}

// parseMneg parses "mneg rd, rn, rm" as MSUB with ra = RZR.
func parseMneg(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 3 {
		return ast.Instr{}, fmt.Errorf("mneg requires rd, rn, rm")
	}
	return parseMulForm(ast.OpMSUB, operands[0], operands[1], operands[2], "", addr)
}

// parseMadd parses "madd rd, rn, rm, ra".
func parseMadd(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 4 {
		return ast.Instr{}, fmt.Errorf("madd requires rd, rn, rm, ra")
	}
	return parseMulForm(ast.OpMADD, operands[0], operands[1], operands[2], operands[3], addr)
}

// parseMsub parses "msub rd, rn, rm, ra".
func parseMsub(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 4 {
		return ast.Instr{}, fmt.Errorf("msub requires rd, rn, rm, ra")
	}
	return parseMulForm(ast.OpMSUB, operands[0], operands[1], operands[2], operands[3], addr)
}

func parseMulForm(op ast.DPOp, rdTok, rnTok, rmTok, raTok string, addr uint64) (ast.Instr, error) {
	rd, err := parseReg(rdTok)
	if err != nil {
		return ast.Instr{}, err
	}
	rn, err := parseReg(rnTok)
	if err != nil {
		return ast.Instr{}, err
	}
	rm, err := parseReg(rmTok)
	if err != nil {
		return ast.Instr{}, err
	}
	ra := ast.RZR(rd.Extended)
	if raTok != "" {
		ra, err = parseReg(raTok)
		if err != nil {
			return ast.Instr{}, err
		}
	}
	return ast.Instr{Address: addr, Kind: ast.KindDP, DPOp: op, Rd: rd, Rn: rn, Op2: ast.Op2{Kind: ast.Op2Mul, Rm: rm, Ra: ra}}, nil
}
