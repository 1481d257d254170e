package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// parseB parses "b label_or_imm" as an unconditional branch. Grounded on
// assembler/parser/parse.c's p_branch.
func parseB(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 1 {
		return ast.Instr{}, fmt.Errorf("b requires a target")
	}
	target, label, err := asm.resolveTarget(operands[0])
	if err != nil {
		return ast.Instr{}, err
	}
	return ast.Instr{Address: addr, Kind: ast.KindBranch, BranchKind: ast.BranchUnconditional, Target: target, Label: label}, nil
}

// parseBr parses "br xn" as a register branch.
func parseBr(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
	if len(operands) != 1 {
		return ast.Instr{}, fmt.Errorf("br requires a register")
	}
	rn, err := parseReg(operands[0])
	if err != nil {
		return ast.Instr{}, err
	}
	return ast.Instr{Address: addr, Kind: ast.KindBranch, BranchKind: ast.BranchRegister, BrReg: rn}, nil
}

// parseBCond parses "b.cond label_or_imm".
func parseBCond(cond ast.Cond) parseFn {
	return func(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
		if len(operands) != 1 {
			return ast.Instr{}, fmt.Errorf("b.%s requires a target", cond)
		}
		target, label, err := asm.resolveTarget(operands[0])
		if err != nil {
			return ast.Instr{}, err
		}
		return ast.Instr{
			Address: addr, Kind: ast.KindBranch, BranchKind: ast.BranchConditional,
			Cond: cond, Target: target, Label: label,
		}, nil
	}
}
