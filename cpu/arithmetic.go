package cpu

import (
	"fmt"
	"math/bits"

	"github.com/Urethramancer/arm64sim/ast"
)

// executeDP dispatches a data-processing instruction to its family handler.
func (c *CPU) executeDP(instr ast.Instr) error {
	switch instr.DPOp {
	case ast.OpADD, ast.OpADDS, ast.OpSUB, ast.OpSUBS:
		return c.execAddSub(instr)
	case ast.OpAND, ast.OpBIC, ast.OpORR, ast.OpORN, ast.OpEOR, ast.OpEON, ast.OpANDS, ast.OpBICS:
		return c.execLogical(instr)
	case ast.OpMOVN, ast.OpMOVZ, ast.OpMOVK:
		return c.execMove(instr)
	case ast.OpMADD, ast.OpMSUB:
		return c.execMultiply(instr)
	default:
		return fmt.Errorf("unhandled DP op %s", instr.DPOp)
	}
}

// execAddSub implements ADD/ADDS/SUB/SUBS. Grounded on emulator/emulator.c's
// exec_add/exec_sub and the reference note that ADDS/SUBS compute their
// flags from operands truncated to the instruction's own width — this
// implementation always masks to 32 bits on a W-form instruction before
// doing flag arithmetic, rather than mirroring the original C's
// unmasked-64-bit add/sub-with-carry performed through __uint128_t and only
// truncated afterward. See DESIGN.md's Open Question decision 1.
func (c *CPU) execAddSub(instr ast.Instr) error {
	extended := instr.Rd.Extended
	rn := maskWidth(c.regValue(instr.Rn), extended)
	op2 := c.resolveOp2(instr.Op2, extended)

	isSub := instr.DPOp == ast.OpSUB || instr.DPOp == ast.OpSUBS
	setFlags := instr.DPOp == ast.OpADDS || instr.DPOp == ast.OpSUBS

	var result uint64
	var carryIn uint64
	operand := op2
	if isSub {
		operand = maskWidth(^op2, extended)
		carryIn = 1
	}
	result = maskWidth(rn+operand+carryIn, extended)

	if setFlags {
		width := uint(32)
		if extended {
			width = 64
		}
		c.PSTATE = addFlags(rn, operand, carryIn, result, width)
	}
	c.setReg(instr.Rd, result)
	return nil
}

// addFlags computes N/Z/C/V for an addition rn+operand+carryIn == result at
// the given bit width. Grounded on emulator/emulator.c's set_add_flags.
func addFlags(rn, operand, carryIn, result uint64, width uint) PSTATE {
	mask := uint64(1)<<width - 1
	if width == 64 {
		mask = ^uint64(0)
	}
	signBit := uint64(1) << (width - 1)

	var carryOut bool
	if width == 64 {
		_, c := bits.Add64(rn&mask, operand&mask, carryIn)
		carryOut = c != 0
	} else {
		wide := (rn & mask) + (operand & mask) + carryIn
		carryOut = wide > mask
	}

	rnSign := rn&signBit != 0
	opSign := operand&signBit != 0
	resSign := result&signBit != 0
	overflow := rnSign == opSign && resSign != rnSign

	return PSTATE{
		N: resSign,
		Z: result&mask == 0,
		C: carryOut,
		V: overflow,
	}
}
