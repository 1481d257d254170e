package cpu

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// execMove implements MOVN/MOVZ/MOVK, each operating on a single 16-bit
// lane selected by the operand's shift amount. Grounded on
// emulator/emulator.c's exec_movn/exec_movz/exec_movk.
func (c *CPU) execMove(instr ast.Instr) error {
	extended := instr.Rd.Extended
	imm16 := uint64(instr.Op2.Imm)
	shift := uint(instr.Op2.Shift.Amount)

	switch instr.DPOp {
	case ast.OpMOVZ:
		c.setReg(instr.Rd, maskWidth(imm16<<shift, extended))
	case ast.OpMOVN:
		c.setReg(instr.Rd, maskWidth(^(imm16 << shift), extended))
	case ast.OpMOVK:
		cur := maskWidth(c.regValue(instr.Rd), extended)
		laneMask := uint64(0xFFFF) << shift
		cur = (cur &^ laneMask) | (imm16 << shift)
		c.setReg(instr.Rd, maskWidth(cur, extended))
	default:
		return fmt.Errorf("unhandled move op %s", instr.DPOp)
	}
	return nil
}
