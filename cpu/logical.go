package cpu

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// execLogical implements AND/BIC/ORR/ORN/EOR/EON/ANDS/BICS. Grounded on
// emulator/emulator.c's exec_and/exec_orr/exec_eor family; ANDS/BICS additionally
// set N/Z and clear C/V, matching the reference's set_logical_flags.
func (c *CPU) execLogical(instr ast.Instr) error {
	extended := instr.Rd.Extended
	rn := maskWidth(c.regValue(instr.Rn), extended)
	op2 := c.resolveOp2(instr.Op2, extended)

	var result uint64
	switch instr.DPOp {
	case ast.OpAND, ast.OpANDS:
		result = rn & op2
	case ast.OpBIC, ast.OpBICS:
		result = rn &^ op2
	case ast.OpORR:
		result = rn | op2
	case ast.OpORN:
		result = rn | maskWidth(^op2, extended)
	case ast.OpEOR:
		result = rn ^ op2
	case ast.OpEON:
		result = rn ^ maskWidth(^op2, extended)
	default:
		return fmt.Errorf("unhandled logical op %s", instr.DPOp)
	}
	result = maskWidth(result, extended)

	if instr.DPOp == ast.OpANDS || instr.DPOp == ast.OpBICS {
		c.PSTATE.N = signBitSet(result, extended)
		c.PSTATE.Z = result == 0
		c.PSTATE.C = false
		c.PSTATE.V = false
	}
	c.setReg(instr.Rd, result)
	return nil
}

func signBitSet(v uint64, extended bool) bool {
	if extended {
		return v&(1<<63) != 0
	}
	return v&(1<<31) != 0
}
