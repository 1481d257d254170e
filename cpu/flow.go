package cpu

import "github.com/Urethramancer/arm64sim/ast"

// executeBranch implements B/B.cond/BR. Grounded on emulator/emulator.c's
// exec_b/exec_b_cond/exec_br; condition evaluation for B.cond is done by
// checkCond in instructions.go. It reports whether it
// set PC itself, since a taken branch whose target equals its own address
// (e.g. a tight "b ." loop) must not also fall through to the caller's
// sequential PC advance.
func (c *CPU) executeBranch(instr ast.Instr) (bool, error) {
	switch instr.BranchKind {
	case ast.BranchUnconditional:
		c.PC = instr.Target
		return true, nil
	case ast.BranchConditional:
		if checkCond(c.PSTATE, instr.Cond) {
			c.PC = instr.Target
			return true, nil
		}
		return false, nil
	case ast.BranchRegister:
		c.PC = c.regValue(instr.BrReg)
		return true, nil
	}
	return false, nil
}
