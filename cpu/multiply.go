package cpu

import "github.com/Urethramancer/arm64sim/ast"

// execMultiply implements MADD/MSUB: Rd = Ra +/- Rn*Rm. Grounded on
// emulator/emulator.c's exec_madd/exec_msub.
func (c *CPU) execMultiply(instr ast.Instr) error {
	extended := instr.Rd.Extended
	rn := maskWidth(c.regValue(instr.Rn), extended)
	rm := maskWidth(c.regValue(instr.Op2.Rm), extended)
	ra := maskWidth(c.regValue(instr.Op2.Ra), extended)

	product := maskWidth(rn*rm, extended)
	var result uint64
	if instr.DPOp == ast.OpMSUB {
		result = maskWidth(ra-product, extended)
	} else {
		result = maskWidth(ra+product, extended)
	}
	c.setReg(instr.Rd, result)
	return nil
}
