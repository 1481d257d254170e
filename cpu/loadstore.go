package cpu

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// executeLoadStore implements LDR/STR in all three addressing forms: an
// immediate pre/post-indexed or unsigned-offset base+displacement, a
// register-offset base+index, and a PC-relative literal load. Grounded on
// emulator/emulator.c's exec_ldr/exec_str and the address computation in
// the reference's addressing helpers (absorbed here rather than kept as a
// standalone addressing-mode file, since the ARM64 subset has only these
// three shapes).
func (c *CPU) executeLoadStore(instr ast.Instr) error {
	var addr uint64

	switch instr.LSArg {
	case ast.LSArgLiteral:
		addr = instr.LitAddr

	case ast.LSArgImm:
		base := c.regValue(instr.LSBase)
		switch instr.LSIdx {
		case ast.IdxPre:
			addr = uint64(int64(base) + instr.LSImm)
			c.setReg(instr.LSBase, addr)
		case ast.IdxPost:
			addr = base
			c.setReg(instr.LSBase, uint64(int64(base)+instr.LSImm))
		case ast.IdxUOffset:
			addr = uint64(int64(base) + instr.LSImm)
		}

	case ast.LSArgReg:
		base := c.regValue(instr.LSBase)
		offset := c.regValue(instr.LSRm)
		if instr.LSExt.Kind == ast.ExtendSXTX && !instr.LSRm.Extended {
			offset = uint64(int64(int32(offset)))
		}
		if instr.LSExt.Kind == ast.ExtendLSL {
			offset <<= instr.LSExt.Amount
		}
		addr = base + offset

	default:
		return fmt.Errorf("unhandled load/store operand kind %d", instr.LSArg)
	}

	extended := instr.Rt.Extended
	if instr.LSOp == ast.OpLDR {
		if extended {
			v, err := c.Mem.ReadDword(addr)
			if err != nil {
				return fmt.Errorf("ldr: %w", err)
			}
			c.setReg(instr.Rt, v)
		} else {
			v, err := c.Mem.ReadWord(addr)
			if err != nil {
				return fmt.Errorf("ldr: %w", err)
			}
			c.setReg(instr.Rt, uint64(v))
		}
		return nil
	}

	v := c.regValue(instr.Rt)
	if extended {
		if err := c.Mem.WriteDword(addr, v); err != nil {
			return fmt.Errorf("str: %w", err)
		}
	} else {
		if err := c.Mem.WriteWord(addr, uint32(v)); err != nil {
			return fmt.Errorf("str: %w", err)
		}
	}
	return nil
}
