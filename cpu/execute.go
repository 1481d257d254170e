package cpu

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
)

// Step fetches, decodes, and executes a single instruction. It checks for
// the halt sentinel before attempting any opcode-field decoding — the only
// halt path this emulator ever reaches; see SPEC_FULL.md §9 for the dead
// secondary check the reference implementation carries but never hits.
// Grounded on emulator/emulator.c's fetch_next_instr/run_instr cycle.
func (c *CPU) Step() error {
	word, err := c.Mem.ReadWord(c.PC)
	if err != nil {
		c.Fail = true
		return fmt.Errorf("fetch at 0x%x: %w", c.PC, err)
	}
	if word == HaltCode {
		c.log.Debugf("halt at 0x%x", c.PC)
		c.Halt = true
		return nil
	}

	e, err := Decode(word)
	if err != nil {
		c.Fail = true
		c.log.Errorf("decode at 0x%x: %v", c.PC, err)
		return fmt.Errorf("decode at 0x%x: %w", c.PC, err)
	}

	instr, err := DecodeToAST(e, c.PC)
	if err != nil {
		c.Fail = true
		c.log.Errorf("encoding decode at 0x%x: %v", c.PC, err)
		return fmt.Errorf("encoding decode at 0x%x: %w", c.PC, err)
	}

	pcBefore := c.PC
	branched, err := c.execute(instr)
	if err != nil {
		c.Fail = true
		c.log.Errorf("execute at 0x%x: %v", pcBefore, err)
		return fmt.Errorf("execute at 0x%x: %w", pcBefore, err)
	}
	c.log.Debugf("0x%x: %s", pcBefore, instr)
	if !branched {
		c.IncPC()
	}
	return nil
}

// Emulate runs the fetch-decode-execute loop until the CPU halts, fails, or
// maxSteps instructions have been executed without halting (maxSteps <= 0
// means unbounded). Grounded on emulator/emulator.c's run_emulator.
func (c *CPU) Emulate(maxSteps int) error {
	for i := 0; !c.Halt && !c.Fail; i++ {
		if maxSteps > 0 && i >= maxSteps {
			return fmt.Errorf("exceeded max step count %d without halting", maxSteps)
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	c.log.Infof("emulation finished: halt=%v fail=%v pc=0x%x", c.Halt, c.Fail, c.PC)
	return nil
}

// execute dispatches a decoded instruction and reports whether it set PC
// itself (a taken branch or register branch), so Step knows whether to
// also advance PC sequentially.
func (c *CPU) execute(instr ast.Instr) (bool, error) {
	switch instr.Kind {
	case ast.KindDP:
		return false, c.executeDP(instr)
	case ast.KindBranch:
		return c.executeBranch(instr)
	case ast.KindLoadStore:
		return false, c.executeLoadStore(instr)
	case ast.KindDirective:
		return false, fmt.Errorf("cannot execute a data directive as code")
	case ast.KindNop:
		return false, nil
	default:
		return false, fmt.Errorf("unknown instruction kind %d", instr.Kind)
	}
}

// resolveOp2 evaluates a DP instruction's second operand to a plain value,
// applying its shift. The multiply Op2Mul shape is handled by its own
// caller since it yields two operands (Rm, Ra), not one.
func (c *CPU) resolveOp2(op2 ast.Op2, extended bool) uint64 {
	var v uint64
	switch op2.Kind {
	case ast.Op2ImmShift:
		v = shiftValue(uint64(op2.Imm), op2.Shift, extended)
	case ast.Op2RegShift:
		v = shiftValue(c.regValue(op2.Rm), op2.Shift, extended)
	}
	return maskWidth(v, extended)
}

func shiftValue(v uint64, s ast.Shift, extended bool) uint64 {
	v = maskWidth(v, extended)
	width := uint(32)
	if extended {
		width = 64
	}
	amount := uint(s.Amount) % width
	switch s.Kind {
	case ast.ShiftLSL:
		return v << amount
	case ast.ShiftLSR:
		return v >> amount
	case ast.ShiftASR:
		signed := int64(v)
		if !extended {
			signed = int64(int32(v))
		}
		return uint64(signed >> amount)
	case ast.ShiftROR:
		if amount == 0 {
			return v
		}
		return (v >> amount) | (v << (width - amount))
	default:
		return v
	}
}

func maskWidth(v uint64, extended bool) uint64 {
	if extended {
		return v
	}
	return v & 0xFFFFFFFF
}
