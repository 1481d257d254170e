package cpu_test

import (
	"bytes"
	"testing"

	"github.com/Urethramancer/arm64sim/assembler"
	"github.com/Urethramancer/arm64sim/cpu"
)

// runProgram assembles src, loads it into a fresh CPU, and runs it to
// completion. Every scenario below ends its source with "and x0, x0, x0",
// which always assembles to the halt sentinel word regardless of x0's
// value (see TestAndSelfEncodesToHaltWord in the assembler package),
// giving these end-to-end scenarios a deterministic stopping point.
func runProgram(t *testing.T, src string) *cpu.CPU {
	t.Helper()
	asm := assembler.New()
	res, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("assemble:\n%s\nerror: %v", src, err)
	}
	c := cpu.New()
	if _, err := cpu.LoadBinary(c.Mem, bytes.NewReader(res.Bytes())); err != nil {
		t.Fatalf("load binary: %v", err)
	}
	if err := c.Emulate(10000); err != nil {
		t.Fatalf("emulate:\n%s\nerror: %v", src, err)
	}
	if c.Fail {
		t.Fatalf("emulate:\n%s\nfailed at pc 0x%x", src, c.PC)
	}
	if !c.Halt {
		t.Fatalf("emulate:\n%s\ndid not halt", src)
	}
	return c
}

// S1 — movz then adds.
func TestScenarioMovzThenAdds(t *testing.T) {
	c := runProgram(t, `
movz x0, #5
movz x1, #7
adds x2, x0, x1
and x0, x0, x0
`)
	if c.X[0] != 5 || c.X[1] != 7 || c.X[2] != 12 {
		t.Errorf("x0=%d x1=%d x2=%d, want 5 7 12", c.X[0], c.X[1], c.X[2])
	}
	if c.PSTATE.N || c.PSTATE.Z || c.PSTATE.C || c.PSTATE.V {
		t.Errorf("pstate = %s, want ----", c.PSTATE)
	}
}

// S2 — overflow flag on signed 64-bit add.
func TestScenarioOverflowFlag(t *testing.T) {
	c := runProgram(t, `
movz x0, #0x7fff, lsl #48
movz x0, #0xffff
movk x0, #0xffff, lsl #16
movk x0, #0xffff, lsl #32
movk x0, #0x7fff, lsl #48
movz x1, #1
adds x2, x0, x1
and x0, x0, x0
`)
	if c.X[2] != 0x8000000000000000 {
		t.Errorf("x2 = 0x%x, want 0x8000000000000000", c.X[2])
	}
	if !c.PSTATE.V || !c.PSTATE.N || c.PSTATE.Z || c.PSTATE.C {
		t.Errorf("pstate = %s, want N--V", c.PSTATE)
	}
}

// S3 — conditional branch backward (a countdown loop).
func TestScenarioBackwardBranchLoop(t *testing.T) {
	c := runProgram(t, `
  movz x0, #3
loop:
  subs x0, x0, #1
  b.ne loop
  and x0, x0, x0
`)
	if c.X[0] != 0 {
		t.Errorf("x0 = %d, want 0", c.X[0])
	}
	if !c.PSTATE.Z {
		t.Errorf("pstate = %s, want Z set", c.PSTATE)
	}
}

// S4 — load/store with pre-index addressing.
func TestScenarioLoadStorePreIndex(t *testing.T) {
	c := runProgram(t, `
  movz x0, #0x100
  movz x1, #0xabcd
  str x1, [x0, #8]!
  ldr x2, [x0]
  and x0, x0, x0
`)
	if c.X[0] != 0x108 {
		t.Errorf("x0 = 0x%x, want 0x108", c.X[0])
	}
	if c.X[2] != 0xabcd {
		t.Errorf("x2 = 0x%x, want 0xabcd", c.X[2])
	}
	word, err := c.Mem.ReadWord(0x108)
	if err != nil {
		t.Fatalf("read 0x108: %v", err)
	}
	if word != 0xabcd {
		t.Errorf("memory[0x108] = 0x%x, want 0xabcd", word)
	}
}

// S5 — register rotation via a ROR shifted operand.
func TestScenarioRotateRight(t *testing.T) {
	c := runProgram(t, `
movz x0, #1
orr x1, xzr, x0, ror #1
and x0, x0, x0
`)
	if c.X[1] != 0x8000000000000000 {
		t.Errorf("x1 = 0x%x, want 0x8000000000000000", c.X[1])
	}
}

// S6 — a data directive loaded through a PC-relative literal load. The
// second .int word keeps the dword's high half at a known zero so the
// load's result is deterministic.
func TestScenarioDirectiveAsData(t *testing.T) {
	c := runProgram(t, `
  ldr x0, data
  b end
data:
  .int 0xdeadbeef
  .int 0
end:
  and x0, x0, x0
`)
	if c.X[0] != 0xdeadbeef {
		t.Errorf("x0 = 0x%x, want 0xdeadbeef", c.X[0])
	}
}

// Invariant 9 — the raw halt word halts before any state change.
func TestHaltSentinelPreventsStateChange(t *testing.T) {
	c := cpu.New()
	if err := c.Mem.WriteWord(0, cpu.HaltCode); err != nil {
		t.Fatalf("write halt word: %v", err)
	}
	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !c.Halt {
		t.Fatal("expected halt")
	}
	if c.PC != 0 {
		t.Errorf("pc = 0x%x, want 0 (unchanged)", c.PC)
	}
	for i, v := range c.X {
		if v != 0 {
			t.Errorf("x%d = %d, want 0 (unchanged)", i, v)
		}
	}
}

// Invariant 10 — non-branch instructions advance pc by exactly 4.
func TestPCAdvancesByFour(t *testing.T) {
	c := runProgram(t, `
movz x0, #1
movz x1, #2
and x0, x0, x0
`)
	if c.PC != 8 {
		t.Errorf("pc = 0x%x, want 0x8 (halted on the third word without advancing past it)", c.PC)
	}
}

// Invariant 10 — a taken unconditional branch landing on its own address
// must not also be advanced past by the caller's sequential PC step.
func TestTakenBranchToOwnAddressDoesNotAdvance(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble("here:\n  b here\n")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := cpu.New()
	if err := c.Mem.WriteWord(0, res.Words[0]); err != nil {
		t.Fatalf("write word: %v", err)
	}
	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.PC != 0 {
		t.Errorf("pc = 0x%x, want 0 (branch target, not 4)", c.PC)
	}
}

// Invariant 10 — same as above for a taken conditional branch.
func TestTakenConditionalBranchToOwnAddressDoesNotAdvance(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble("here:\n  b.eq here\n")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := cpu.New()
	c.PSTATE.Z = true
	if err := c.Mem.WriteWord(0, res.Words[0]); err != nil {
		t.Fatalf("write word: %v", err)
	}
	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.PC != 0 {
		t.Errorf("pc = 0x%x, want 0 (branch taken to its own address, not 4)", c.PC)
	}
}

// Register-offset SXTX addressing sign-reinterprets the index register but
// never shifts it, even though the decoder reconstructs a nonzero "amount"
// for the wire's shift bit. A naive shift would silently scale every such
// address by 8.
func TestRegisterOffsetSXTXDoesNotShift(t *testing.T) {
	c := runProgram(t, `
  movz x0, #0x100
  movz x1, #0x20
  movz x2, #0xbeef
  str x2, [x0, x1, sxtx #3]
  ldr x3, [x0, x1, sxtx #3]
  and x0, x0, x0
`)
	if c.X[3] != 0xbeef {
		t.Errorf("x3 = 0x%x, want 0xbeef", c.X[3])
	}
	word, err := c.Mem.ReadWord(0x120)
	if err != nil {
		t.Fatalf("read 0x120: %v", err)
	}
	if word != 0xbeef {
		t.Errorf("memory[0x120] = 0x%x, want 0xbeef (address = base + offset, not base + offset<<3)", word)
	}
}
