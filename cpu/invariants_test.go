package cpu_test

import (
	"bytes"
	"testing"

	"github.com/Urethramancer/arm64sim/assembler"
	"github.com/Urethramancer/arm64sim/cpu"
)

// Invariant 5 — writes to the zero register are always discarded.
func TestZeroRegisterDiscardsWrites(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble(`
movz x0, #9
adds xzr, x0, x0
and x0, x0, x0
`)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := cpu.New()
	if _, err := cpu.LoadBinary(c.Mem, bytes.NewReader(res.Bytes())); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Emulate(100); err != nil {
		t.Fatalf("emulate: %v", err)
	}
	for i, v := range c.X {
		if i == 0 {
			continue
		}
		if v != 0 {
			t.Errorf("x%d = %d, want 0", i, v)
		}
	}
}

// Invariant 6 — a W32-width write zero-extends into the full 64-bit
// register.
func TestW32WriteZeroExtends(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble(`
movz w0, #1
and x0, x0, x0
`)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := cpu.New()
	c.X[0] = 0xffffffff00000000
	if _, err := cpu.LoadBinary(c.Mem, bytes.NewReader(res.Bytes())); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Emulate(100); err != nil {
		t.Fatalf("emulate: %v", err)
	}
	if c.X[0] != 1 {
		t.Errorf("x0 = 0x%x, want 0x1 (top 32 bits cleared)", c.X[0])
	}
}

// Invariant 3 — memory little-endian round trip.
func TestMemoryWordLittleEndian(t *testing.T) {
	m := cpu.NewMemory()
	if err := m.WriteWord(0x40, 0x11223344); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := m.ReadWord(0x40)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0x11223344 {
		t.Errorf("read back 0x%x, want 0x11223344", got)
	}
}

// Invariant 4 — dword write splits into two little-endian words.
func TestMemoryDwordLittleEndian(t *testing.T) {
	m := cpu.NewMemory()
	d := uint64(0xaabbccdd11223344)
	if err := m.WriteDword(0x80, d); err != nil {
		t.Fatalf("write dword: %v", err)
	}
	lo, err := m.ReadWord(0x80)
	if err != nil {
		t.Fatalf("read lo: %v", err)
	}
	hi, err := m.ReadWord(0x84)
	if err != nil {
		t.Fatalf("read hi: %v", err)
	}
	if lo != 0x11223344 {
		t.Errorf("low word = 0x%x, want 0x11223344", lo)
	}
	if hi != 0xaabbccdd {
		t.Errorf("high word = 0x%x, want 0xaabbccdd", hi)
	}
	got, err := m.ReadDword(0x80)
	if err != nil {
		t.Fatalf("read dword: %v", err)
	}
	if got != d {
		t.Errorf("read back dword 0x%x, want 0x%x", got, d)
	}
}

func TestMemoryOutOfBoundsFaults(t *testing.T) {
	m := cpu.NewMemory()
	_, err := m.ReadWord(cpu.MainSize)
	if err == nil {
		t.Fatal("expected a memory fault past the main block's end")
	}
	if _, ok := err.(*cpu.MemoryFault); !ok {
		t.Errorf("expected *cpu.MemoryFault, got %T", err)
	}
}
