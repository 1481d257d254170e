package cpu_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Urethramancer/arm64sim/cpu"
)

// Dump's register-file section is exactly X00..X30 followed by PC then
// PSTATE — no extra SP line, per spec.md's documented dump contract.
func TestDumpRegisterSectionHasNoExtraSPLine(t *testing.T) {
	c := cpu.New()
	var buf bytes.Buffer
	if err := c.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 33 {
		t.Fatalf("expected at least 33 lines (31 registers + PC + PSTATE), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "X00") || !strings.HasPrefix(lines[30], "X30") {
		t.Fatalf("expected lines[0..30] to be X00..X30, got %q .. %q", lines[0], lines[30])
	}
	if !strings.HasPrefix(lines[31], "PC") {
		t.Errorf("line 31 = %q, want it to start with PC (no SP line between registers and PC)", lines[31])
	}
	if !strings.HasPrefix(lines[32], "PSTATE") {
		t.Errorf("line 32 = %q, want it to start with PSTATE", lines[32])
	}
}
