package assembler_test

import (
	"testing"

	"github.com/Urethramancer/arm64sim/assembler"
	"github.com/Urethramancer/arm64sim/ast"
	"github.com/Urethramancer/arm64sim/cpu"
	"github.com/Urethramancer/arm64sim/enc"
)

// assembleOne assembles src and returns the single resulting word, failing
// the test if assembly produced anything other than one instruction.
func assembleOne(t *testing.T, src string) uint32 {
	t.Helper()
	asm := assembler.New()
	res, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("assemble %q: %v", src, err)
	}
	if len(res.Words) != 1 {
		t.Fatalf("assemble %q: expected 1 word, got %d", src, len(res.Words))
	}
	return res.Words[0]
}

func TestMovzEncoding(t *testing.T) {
	// movz x0, #5: sf=1, op=movz(10), dp-imm 101 class, shift=0, imm16=5.
	word := assembleOne(t, "movz x0, #5")
	want := uint32(0xd2800000 | 5<<5)
	if word != want {
		t.Errorf("movz x0, #5 = 0x%08x, want 0x%08x", word, want)
	}
}

func TestAndSelfEncodesToHaltWord(t *testing.T) {
	// and x0, x0, x0 must assemble to exactly the halt sentinel — the
	// emulator's halt detection relies on this coincidence, not on the
	// AND mnemonic itself.
	word := assembleOne(t, "and x0, x0, x0")
	if word != cpu.HaltCode {
		t.Errorf("and x0, x0, x0 = 0x%08x, want halt sentinel 0x%08x", word, cpu.HaltCode)
	}
}

func TestWireRoundTrip(t *testing.T) {
	// Invariant 1 (spec §8): decode_enc(decode_word(word(encode(i)))) at
	// the same address reproduces the same instruction, modulo label
	// reconstruction.
	srcs := []string{
		"movz x0, #0x1234",
		"movk x0, #0xabcd, lsl #16",
		"adds x2, x0, x1",
		"subs x3, x0, #7",
		"orr x1, xzr, x0, ror #1",
		"madd x4, x1, x2, x3",
		"str x1, [x0, #8]!",
		"ldr x2, [x0], #4",
		"ldr x2, [x0, x1, lsl #3]",
	}
	for _, src := range srcs {
		asm := assembler.New()
		res, err := asm.Assemble(src)
		if err != nil {
			t.Fatalf("assemble %q: %v", src, err)
		}
		word := res.Words[0]
		want := res.Instrs[0]

		e, err := cpu.Decode(word)
		if err != nil {
			t.Fatalf("decode %q (0x%08x): %v", src, word, err)
		}
		got, err := cpu.DecodeToAST(e, want.Address)
		if err != nil {
			t.Fatalf("decode to ast %q (0x%08x): %v", src, word, err)
		}

		got.Label = ""
		want.Label = ""
		if got != want {
			t.Errorf("round trip %q:\n got  %#v\n want %#v", src, got, want)
		}
	}
}

func TestBranchOffsetRoundTrip(t *testing.T) {
	src := "  movz x0, #3\nloop:\n  subs x0, x0, #1\n  b.ne loop\n"
	asm := assembler.New()
	res, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// b.ne loop is the third instruction, targeting the second (address
	// 4), at its own address 8: offset should be -1 word, raw bit
	// pattern 0x7ffff in a 19-bit field.
	branchWord := res.Words[2]
	e, err := cpu.Decode(branchWord)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Branch.Kind != enc.BCondKind {
		t.Fatalf("expected conditional branch kind, got %v", e.Branch.Kind)
	}
	if e.Branch.Cond.Imm19 != 0x7ffff {
		t.Errorf("imm19 = 0x%x, want 0x7ffff (-1 as a 19-bit raw pattern)", e.Branch.Cond.Imm19)
	}
}

func TestStrRejectsLiteralAddressing(t *testing.T) {
	asm := assembler.New()
	_, err := asm.Assemble("str x0, somewhere\nsomewhere:\n.int 0\n")
	if err == nil {
		t.Fatal("expected an error for str with literal addressing")
	}
}

func TestUnknownMnemonic(t *testing.T) {
	asm := assembler.New()
	_, err := asm.Assemble("frobnicate x0, x1")
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
	var perr *assembler.ParseError
	if _, ok := err.(*assembler.ParseError); !ok {
		t.Errorf("expected *assembler.ParseError, got %T (%v)", err, perr)
	}
}

func TestRegisterOutOfRange(t *testing.T) {
	asm := assembler.New()
	_, err := asm.Assemble("movz x31, #1")
	if err == nil {
		t.Fatal("expected an error for register index 31 (use xzr/sp instead)")
	}
}

func TestIntDirectiveIsNotExecutable(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble(".int 0xdeadbeef")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if res.Instrs[0].Kind != ast.KindDirective {
		t.Fatalf("expected a directive node, got kind %v", res.Instrs[0].Kind)
	}
	if res.Words[0] != 0xdeadbeef {
		t.Errorf("word = 0x%08x, want 0xdeadbeef", res.Words[0])
	}
}
