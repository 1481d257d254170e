package enc_test

import (
	"testing"

	"github.com/Urethramancer/arm64sim/enc"
)

func TestDpImmDiscriminant(t *testing.T) {
	i := enc.Instr{
		Kind: enc.KindDpImm,
		DpImm: enc.DpImm{
			Sf:   true,
			Kind: enc.DpAddImm,
			Xd:   1,
			Add:  enc.AddImm{Imm12: 5, Xn: 2},
		},
	}
	if i.DpImm.Add.Imm12 != 5 {
		t.Fatalf("Imm12 = %d, want 5", i.DpImm.Add.Imm12)
	}
}

func TestLsImmIdxValues(t *testing.T) {
	if enc.LsIdxPost != 0b01 || enc.LsIdxPre != 0b11 {
		t.Fatalf("LsImmIdx wire values changed: post=%b pre=%b", enc.LsIdxPost, enc.LsIdxPre)
	}
}
