package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/bitutil"
	"github.com/Urethramancer/arm64sim/enc"
)

// nopWord is the wire encoding for NOP, matching cpu.NopCode.
const nopWord uint32 = 0xd503201f

// WordError reports a structured encoding whose field widths can't be
// reconciled into a wire word.
type WordError struct {
	Msg string
}

func (e *WordError) Error() string { return "word error: " + e.Msg }

// Word packs a structured encoding into its 32-bit wire word — the
// inverse of cpu.Decode. Grounded on assembler/encoder/word_encoder.c and
// spec.md's opcode discrimination table; field positions mirror
// cpu/decode.go exactly.
func Word(i enc.Instr) (uint32, error) {
	switch i.Kind {
	case enc.KindNop:
		return nopWord, nil
	case enc.KindIntDirective:
		return i.IntDirective, nil
	case enc.KindDpImm:
		return wordDpImm(i.DpImm)
	case enc.KindDpReg:
		return wordDpReg(i.DpReg)
	case enc.KindBranch:
		return wordBranch(i.Branch)
	case enc.KindLs:
		return wordLs(i.Ls)
	default:
		return 0, &WordError{Msg: fmt.Sprintf("unhandled enc.Kind %d", i.Kind)}
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func wordDpImm(d enc.DpImm) (uint32, error) {
	var w uint64
	w = bitutil.SetBit(w, 31, boolBit(d.Sf))
	w = bitutil.SetBits(w, 26, 0b100, 3) // bits 28..26
	w = bitutil.SetBits(w, 0, uint64(d.Xd), 5)

	switch d.Kind {
	case enc.DpAddImm:
		w = bitutil.SetBit(w, 30, boolBit(d.Add.IsSubtract))
		w = bitutil.SetBit(w, 29, boolBit(d.Add.SetCondFlags))
		w = bitutil.SetBits(w, 23, 0b010, 3)
		w = bitutil.SetBit(w, 22, boolBit(d.Add.ShiftImm))
		w = bitutil.SetBits(w, 10, uint64(d.Add.Imm12), 12)
		w = bitutil.SetBits(w, 5, uint64(d.Add.Xn), 5)
	case enc.DpMovImm:
		w = bitutil.SetBits(w, 29, uint64(d.Mov.OpType), 2)
		w = bitutil.SetBits(w, 23, 0b101, 3)
		w = bitutil.SetBits(w, 21, uint64(d.Mov.Shift), 2)
		w = bitutil.SetBits(w, 5, uint64(d.Mov.Imm16), 16)
	default:
		return 0, &WordError{Msg: "unhandled DpImmKind"}
	}
	return uint32(w), nil
}

func wordDpReg(d enc.DpReg) (uint32, error) {
	var w uint64
	w = bitutil.SetBit(w, 31, boolBit(d.Sf))
	w = bitutil.SetBits(w, 25, 0b101, 3) // bits 27..25
	w = bitutil.SetBits(w, 16, uint64(d.Xm), 5)
	w = bitutil.SetBits(w, 5, uint64(d.Xn), 5)
	w = bitutil.SetBits(w, 0, uint64(d.Xd), 5)

	switch d.Kind {
	case enc.DpAddReg:
		w = bitutil.SetBit(w, 30, boolBit(d.Add.IsSubtract))
		w = bitutil.SetBit(w, 29, boolBit(d.Add.SetCondFlags))
		w = bitutil.SetBit(w, 28, 0)
		w = bitutil.SetBit(w, 24, 1)
		w = bitutil.SetBits(w, 22, uint64(d.Add.ShiftType), 2)
		w = bitutil.SetBit(w, 21, 0)
		w = bitutil.SetBits(w, 10, uint64(d.Add.ShiftAmount), 6)
	case enc.DpLogReg:
		w = bitutil.SetBits(w, 29, uint64(d.Log.Opc), 2)
		w = bitutil.SetBit(w, 28, 0)
		w = bitutil.SetBit(w, 24, 0)
		w = bitutil.SetBits(w, 22, uint64(d.Log.ShiftType), 2)
		w = bitutil.SetBit(w, 21, boolBit(d.Log.Negate))
		w = bitutil.SetBits(w, 10, uint64(d.Log.ShiftAmount), 6)
	case enc.DpMulReg:
		w = bitutil.SetBit(w, 28, 1)
		w = bitutil.SetBit(w, 24, 1)
		w = bitutil.SetBit(w, 15, boolBit(d.Mul.IsNegate))
		w = bitutil.SetBits(w, 10, uint64(d.Mul.Xa), 5)
	default:
		return 0, &WordError{Msg: "unhandled DpRegKind"}
	}
	return uint32(w), nil
}

func wordBranch(b enc.Branch) (uint32, error) {
	var w uint64
	switch b.Kind {
	case enc.BCondKind:
		w = bitutil.SetBits(w, 26, 0b010101, 6) // bits 31..26
		w = bitutil.SetBits(w, 5, uint64(b.Cond.Imm19), 19)
		w = bitutil.SetBits(w, 0, uint64(b.Cond.Cond), 4)
	case enc.BImmKind:
		w = bitutil.SetBits(w, 26, 0b000101, 6) // bits 31..26
		w = bitutil.SetBits(w, 0, uint64(b.Imm.Imm26), 26)
	case enc.BRegKind:
		w = bitutil.SetBits(w, 25, 0b1101011, 7) // bits 31..25
		w = bitutil.SetBits(w, 16, 0b11111, 5)
		w = bitutil.SetBits(w, 5, uint64(b.Reg.Xn), 5)
	default:
		return 0, &WordError{Msg: "unhandled BranchKind"}
	}
	return uint32(w), nil
}

func wordLs(l enc.Ls) (uint32, error) {
	var w uint64
	w = bitutil.SetBit(w, 30, boolBit(l.Sf))
	w = bitutil.SetBits(w, 0, uint64(l.Xt), 5)
	w = bitutil.SetBit(w, 27, 1)

	switch l.Kind {
	case enc.LdLitKind:
		w = bitutil.SetBit(w, 28, 1) // bit31 stays 0; bits28..27 = 0b11
		w = bitutil.SetBits(w, 5, uint64(uint32(l.Lit.Imm19)), 19)
		return uint32(w), nil

	case enc.LsRegKind:
		w = bitutil.SetBit(w, 31, 1)
		w = bitutil.SetBit(w, 29, 1)
		w = bitutil.SetBit(w, 28, 1)
		w = bitutil.SetBit(w, 22, boolBit(l.Reg.IsLdr))
		w = bitutil.SetBit(w, 21, 1)
		w = bitutil.SetBits(w, 16, uint64(l.Reg.Rm), 5)
		w = bitutil.SetBits(w, 13, uint64(l.Reg.ExtendTp), 3)
		w = bitutil.SetBit(w, 12, boolBit(l.Reg.Shift))
		w = bitutil.SetBits(w, 10, 0b10, 2)
		w = bitutil.SetBits(w, 5, uint64(l.Reg.Xn), 5)
		return uint32(w), nil

	case enc.LsImmKind:
		w = bitutil.SetBit(w, 31, 1)
		w = bitutil.SetBit(w, 29, 1)
		w = bitutil.SetBit(w, 28, 1)
		w = bitutil.SetBit(w, 22, boolBit(l.Imm.IsLdr))
		w = bitutil.SetBits(w, 5, uint64(l.Imm.Xn), 5)
		if l.Imm.IsUnsigned {
			w = bitutil.SetBit(w, 24, 1)
			w = bitutil.SetBits(w, 10, uint64(l.Imm.Imm12), 12)
		} else {
			idx := uint64(0b01)
			if l.Imm.Idx == enc.LsIdxPre {
				idx = 0b11
			}
			w = bitutil.SetBits(w, 10, idx, 2)
			w = bitutil.SetBits(w, 12, uint64(uint32(l.Imm.Imm9)), 9)
		}
		return uint32(w), nil

	default:
		return 0, &WordError{Msg: "unhandled LsKind"}
	}
}
