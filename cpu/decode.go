package cpu

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/bitutil"
	"github.com/Urethramancer/arm64sim/enc"
)

// DecodeError reports a word that cannot be decoded into a structured
// encoding — an unrecognized opcode-field pattern.
type DecodeError struct {
	Word uint32
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at word 0x%08x: %s", e.Word, e.Msg)
}

// Decode converts a raw 32-bit word into its structured encoding.
// Grounded on emulator/decoder/word_decoder.c's dec_word and the whole
// decw_* family; opcode discrimination walks the same bit fields in the
// same order.
func Decode(word uint32) (enc.Instr, error) {
	w := uint64(word)

	switch {
	case word == NopCode:
		return enc.Instr{Kind: enc.KindNop}, nil
	}

	op0 := bitutil.Range(w, 28, 25)

	switch {
	case op0&0b1110 == 0b1000: // DP immediate
		return decodeDpImm(w, word)
	case op0&0b0111 == 0b0101: // DP register
		return decodeDpReg(w, word)
	case op0&0b1110 == 0b1010: // branch
		return decodeBranch(w, word)
	case op0&0b0101 == 0b0100: // load/store
		return decodeLs(w, word)
	default:
		return enc.Instr{}, &DecodeError{Word: word, Msg: fmt.Sprintf("unrecognized op0 field 0b%04b", op0)}
	}
}

func decodeDpImm(w uint64, word uint32) (enc.Instr, error) {
	sf := bitutil.Bit(w, 31) == 1
	op0 := bitutil.Range(w, 25, 23)
	xd := uint32(bitutil.Range(w, 4, 0))

	i := enc.Instr{Kind: enc.KindDpImm, DpImm: enc.DpImm{Sf: sf, Xd: xd}}

	switch op0 {
	case 0b010: // ADD/ADDS/SUB/SUBS immediate
		i.DpImm.Kind = enc.DpAddImm
		i.DpImm.Add = enc.AddImm{
			IsSubtract:   bitutil.Bit(w, 30) == 1,
			SetCondFlags: bitutil.Bit(w, 29) == 1,
			ShiftImm:     bitutil.Bit(w, 22) == 1,
			Imm12:        uint32(bitutil.Range(w, 21, 10)),
			Xn:           uint32(bitutil.Range(w, 9, 5)),
		}
	case 0b101: // MOV family
		i.DpImm.Kind = enc.DpMovImm
		i.DpImm.Mov = enc.Mov{
			Xd:     xd,
			Imm16:  uint32(bitutil.Range(w, 20, 5)),
			OpType: enc.MovType(bitutil.Range(w, 30, 29)),
			Shift:  uint32(bitutil.Range(w, 22, 21)),
		}
	case 0b100:
		return enc.Instr{}, &DecodeError{Word: word, Msg: "logical-immediate DP not implemented"}
	default:
		return enc.Instr{}, &DecodeError{Word: word, Msg: fmt.Sprintf("unrecognized dp-imm op0 0b%03b", op0)}
	}
	return i, nil
}

func decodeDpReg(w uint64, word uint32) (enc.Instr, error) {
	sf := bitutil.Bit(w, 31) == 1
	op1 := bitutil.Bit(w, 28)
	op2 := bitutil.Range(w, 24, 21)

	i := enc.Instr{
		Kind: enc.KindDpReg,
		DpReg: enc.DpReg{
			Sf: sf,
			Xd: uint32(bitutil.Range(w, 4, 0)),
			Xn: uint32(bitutil.Range(w, 9, 5)),
			Xm: uint32(bitutil.Range(w, 20, 16)),
		},
	}

	switch {
	case op1 == 1 && bitutil.Bit(op2, 3) == 1: // multiply
		i.DpReg.Kind = enc.DpMulReg
		i.DpReg.Mul = enc.Mul{
			IsNegate: bitutil.Bit(w, 15) == 1,
			Xa:       uint32(bitutil.Range(w, 14, 10)),
		}
	case op1 == 0 && bitutil.Bit(op2, 3) == 0: // logical register
		i.DpReg.Kind = enc.DpLogReg
		i.DpReg.Log = enc.LogReg{
			Opc:         uint32(bitutil.Range(w, 30, 29)),
			Negate:      bitutil.Bit(w, 21) == 1,
			ShiftType:   uint32(bitutil.Range(w, 23, 22)),
			ShiftAmount: uint32(bitutil.Range(w, 15, 10)),
		}
	case bitutil.Bit(op2, 0) == 0 && bitutil.Bit(op2, 3) == 1: // add/sub register
		i.DpReg.Kind = enc.DpAddReg
		i.DpReg.Add = enc.AddReg{
			IsSubtract:   bitutil.Bit(w, 30) == 1,
			SetCondFlags: bitutil.Bit(w, 29) == 1,
			ShiftType:    uint32(bitutil.Range(w, 23, 22)),
			ShiftAmount:  uint32(bitutil.Range(w, 15, 10)),
		}
	default:
		return enc.Instr{}, &DecodeError{Word: word, Msg: "unrecognized dp-reg op1/op2 pattern"}
	}
	return i, nil
}

func decodeBranch(w uint64, word uint32) (enc.Instr, error) {
	top3 := bitutil.Range(w, 31, 29)
	top2 := bitutil.Range(w, 31, 30)

	i := enc.Instr{Kind: enc.KindBranch}

	switch {
	case top3 == 0b010:
		i.Branch.Kind = enc.BCondKind
		i.Branch.Cond = enc.BCond{
			Cond:  uint32(bitutil.Range(w, 3, 0)),
			Imm19: uint32(bitutil.Range(w, 23, 5)),
		}
	case top2 == 0b00:
		i.Branch.Kind = enc.BImmKind
		i.Branch.Imm = enc.BImm{Imm26: uint32(bitutil.Range(w, 25, 0))}
	case top3 == 0b110:
		i.Branch.Kind = enc.BRegKind
		i.Branch.Reg = enc.BReg{Xn: uint32(bitutil.Range(w, 9, 5))}
	default:
		return enc.Instr{}, &DecodeError{Word: word, Msg: "unrecognized branch shape"}
	}
	return i, nil
}

func decodeLs(w uint64, word uint32) (enc.Instr, error) {
	sf := bitutil.Bit(w, 30) == 1
	op0 := bitutil.Range(w, 29, 28)
	op2 := bitutil.Range(w, 24, 23)
	op3 := bitutil.Bit(w, 21)
	op4 := bitutil.Range(w, 11, 10)

	i := enc.Instr{Kind: enc.KindLs, Ls: enc.Ls{Sf: sf, Xt: uint32(bitutil.Range(w, 4, 0))}}

	switch {
	case op0 == 0b01 && bitutil.Bit(op2, 1) == 0: // literal
		i.Ls.Kind = enc.LdLitKind
		i.Ls.Lit = enc.LdLit{Imm19: int32(bitutil.Range(w, 23, 5))}
	case op0 == 0b11 && op4 == 0b10 && op3 == 1 && bitutil.Bit(op2, 1) == 0: // register offset
		i.Ls.Kind = enc.LsRegKind
		i.Ls.Reg = enc.LsReg{
			IsLdr:    bitutil.Bit(w, 22) == 1,
			Shift:    bitutil.Bit(w, 12) == 1,
			ExtendTp: uint32(bitutil.Range(w, 15, 13)),
			Xn:       uint32(bitutil.Range(w, 9, 5)),
			Rm:       uint32(bitutil.Range(w, 20, 16)),
		}
	case op0 == 0b11 && bitutil.Bit(op2, 1) == 1: // unsigned offset
		i.Ls.Kind = enc.LsImmKind
		i.Ls.Imm = enc.LsImm{
			IsLdr:      bitutil.Bit(w, 22) == 1,
			IsUnsigned: true,
			Imm12:      uint32(bitutil.Range(w, 21, 10)),
			Xn:         uint32(bitutil.Range(w, 9, 5)),
		}
	case op0 == 0b11 && op2 != 0b10 && op3 == 0: // signed pre/post index
		idx := enc.LsImmIdx(bitutil.Range(w, 11, 10))
		i.Ls.Kind = enc.LsImmKind
		i.Ls.Imm = enc.LsImm{
			IsLdr:      bitutil.Bit(w, 22) == 1,
			IsUnsigned: false,
			Imm9:       int32(bitutil.Range(w, 20, 12)),
			Idx:        idx,
			Xn:         uint32(bitutil.Range(w, 9, 5)),
		}
	default:
		return enc.Instr{}, &DecodeError{Word: word, Msg: "unrecognized load/store shape"}
	}
	return i, nil
}
