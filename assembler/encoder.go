package assembler

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
	"github.com/Urethramancer/arm64sim/enc"
)

// EncodeError reports an AST node the encoder cannot place on the wire.
type EncodeError struct {
	Msg string
}

func (e *EncodeError) Error() string { return "encode error: " + e.Msg }

// Encode converts an instruction AST node into its structured encoding —
// the inverse of cpu.DecodeToAST. Grounded on assembler/encoder/encoder.c's
// enc_instr family.
func Encode(instr ast.Instr) (enc.Instr, error) {
	switch instr.Kind {
	case ast.KindNop:
		return enc.Instr{Kind: enc.KindNop}, nil
	case ast.KindDirective:
		return enc.Instr{Kind: enc.KindIntDirective, IntDirective: instr.DirectiveWord}, nil
	case ast.KindDP:
		return encodeDP(instr)
	case ast.KindBranch:
		return encodeBranch(instr)
	case ast.KindLoadStore:
		return encodeLoadStore(instr)
	default:
		return enc.Instr{}, &EncodeError{Msg: fmt.Sprintf("unhandled instruction kind %d", instr.Kind)}
	}
}

// regIndex returns a register's 5-bit wire index. A numbered register
// encodes as its own index; SP, ZR and PC all share wire value 31, and
// which name that means is a property of the instruction context, not the
// bit pattern.
func regIndex(r ast.Reg) uint32 {
	if r.Kind == ast.RegGeneral {
		return uint32(r.Index)
	}
	return 31
}

// maskBits returns the low `bits` bits of v's two's-complement
// representation, matching the raw (unsign-extended) bit patterns the
// word decoder extracts directly from the wire.
func maskBits(v int64, bits uint) (uint32, error) {
	lo := -(int64(1) << (bits - 1))
	hi := (int64(1) << (bits - 1)) - 1
	if v < lo || v > hi {
		return 0, fmt.Errorf("value %d does not fit in a signed %d-bit field", v, bits)
	}
	return uint32(v) & ((1 << bits) - 1), nil
}

func encodeDP(instr ast.Instr) (enc.Instr, error) {
	switch instr.DPOp {
	case ast.OpADD, ast.OpADDS, ast.OpSUB, ast.OpSUBS:
		return encodeAddSub(instr)
	case ast.OpMOVN, ast.OpMOVZ, ast.OpMOVK:
		return encodeMov(instr)
	case ast.OpAND, ast.OpBIC, ast.OpORR, ast.OpORN, ast.OpEOR, ast.OpEON, ast.OpANDS, ast.OpBICS:
		return encodeLogical(instr)
	case ast.OpMADD, ast.OpMSUB:
		return encodeMul(instr)
	default:
		return enc.Instr{}, &EncodeError{Msg: fmt.Sprintf("unhandled DP op %s", instr.DPOp)}
	}
}

func encodeAddSub(instr ast.Instr) (enc.Instr, error) {
	isSub := instr.DPOp == ast.OpSUB || instr.DPOp == ast.OpSUBS
	setFlags := instr.DPOp == ast.OpADDS || instr.DPOp == ast.OpSUBS
	sf := instr.Rd.Extended

	switch instr.Op2.Kind {
	case ast.Op2ImmShift:
		if instr.Op2.Shift.Kind != ast.ShiftLSL || (instr.Op2.Shift.Amount != 0 && instr.Op2.Shift.Amount != 12) {
			return enc.Instr{}, &EncodeError{Msg: "add/sub immediate shift must be lsl #0 or lsl #12"}
		}
		return enc.Instr{
			Kind: enc.KindDpImm,
			DpImm: enc.DpImm{
				Sf: sf, Kind: enc.DpAddImm, Xd: regIndex(instr.Rd),
				Add: enc.AddImm{
					IsSubtract: isSub, SetCondFlags: setFlags,
					ShiftImm: instr.Op2.Shift.Amount == 12,
					Imm12:    instr.Op2.Imm, Xn: regIndex(instr.Rn),
				},
			},
		}, nil
	case ast.Op2RegShift:
		return enc.Instr{
			Kind: enc.KindDpReg,
			DpReg: enc.DpReg{
				Sf: sf, Xd: regIndex(instr.Rd), Xn: regIndex(instr.Rn), Xm: regIndex(instr.Op2.Rm),
				Kind: enc.DpAddReg,
				Add: enc.AddReg{
					IsSubtract: isSub, SetCondFlags: setFlags,
					ShiftType: uint32(instr.Op2.Shift.Kind), ShiftAmount: instr.Op2.Shift.Amount,
				},
			},
		}, nil
	default:
		return enc.Instr{}, &EncodeError{Msg: "add/sub requires an immediate or register operand"}
	}
}

func encodeMov(instr ast.Instr) (enc.Instr, error) {
	if instr.Op2.Kind != ast.Op2ImmShift {
		return enc.Instr{}, &EncodeError{Msg: "movn/movz/movk require an immediate operand"}
	}
	if instr.Op2.Shift.Kind != ast.ShiftLSL || instr.Op2.Shift.Amount%16 != 0 || instr.Op2.Shift.Amount > 48 {
		return enc.Instr{}, &EncodeError{Msg: "movn/movz/movk shift must be lsl #0/16/32/48"}
	}
	var opType enc.MovType
	switch instr.DPOp {
	case ast.OpMOVN:
		opType = enc.MovN
	case ast.OpMOVZ:
		opType = enc.MovZ
	case ast.OpMOVK:
		opType = enc.MovK
	}
	return enc.Instr{
		Kind: enc.KindDpImm,
		DpImm: enc.DpImm{
			Sf: instr.Rd.Extended, Kind: enc.DpMovImm, Xd: regIndex(instr.Rd),
			Mov: enc.Mov{
				Xd: regIndex(instr.Rd), Imm16: instr.Op2.Imm,
				OpType: opType, Shift: instr.Op2.Shift.Amount / 16,
			},
		},
	}, nil
}

func encodeLogical(instr ast.Instr) (enc.Instr, error) {
	if instr.Op2.Kind != ast.Op2RegShift {
		return enc.Instr{}, &EncodeError{Msg: "logical-immediate operands are not supported on this wire"}
	}
	opc := uint32(int(instr.DPOp)-int(ast.OpAND)) >> 1
	negate := (int(instr.DPOp)-int(ast.OpAND))&1 == 1
	return enc.Instr{
		Kind: enc.KindDpReg,
		DpReg: enc.DpReg{
			Sf: instr.Rd.Extended, Xd: regIndex(instr.Rd), Xn: regIndex(instr.Rn), Xm: regIndex(instr.Op2.Rm),
			Kind: enc.DpLogReg,
			Log: enc.LogReg{
				Opc: opc, Negate: negate,
				ShiftType: uint32(instr.Op2.Shift.Kind), ShiftAmount: instr.Op2.Shift.Amount,
			},
		},
	}, nil
}

func encodeMul(instr ast.Instr) (enc.Instr, error) {
	if instr.Op2.Kind != ast.Op2Mul {
		return enc.Instr{}, &EncodeError{Msg: "madd/msub require rd, rn, rm, ra"}
	}
	return enc.Instr{
		Kind: enc.KindDpReg,
		DpReg: enc.DpReg{
			Sf: instr.Rd.Extended, Xd: regIndex(instr.Rd), Xn: regIndex(instr.Rn), Xm: regIndex(instr.Op2.Rm),
			Kind: enc.DpMulReg,
			Mul:  enc.Mul{IsNegate: instr.DPOp == ast.OpMSUB, Xa: regIndex(instr.Op2.Ra)},
		},
	}, nil
}

func encodeBranch(instr ast.Instr) (enc.Instr, error) {
	switch instr.BranchKind {
	case ast.BranchUnconditional:
		off, err := branchOffset(instr.Target, instr.Address, 26)
		if err != nil {
			return enc.Instr{}, err
		}
		return enc.Instr{Kind: enc.KindBranch, Branch: enc.Branch{Kind: enc.BImmKind, Imm: enc.BImm{Imm26: off}}}, nil

	case ast.BranchConditional:
		off, err := branchOffset(instr.Target, instr.Address, 19)
		if err != nil {
			return enc.Instr{}, err
		}
		return enc.Instr{
			Kind:   enc.KindBranch,
			Branch: enc.Branch{Kind: enc.BCondKind, Cond: enc.BCond{Cond: uint32(instr.Cond), Imm19: off}},
		}, nil

	case ast.BranchRegister:
		return enc.Instr{
			Kind:   enc.KindBranch,
			Branch: enc.Branch{Kind: enc.BRegKind, Reg: enc.BReg{Xn: regIndex(instr.BrReg)}},
		}, nil

	default:
		return enc.Instr{}, &EncodeError{Msg: "unhandled branch kind"}
	}
}

// branchOffset computes a PC-relative word-count offset between target and
// addr and returns it as the raw (unsign-extended) bit pattern the wire
// carries in a `bits`-wide field.
func branchOffset(target, addr uint64, bits uint) (uint32, error) {
	delta := int64(target) - int64(addr)
	if delta%4 != 0 {
		return 0, fmt.Errorf("branch target 0x%x is not word-aligned relative to 0x%x", target, addr)
	}
	return maskBits(delta/4, bits)
}

func encodeLoadStore(instr ast.Instr) (enc.Instr, error) {
	isLdr := instr.LSOp == ast.OpLDR
	sf := instr.Rt.Extended

	switch instr.LSArg {
	case ast.LSArgLiteral:
		off, err := branchOffset(instr.LitAddr, instr.Address, 19)
		if err != nil {
			return enc.Instr{}, err
		}
		return enc.Instr{
			Kind: enc.KindLs,
			Ls:   enc.Ls{Sf: sf, Xt: regIndex(instr.Rt), Kind: enc.LdLitKind, Lit: enc.LdLit{Imm19: int32(off)}},
		}, nil

	case ast.LSArgImm:
		xn := regIndex(instr.LSBase)
		if instr.LSIdx == ast.IdxUOffset {
			scale := int64(4)
			if sf {
				scale = 8
			}
			if instr.LSImm < 0 || instr.LSImm%scale != 0 {
				return enc.Instr{}, &EncodeError{Msg: fmt.Sprintf("unsigned offset %d must be a non-negative multiple of %d", instr.LSImm, scale)}
			}
			imm12 := instr.LSImm / scale
			if imm12 > 0xFFF {
				return enc.Instr{}, &EncodeError{Msg: "unsigned offset out of range"}
			}
			return enc.Instr{
				Kind: enc.KindLs,
				Ls: enc.Ls{
					Sf: sf, Xt: regIndex(instr.Rt), Kind: enc.LsImmKind,
					Imm: enc.LsImm{IsLdr: isLdr, IsUnsigned: true, Imm12: uint32(imm12), Xn: xn},
				},
			}, nil
		}
		imm9, err := maskBits(instr.LSImm, 9)
		if err != nil {
			return enc.Instr{}, err
		}
		idx := enc.LsIdxPost
		if instr.LSIdx == ast.IdxPre {
			idx = enc.LsIdxPre
		}
		return enc.Instr{
			Kind: enc.KindLs,
			Ls: enc.Ls{
				Sf: sf, Xt: regIndex(instr.Rt), Kind: enc.LsImmKind,
				Imm: enc.LsImm{IsLdr: isLdr, IsUnsigned: false, Imm9: int32(imm9), Idx: idx, Xn: xn},
			},
		}, nil

	case ast.LSArgReg:
		return enc.Instr{
			Kind: enc.KindLs,
			Ls: enc.Ls{
				Sf: sf, Xt: regIndex(instr.Rt), Kind: enc.LsRegKind,
				Reg: enc.LsReg{
					IsLdr: isLdr, Shift: instr.LSExt.Amount != 0,
					ExtendTp: uint32(instr.LSExt.Kind), Xn: regIndex(instr.LSBase), Rm: regIndex(instr.LSRm),
				},
			},
		}, nil

	default:
		return enc.Instr{}, &EncodeError{Msg: "unhandled load/store operand kind"}
	}
}
