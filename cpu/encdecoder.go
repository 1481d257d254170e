package cpu

import (
	"fmt"

	"github.com/Urethramancer/arm64sim/ast"
	"github.com/Urethramancer/arm64sim/bitutil"
	"github.com/Urethramancer/arm64sim/enc"
)

// EncodingDecodeError reports a structured encoding this repo's AST cannot
// represent — a combination the assembler never emits but the wire format
// could in principle carry.
type EncodingDecodeError struct {
	Msg string
}

func (e *EncodingDecodeError) Error() string { return "encoding decode error: " + e.Msg }

// regSP resolves a 5-bit register field in a context where index 31 names
// the stack pointer (immediate add/sub, load/store base). Grounded on
// emulator/decoder/enc_decoder.c's dec_reg_sp.
func regSP(idx uint32, extended bool) ast.Reg {
	if idx == 31 {
		return ast.SPReg(extended)
	}
	return ast.Gen(uint8(idx), extended)
}

// regZR resolves a 5-bit register field in a context where index 31 names
// the zero register (register-form DP, branch-register target, load/store
// transfer register). Grounded on emulator/decoder/enc_decoder.c's
// dec_reg_zr.
func regZR(idx uint32, extended bool) ast.Reg {
	if idx == 31 {
		return ast.RZR(extended)
	}
	return ast.Gen(uint8(idx), extended)
}

// DecodeToAST converts a structured encoding into an instruction AST node.
// addr is the instruction's own address, needed to resolve PC-relative
// branch and literal targets into absolute addresses. Grounded on
// emulator/decoder/enc_decoder.c's dec_instr and the dec_* family.
func DecodeToAST(e enc.Instr, addr uint64) (ast.Instr, error) {
	instr := ast.Instr{Address: addr}

	switch e.Kind {
	case enc.KindNop:
		instr.Kind = ast.KindNop
		return instr, nil

	case enc.KindIntDirective:
		instr.Kind = ast.KindDirective
		instr.DirectiveWord = e.IntDirective
		return instr, nil

	case enc.KindDpImm:
		return decodeDpImmAST(e.DpImm, addr)

	case enc.KindDpReg:
		return decodeDpRegAST(e.DpReg, addr)

	case enc.KindBranch:
		return decodeBranchAST(e.Branch, addr)

	case enc.KindLs:
		return decodeLsAST(e.Ls, addr)

	default:
		return instr, &EncodingDecodeError{Msg: fmt.Sprintf("unhandled enc.Kind %d", e.Kind)}
	}
}

func decodeDpImmAST(d enc.DpImm, addr uint64) (ast.Instr, error) {
	instr := ast.Instr{Address: addr, Kind: ast.KindDP}

	switch d.Kind {
	case enc.DpAddImm:
		if d.Add.IsSubtract {
			if d.Add.SetCondFlags {
				instr.DPOp = ast.OpSUBS
			} else {
				instr.DPOp = ast.OpSUB
			}
		} else {
			if d.Add.SetCondFlags {
				instr.DPOp = ast.OpADDS
			} else {
				instr.DPOp = ast.OpADD
			}
		}
		instr.Rd = regSP(d.Xd, d.Sf)
		instr.Rn = regSP(d.Add.Xn, d.Sf)
		imm := d.Add.Imm12
		amount := uint32(0)
		if d.Add.ShiftImm {
			amount = 12
		}
		instr.Op2 = ast.Op2{Kind: ast.Op2ImmShift, Imm: imm, Shift: ast.Shift{Kind: ast.ShiftLSL, Amount: amount}}
		return instr, nil

	case enc.DpMovImm:
		switch d.Mov.OpType {
		case enc.MovN:
			instr.DPOp = ast.OpMOVN
		case enc.MovZ:
			instr.DPOp = ast.OpMOVZ
		case enc.MovK:
			instr.DPOp = ast.OpMOVK
		default:
			return instr, &EncodingDecodeError{Msg: fmt.Sprintf("unrecognized mov op type %d", d.Mov.OpType)}
		}
		instr.Rd = regZR(d.Mov.Xd, d.Sf)
		instr.Op2 = ast.Op2{
			Kind:  ast.Op2ImmShift,
			Imm:   d.Mov.Imm16,
			Shift: ast.Shift{Kind: ast.ShiftLSL, Amount: d.Mov.Shift * 16},
		}
		return instr, nil

	default:
		return instr, &EncodingDecodeError{Msg: fmt.Sprintf("unrecognized DpImmKind %d", d.Kind)}
	}
}

func decodeDpRegAST(d enc.DpReg, addr uint64) (ast.Instr, error) {
	instr := ast.Instr{Address: addr, Kind: ast.KindDP}
	instr.Rd = regZR(d.Xd, d.Sf)
	instr.Rn = regZR(d.Xn, d.Sf)
	rm := regZR(d.Xm, d.Sf)

	switch d.Kind {
	case enc.DpAddReg:
		if d.Add.IsSubtract {
			if d.Add.SetCondFlags {
				instr.DPOp = ast.OpSUBS
			} else {
				instr.DPOp = ast.OpSUB
			}
		} else {
			if d.Add.SetCondFlags {
				instr.DPOp = ast.OpADDS
			} else {
				instr.DPOp = ast.OpADD
			}
		}
		instr.Op2 = ast.Op2{
			Kind:  ast.Op2RegShift,
			Rm:    rm,
			Shift: ast.Shift{Kind: ast.ShiftKind(d.Add.ShiftType), Amount: d.Add.ShiftAmount},
		}
		return instr, nil

	case enc.DpLogReg:
		// opc/negate distance from AND mirrors the parser/encoder's own
		// (op-AND)>>1/(op-AND)&1 scheme run in reverse.
		instr.DPOp = ast.DPOp(int(ast.OpAND) + int(d.Log.Opc)*2)
		if d.Log.Negate {
			instr.DPOp++
		}
		instr.Op2 = ast.Op2{
			Kind:  ast.Op2RegShift,
			Rm:    rm,
			Shift: ast.Shift{Kind: ast.ShiftKind(d.Log.ShiftType), Amount: d.Log.ShiftAmount},
		}
		return instr, nil

	case enc.DpMulReg:
		if d.Mul.IsNegate {
			instr.DPOp = ast.OpMSUB
		} else {
			instr.DPOp = ast.OpMADD
		}
		instr.Op2 = ast.Op2{Kind: ast.Op2Mul, Rm: rm, Ra: regZR(d.Mul.Xa, d.Sf)}
		return instr, nil

	default:
		return instr, &EncodingDecodeError{Msg: fmt.Sprintf("unrecognized DpRegKind %d", d.Kind)}
	}
}

func decodeBranchAST(b enc.Branch, addr uint64) (ast.Instr, error) {
	instr := ast.Instr{Address: addr, Kind: ast.KindBranch}

	switch b.Kind {
	case enc.BImmKind:
		instr.BranchKind = ast.BranchUnconditional
		off := int64(bitutil.SignExtend(uint64(b.Imm.Imm26), 26, 64)) * 4
		instr.Target = uint64(int64(addr) + off)
		return instr, nil

	case enc.BCondKind:
		instr.BranchKind = ast.BranchConditional
		instr.Cond = ast.Cond(b.Cond.Cond)
		off := int64(bitutil.SignExtend(uint64(b.Cond.Imm19), 19, 64)) * 4
		instr.Target = uint64(int64(addr) + off)
		return instr, nil

	case enc.BRegKind:
		instr.BranchKind = ast.BranchRegister
		instr.BrReg = regZR(b.Reg.Xn, true)
		return instr, nil

	default:
		return instr, &EncodingDecodeError{Msg: fmt.Sprintf("unrecognized BranchKind %d", b.Kind)}
	}
}

func decodeLsAST(l enc.Ls, addr uint64) (ast.Instr, error) {
	instr := ast.Instr{Address: addr, Kind: ast.KindLoadStore}
	instr.Rt = regZR(l.Xt, l.Sf)

	switch l.Kind {
	case enc.LdLitKind:
		instr.LSOp = ast.OpLDR
		instr.LSArg = ast.LSArgLiteral
		off := int64(bitutil.SignExtend(uint64(l.Lit.Imm19), 19, 64)) * 4
		instr.LitAddr = uint64(int64(addr) + off)
		return instr, nil

	case enc.LsImmKind:
		if l.Imm.IsLdr {
			instr.LSOp = ast.OpLDR
		} else {
			instr.LSOp = ast.OpSTR
		}
		instr.LSArg = ast.LSArgImm
		instr.LSBase = regSP(l.Imm.Xn, true)
		if l.Imm.IsUnsigned {
			instr.LSIdx = ast.IdxUOffset
			scale := uint32(8)
			if !l.Sf {
				scale = 4
			}
			instr.LSImm = int64(l.Imm.Imm12 * scale)
		} else {
			if l.Imm.Idx == enc.LsIdxPre {
				instr.LSIdx = ast.IdxPre
			} else {
				instr.LSIdx = ast.IdxPost
			}
			instr.LSImm = int64(bitutil.SignExtend(uint64(uint32(l.Imm.Imm9)&0x1FF), 9, 64))
		}
		return instr, nil

	case enc.LsRegKind:
		if l.Reg.IsLdr {
			instr.LSOp = ast.OpLDR
		} else {
			instr.LSOp = ast.OpSTR
		}
		instr.LSArg = ast.LSArgReg
		instr.LSBase = regSP(l.Reg.Xn, true)
		instr.LSRm = regZR(l.Reg.Rm, true)
		amount := uint32(0)
		if l.Reg.Shift {
			amount = 3
		}
		instr.LSExt = ast.Extend{Kind: ast.ExtendKind(l.Reg.ExtendTp), Amount: amount}
		return instr, nil

	default:
		return instr, &EncodingDecodeError{Msg: fmt.Sprintf("unrecognized LsKind %d", l.Kind)}
	}
}
