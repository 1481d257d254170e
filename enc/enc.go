// Package enc defines the structured encoding: a typed intermediate form
// that mirrors the 32-bit wire layout field-for-field, sitting between the
// instruction AST and the raw machine word. Grounded on
// common/encoded_instrs.h; C bit-fields become plain Go fields with their
// intended width documented, since packing/unpacking lives in the worder
// and word decoder, not here.
package enc

// DpImmKind discriminates the two E_DP_IMM sub-shapes.
type DpImmKind int

const (
	DpAddImm DpImmKind = iota
	DpMovImm
)

// AddImm mirrors enc_add_imm: a 12-bit immediate DP-add/sub.
type AddImm struct {
	IsSubtract    bool
	SetCondFlags  bool
	ShiftImm      bool // true => imm12 is shifted left by 12
	Imm12         uint32
	Xn            uint32 // 5 bits
}

// MovType mirrors enc_mov_type.
type MovType int

const (
	MovN MovType = 0b00
	MovZ MovType = 0b10
	MovK MovType = 0b11
)

// Mov mirrors enc_mov.
type Mov struct {
	Xd     uint32 // 5 bits
	Imm16  uint32
	OpType MovType
	Shift  uint32 // 2 bits, lane index (amount = shift*16)
}

// DpImm mirrors enc_dp_imm: sf + one of AddImm/Mov, discriminated by Kind.
type DpImm struct {
	Sf   bool // true = 64-bit (X), false = 32-bit (W)
	Kind DpImmKind
	Xd   uint32
	Add  AddImm
	Mov  Mov
}

// DpRegKind discriminates the three E_DP_REG sub-shapes.
type DpRegKind int

const (
	DpAddReg DpRegKind = iota
	DpLogReg
	DpMulReg
)

// AddReg mirrors enc_add_reg.
type AddReg struct {
	IsSubtract   bool
	SetCondFlags bool
	ShiftType    uint32 // 2 bits
	ShiftAmount  uint32 // 6 bits
}

// LogReg mirrors enc_log_reg.
type LogReg struct {
	Opc         uint32 // 2 bits
	Negate      bool
	ShiftType   uint32 // 2 bits
	ShiftAmount uint32 // 6 bits
}

// Mul mirrors enc_mul.
type Mul struct {
	IsNegate bool
	Xa       uint32 // 5 bits
}

// DpReg mirrors enc_dp_reg: sf + xd + xn + xm + one of AddReg/LogReg/Mul.
type DpReg struct {
	Sf   bool
	Xd   uint32
	Xn   uint32
	Xm   uint32
	Kind DpRegKind
	Add  AddReg
	Log  LogReg
	Mul  Mul
}

// BImm mirrors enc_b_imm: a 26-bit unconditional branch offset.
type BImm struct {
	Imm26 uint32
}

// BCond mirrors enc_b_cond.
type BCond struct {
	Cond  uint32 // 4 bits
	Imm19 uint32 // signed, 19 bits
}

// BReg mirrors enc_b_reg.
type BReg struct {
	Xn uint32 // 5 bits
}

// BranchKind discriminates the three E_B_* sub-shapes.
type BranchKind int

const (
	BImmKind BranchKind = iota
	BCondKind
	BRegKind
)

// Branch mirrors enc_branch.
type Branch struct {
	Kind BranchKind
	Imm  BImm
	Cond BCond
	Reg  BReg
}

// LsImmIdx mirrors enc_ls_imm_idx.
type LsImmIdx int

const (
	LsIdxPost LsImmIdx = 0b01
	LsIdxPre  LsImmIdx = 0b11
)

// LsImm mirrors enc_ls_imm: either an unsigned scaled 12-bit offset, or a
// signed 9-bit offset plus a pre/post index discriminant.
type LsImm struct {
	IsLdr     bool
	IsUnsigned bool
	Imm12     uint32 // valid when IsUnsigned
	Imm9      int32  // valid when !IsUnsigned, signed
	Idx       LsImmIdx
	Xn        uint32 // 5 bits
}

// LsReg mirrors enc_ls_reg.
type LsReg struct {
	IsLdr    bool
	Shift    bool // true => extend.amount is nonzero (3), matching the decode quirk
	ExtendTp uint32 // 3 bits
	Xn       uint32 // 5 bits
	Rm       uint32 // 5 bits
}

// LdLit mirrors enc_ld_lit: a signed 19-bit PC-relative literal offset.
type LdLit struct {
	Imm19 int32
}

// LsKind discriminates the three E_LS_* sub-shapes.
type LsKind int

const (
	LsImmKind LsKind = iota
	LsRegKind
	LdLitKind
)

// Ls mirrors enc_ls: sf + xt + one of LsImm/LsReg/LdLit.
type Ls struct {
	Sf   bool
	Xt   uint32 // 5 bits
	Kind LsKind
	Imm  LsImm
	Reg  LsReg
	Lit  LdLit
}

// Kind discriminates the top-level enc_type union.
type Kind int

const (
	KindDpImm Kind = iota
	KindDpReg
	KindBranch
	KindLs
	KindIntDirective
	KindNop
)

// Instr mirrors enc_instr: the top-level structured encoding, one per
// instruction, discriminated by Kind.
type Instr struct {
	Kind          Kind
	DpImm         DpImm
	DpReg         DpReg
	Branch        Branch
	Ls            Ls
	IntDirective  uint32
}
