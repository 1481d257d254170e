// Package ast defines the instruction abstract syntax tree shared by the
// assembler's parser/encoder and the emulator's decoder/executor.
package ast

// Reg is a register reference: an index plus a width flag.
// Index 31 is never stored here directly; RZR/SP/PC are named via Kind.
type Reg struct {
	Index    uint8 // 0..30 for general-purpose registers
	Kind     RegKind
	Extended bool // true = X (64-bit), false = W (32-bit)
}

// RegKind distinguishes a plain numbered register from the special names
// that share register index 31 on the wire in different instruction
// contexts.
type RegKind int

const (
	RegGeneral RegKind = iota
	RegZero            // RZR / WZR — reads as 0, writes discarded
	RegSP              // SP / WSP — used in load/store base-register position
	RegPC              // PC — read-only, used in branch/literal targets
)

// DPOp enumerates data-processing operations. Order matters: the encoder
// derives the logical family's opc/negate bits from each op's arithmetic
// distance from AND (opc = (op-AND)>>1, negate = (op-AND)&1), mirroring
// common/ast.h's dp_op enum order exactly. Do not reorder.
type DPOp int

const (
	OpADD DPOp = iota
	OpADDS
	OpSUB
	OpSUBS
	OpAND
	OpBIC
	OpORR
	OpORN
	OpEOR
	OpEON
	OpANDS
	OpBICS
	OpMOVN
	OpMOVZ
	OpMOVK
	OpMADD
	OpMSUB
)

var dpOpNames = map[DPOp]string{
	OpADD: "add", OpADDS: "adds", OpSUB: "sub", OpSUBS: "subs",
	OpAND: "and", OpBIC: "bic", OpORR: "orr", OpORN: "orn",
	OpEOR: "eor", OpEON: "eon", OpANDS: "ands", OpBICS: "bics",
	OpMOVN: "movn", OpMOVZ: "movz", OpMOVK: "movk",
	OpMADD: "madd", OpMSUB: "msub",
}

func (op DPOp) String() string { return dpOpNames[op] }

// ShiftKind enumerates the shift forms usable as an immediate/register op2.
type ShiftKind int

const (
	ShiftLSL ShiftKind = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

var shiftNames = map[ShiftKind]string{
	ShiftLSL: "lsl", ShiftLSR: "lsr", ShiftASR: "asr", ShiftROR: "ror",
}

func (s ShiftKind) String() string { return shiftNames[s] }

// Shift is a shift kind plus amount, attached to an op2 operand.
type Shift struct {
	Kind   ShiftKind
	Amount uint32
}

// ExtendKind enumerates the register-offset extend forms for load/store.
type ExtendKind int

const (
	ExtendLSL  ExtendKind = 0b011
	ExtendSXTX ExtendKind = 0b111
)

// Extend is an extend kind plus amount, attached to a register-offset
// load/store address.
type Extend struct {
	Kind   ExtendKind
	Amount uint32
}

// Op2Kind discriminates the three shapes a DP instruction's second operand
// can take.
type Op2Kind int

const (
	Op2ImmShift Op2Kind = iota
	Op2RegShift
	Op2Mul
)

// Op2 is the DP instruction's second operand: an immediate+shift, a
// register+shift, or a multiply-accumulate register pair.
type Op2 struct {
	Kind Op2Kind

	// Op2ImmShift
	Imm   uint32
	Shift Shift

	// Op2RegShift
	Rm Reg

	// Op2Mul
	Ra Reg
}

// Cond enumerates the branch condition codes this subset implements. The
// hex values are part of the wire contract, matching common/ast.h's cond_e.
type Cond int

const (
	CondEQ Cond = 0x0
	CondNE Cond = 0x1
	CondGE Cond = 0xa
	CondLT Cond = 0xb
	CondGT Cond = 0xc
	CondLE Cond = 0xd
	CondAL Cond = 0xe
)

var condNames = map[Cond]string{
	CondEQ: "eq", CondNE: "ne", CondGE: "ge", CondLT: "lt", CondGT: "gt", CondLE: "le", CondAL: "al",
}

func (c Cond) String() string { return condNames[c] }

// BranchKind discriminates the three branch instruction shapes.
type BranchKind int

const (
	BranchUnconditional BranchKind = iota
	BranchConditional
	BranchRegister
)

// LSOp discriminates load vs. store.
type LSOp int

const (
	OpLDR LSOp = iota
	OpSTR
)

func (o LSOp) String() string {
	if o == OpLDR {
		return "ldr"
	}
	return "str"
}

// LSIdx discriminates the three immediate-offset addressing forms.
type LSIdx int

const (
	IdxPre LSIdx = iota
	IdxPost
	IdxUOffset
)

// LSArgKind discriminates the three load/store operand shapes.
type LSArgKind int

const (
	LSArgImm LSArgKind = iota
	LSArgReg
	LSArgLiteral
)

// Kind discriminates the five top-level instruction variants.
type Kind int

const (
	KindDP Kind = iota
	KindBranch
	KindLoadStore
	KindDirective
	KindNop
)

// Instr is one instruction: an address plus exactly one populated variant,
// selected by Kind. This mirrors the teacher's own Node{Type NodeType; ...}
// shape rather than a Go interface-based sum type.
type Instr struct {
	Address uint64
	Kind    Kind

	// KindDP
	DPOp DPOp
	Rd   Reg
	Rn   Reg
	Op2  Op2

	// KindBranch
	BranchKind BranchKind
	Cond       Cond
	Target     uint64
	Label      string
	BrReg      Reg // branch register target (BranchRegister)

	// KindLoadStore
	LSOp    LSOp
	Rt      Reg
	LSArg   LSArgKind
	LSBase  Reg   // Imm/Reg forms: base register
	LSIdx   LSIdx // Imm form only
	LSImm   int64 // Imm form: signed byte offset
	LSRm    Reg   // Reg form: offset register
	LSExt   Extend
	LitAddr uint64 // Literal form: absolute target address

	// KindDirective
	DirectiveWord uint32

	// KindNop has no payload.
}

// RZR, SP and PC helpers construct the special register references.
func RZR(extended bool) Reg  { return Reg{Kind: RegZero, Extended: extended} }
func SPReg(extended bool) Reg { return Reg{Kind: RegSP, Extended: extended} }
func PCReg() Reg             { return Reg{Kind: RegPC, Extended: true} }

// Gen constructs a plain numbered general-purpose register reference.
func Gen(index uint8, extended bool) Reg {
	return Reg{Index: index, Kind: RegGeneral, Extended: extended}
}

// IsZero reports whether r names the zero register.
func (r Reg) IsZero() bool { return r.Kind == RegZero }
