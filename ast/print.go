package ast

import (
	"fmt"
	"strings"
)

// String pretty-prints an instruction in assembly syntax. Grounded on
// common/ast.c's show_instr/__catstr_instr_* family; format strings are
// carried over exactly (branch target formatting, load/store bracket
// forms, the shift-suffix-only-when-non-default rule).
func (i Instr) String() string {
	switch i.Kind {
	case KindDP:
		return i.dpString()
	case KindBranch:
		return i.branchString()
	case KindLoadStore:
		return i.lsString()
	case KindDirective:
		return fmt.Sprintf(".word 0x%x", i.DirectiveWord)
	case KindNop:
		return "nop"
	default:
		return "<invalid instruction>"
	}
}

func (i Instr) dpString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", i.DPOp, i.Rd)

	isMovFamily := i.DPOp == OpMOVN || i.DPOp == OpMOVZ || i.DPOp == OpMOVK
	if !isMovFamily {
		fmt.Fprintf(&b, ", %s", i.Rn)
	}

	b.WriteString(", ")
	b.WriteString(op2String(i.Op2))
	return b.String()
}

func op2String(op2 Op2) string {
	switch op2.Kind {
	case Op2ImmShift:
		s := fmt.Sprintf("#0x%x", op2.Imm)
		if op2.Shift.Kind != ShiftLSL || op2.Shift.Amount != 0 {
			s += fmt.Sprintf(", %s #%d", op2.Shift.Kind, op2.Shift.Amount)
		}
		return s
	case Op2RegShift:
		s := op2.Rm.String()
		if op2.Shift.Kind != ShiftLSL || op2.Shift.Amount != 0 {
			s += fmt.Sprintf(", %s #%d", op2.Shift.Kind, op2.Shift.Amount)
		}
		return s
	case Op2Mul:
		return fmt.Sprintf("%s, %s", op2.Rm, op2.Ra)
	default:
		return "<invalid op2>"
	}
}

func (i Instr) branchString() string {
	switch i.BranchKind {
	case BranchUnconditional:
		if i.Label != "" {
			return fmt.Sprintf("b %x <%s>", i.Target, i.Label)
		}
		return fmt.Sprintf("b %x", i.Target)
	case BranchConditional:
		if i.Label != "" {
			return fmt.Sprintf("b.%s %x <%s>", i.Cond, i.Target, i.Label)
		}
		return fmt.Sprintf("b.%s %x", i.Cond, i.Target)
	case BranchRegister:
		return fmt.Sprintf("br %s", i.BrReg)
	default:
		return "<invalid branch>"
	}
}

func (i Instr) lsString() string {
	mn := i.LSOp.String()
	switch i.LSArg {
	case LSArgImm:
		switch i.LSIdx {
		case IdxPre:
			return fmt.Sprintf("%s %s, [%s, #%d]!", mn, i.Rt, i.LSBase, i.LSImm)
		case IdxPost:
			return fmt.Sprintf("%s %s, [%s], #%d", mn, i.Rt, i.LSBase, i.LSImm)
		default: // IdxUOffset
			return fmt.Sprintf("%s %s, [%s, #%d]", mn, i.Rt, i.LSBase, i.LSImm)
		}
	case LSArgReg:
		s := fmt.Sprintf("%s %s, [%s, %s", mn, i.Rt, i.LSBase, i.LSRm)
		if i.LSExt.Kind != ExtendLSL || i.LSExt.Amount != 0 {
			s += fmt.Sprintf(", %s #%d", extendName(i.LSExt.Kind), i.LSExt.Amount)
		}
		return s + "]"
	case LSArgLiteral:
		if i.Label != "" {
			return fmt.Sprintf("%s %s, %x <%s>", mn, i.Rt, i.LitAddr, i.Label)
		}
		return fmt.Sprintf("%s %s, %x", mn, i.Rt, i.LitAddr)
	default:
		return "<invalid load/store>"
	}
}

func extendName(k ExtendKind) string {
	if k == ExtendSXTX {
		return "sxtx"
	}
	return "lsl"
}
