package ast_test

import (
	"testing"

	"github.com/Urethramancer/arm64sim/ast"
)

func TestDPOpOrderIsArithmeticallyStable(t *testing.T) {
	// The encoder derives opc/negate from (op - AND) for the logical
	// family; a reorder here would silently break every logical encoding.
	cases := []struct {
		op       ast.DPOp
		distance int
	}{
		{ast.OpAND, 0}, {ast.OpBIC, 1}, {ast.OpORR, 2}, {ast.OpORN, 3},
		{ast.OpEOR, 4}, {ast.OpEON, 5}, {ast.OpANDS, 6}, {ast.OpBICS, 7},
	}
	for _, c := range cases {
		if got := int(c.op) - int(ast.OpAND); got != c.distance {
			t.Errorf("%s - AND = %d, want %d", c.op, got, c.distance)
		}
	}
}

func TestInstrStringDP(t *testing.T) {
	i := ast.Instr{
		Kind: ast.KindDP,
		DPOp: ast.OpADD,
		Rd:   ast.Gen(1, true),
		Rn:   ast.Gen(2, true),
		Op2:  ast.Op2{Kind: ast.Op2ImmShift, Imm: 5},
	}
	want := "add x1, x2, #0x5"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstrStringMovOmitsRn(t *testing.T) {
	i := ast.Instr{
		Kind: ast.KindDP,
		DPOp: ast.OpMOVZ,
		Rd:   ast.Gen(0, true),
		Op2:  ast.Op2{Kind: ast.Op2ImmShift, Imm: 0x10},
	}
	want := "movz x0, #0x10"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstrStringBranchCond(t *testing.T) {
	i := ast.Instr{
		Kind:       ast.KindBranch,
		BranchKind: ast.BranchConditional,
		Cond:       ast.CondEQ,
		Target:     0x20,
		Label:      "loop",
	}
	want := "b.eq 20 <loop>"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstrStringLoadStoreImm(t *testing.T) {
	i := ast.Instr{
		Kind:   ast.KindLoadStore,
		LSOp:   ast.OpSTR,
		Rt:     ast.Gen(3, true),
		LSArg:  ast.LSArgImm,
		LSBase: ast.SPReg(true),
		LSIdx:  ast.IdxUOffset,
		LSImm:  16,
	}
	want := "str x3, [sp, #16]"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRegZeroReadsAsZeroName(t *testing.T) {
	if got := ast.RZR(true).String(); got != "xzr" {
		t.Errorf("RZR(true) = %q, want xzr", got)
	}
	if got := ast.RZR(false).String(); got != "wzr" {
		t.Errorf("RZR(false) = %q, want wzr", got)
	}
}
