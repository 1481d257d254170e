package ast

import "fmt"

// String renders a register reference in assembly syntax: x0..x30/xzr/sp/pc
// for extended (64-bit) registers, w0..w30/wzr/wsp/pc for 32-bit ones.
// Grounded on common/ast/reg.c's reg_x_strs/reg_w_strs tables.
func (r Reg) String() string {
	switch r.Kind {
	case RegZero:
		if r.Extended {
			return "xzr"
		}
		return "wzr"
	case RegSP:
		if r.Extended {
			return "sp"
		}
		return "wsp"
	case RegPC:
		return "pc"
	default:
		if r.Extended {
			return fmt.Sprintf("x%d", r.Index)
		}
		return fmt.Sprintf("w%d", r.Index)
	}
}
