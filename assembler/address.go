package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/arm64sim/ast"
)

// parseLoadStore parses "ldr/str rt, address" where address is one of the
// literal, pre-index, post-index, unsigned-offset, or register-offset
// forms from spec.md §4.1. Grounded on assembler/parser/parse.c's p_ls.
func parseLoadStore(op ast.LSOp) parseFn {
	return func(asm *Assembler, operands []string, addr uint64) (ast.Instr, error) {
		if len(operands) < 2 {
			return ast.Instr{}, fmt.Errorf("%s requires rt, address", op)
		}
		rt, err := parseReg(operands[0])
		if err != nil {
			return ast.Instr{}, err
		}
		addrTokens := operands[1:]
		first := strings.TrimSpace(addrTokens[0])
		if !strings.HasPrefix(first, "[") {
			// Literal form: no brackets, target is a label or absolute
			// address. str rejects this form: there is no store-literal
			// encoding to target.
			if op == ast.OpSTR {
				return ast.Instr{}, fmt.Errorf("str does not support literal addressing")
			}
			if len(addrTokens) != 1 {
				return ast.Instr{}, fmt.Errorf("malformed literal address")
			}
			target, _, err := asm.resolveTarget(first)
			if err != nil {
				return ast.Instr{}, err
			}
			return ast.Instr{
				Address: addr, Kind: ast.KindLoadStore, LSOp: op, Rt: rt,
				LSArg: ast.LSArgLiteral, LitAddr: target,
			}, nil
		}
		return parseMemAddress(op, rt, addrTokens, addr)
	}
}

func parseMemAddress(op ast.LSOp, rt ast.Reg, addrTokens []string, addr uint64) (ast.Instr, error) {
	first := strings.TrimSpace(addrTokens[0])
	preIndex := strings.HasSuffix(first, "]!")

	var inner string
	switch {
	case preIndex:
		inner = strings.TrimSuffix(strings.TrimPrefix(first, "["), "]!")
	case strings.HasSuffix(first, "]"):
		inner = strings.TrimSuffix(strings.TrimPrefix(first, "["), "]")
	default:
		return ast.Instr{}, fmt.Errorf("malformed address operand %q", first)
	}

	parts := splitOperands(inner)
	base, err := parseReg(parts[0])
	if err != nil {
		return ast.Instr{}, err
	}

	switch {
	case preIndex:
		if len(parts) != 2 {
			return ast.Instr{}, fmt.Errorf("pre-index address requires rn, #imm")
		}
		imm, err := parseImm(parts[1])
		if err != nil {
			return ast.Instr{}, err
		}
		return ast.Instr{
			Address: addr, Kind: ast.KindLoadStore, LSOp: op, Rt: rt,
			LSArg: ast.LSArgImm, LSBase: base, LSIdx: ast.IdxPre, LSImm: imm,
		}, nil

	case len(addrTokens) > 1:
		// Post-index: "[rn], #imm" — the offset comma sits outside the
		// brackets, so it arrives as a separate operand.
		if len(parts) != 1 {
			return ast.Instr{}, fmt.Errorf("malformed post-index base %q", first)
		}
		if len(addrTokens) != 2 {
			return ast.Instr{}, fmt.Errorf("post-index address requires rn, #imm")
		}
		imm, err := parseImm(strings.TrimSpace(addrTokens[1]))
		if err != nil {
			return ast.Instr{}, err
		}
		return ast.Instr{
			Address: addr, Kind: ast.KindLoadStore, LSOp: op, Rt: rt,
			LSArg: ast.LSArgImm, LSBase: base, LSIdx: ast.IdxPost, LSImm: imm,
		}, nil

	case len(parts) == 1:
		// "[rn]" is an unsigned offset of zero.
		return ast.Instr{
			Address: addr, Kind: ast.KindLoadStore, LSOp: op, Rt: rt,
			LSArg: ast.LSArgImm, LSBase: base, LSIdx: ast.IdxUOffset, LSImm: 0,
		}, nil

	default:
		second := strings.TrimSpace(parts[1])
		if len(second) > 0 && second[0] == '#' {
			imm, err := parseImm(second)
			if err != nil {
				return ast.Instr{}, err
			}
			return ast.Instr{
				Address: addr, Kind: ast.KindLoadStore, LSOp: op, Rt: rt,
				LSArg: ast.LSArgImm, LSBase: base, LSIdx: ast.IdxUOffset, LSImm: imm,
			}, nil
		}
		rm, err := parseReg(second)
		if err != nil {
			return ast.Instr{}, err
		}
		ext, err := parseExtend(parts[2:])
		if err != nil {
			return ast.Instr{}, err
		}
		return ast.Instr{
			Address: addr, Kind: ast.KindLoadStore, LSOp: op, Rt: rt,
			LSArg: ast.LSArgReg, LSBase: base, LSRm: rm, LSExt: ext,
		}, nil
	}
}
