package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Urethramancer/arm64sim/ast"
)

// ParseError reports a malformed source line. Grounded on
// assembler/parser/parse.c's fatal-on-first-error protocol (§9 of
// SPEC_FULL.md): the whole assembly fails on the first one.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

// parseFn parses one instruction's mnemonic + operand tokens into an AST
// node whose address is already known.
type parseFn func(asm *Assembler, operands []string, addr uint64) (ast.Instr, error)

var mnemonicTable map[string]parseFn

func init() {
	mnemonicTable = map[string]parseFn{
		"add": parseAddSub(ast.OpADD), "adds": parseAddSub(ast.OpADDS),
		"sub": parseAddSub(ast.OpSUB), "subs": parseAddSub(ast.OpSUBS),
		"and": parseLogical(ast.OpAND), "bic": parseLogical(ast.OpBIC),
		"orr": parseLogical(ast.OpORR), "orn": parseLogical(ast.OpORN),
		"eor": parseLogical(ast.OpEOR), "eon": parseLogical(ast.OpEON),
		"ands": parseLogical(ast.OpANDS), "bics": parseLogical(ast.OpBICS),
		"cmp": parseCmp(ast.OpSUBS), "cmn": parseCmp(ast.OpADDS), "tst": parseTst,
		"mov":  parseMov,
		"movn": parseMovImm(ast.OpMOVN), "movz": parseMovImm(ast.OpMOVZ), "movk": parseMovImm(ast.OpMOVK),
		"mul": parseMul, "madd": parseMadd, "mneg": parseMneg, "msub": parseMsub,
		"ldr": parseLoadStore(ast.OpLDR), "str": parseLoadStore(ast.OpSTR),
		"b": parseB, "br": parseBr,
		"b.eq": parseBCond(ast.CondEQ), "b.ne": parseBCond(ast.CondNE),
		"b.ge": parseBCond(ast.CondGE), "b.lt": parseBCond(ast.CondLT),
		"b.gt": parseBCond(ast.CondGT), "b.le": parseBCond(ast.CondLE),
		"b.al": parseBCond(ast.CondAL),
		"nop":  parseNop,
		".int": parseIntDirective,
	}
}

// ParseLine parses one already-tokenized instruction line (mnemonic lower-
// cased, operand strings trimmed) into an AST node at the given address.
func (asm *Assembler) ParseLine(lineNo int, mnemonic string, operands []string, addr uint64) (ast.Instr, error) {
	fn, ok := mnemonicTable[mnemonic]
	if !ok {
		return ast.Instr{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown mnemonic %q", mnemonic)}
	}
	instr, err := fn(asm, operands, addr)
	if err != nil {
		return ast.Instr{}, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	return instr, nil
}

// tokenizeLine splits an already label-stripped instruction line into its
// lowercased mnemonic and raw operand strings. Grounded on
// assembler/parser/parse.c's tokenizer (split on `", :\n"`) adapted to
// Go's line-already-split-by-\n input: operands are split on top-level
// commas only, so a bracketed load/store address survives as one token.
func tokenizeLine(line string) (mnemonic string, operands []string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return strings.ToLower(line), nil
	}
	mnemonic = strings.ToLower(line[:idx])
	rest := strings.TrimSpace(line[idx:])
	if rest == "" {
		return mnemonic, nil
	}
	return mnemonic, splitOperands(rest)
}

// splitOperands splits on commas outside of `[...]` groups, so a
// register-offset or immediate-offset load/store address stays intact.
func splitOperands(s string) []string {
	var result []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				result = append(result, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	result = append(result, strings.TrimSpace(s[last:]))
	return result
}

// splitLabelLine splits a trimmed, comment-stripped line at its first ':'.
// label is "" when the line carries no label; rest is the remainder (which
// may itself be empty, for a line that is only a label).
func splitLabelLine(line string) (label, rest string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", line
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
}

// stripComment removes a `//`-to-end-of-line comment.
func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

var regAliases = map[string]ast.Reg{
	"xzr": ast.RZR(true), "wzr": ast.RZR(false),
	"sp": ast.SPReg(true), "wsp": ast.SPReg(false),
	"pc": ast.PCReg(),
}

// parseReg parses a register name: x0..x30, w0..w30, xzr, wzr, sp, wsp, pc.
// Grounded on assembler/parser/parse.c's p_reg; index > 30 is a parse
// error per spec.md §4.1.
func parseReg(s string) (ast.Reg, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := regAliases[s]; ok {
		return r, nil
	}
	if len(s) < 2 || (s[0] != 'x' && s[0] != 'w') {
		return ast.Reg{}, fmt.Errorf("invalid register %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return ast.Reg{}, fmt.Errorf("invalid register %q", s)
	}
	if n < 0 || n > 30 {
		return ast.Reg{}, fmt.Errorf("register index out of range: %q", s)
	}
	return ast.Gen(uint8(n), s[0] == 'x'), nil
}

// parseImm parses an immediate operand: "#N", "#0xN", or bare "N".
// Grounded on assembler/parser/parse.c's p_imm/p_hash_imm.
func parseImm(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
		base = 16
	case strings.HasPrefix(s, "-0x"), strings.HasPrefix(s, "-0X"):
		s = "-" + s[3:]
		base = 16
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", s)
	}
	return v, nil
}

// parseShift parses an optional trailing "{lsl|lsr|asr|ror} #N" operand.
// An absent operand defaults to LSL #0. Grounded on
// assembler/parser/parse.c's p_shift/p_try_sh.
func parseShift(tokens []string) (ast.Shift, error) {
	if len(tokens) == 0 {
		return ast.Shift{Kind: ast.ShiftLSL, Amount: 0}, nil
	}
	if len(tokens) > 1 {
		return ast.Shift{}, fmt.Errorf("unexpected trailing operands %v", tokens)
	}
	fields := strings.Fields(tokens[0])
	if len(fields) != 2 {
		return ast.Shift{}, fmt.Errorf("malformed shift operand %q", tokens[0])
	}
	var kind ast.ShiftKind
	switch strings.ToLower(fields[0]) {
	case "lsl":
		kind = ast.ShiftLSL
	case "lsr":
		kind = ast.ShiftLSR
	case "asr":
		kind = ast.ShiftASR
	case "ror":
		kind = ast.ShiftROR
	default:
		return ast.Shift{}, fmt.Errorf("unknown shift kind %q", fields[0])
	}
	amount, err := parseImm(fields[1])
	if err != nil {
		return ast.Shift{}, err
	}
	return ast.Shift{Kind: kind, Amount: uint32(amount)}, nil
}

// parseExtend parses an optional trailing "{lsl|sxtx} #N" load/store
// register-offset extend operand, defaulting to LSL #0.
func parseExtend(tokens []string) (ast.Extend, error) {
	if len(tokens) == 0 {
		return ast.Extend{Kind: ast.ExtendLSL, Amount: 0}, nil
	}
	if len(tokens) > 1 {
		return ast.Extend{}, fmt.Errorf("unexpected trailing operands %v", tokens)
	}
	fields := strings.Fields(tokens[0])
	if len(fields) != 2 {
		return ast.Extend{}, fmt.Errorf("malformed extend operand %q", tokens[0])
	}
	var kind ast.ExtendKind
	switch strings.ToLower(fields[0]) {
	case "lsl":
		kind = ast.ExtendLSL
	case "sxtx":
		kind = ast.ExtendSXTX
	default:
		return ast.Extend{}, fmt.Errorf("unknown extend kind %q", fields[0])
	}
	amount, err := parseImm(fields[1])
	if err != nil {
		return ast.Extend{}, err
	}
	return ast.Extend{Kind: kind, Amount: uint32(amount)}, nil
}

// resolveTarget resolves a branch/literal target token: a known label
// substitutes its address, otherwise the token is parsed as an immediate
// absolute address. Grounded on assembler/parser/parse.c's label-or-
// immediate resolution in p_branch.
func (asm *Assembler) resolveTarget(tok string) (addr uint64, label string, err error) {
	tok = strings.TrimSpace(tok)
	name := strings.ToLower(tok)
	if a, ok := asm.symbols[name]; ok {
		return a, name, nil
	}
	v, err := parseImm(tok)
	if err != nil {
		return 0, "", fmt.Errorf("undefined label or bad immediate %q", tok)
	}
	return uint64(v), "", nil
}
