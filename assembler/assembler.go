package assembler

import (
	"encoding/binary"
	"strings"

	"github.com/Urethramancer/arm64sim/ast"
)

// Assembler holds the symbol table and per-session state for one assembly
// run. Grounded on assembler/assembler.c's asm_ctx, simplified since every
// instruction in this subset is exactly one word wide.
type Assembler struct {
	symbols map[string]uint64
	log     Logger
}

// New creates a fresh Assembler with an empty symbol table. Without
// WithLogger, diagnostics go to a silent no-op logger.
func New(opts ...Option) *Assembler {
	a := &Assembler{symbols: make(map[string]uint64), log: noopLogger{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is a completed assembly: the emitted words plus the parsed
// instruction stream, the latter consumed by listing generation.
type Result struct {
	Words  []uint32
	Instrs []ast.Instr
}

// Bytes renders the assembled words as little-endian machine code, per
// spec.md §6.3's binary format.
func (r *Result) Bytes() []byte {
	buf := make([]byte, len(r.Words)*4)
	for i, w := range r.Words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

type rawLine struct {
	lineNo   int
	mnemonic string
	operands []string
}

// Assemble runs the two-pass assembly from spec.md §4.1: a label pass that
// builds the symbol table (only instructions advance the word counter,
// labels don't), then an instruction pass that parses, encodes, and words
// each instruction using the now-complete symbol table.
func (asm *Assembler) Assemble(src string) (*Result, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var instrLines []rawLine
	count := uint64(0)
	for i, raw := range lines {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		label, rest := splitLabelLine(line)
		if label != "" {
			asm.symbols[strings.ToLower(label)] = count * 4
			asm.log.Debugf("label %q at 0x%x", label, count*4)
		}
		if rest == "" {
			continue
		}
		mnemonic, operands := tokenizeLine(rest)
		instrLines = append(instrLines, rawLine{lineNo: i + 1, mnemonic: mnemonic, operands: operands})
		count++
	}
	asm.log.Infof("label pass complete: %d symbols, %d instructions", len(asm.symbols), len(instrLines))

	res := &Result{}
	for idx, rl := range instrLines {
		addr := uint64(idx) * 4
		instr, err := asm.ParseLine(rl.lineNo, rl.mnemonic, rl.operands, addr)
		if err != nil {
			asm.log.Errorf("line %d: %v", rl.lineNo, err)
			return nil, err
		}
		e, err := Encode(instr)
		if err != nil {
			asm.log.Errorf("line %d: %v", rl.lineNo, err)
			return nil, &ParseError{Line: rl.lineNo, Msg: err.Error()}
		}
		word, err := Word(e)
		if err != nil {
			asm.log.Errorf("line %d: %v", rl.lineNo, err)
			return nil, &ParseError{Line: rl.lineNo, Msg: err.Error()}
		}
		asm.log.Debugf("line %d: 0x%08x %s", rl.lineNo, word, instr)
		res.Words = append(res.Words, word)
		res.Instrs = append(res.Instrs, instr)
	}
	return res, nil
}
