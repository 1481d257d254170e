// Package disassembler renders the word-decode/encoding-decode pipeline's
// output as a listing — the inverse view of the assembler, used both by
// the assembler CLI (when a listing path is given) and standalone.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/arm64sim/ast"
	"github.com/Urethramancer/arm64sim/cpu"
)

// listingHeader is the fixed first line of every listing, matching
// spec.md §6.4.
const listingHeader = "0000000000000000 <.data>:\n"

// Line formats one listing entry: byte address, the word's big-endian hex
// representation, and the pretty-printed instruction. Grounded on
// disassembler/disassembler.c's f_print_line.
func Line(addr uint64, word uint32, instr ast.Instr) string {
	return fmt.Sprintf("%4x:\t%08x \t%s\n", addr, word, instr.String())
}

// Disassemble decodes a sequence of little-endian 32-bit words (as found
// in a raw binary) into a complete listing string.
func Disassemble(words []uint32) (string, error) {
	var b strings.Builder
	b.WriteString(listingHeader)
	for i, word := range words {
		addr := uint64(i) * 4
		e, err := cpu.Decode(word)
		if err != nil {
			return "", err
		}
		instr, err := cpu.DecodeToAST(e, addr)
		if err != nil {
			return "", err
		}
		b.WriteString(Line(addr, word, instr))
	}
	return b.String(), nil
}

// Listing formats a listing directly from an already-assembled
// instruction/word stream, avoiding a decode round-trip when the caller
// (the assembler CLI) already has both.
func Listing(words []uint32, instrs []ast.Instr) string {
	var b strings.Builder
	b.WriteString(listingHeader)
	for i, word := range words {
		b.WriteString(Line(uint64(i)*4, word, instrs[i]))
	}
	return b.String()
}
