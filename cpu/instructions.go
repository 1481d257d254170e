package cpu

import "github.com/Urethramancer/arm64sim/ast"

// HaltCode is the exact 32-bit word that halts the emulator when fetched.
// It is checked before any opcode-field decoding is attempted — this is
// the only halt path ever actually reachable; see SPEC_FULL.md §9 for the
// reference implementation's dead secondary check this repo does not
// carry over. Grounded on emulator/emulator.c's HALT_CODE.
const HaltCode uint32 = 0x8a000000

// NopCode is the wire encoding for NOP. Grounded on
// emulator/decoder/word_decoder.c's NOP_CODE.
const NopCode uint32 = 0xd503201f

// checkCond evaluates a branch condition against the current flags.
// Grounded on emulator/emulator.c's check_cond.
func checkCond(p PSTATE, cond ast.Cond) bool {
	switch cond {
	case ast.CondEQ:
		return p.Z
	case ast.CondNE:
		return !p.Z
	case ast.CondGE:
		return p.N == p.V
	case ast.CondLT:
		return p.N != p.V
	case ast.CondGT:
		return !p.Z && p.N == p.V
	case ast.CondLE:
		return p.Z || p.N != p.V
	case ast.CondAL:
		return true
	default:
		return false
	}
}
