package disassembler_test

import (
	"strings"
	"testing"

	"github.com/Urethramancer/arm64sim/assembler"
	"github.com/Urethramancer/arm64sim/disassembler"
)

func TestListingHeaderAndLineFormat(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble("movz x0, #5\nmovz x1, #7\n")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	listing := disassembler.Listing(res.Words, res.Instrs)
	lines := strings.Split(listing, "\n")
	if lines[0] != "0000000000000000 <.data>:" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "   0:\t") {
		t.Errorf("first instruction line = %q, want prefix %q", lines[1], "   0:\t")
	}
	if !strings.HasPrefix(lines[2], "   4:\t") {
		t.Errorf("second instruction line = %q, want prefix %q", lines[2], "   4:\t")
	}
}

func TestDisassembleMatchesListing(t *testing.T) {
	asm := assembler.New()
	res, err := asm.Assemble("adds x2, x0, x1\nsubs x3, x0, #7\n")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	fromWords, err := disassembler.Disassemble(res.Words)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	fromInstrs := disassembler.Listing(res.Words, res.Instrs)
	if fromWords != fromInstrs {
		t.Errorf("Disassemble and Listing disagree:\n%s\n---\n%s", fromWords, fromInstrs)
	}
}
