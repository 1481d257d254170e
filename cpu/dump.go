package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Dump writes the CPU's register, PSTATE, and non-zero memory state (main
// block, then I/O block) to w, in the exact format the emulator prints on halt or failure.
// Grounded on emulator/emulator.c's f_dump_cpu/f_dump_block/f_dump_mem.
func (c *CPU) Dump(w io.Writer) error {
	for i := 0; i < 31; i++ {
		if _, err := fmt.Fprintf(w, "X%02d    = %016x\n", i, c.X[i]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "PC     = %016x\n", c.PC); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "PSTATE : %s\n", c.PSTATE); err != nil {
		return err
	}
	return c.dumpMemory(w)
}

// dumpMemory prints one "0x%08x : 0x%08x" line per non-zero 32-bit word in
// either the main block or the I/O block, address then word, skipping zero
// words entirely. Grounded on emulator/loader.c's f_dump_mem, which walks
// both blocks in address order.
func (c *CPU) dumpMemory(w io.Writer) error {
	if err := dumpBlock(w, c.Mem.main, 0); err != nil {
		return err
	}
	return dumpBlock(w, c.Mem.io, ioBlockStart)
}

func dumpBlock(w io.Writer, block []byte, base uint64) error {
	for off := 0; off+4 <= len(block); off += 4 {
		word := binary.LittleEndian.Uint32(block[off:])
		if word == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "0x%08x : 0x%08x\n", base+uint64(off), word); err != nil {
			return err
		}
	}
	return nil
}
