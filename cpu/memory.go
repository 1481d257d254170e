package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MainSize is the size of the main memory block, starting at address 0.
const MainSize = 2 * 1024 * 1024

// ioBlockSize is the size of the memory-mapped I/O block.
const ioBlockSize = 4 * 1024

// mailboxPage is the unaligned address named by spec.md; the I/O block
// itself starts at mailboxPage rounded down to a 4 KiB boundary.
const mailboxPage = 0x3f00b880

var ioBlockStart = uint64(mailboxPage) &^ uint64(ioBlockSize-1)

// MemoryFault is returned for any access outside the two valid memory
// blocks. Grounded on emulator/loader.c's get_block "Out of bounds
// memory access" fatal path.
type MemoryFault struct {
	Address uint64
}

func (e *MemoryFault) Error() string {
	return fmt.Sprintf("memory fault: out of bounds access at 0x%x", e.Address)
}

// Memory is byte-addressable memory with a main block at address 0 and a
// 4 KiB memory-mapped I/O block elsewhere in the address space. Grounded
// on emulator/loader.c's two-block model (mem_block_t for main + IO).
type Memory struct {
	main []byte
	io   []byte
}

// NewMemory allocates the two memory blocks.
func NewMemory() *Memory {
	return &Memory{
		main: make([]byte, MainSize),
		io:   make([]byte, ioBlockSize),
	}
}

// block returns the backing slice and block-relative offset for addr, or
// an error if addr lies in neither block.
func (m *Memory) block(addr uint64) ([]byte, uint64, error) {
	if addr+4 <= uint64(len(m.main)) {
		return m.main, addr, nil
	}
	if addr >= ioBlockStart && addr+4 <= ioBlockStart+uint64(len(m.io)) {
		return m.io, addr - ioBlockStart, nil
	}
	return nil, 0, &MemoryFault{Address: addr}
}

// ReadWord reads a little-endian 32-bit word at addr.
func (m *Memory) ReadWord(addr uint64) (uint32, error) {
	blk, off, err := m.block(addr)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(blk[off:]), nil
}

// WriteWord writes a little-endian 32-bit word at addr.
func (m *Memory) WriteWord(addr uint64, v uint32) error {
	blk, off, err := m.block(addr)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(blk[off:], v)
	return nil
}

// ReadDword reads a little-endian 64-bit doubleword at addr: the low word
// at addr, the high word at addr+4. Grounded on emulator/loader.c's
// get_le_dword (low word first, high word second).
func (m *Memory) ReadDword(addr uint64) (uint64, error) {
	lo, err := m.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	hi, err := m.ReadWord(addr + 4)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// WriteDword writes a little-endian 64-bit doubleword at addr.
func (m *Memory) WriteDword(addr uint64, v uint64) error {
	if err := m.WriteWord(addr, uint32(v)); err != nil {
		return err
	}
	return m.WriteWord(addr+4, uint32(v>>32))
}

// LoadBinary reads sequential 32-bit little-endian words from r into the
// main block starting at address 0, returning the word count loaded.
// Grounded on emulator/loader.c's load_bin.
func LoadBinary(mem *Memory, r io.Reader) (int, error) {
	count := 0
	var buf [4]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return count, fmt.Errorf("load binary: truncated word at index %d", count)
		}
		if err != nil {
			return count, fmt.Errorf("load binary: %w", err)
		}
		word := binary.LittleEndian.Uint32(buf[:])
		if err := mem.WriteWord(uint64(count)*4, word); err != nil {
			return count, fmt.Errorf("load binary: %w", err)
		}
		count++
	}
	return count, nil
}
