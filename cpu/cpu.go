// Package cpu implements the virtual processor: register/flag state,
// byte-addressable memory with a memory-mapped I/O block, the word
// decoder and encoding decoder (wire -> structured encoding -> AST), and
// the fetch-decode-execute loop.
package cpu

import "github.com/Urethramancer/arm64sim/ast"

// PSTATE holds the four condition flags.
type PSTATE struct {
	N, Z, C, V bool
}

// String renders PSTATE as the letter-or-dash form used by the dump
// output, e.g. "N---" or "-ZCV". Grounded on emulator/emulator.c's
// f_dump_cpu ("PSTATE : %s%s%s%s").
func (p PSTATE) String() string {
	flag := func(set bool, letter byte) byte {
		if set {
			return letter
		}
		return '-'
	}
	return string([]byte{
		flag(p.N, 'N'),
		flag(p.Z, 'Z'),
		flag(p.C, 'C'),
		flag(p.V, 'V'),
	})
}

// CPU is the virtual processor's full architectural state. Grounded on
// the teacher's cpu.CPU (register-array + PC + flags + memory struct
// shape) and emulator/loader.c's __init_cpu (initial PSTATE.Z=true,
// PC=0, Halt=false, Fail=false).
type CPU struct {
	// X holds the 31 general-purpose registers, X[0]..X[30]. The zero
	// register (index 31 on the wire) is never stored here: reads of it
	// are synthesized as 0 and writes to it are silently discarded.
	X [31]uint64
	// SP is the stack pointer.
	SP uint64
	// PC is the program counter, always a multiple of 4.
	PC uint64

	PSTATE PSTATE

	Mem *Memory

	// Halt is set once the fetch loop fetches the halt sentinel word.
	Halt bool
	// Fail is set once an instruction fails to decode or execute.
	Fail bool

	log Logger
}

// New allocates a CPU with memory sized per spec: a 2 MiB main block at
// address 0 plus a 4 KiB memory-mapped I/O block. Without WithLogger,
// diagnostics go to a silent no-op logger.
func New(opts ...Option) *CPU {
	c := &CPU{
		Mem:    NewMemory(),
		PSTATE: PSTATE{Z: true},
		log:    noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// regValue reads a register reference's current value, honoring the zero
// register and W32 truncation. Grounded on emulator/emulator.c's
// get_cpu_reg/get_reg_val.
func (c *CPU) regValue(r ast.Reg) uint64 {
	var v uint64
	switch r.Kind {
	case ast.RegZero:
		return 0
	case ast.RegSP:
		v = c.SP
	case ast.RegPC:
		v = c.PC
	default:
		v = c.X[r.Index]
	}
	if !r.Extended {
		v &= 0xFFFFFFFF
	}
	return v
}

// setReg writes a value to a register reference, honoring the zero
// register (writes discarded) and W32 zero-extension on writeback.
// Grounded on emulator/emulator.c's set_cpu_reg.
func (c *CPU) setReg(r ast.Reg, v uint64) {
	if !r.Extended {
		v &= 0xFFFFFFFF
	}
	switch r.Kind {
	case ast.RegZero:
		return
	case ast.RegSP:
		c.SP = v
	case ast.RegPC:
		c.PC = v
	default:
		c.X[r.Index] = v
	}
}

// IncPC advances the program counter by one instruction word.
func (c *CPU) IncPC() { c.PC += 4 }
