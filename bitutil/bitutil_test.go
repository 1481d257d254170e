package bitutil_test

import (
	"testing"

	"github.com/Urethramancer/arm64sim/bitutil"
)

func TestRange(t *testing.T) {
	word := uint64(0xABCD1234)
	if got := bitutil.Range(word, 31, 28); got != 0xA {
		t.Errorf("Range(31,28) = %x, want a", got)
	}
	if got := bitutil.Range(word, 3, 0); got != 0x4 {
		t.Errorf("Range(3,0) = %x, want 4", got)
	}
}

func TestBit(t *testing.T) {
	word := uint64(0b1010)
	if bitutil.Bit(word, 1) != 1 {
		t.Errorf("bit 1 should be set")
	}
	if bitutil.Bit(word, 0) != 0 {
		t.Errorf("bit 0 should be clear")
	}
	if !bitutil.BitIs(word, 3, 1) {
		t.Errorf("bit 3 should be set")
	}
}

func TestSetBits(t *testing.T) {
	var dest uint64
	dest = bitutil.SetBits(dest, 4, 0xFF, 4)
	if dest != 0xF0 {
		t.Errorf("SetBits = %x, want f0", dest)
	}
}

func TestSetBit(t *testing.T) {
	var dest uint64 = 0xF
	dest = bitutil.SetBit(dest, 0, 0)
	if dest != 0xE {
		t.Errorf("SetBit clear = %x, want e", dest)
	}
	dest = bitutil.SetBit(dest, 4, 1)
	if dest != 0x1E {
		t.Errorf("SetBit set = %x, want 1e", dest)
	}
}

func TestSignExtend(t *testing.T) {
	if got := bitutil.SignExtend(0x1FF, 9, 64); got != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("SignExtend(-1,9,64) = %x", got)
	}
	if got := bitutil.SignExtend(0x0FF, 9, 64); got != 0xFF {
		t.Errorf("SignExtend(255,9,64) = %x", got)
	}
	if got := bitutil.SignExtend(0x7FFFF, 19, 64); got != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("SignExtend(-1,19,64) = %x", got)
	}
}
