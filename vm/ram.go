package vm

import "go.creack.net/chip8/op"

// Ram is the 4Kb address space. Every access wraps modulo op.MemSize,
// there is no memory protection.
type Ram [op.MemSize]byte

func (r *Ram) Read(addr uint16) byte {
	return r[addr&op.AddrMask]
}

func (r *Ram) Write(addr uint16, value byte) {
	r[addr&op.AddrMask] = value
}

// Word reads the big endian instruction word at addr. The second byte wraps
// to 0x000 when addr is 0xFFF.
func (r *Ram) Word(addr uint16) uint16 {
	return uint16(r.Read(addr))<<8 | uint16(r.Read(addr+1))
}

// Bytes returns a copy of size bytes starting at addr.
func (r *Ram) Bytes(addr uint16, size int) []byte {
	out := make([]byte, size)
	for i := range size {
		out[i] = r.Read(addr + uint16(i))
	}
	return out
}

// LoadFont copies the glyph table at op.FontBase.
func (r *Ram) LoadFont() {
	copy(r[op.FontBase:], op.Font[:])
}

// Load copies the program verbatim at op.ProgramStart.
func (r *Ram) Load(program []byte) error {
	if len(program) == 0 {
		return ErrProgramEmpty
	}
	if len(program) > op.MaxProgramSize {
		return ErrProgramTooLarge
	}
	copy(r[op.ProgramStart:], program)
	return nil
}
