// Package op holds the CHIP-8 machine constants and the instruction set definition.
package op

import (
	"encoding/binary"
	"time"
)

var Endian = binary.BigEndian

// Memory layout.
const (
	MemSize        = 4 * 1024                // 4Kb, addresses 0x000-0xFFF.
	AddrMask       = MemSize - 1             // Mask applied to every memory access.
	ProgramStart   = 0x200                   // Programs are loaded and start executing here.
	MaxProgramSize = MemSize - ProgramStart  // 3584 bytes.
	FontBase       = 0x050                   // Base address of the glyph table.
	GlyphSize      = 5                       // Bytes per glyph.
	FontSize       = GlyphCount * GlyphSize  // 80 bytes.
	GlyphCount     = 16                      // Hexadecimal digits 0-F.
	InstructionLen = 2                       // Every instruction is 2 bytes, big endian.
	FontEnd        = FontBase + FontSize - 1 // Last byte of the glyph table.
)

const (
	RegisterCount = 16  // V0 <--> VF
	FlagRegister  = 0xF // VF doubles as carry/borrow/collision flag.
	StackDepth    = 16  // Maximum nested calls.
	KeyCount      = 16  // Logical keys 0x0-0xF.
)

// Pixel plane.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
	SpriteWidth  = 8
)

// Assembly tokens.
const (
	CommentChars  = ";#"
	LabelChar     = ':'
	SeparatorChar = ','
	DirectiveChar = '.'
	LabelChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789"
)

// Timing settings.
const (
	CPUHz          = 500                   // Instruction batches per second.
	CyclesPerBatch = 10                    // Instructions per batch.
	TimerHz        = 60                    // Nominal timer rate.
	TimerPeriod    = 16 * time.Millisecond // 1s/TimerHz truncated to whole milliseconds.
)

// Font is the built-in glyph table for the hexadecimal digits, 5 rows of 8 bits each.
var Font = [FontSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// GlyphAddr returns the address of the glyph for the given digit.
// Only the low 8 bits are meaningful, no bound check is done for digits above 0xF.
func GlyphAddr(digit byte) uint16 {
	return FontBase + uint16(digit)*GlyphSize
}
