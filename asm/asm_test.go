package asm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/chip8/disasm"
)

const sample = `
; Draws the glyph of V0 and waits for a key.
start:
	CLS
	LD   V0, 0x0A
	LD   F, V0
	LD   V1, 8
	LD   V2, 4
	DRW  V1, V2, 5
	CALL wait
	JP   start

wait:
	LD   V3, K       # blocks until a key is pressed
	ld   dt, v3
	RET

	.byte 0xF0, 0x80
	.word sprite-2, 0x1234
sprite:
	.byte 0b1111_0000, -1
`

func TestCompile(t *testing.T) {
	assert := assert.New(t)

	buf, pr, err := Compile("sample.s", sample)
	require.NoError(t, err)

	assert.Equal([]byte{
		0x00, 0xE0, // 0x200 CLS
		0x60, 0x0A, // 0x202 LD V0, 0x0A
		0xF0, 0x29, // 0x204 LD F, V0
		0x61, 0x08, // 0x206 LD V1, 8
		0x62, 0x04, // 0x208 LD V2, 4
		0xD1, 0x25, // 0x20A DRW V1, V2, 5
		0x22, 0x10, // 0x20C CALL wait
		0x12, 0x00, // 0x20E JP start
		0xF3, 0x0A, // 0x210 LD V3, K
		0xF3, 0x15, // 0x212 LD DT, V3
		0x00, 0xEE, // 0x214 RET
		0xF0, 0x80, // 0x216 .byte
		0x02, 0x1A, // 0x218 .word sprite-2
		0x12, 0x34, // 0x21A .word
		0xF0, 0xFF, // 0x21C sprite
	}, buf)
	assert.Equal(len(buf), pr.Size())
	assert.Equal(map[string]uint16{"start": 0x200, "wait": 0x210, "sprite": 0x21C}, pr.Labels())
}

func TestCompileAllInstructions(t *testing.T) {
	src := `
	SYS 0x123
	CLS
	RET
	JP 0x300
	CALL 0x400
	SE V1, 0x22
	SNE V1, 0x22
	SE V1, V2
	LD V1, 0x22
	ADD V1, 0x22
	LD V1, V2
	OR V1, V2
	AND V1, V2
	XOR V1, V2
	ADD V1, V2
	SUB V1, V2
	SHR V1
	SUBN V1, V2
	SHL V1
	SNE V1, V2
	LD I, 0x345
	JP V0, 0x345
	RND V1, 0x0F
	DRW V1, V2, 15
	SKP V1
	SKNP V1
	LD V1, DT
	LD V1, K
	LD DT, V1
	LD ST, V1
	ADD I, V1
	LD F, V1
	LD B, V1
	LD [I], V1
	LD V1, [I]
`
	buf, _, err := Compile("all.s", src)
	require.NoError(t, err)

	words := make([]uint16, 0, len(buf)/2)
	for i := 0; i < len(buf); i += 2 {
		words = append(words, uint16(buf[i])<<8|uint16(buf[i+1]))
	}
	assert.Equal(t, []uint16{
		0x0123, 0x00E0, 0x00EE, 0x1300, 0x2400, 0x3122, 0x4122, 0x5120,
		0x6122, 0x7122, 0x8120, 0x8121, 0x8122, 0x8123, 0x8124, 0x8125,
		0x8106, 0x8127, 0x810E, 0x9120, 0xA345, 0xB345, 0xC10F, 0xD12F,
		0xE19E, 0xE1A1, 0xF107, 0xF10A, 0xF115, 0xF118, 0xF11E, 0xF129,
		0xF133, 0xF155, 0xF165,
	}, words)
}

func TestCompileErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		err  string
	}{
		{"unknown instruction", "FOO V1", `unknown instruction "foo"`},
		{"bad operands", "LD V1, V2, V3", `invalid parameters`},
		{"unknown label", "JP nowhere", `unknown label "nowhere"`},
		{"duplicate label", "a:\nCLS\na:\nCLS", `duplicate label "a"`},
		{"reserved label", "V1:\nCLS", `reserved name`},
		{"byte out of range", "LD V1, 0x100", `out of range`},
		{"nibble out of range", "DRW V1, V2, 16", `out of range`},
		{"address out of range", "JP 0x1000", `out of range`},
		{"trailing comma", "LD V1,", `unexpected comma`},
		{"missing comma", "LD V1 V2", `expected comma`},
		{"bad indexed", "LD [V1], V2", `expected I`},
		{"unknown directive", ".org 0x300", `unknown directive`},
		{"empty directive", ".byte", `missing value`},
		{"bad character", "LD V1, @", `unexpected character`},
		{"bad number", "LD V1, 12ab", `bad number syntax`},
		{"empty", "; nothing\n", `empty program`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Compile("err.s", tt.src)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.err)
			}
		})
	}
}

func TestCompileErrorLine(t *testing.T) {
	_, _, err := Compile("line.s", "CLS\n\n; comment\nFOO\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line.s:4:")
}

func TestRoundTrip(t *testing.T) {
	data := []byte{
		0x00, 0xE0, 0xA2, 0x0E, 0x60, 0x00, 0x61, 0x00,
		0xD0, 0x15, 0x22, 0x0C, 0x12, 0x00, 0x00, 0xEE,
		0x81, 0x26, // Not canonical.
		0x51, 0x21, // Unknown.
		0xF0, // Trailing byte.
	}
	prog, err := disasm.Disasm("rt.ch8", data)
	require.NoError(t, err)

	src := &bytes.Buffer{}
	require.NoError(t, prog.WriteSource(src))

	buf, _, err := Compile("rt.s", src.String())
	require.NoError(t, err, src.String())
	assert.Equal(t, data, buf)
}
