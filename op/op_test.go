package op

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpCodeTableOrder(t *testing.T) {
	assert := assert.New(t)

	assert.Len(OpCodeTable, 35)
	for i, oc := range OpCodeTable {
		assert.Equal(Kind(i+1), oc.Kind, oc.Name)
		assert.Equal(oc.Value, oc.Value&oc.Mask, "value has bits outside the mask for %s", oc.Name)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		kind Kind
		text string
	}{
		{0x00E0, Cls, "CLS"},
		{0x00EE, Ret, "RET"},
		{0x0123, Sys, "SYS 0x123"},
		{0x1ABC, Jp, "JP 0xABC"},
		{0x2300, Call, "CALL 0x300"},
		{0x3A42, SeByte, "SE VA, 0x42"},
		{0x4A42, SneByte, "SNE VA, 0x42"},
		{0x5120, SeReg, "SE V1, V2"},
		{0x5121, Unknown, ".word 0x5121"},
		{0x6005, LdByte, "LD V0, 0x05"},
		{0x7003, AddByte, "ADD V0, 0x03"},
		{0x8120, LdReg, "LD V1, V2"},
		{0x8121, Or, "OR V1, V2"},
		{0x8122, And, "AND V1, V2"},
		{0x8123, Xor, "XOR V1, V2"},
		{0x8124, AddReg, "ADD V1, V2"},
		{0x8125, Sub, "SUB V1, V2"},
		{0x8126, Shr, "SHR V1"},
		{0x8127, Subn, "SUBN V1, V2"},
		{0x812E, Shl, "SHL V1"},
		{0x8128, Unknown, ".word 0x8128"},
		{0x9120, SneReg, "SNE V1, V2"},
		{0xA300, LdI, "LD I, 0x300"},
		{0xB200, JpV0, "JP V0, 0x200"},
		{0xC10F, Rnd, "RND V1, 0x0F"},
		{0xD125, Drw, "DRW V1, V2, 5"},
		{0xE39E, Skp, "SKP V3"},
		{0xE3A1, Sknp, "SKNP V3"},
		{0xE3A2, Unknown, ".word 0xE3A2"},
		{0xF407, LdVxDT, "LD V4, DT"},
		{0xF40A, LdVxK, "LD V4, K"},
		{0xF415, LdDTVx, "LD DT, V4"},
		{0xF418, LdSTVx, "LD ST, V4"},
		{0xF41E, AddI, "ADD I, V4"},
		{0xF429, LdF, "LD F, V4"},
		{0xF433, LdB, "LD B, V4"},
		{0xF455, LdIVx, "LD [I], V4"},
		{0xF465, LdVxI, "LD V4, [I]"},
		{0xFFFF, Unknown, ".word 0xFFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ins := Decode(tt.word)
			assert.Equal(t, tt.kind, ins.Kind())
			assert.Equal(t, tt.text, ins.String())
		})
	}
}

func TestInstructionFields(t *testing.T) {
	assert := assert.New(t)

	ins := DecodeBytes(0xD1, 0x2F)
	assert.Equal(uint16(0xD12F), ins.Word)
	assert.Equal(byte(0x1), ins.X())
	assert.Equal(byte(0x2), ins.Y())
	assert.Equal(byte(0xF), ins.N())
	assert.Equal(byte(0x2F), ins.KK())
	assert.Equal(uint16(0x12F), ins.NNN())
}

func TestGlyphAddr(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(0x050), GlyphAddr(0))
	assert.Equal(uint16(0x050+0xF*5), GlyphAddr(0xF))
	assert.Equal(FontEnd, int(GlyphAddr(0xF))+GlyphSize-1)
}

func TestKindString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("unknown", Unknown.String())
	assert.Equal("drw", Drw.String())
	assert.Equal("ld", LdVxI.String())
	assert.Equal("unknown", Kind(99).String())
}

func TestCanonical(t *testing.T) {
	for _, tt := range []struct {
		word      uint16
		canonical bool
	}{
		{0x8106, true},
		{0x8126, false},
		{0x810E, true},
		{0x81FE, false},
		{0x6005, true},
		{0xD12F, true},
		{0x00E0, true},
		{0x0123, true},
		{0xF10A, true},
	} {
		ins := Decode(tt.word)
		if assert.NotNil(t, ins.OpCode, "%04X", tt.word) {
			assert.Equal(t, tt.canonical, ins.OpCode.Canonical(tt.word), "%04X", tt.word)
		}
	}
}

func TestParamTypeField(t *testing.T) {
	assert := assert.New(t)

	mask, shift := TRegX.Field()
	assert.Equal(uint16(0x0F00), mask)
	assert.Equal(8, shift)
	mask, shift = TRegY.Field()
	assert.Equal(uint16(0x00F0), mask)
	assert.Equal(4, shift)
	mask, _ = TIndexed.Field()
	assert.Zero(mask)
}

func TestTimerPeriod(t *testing.T) {
	nominal := time.Second / TimerHz
	assert.Equal(t, nominal.Truncate(time.Millisecond), TimerPeriod)
}
