package op

import (
	"fmt"
	"strings"
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Word   uint16
	OpCode *OpCode // nil when the word matches no pattern.
}

// Decode decodes the given instruction word.
func Decode(word uint16) Instruction {
	return Instruction{Word: word, OpCode: Lookup(word)}
}

// DecodeBytes decodes the big endian instruction made of hi and lo.
func DecodeBytes(hi, lo byte) Instruction {
	return Decode(uint16(hi)<<8 | uint16(lo))
}

// Kind returns the instruction kind, Unknown if the word was not recognized.
func (ins Instruction) Kind() Kind {
	if ins.OpCode == nil {
		return Unknown
	}
	return ins.OpCode.Kind
}

// X is the register index from nibble 2.
func (ins Instruction) X() byte { return byte(ins.Word>>8) & 0x0F }

// Y is the register index from nibble 3.
func (ins Instruction) Y() byte { return byte(ins.Word>>4) & 0x0F }

// N is the low nibble.
func (ins Instruction) N() byte { return byte(ins.Word) & 0x0F }

// KK is the low byte.
func (ins Instruction) KK() byte { return byte(ins.Word) }

// NNN is the low 12 bits.
func (ins Instruction) NNN() uint16 { return ins.Word & 0x0FFF }

// String renders the instruction in the conventional mnemonic form,
// i.e. "LD V0, 0x05". Unknown words are rendered as raw data.
func (ins Instruction) String() string {
	if ins.OpCode == nil {
		return fmt.Sprintf(".word 0x%04X", ins.Word)
	}
	if len(ins.OpCode.ParamTypes) == 0 {
		return strings.ToUpper(ins.OpCode.Name)
	}
	params := make([]string, 0, len(ins.OpCode.ParamTypes))
	for _, pt := range ins.OpCode.ParamTypes {
		params = append(params, pt.Format(ins))
	}
	return strings.ToUpper(ins.OpCode.Name) + " " + strings.Join(params, ", ")
}
