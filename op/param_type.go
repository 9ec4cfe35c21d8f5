package op

import "fmt"

// ParamType enum type. Describes how an operand is extracted from the
// instruction word and how it is rendered in listings.
type ParamType int

// ParamType values.
const (
	_        ParamType = iota
	TRegX              // Register from nibble 2 (Vx).
	TRegY              // Register from nibble 3 (Vy).
	TByte              // Low byte immediate (kk).
	TAddr              // Low 12 bits address (nnn).
	TNibble            // Low nibble immediate (n).
	TIndex             // Index register, literal "I".
	TIndexed           // Memory at I, literal "[I]".
	TV0                // Register V0, used by JP V0, addr.
	TDelay             // Delay timer, literal "DT".
	TSound             // Sound timer, literal "ST".
	TKey               // Key wait, literal "K".
	TGlyph             // Glyph location, literal "F".
	TBCD               // BCD store, literal "B".
)

func (pt ParamType) String() string {
	switch pt {
	case TRegX:
		return "register x"
	case TRegY:
		return "register y"
	case TByte:
		return "byte"
	case TAddr:
		return "address"
	case TNibble:
		return "nibble"
	case TIndex:
		return "index"
	case TIndexed:
		return "indexed"
	case TV0:
		return "v0"
	case TDelay:
		return "delay timer"
	case TSound:
		return "sound timer"
	case TKey:
		return "key"
	case TGlyph:
		return "glyph"
	case TBCD:
		return "bcd"
	default:
		return "unknown"
	}
}

// Format renders the operand for the given instruction word.
func (pt ParamType) Format(ins Instruction) string {
	switch pt {
	case TRegX:
		return fmt.Sprintf("V%X", ins.X())
	case TRegY:
		return fmt.Sprintf("V%X", ins.Y())
	case TByte:
		return fmt.Sprintf("0x%02X", ins.KK())
	case TAddr:
		return fmt.Sprintf("0x%03X", ins.NNN())
	case TNibble:
		return fmt.Sprintf("%d", ins.N())
	case TIndex:
		return "I"
	case TIndexed:
		return "[I]"
	case TV0:
		return "V0"
	case TDelay:
		return "DT"
	case TSound:
		return "ST"
	case TKey:
		return "K"
	case TGlyph:
		return "F"
	case TBCD:
		return "B"
	default:
		return "?"
	}
}

// Field returns the bits of the instruction word holding the operand and
// their shift. Implied operands (I, DT, K...) have no field.
func (pt ParamType) Field() (mask uint16, shift int) {
	switch pt {
	case TRegX:
		return 0x0F00, 8
	case TRegY:
		return 0x00F0, 4
	case TByte:
		return 0x00FF, 0
	case TAddr:
		return 0x0FFF, 0
	case TNibble:
		return 0x000F, 0
	default:
		return 0, 0
	}
}
