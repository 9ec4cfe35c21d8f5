package op

// Kind identifies an instruction pattern. Every decodable word maps to
// exactly one Kind, words matching no pattern map to Unknown.
type Kind int

// Kind values, one per instruction pattern.
const (
	Unknown Kind = iota // No pattern matched. Executed as a no-op.
	Sys                 // 0nnn
	Cls                 // 00E0
	Ret                 // 00EE
	Jp                  // 1nnn
	Call                // 2nnn
	SeByte              // 3xkk
	SneByte             // 4xkk
	SeReg               // 5xy0
	LdByte              // 6xkk
	AddByte             // 7xkk
	LdReg               // 8xy0
	Or                  // 8xy1
	And                 // 8xy2
	Xor                 // 8xy3
	AddReg              // 8xy4
	Sub                 // 8xy5
	Shr                 // 8xy6
	Subn                // 8xy7
	Shl                 // 8xyE
	SneReg              // 9xy0
	LdI                 // Annn
	JpV0                // Bnnn
	Rnd                 // Cxkk
	Drw                 // Dxyn
	Skp                 // Ex9E
	Sknp                // ExA1
	LdVxDT              // Fx07
	LdVxK               // Fx0A
	LdDTVx              // Fx15
	LdSTVx              // Fx18
	AddI                // Fx1E
	LdF                 // Fx29
	LdB                 // Fx33
	LdIVx               // Fx55
	LdVxI               // Fx65
)

func (k Kind) String() string {
	if k <= Unknown || int(k) > len(OpCodeTable) {
		return "unknown"
	}
	return OpCodeTable[k-1].Name
}

// OpCode is the definition of instructions.
type OpCode struct {
	Name       string
	ParamTypes []ParamType
	Kind       Kind
	Mask       uint16 // Bits that must match Value.
	Value      uint16
	Comment    string
}

// Matches returns true if the word selects this opcode.
func (oc *OpCode) Matches(word uint16) bool {
	return word&oc.Mask == oc.Value
}

// Canonical returns true if every bit of the word is either part of the
// pattern or of an operand, i.e. the mnemonic form encodes back to the same word.
// SHR V1 decoded from 0x8126 is not canonical, the ignored Vy would be lost.
func (oc *OpCode) Canonical(word uint16) bool {
	used := oc.Mask
	for _, pt := range oc.ParamTypes {
		m, _ := pt.Field()
		used |= m
	}
	return word&^used == 0
}

// OpCodeTable is indexed by Kind-1. Within a leading nibble, the more
// specific patterns come first (CLS and RET before SYS).
var OpCodeTable = []OpCode{
	{"sys", []ParamType{TAddr}, Sys, 0xF000, 0x0000, "machine code routine, ignored"},
	{"cls", nil, Cls, 0xFFFF, 0x00E0, "clear the display"},
	{"ret", nil, Ret, 0xFFFF, 0x00EE, "return from subroutine"},
	{"jp", []ParamType{TAddr}, Jp, 0xF000, 0x1000, "jump to nnn"},
	{"call", []ParamType{TAddr}, Call, 0xF000, 0x2000, "call subroutine at nnn"},
	{"se", []ParamType{TRegX, TByte}, SeByte, 0xF000, 0x3000, "skip if Vx == kk"},
	{"sne", []ParamType{TRegX, TByte}, SneByte, 0xF000, 0x4000, "skip if Vx != kk"},
	{"se", []ParamType{TRegX, TRegY}, SeReg, 0xF00F, 0x5000, "skip if Vx == Vy"},
	{"ld", []ParamType{TRegX, TByte}, LdByte, 0xF000, 0x6000, "Vx = kk"},
	{"add", []ParamType{TRegX, TByte}, AddByte, 0xF000, 0x7000, "Vx += kk, VF untouched"},
	{"ld", []ParamType{TRegX, TRegY}, LdReg, 0xF00F, 0x8000, "Vx = Vy"},
	{"or", []ParamType{TRegX, TRegY}, Or, 0xF00F, 0x8001, "Vx |= Vy"},
	{"and", []ParamType{TRegX, TRegY}, And, 0xF00F, 0x8002, "Vx &= Vy"},
	{"xor", []ParamType{TRegX, TRegY}, Xor, 0xF00F, 0x8003, "Vx ^= Vy"},
	{"add", []ParamType{TRegX, TRegY}, AddReg, 0xF00F, 0x8004, "Vx += Vy, VF = carry"},
	{"sub", []ParamType{TRegX, TRegY}, Sub, 0xF00F, 0x8005, "Vx -= Vy, VF = Vx > Vy"},
	{"shr", []ParamType{TRegX}, Shr, 0xF00F, 0x8006, "Vx >>= 1, VF = lsb, Vy ignored"},
	{"subn", []ParamType{TRegX, TRegY}, Subn, 0xF00F, 0x8007, "Vx = Vy - Vx, VF = Vy > Vx"},
	{"shl", []ParamType{TRegX}, Shl, 0xF00F, 0x800E, "Vx <<= 1, VF = msb, Vy ignored"},
	{"sne", []ParamType{TRegX, TRegY}, SneReg, 0xF00F, 0x9000, "skip if Vx != Vy"},
	{"ld", []ParamType{TIndex, TAddr}, LdI, 0xF000, 0xA000, "I = nnn"},
	{"jp", []ParamType{TV0, TAddr}, JpV0, 0xF000, 0xB000, "jump to nnn + V0"},
	{"rnd", []ParamType{TRegX, TByte}, Rnd, 0xF000, 0xC000, "Vx = random & kk"},
	{"drw", []ParamType{TRegX, TRegY, TNibble}, Drw, 0xF000, 0xD000, "draw n rows sprite at I, VF = collision"},
	{"skp", []ParamType{TRegX}, Skp, 0xF0FF, 0xE09E, "skip if key Vx pressed"},
	{"sknp", []ParamType{TRegX}, Sknp, 0xF0FF, 0xE0A1, "skip if key Vx not pressed"},
	{"ld", []ParamType{TRegX, TDelay}, LdVxDT, 0xF0FF, 0xF007, "Vx = DT"},
	{"ld", []ParamType{TRegX, TKey}, LdVxK, 0xF0FF, 0xF00A, "wait for a key, Vx = key"},
	{"ld", []ParamType{TDelay, TRegX}, LdDTVx, 0xF0FF, 0xF015, "DT = Vx"},
	{"ld", []ParamType{TSound, TRegX}, LdSTVx, 0xF0FF, 0xF018, "ST = Vx"},
	{"add", []ParamType{TIndex, TRegX}, AddI, 0xF0FF, 0xF01E, "I += Vx"},
	{"ld", []ParamType{TGlyph, TRegX}, LdF, 0xF0FF, 0xF029, "I = glyph address of Vx"},
	{"ld", []ParamType{TBCD, TRegX}, LdB, 0xF0FF, 0xF033, "store BCD of Vx at I"},
	{"ld", []ParamType{TIndexed, TRegX}, LdIVx, 0xF0FF, 0xF055, "store V0..Vx at I"},
	{"ld", []ParamType{TRegX, TIndexed}, LdVxI, 0xF0FF, 0xF065, "load V0..Vx from I"},
}

// byNibble groups the table by leading nibble, preserving table order.
var byNibble = func() [16][]*OpCode {
	var out [16][]*OpCode
	for i := range OpCodeTable {
		oc := &OpCodeTable[i]
		n := oc.Value >> 12
		out[n] = append(out[n], oc)
	}
	// SYS is the catch-all of the 0 nibble, move it last.
	zero := out[0]
	for i, oc := range zero {
		if oc.Kind == Sys {
			out[0] = append(append(zero[:i:i], zero[i+1:]...), oc)
			break
		}
	}
	return out
}()

// Lookup returns the opcode definition for the word, nil if none matches.
func Lookup(word uint16) *OpCode {
	for _, oc := range byNibble[word>>12] {
		if oc.Matches(word) {
			return oc
		}
	}
	return nil
}
