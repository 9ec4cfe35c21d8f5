package parser

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/chip8/op"
)

type ParamKind int

const (
	_            ParamKind = iota
	ParamRegister          // V0-VF.
	ParamKeyword           // I, DT, ST, K, F or B.
	ParamIndexed           // [I].
	ParamExpr              // Number, label reference, with optional +/- offsets.
)

var keywords = map[string]op.ParamType{
	"I":  op.TIndex,
	"DT": op.TDelay,
	"ST": op.TSound,
	"K":  op.TKey,
	"F":  op.TGlyph,
	"B":  op.TBCD,
}

// Parameter represents an operand of an instruction or a directive.
type Parameter struct {
	Kind    ParamKind
	Reg     byte   // ParamRegister.
	Keyword string // ParamKeyword, upper case.
	Label   string // ParamExpr, optional label reference.
	Offset  int64  // ParamExpr, the value or the offset from the label.
	Raw     string
}

func (p Parameter) String() string {
	return p.Raw
}

func isReserved(name string) bool {
	if _, ok := parseRegister(name); ok {
		return true
	}
	_, ok := keywords[strings.ToUpper(name)]
	return ok
}

func parseRegister(in string) (byte, bool) {
	if len(in) != 2 || (in[0] != 'V' && in[0] != 'v') {
		return 0, false
	}
	n, err := strconv.ParseUint(in[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(n), true
}

func parseNumber(in string) (int64, error) {
	s := strings.ReplaceAll(in, "_", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")

	var n int64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err = strconv.ParseInt(s[2:], 16, 64)
	} else if strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		n, err = strconv.ParseInt(s[2:], 8, 64)
	} else if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		n, err = strconv.ParseInt(s[2:], 2, 64)
	} else {
		n, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", in, err)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// Matches returns true if the parameter can be used for the given operand type.
func (p Parameter) Matches(pt op.ParamType) bool {
	switch pt {
	case op.TRegX, op.TRegY:
		return p.Kind == ParamRegister
	case op.TV0:
		return p.Kind == ParamRegister && p.Reg == 0
	case op.TByte, op.TAddr, op.TNibble:
		return p.Kind == ParamExpr
	case op.TIndexed:
		return p.Kind == ParamIndexed
	default:
		return p.Kind == ParamKeyword && keywords[p.Keyword] == pt
	}
}

// Encode places the parameter value in the operand field of the word.
// Unresolved labels on the first pass leave the field empty.
func (p Parameter) Encode(pr *Program, pt op.ParamType, word uint16) (uint16, error) {
	mask, shift := pt.Field()
	if mask == 0 {
		return word, nil
	}

	var v int64
	switch p.Kind {
	case ParamRegister:
		v = int64(p.Reg)
	case ParamExpr:
		n, ok, err := pr.resolve(p)
		if err != nil {
			return 0, err
		}
		if !ok {
			return word, nil
		}
		v = n
	default:
		return 0, fmt.Errorf("unexpected parameter %s for %s", p, pt)
	}

	// Negative bytes are stored as two's complement.
	if pt == op.TByte && v < 0 && v >= -0x80 {
		v &= 0xFF
	}
	if limit := int64(mask >> shift); v < 0 || v > limit {
		return 0, fmt.Errorf("%s value %d out of range for %s, max 0x%X", p, v, pt, limit)
	}
	return word | uint16(v)<<shift, nil
}
