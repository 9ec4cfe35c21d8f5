package parser

import (
	"fmt"
	"strings"

	"go.creack.net/chip8/op"
)

// Data directives. Values are written as is, big endian for words.
var directiveSizes = map[string]int{
	"byte": 1,
	"word": 2,
}

type Directive struct {
	Name   string
	Params []*Parameter
	Line   int
}

func (d Directive) String() string {
	return fmt.Sprintf("<%c%s (%d values)>", op.DirectiveChar, d.Name, len(d.Params))
}

func (d *Directive) PrettyPrint(_ []Node) string {
	paramStrs := make([]string, 0, len(d.Params))
	for _, param := range d.Params {
		paramStrs = append(paramStrs, param.String())
	}
	return "\t" + string(op.DirectiveChar) + d.Name + " " + strings.Join(paramStrs, string(op.SeparatorChar)+" ")
}

func (d *Directive) Encode(p *Program) ([]byte, error) {
	startIdx := p.idx

	size := directiveSizes[d.Name]
	limit := int64(1)<<(8*size) - 1
	for _, param := range d.Params {
		v, ok, err := p.resolve(*param)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", d.Line, err)
		}
		if ok && v < 0 && v >= -(limit+1)/2 {
			v &= limit
		}
		if ok && (v < 0 || v > limit) {
			return nil, fmt.Errorf("line %d: %s value %d out of range for .%s", d.Line, param, v, d.Name)
		}
		buf := make([]byte, size)
		if size == 1 {
			buf[0] = byte(v)
		} else {
			op.Endian.PutUint16(buf, uint16(v))
		}
		if _, err := p.emit(buf...); err != nil {
			return nil, err
		}
	}

	return p.buf[startIdx:p.idx], nil
}
