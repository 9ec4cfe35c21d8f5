package parser

import (
	"fmt"
	"strings"

	"go.creack.net/chip8/op"
)

type Instruction struct {
	OpCode *op.OpCode    // OpCode reference.
	Params []*Parameter // Parameters.
	Line   int
}

func (ins Instruction) PrettyPrint(_ []Node) string {
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	out := fmt.Sprintf("\t%-4s %s", strings.ToUpper(ins.OpCode.Name), strings.Join(paramStrs, string(op.SeparatorChar)+" "))
	return strings.TrimRight(out, " ")
}

func (ins Instruction) String() string {
	out := "<" + ins.OpCode.Name
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	if len(paramStrs) == 0 {
		return out + ">"
	}
	out += " (" + strings.Join(paramStrs, string(op.SeparatorChar)+" ") + ")"
	return out + ">"
}

// matchOpCode picks the first definition with the given name accepting the parameters.
func matchOpCode(name string, params []*Parameter) (*op.OpCode, error) {
	found := false
	for i := range op.OpCodeTable {
		oc := &op.OpCodeTable[i]
		if oc.Name != name {
			continue
		}
		found = true
		if len(oc.ParamTypes) != len(params) {
			continue
		}
		ok := true
		for j, pt := range oc.ParamTypes {
			if !params[j].Matches(pt) {
				ok = false
				break
			}
		}
		if ok {
			return oc, nil
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown instruction %q", name)
	}
	paramStrs := make([]string, 0, len(params))
	for _, param := range params {
		paramStrs = append(paramStrs, param.String())
	}
	return nil, fmt.Errorf("invalid parameters %q for %q", strings.Join(paramStrs, ", "), name)
}

func (ins Instruction) Encode(p *Program) ([]byte, error) {
	word := ins.OpCode.Value
	for i, pt := range ins.OpCode.ParamTypes {
		w, err := ins.Params[i].Encode(p, pt, word)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ins.Line, err)
		}
		word = w
	}
	buf := make([]byte, op.InstructionLen)
	op.Endian.PutUint16(buf, word)
	return p.emit(buf...)
}
