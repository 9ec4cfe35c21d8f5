package parser

import (
	"fmt"

	"go.creack.net/chip8/op"
)

type Program struct {
	Nodes []Node

	buf              []byte
	idx              int
	labels           map[string]int // Label offsets from the program start.
	hasLabelIndex    bool
	hasMissingLabels bool
}

func NewProgram(p *Parser) *Program {
	return &Program{
		Nodes: p.Nodes,

		buf:              make([]byte, op.MaxProgramSize),
		idx:              0,
		labels:           nil, // Keeping as nil to indicate that we don't have any labels yet.
		hasLabelIndex:    false,
		hasMissingLabels: false,
	}
}

func (p Program) Size() int {
	return p.idx
}

// Labels returns the address of every label.
func (p Program) Labels() map[string]uint16 {
	out := make(map[string]uint16, len(p.labels))
	for name, idx := range p.labels {
		out[name] = uint16(op.ProgramStart + idx)
	}
	return out
}

// emit appends the bytes at the current index.
func (p *Program) emit(b ...byte) ([]byte, error) {
	if p.idx+len(b) > len(p.buf) {
		return nil, fmt.Errorf("program larger than %d bytes", op.MaxProgramSize)
	}
	n := copy(p.buf[p.idx:], b)
	p.idx += n
	return p.buf[p.idx-n : p.idx], nil
}

// resolve returns the value of an expression parameter. When a label is not
// known yet on the first pass, ok is false.
func (p *Program) resolve(param Parameter) (v int64, ok bool, err error) {
	if param.Label == "" {
		return param.Offset, true, nil
	}
	if idx, found := p.labels[param.Label]; found {
		return int64(op.ProgramStart+idx) + param.Offset, true, nil
	}
	if !p.hasLabelIndex {
		p.hasMissingLabels = true
		return 0, false, nil
	}
	// If we don't know the label while having the labels index, error out.
	return 0, false, fmt.Errorf("unknown label %q", param.Label)
}

func (p *Program) encode() error {
	// If we have labels, it means we already encoded once and have the labels index.
	// Error out if we encounter a label that we don't know
	p.hasLabelIndex = p.labels != nil
	if !p.hasLabelIndex {
		p.labels = map[string]int{}
	}
	p.idx = 0
	for _, n := range p.Nodes {
		if _, err := n.Encode(p); err != nil {
			return fmt.Errorf("failed to encode %s: %w", n, err)
		}
	}

	return nil
}

func (p *Program) Encode() ([]byte, error) {
	if err := p.encode(); err != nil {
		return nil, fmt.Errorf("failed to first encode program: %w", err)
	}

	// If we have missing labels, we need to re-encode the program.
	if p.hasMissingLabels {
		if err := p.encode(); err != nil {
			return nil, fmt.Errorf("failed to re-encode program: %w", err)
		}
	}

	out := make([]byte, p.idx)
	copy(out, p.buf[:p.idx])
	return out, nil
}
