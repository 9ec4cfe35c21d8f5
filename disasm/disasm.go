// Package disasm produces instruction listings of CHIP-8 program images.
package disasm

import (
	"crypto/md5"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.creack.net/chip8/op"
)

func md5sum(data []byte) string {
	h := md5.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// WordReader is the subset of the address space needed to list code in place.
type WordReader interface {
	Word(addr uint16) uint16
}

type Line struct {
	Addr        uint16
	Instruction op.Instruction
	Size        int // 2, or 1 for a trailing odd byte.
}

func (l Line) String() string {
	if l.Size == 1 {
		return fmt.Sprintf("0x%03X: %02X    .byte 0x%02X", l.Addr, l.Instruction.Word>>8, l.Instruction.Word>>8)
	}
	return fmt.Sprintf("0x%03X: %04X  %s", l.Addr, l.Instruction.Word, l.Instruction)
}

type Program struct {
	Name   string
	Size   int
	MD5    string
	Lines  []Line
	Labels map[uint16]string // Jump, call and index targets inside the program.
}

// Disasm lists the program image as loaded at op.ProgramStart.
// Code and data are not told apart, every aligned word is decoded.
func Disasm(name string, data []byte) (*Program, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%q: empty program", name)
	}
	if len(data) > op.MaxProgramSize {
		return nil, fmt.Errorf("%q: program too large: %d bytes, max %d", name, len(data), op.MaxProgramSize)
	}

	prog := &Program{
		Name:   name,
		Size:   len(data),
		MD5:    md5sum(data),
		Lines:  make([]Line, 0, (len(data)+1)/2),
		Labels: map[uint16]string{},
	}
	for i := 0; i < len(data); i += op.InstructionLen {
		addr := uint16(op.ProgramStart + i)
		if i+1 == len(data) {
			prog.Lines = append(prog.Lines, Line{Addr: addr, Instruction: op.Instruction{Word: uint16(data[i]) << 8}, Size: 1})
			break
		}
		ins := op.DecodeBytes(data[i], data[i+1])
		prog.Lines = append(prog.Lines, Line{Addr: addr, Instruction: ins, Size: op.InstructionLen})
	}

	end := uint16(op.ProgramStart + len(data))
	for _, l := range prog.Lines {
		var target uint16
		switch l.Instruction.Kind() {
		case op.Jp, op.Call, op.LdI:
			target = l.Instruction.NNN()
		default:
			continue
		}
		// Only aligned targets get a line to attach the label to.
		if target < op.ProgramStart || target >= end || (target-op.ProgramStart)%op.InstructionLen != 0 {
			continue
		}
		prefix := "L"
		if l.Instruction.Kind() == op.Call {
			prefix = "F"
		} else if l.Instruction.Kind() == op.LdI {
			prefix = "D"
		}
		if _, ok := prog.Labels[target]; !ok {
			prog.Labels[target] = fmt.Sprintf("%s%03X", prefix, target)
		}
	}

	return prog, nil
}

// Write dumps the listing, labels on their own line.
func (p *Program) Write(w io.Writer) error {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "; %s\n; %d bytes, md5 %s\n", p.Name, p.Size, p.MD5)
	for _, l := range p.Lines {
		if label, ok := p.Labels[l.Addr]; ok {
			fmt.Fprintf(buf, "%s:\n", label)
		}
		fmt.Fprintf(buf, "  %s", l)
		if l.Instruction.OpCode != nil && l.Size == op.InstructionLen {
			fmt.Fprintf(buf, "  ; %s", l.Instruction.OpCode.Comment)
		}
		fmt.Fprintf(buf, "\n")
	}
	if _, err := io.WriteString(w, buf.String()); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}
	return nil
}

// WriteSource dumps the program as assembler source: jump, call and index
// targets become labels, words the mnemonic form can't encode back
// (unknown patterns, ignored operand bits) become data.
func (p *Program) WriteSource(w io.Writer) error {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "; %s\n; %d bytes, md5 %s\n\n", p.Name, p.Size, p.MD5)
	for _, l := range p.Lines {
		if label, ok := p.Labels[l.Addr]; ok {
			fmt.Fprintf(buf, "%s:\n", label)
		}
		fmt.Fprintf(buf, "\t%s\n", p.source(l))
	}
	if _, err := io.WriteString(w, buf.String()); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	return nil
}

func (p *Program) source(l Line) string {
	ins := l.Instruction
	if l.Size == 1 {
		return fmt.Sprintf(".byte 0x%02X", ins.Word>>8)
	}
	if ins.OpCode == nil {
		return ins.String()
	}
	if !ins.OpCode.Canonical(ins.Word) {
		return fmt.Sprintf(".word 0x%04X ; %s", ins.Word, ins)
	}
	params := make([]string, 0, len(ins.OpCode.ParamTypes))
	for _, pt := range ins.OpCode.ParamTypes {
		if label, ok := p.Labels[ins.NNN()]; ok && pt == op.TAddr {
			params = append(params, label)
			continue
		}
		params = append(params, pt.Format(ins))
	}
	name := strings.ToUpper(ins.OpCode.Name)
	if len(params) == 0 {
		return name
	}
	return name + " " + strings.Join(params, ", ")
}

// SortedLabels returns the label addresses in ascending order.
func (p *Program) SortedLabels() []uint16 {
	out := make([]uint16, 0, len(p.Labels))
	for addr := range p.Labels {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

// Range decodes count words in place starting at from, used to list the
// code around the PC of a running machine.
func Range(r WordReader, from uint16, count int) []Line {
	out := make([]Line, 0, count)
	for i := range count {
		addr := (from + uint16(i*op.InstructionLen)) & op.AddrMask
		out = append(out, Line{Addr: addr, Instruction: op.Decode(r.Word(addr)), Size: op.InstructionLen})
	}
	return out
}
