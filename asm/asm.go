// Package asm assembles CHIP-8 sources, in the mnemonic syntax of the
// disassembler listings, into program images.
package asm

import (
	"errors"
	"fmt"

	"go.creack.net/chip8/asm/parser"
)

var ErrEmptyProgram = errors.New("empty program")

// Compile assembles the source. Labels resolve to addresses above
// op.ProgramStart, where the image is loaded.
func Compile(inputName, inputData string) ([]byte, *parser.Program, error) {
	// Parse the input.
	p := parser.NewParser(inputName, inputData)
	if err := p.Parse(); err != nil {
		return nil, nil, fmt.Errorf("failed to parse: %w", err)
	}

	// Encode the program.
	pr := parser.NewProgram(p)
	program, err := pr.Encode()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode program: %w", err)
	}
	if len(program) == 0 {
		return nil, nil, fmt.Errorf("%q: %w", inputName, ErrEmptyProgram)
	}
	return program, pr, nil
}
