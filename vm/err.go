package vm

import (
	"errors"
	"strconv"

	"go.creack.net/chip8/internal/translate"
	"go.creack.net/chip8/op"
)

var f = translate.From

var (
	// Loader errors.
	ErrProgramEmpty    = errors.New(f("program empty"))
	ErrProgramTooLarge = errors.New(f("program larger than %s bytes", strconv.Itoa(op.MaxProgramSize)))

	// Runtime errors. Both are fatal, the stack and PC are left on the
	// faulting instruction.
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))

	// Configuration errors.
	ErrConfig = errors.New(f("invalid config"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	PC          uint16 // Address of the faulting instruction.
	Instruction op.Instruction
	Err         error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%03x %v: %v", err.PC, err.Instruction, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
