package vm

import "go.creack.net/chip8/op"

// Stack is the call stack. SP points to the next free slot.
type Stack struct {
	Data [op.StackDepth]uint16
	SP   int
}

// Push fails with ErrStackOverflow past the 16th nested call.
func (s *Stack) Push(addr uint16) error {
	if s.Full() {
		return ErrStackOverflow
	}
	s.Data[s.SP] = addr
	s.SP++
	return nil
}

// Pop fails with ErrStackUnderflow when there is nothing to return to.
func (s *Stack) Pop() (uint16, error) {
	if s.Empty() {
		return 0, ErrStackUnderflow
	}
	s.SP--
	return s.Data[s.SP], nil
}

func (s *Stack) Empty() bool {
	return s.SP == 0
}

func (s *Stack) Full() bool {
	return s.SP == len(s.Data)
}

// Frames returns the active return addresses, oldest first.
func (s *Stack) Frames() []uint16 {
	return s.Data[:s.SP]
}

func (s *Stack) Reset() {
	*s = Stack{}
}
