package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.creack.net/chip8/op"
)

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.NoError(s.Push(0x202))
	assert.NoError(s.Push(0x304))
	assert.Equal([]uint16{0x202, 0x304}, s.Frames())

	addr, err := s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x304), addr)
	addr, err = s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x202), addr)
	assert.True(s.Empty())
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := range op.StackDepth {
		assert.NoError(s.Push(uint16(i)))
	}
	assert.True(s.Full())
	assert.ErrorIs(s.Push(0xFFF), ErrStackOverflow)
	assert.Equal(op.StackDepth, s.SP)
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, err := s.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(0, s.SP)
}
