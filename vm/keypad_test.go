package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad(t *testing.T) {
	assert := assert.New(t)

	var k Keypad
	_, ok := k.FirstPressed()
	assert.False(ok)

	k.Press(0xC)
	k.Press(0x3)
	assert.True(k.Pressed(0xC))
	key, ok := k.FirstPressed()
	assert.True(ok)
	assert.Equal(byte(0x3), key)

	k.Release(0x3)
	key, _ = k.FirstPressed()
	assert.Equal(byte(0xC), key)

	k.Set(0x10, true) // Ignored.
	assert.False(k.Pressed(0x0))
	assert.True(k.Pressed(0x1C), "reads use the low nibble")

	k.Reset()
	_, ok = k.FirstPressed()
	assert.False(ok)
}
