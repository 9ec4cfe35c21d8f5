package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("stack full", From("stack full"))
	assert.Contains(From("pc 0x%03x", 0x200), "200")
}
