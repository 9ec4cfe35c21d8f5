package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/chip8/asm"
	"go.creack.net/chip8/vm"
)

func newMachine(t *testing.T, name string) *vm.Machine {
	t.Helper()
	src, err := Source(name)
	require.NoError(t, err)
	buf, _, err := asm.Compile(name, src)
	require.NoError(t, err)

	cfg := vm.DefaultConfig()
	cfg.Seed = 1
	cfg.Program = buf
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)
	return m
}

func TestNames(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bounce", "counter", "keypad"}, names)

	_, err = Source("missing")
	assert.Error(t, err)
}

func TestDemosRun(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			m := newMachine(t, name)
			for range 1000 {
				require.NoError(t, m.Step())
				m.TickTimers()
			}
		})
	}
}

func TestKeypadDemo(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, "keypad")
	for range 10 {
		require.NoError(t, m.Step())
	}
	assert.True(m.WaitingKey)
	assert.Zero(m.Display.Lit())

	m.Keys.Press(0x8)
	for range 10 {
		require.NoError(t, m.Step())
	}
	assert.Equal(byte(0x8), m.V[0])
	assert.NotZero(m.Display.Lit())
	assert.True(m.Sound())
}

func TestCounterDemo(t *testing.T) {
	m := newMachine(t, "counter")
	for range 20 {
		require.NoError(t, m.Step())
	}
	// Three glyphs drawn, 0 0 0 until the first tick.
	assert.NotZero(t, m.Display.Lit())
	assert.Equal(t, byte(1), m.V[5])
}
