package vm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/chip8/op"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSchedulerDefaults(t *testing.T) {
	assert := assert.New(t)

	s := NewScheduler(newMachine(t, 0x1200))
	assert.Equal(2*time.Millisecond, s.CPUInterval)
	assert.Equal(op.CyclesPerBatch, s.BatchSize)
	assert.Equal(16*time.Millisecond, s.TimerPeriod)
}

func TestSchedulerFirstTickArms(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0x7001, 0x1200)
	m.DT = 10
	s := NewScheduler(m)

	n, err := s.Tick(epoch)
	assert.NoError(err)
	assert.Zero(n)
	assert.Zero(m.Cycle)
	assert.Equal(byte(10), m.DT)
}

func TestSchedulerInstructionCadence(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0x7001, 0x1200)
	s := NewScheduler(m)
	_, _ = s.Tick(epoch)

	n, err := s.Tick(epoch.Add(time.Millisecond))
	assert.NoError(err)
	assert.Zero(n, "interval not elapsed")

	n, err = s.Tick(epoch.Add(2 * time.Millisecond))
	assert.NoError(err)
	assert.Equal(op.CyclesPerBatch, n)
	assert.Equal(uint64(op.CyclesPerBatch), m.Cycle)
	assert.Equal(byte(op.CyclesPerBatch/2), m.V[0])

	// The reference moved to the last batch.
	n, _ = s.Tick(epoch.Add(3 * time.Millisecond))
	assert.Zero(n)
	n, _ = s.Tick(epoch.Add(4 * time.Millisecond))
	assert.Equal(op.CyclesPerBatch, n)
}

func TestSchedulerTimersIndependentOfThroughput(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0x1200)
	m.DT, m.ST = 255, 255
	s := NewScheduler(m)
	s.CPUInterval = 0
	s.BatchSize = 1000
	_, _ = s.Tick(epoch)

	total := 0
	for i := 1; i <= 10; i++ {
		n, err := s.Tick(epoch.Add(time.Duration(i) * 100 * time.Microsecond))
		require.NoError(t, err)
		total += n
	}
	assert.Equal(10000, total)
	assert.GreaterOrEqual(m.DT, byte(254))
	assert.GreaterOrEqual(m.ST, byte(254))
}

func TestSchedulerIdleDecrements(t *testing.T) {
	for _, step := range []time.Duration{time.Millisecond, 5 * time.Millisecond, 17 * time.Millisecond, 160 * time.Millisecond} {
		t.Run(step.String(), func(t *testing.T) {
			m := newMachine(t, 0x1200)
			m.DT = 255
			s := NewScheduler(m)
			_, _ = s.Tick(epoch)

			for now := step; now < 160*time.Millisecond; now += step {
				_, err := s.Tick(epoch.Add(now))
				require.NoError(t, err)
			}
			_, err := s.Tick(epoch.Add(160 * time.Millisecond))
			require.NoError(t, err)
			assert.Equal(t, byte(245), m.DT)
		})
	}
}

func TestSchedulerTimersFloorAtZero(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0x1200)
	m.DT, m.ST = 3, 2
	s := NewScheduler(m)
	_, _ = s.Tick(epoch)
	_, _ = s.Tick(epoch.Add(time.Hour))
	assert.Zero(m.DT)
	assert.Zero(m.ST)
}

func TestSchedulerTimersKeepRunningWhileWaitingForKey(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0xF00A)
	m.DT = 100
	s := NewScheduler(m)
	_, _ = s.Tick(epoch)
	_, _ = s.Tick(epoch.Add(32 * time.Millisecond))
	assert.True(m.WaitingKey)
	assert.Equal(byte(98), m.DT)
}

func TestSchedulerPause(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0x7001, 0x1200)
	m.DT = 100
	s := NewScheduler(m)
	_, _ = s.Tick(epoch)

	s.Paused = true
	n, _ := s.Tick(epoch.Add(time.Second))
	assert.Zero(n)
	assert.Equal(byte(100), m.DT)

	assert.NoError(s.StepOnce())
	assert.Equal(byte(1), m.V[0])

	s.Paused = false
	n, _ = s.Tick(epoch.Add(2 * time.Second))
	assert.Zero(n, "re-arm after resume")
	n, _ = s.Tick(epoch.Add(2*time.Second + 16*time.Millisecond))
	assert.Equal(op.CyclesPerBatch, n)
	assert.Equal(byte(99), m.DT)
}

func TestSchedulerFatalErrorIsSticky(t *testing.T) {
	assert := assert.New(t)

	m := newMachine(t, 0x6005, 0x00EE)
	s := NewScheduler(m)
	_, _ = s.Tick(epoch)
	drain(m)

	n, err := s.Tick(epoch.Add(time.Second))
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(1, n)
	assert.ErrorIs(s.Err(), ErrStackUnderflow)

	_, err = s.Tick(epoch.Add(2 * time.Second))
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(s.StepOnce(), ErrStackUnderflow)

	var sawError bool
	for _, msg := range drain(m) {
		sawError = sawError || msg.Type == MsgError
	}
	assert.True(sawError)

	assert.NoError(s.Reset())
	assert.NoError(s.Err())
	assert.Equal(uint16(op.ProgramStart), m.PC)
}
