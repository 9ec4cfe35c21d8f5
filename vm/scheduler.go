package vm

import (
	"time"
)

// Scheduler drives a machine on two independent cadences: instruction
// batches every 1s/CPUHz and timer decrements every TimerPeriod.
// It does not own a clock, the caller passes the current time on every
// loop iteration.
type Scheduler struct {
	Machine *Machine

	CPUInterval time.Duration // Minimum time between two batches.
	BatchSize   int
	TimerPeriod time.Duration

	// Paused freezes both cadences. They are re-armed on the next Tick after resuming.
	Paused bool

	armed     bool
	lastCPU   time.Time
	lastTimer time.Time
	err       error // Sticky fatal error.
}

func NewScheduler(m *Machine) *Scheduler {
	return &Scheduler{
		Machine:     m,
		CPUInterval: time.Second / time.Duration(m.Config.CPUHz),
		BatchSize:   m.Config.BatchSize,
		TimerPeriod: m.Config.TimerPeriod,
	}
}

// Err returns the fatal error that stopped the machine, if any.
func (s *Scheduler) Err() error {
	return s.err
}

// Tick checks both cadences once. Neither blocks the other. The first call
// after creation, a resume or a reset only arms the time references.
// Returns the number of executed instructions.
func (s *Scheduler) Tick(now time.Time) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.Paused {
		s.armed = false
		return 0, nil
	}
	if !s.armed {
		s.armed = true
		s.lastCPU, s.lastTimer = now, now
		return 0, nil
	}

	executed := 0
	if now.Sub(s.lastCPU) >= s.CPUInterval {
		for range s.BatchSize {
			if err := s.fail(s.Machine.Step()); err != nil {
				return executed, err
			}
			executed++
		}
		s.lastCPU = now
	}

	// One decrement per full elapsed period. Catching up is capped as the
	// 8 bit timers are both at 0 after 255 decrements.
	if elapsed := now.Sub(s.lastTimer); elapsed >= s.TimerPeriod {
		n := elapsed / s.TimerPeriod
		s.lastTimer = s.lastTimer.Add(n * s.TimerPeriod)
		for range min(n, 0xFF) {
			s.Machine.TickTimers()
		}
	}

	return executed, nil
}

// StepOnce executes a single instruction regardless of the cadence,
// used to single step a paused machine.
func (s *Scheduler) StepOnce() error {
	if s.err != nil {
		return s.err
	}
	return s.fail(s.Machine.Step())
}

// Reset resets the machine and clears the error and the time references.
func (s *Scheduler) Reset() error {
	s.err = nil
	s.armed = false
	return s.fail(s.Machine.Reset())
}

func (s *Scheduler) fail(err error) error {
	if err == nil {
		return nil
	}
	s.err = err
	s.Machine.send(MsgError, s.Machine.PC, err.Error())
	return err
}
