// Package vm implements the CHIP-8 virtual machine: address space, registers,
// call stack, timers, pixel plane, key latch and the decode/execute engine.
package vm

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.creack.net/chip8/op"
)

type Config struct {
	CPUHz       int           // Instruction batches per second.
	BatchSize   int           // Instructions per batch.
	TimerPeriod time.Duration // Time between two timer decrements.
	Seed        uint64        // Seed of the random source used by RND. 0 picks a random seed.
	Trace       bool          // Emit a MsgDebug message for every executed instruction.

	Program []byte
}

func DefaultConfig() Config {
	return Config{
		CPUHz:       op.CPUHz,
		BatchSize:   op.CyclesPerBatch,
		TimerPeriod: op.TimerPeriod,
	}
}

func (cfg Config) Validate() error {
	if cfg.CPUHz <= 0 {
		return fmt.Errorf("%w: cpu hz must be positive, got %d", ErrConfig, cfg.CPUHz)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrConfig, cfg.BatchSize)
	}
	if cfg.TimerPeriod <= 0 {
		return fmt.Errorf("%w: timer period must be positive, got %s", ErrConfig, cfg.TimerPeriod)
	}
	return nil
}

type Machine struct {
	Config Config

	Ram     Ram
	Display Display
	Keys    Keypad

	V     [op.RegisterCount]byte
	I     uint16
	PC    uint16
	Stack Stack
	DT    byte
	ST    byte

	// Set by LD Vx, K while no key is pressed. Step polls the latch
	// instead of fetching until a key shows up.
	WaitingKey   bool
	WaitRegister byte

	Cycle           uint64         // Executed cycles since the last reset.
	LastInstruction op.Instruction // Last fetched instruction.

	// Messages is a channel where the VM will send messages.
	// Sends never block, messages are dropped when nobody keeps up.
	Messages chan Message `json:"-"`

	rand *rand.Rand
}

// NewMachine creates a machine with the glyph table and the program loaded
// and the PC at the start of the program.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	m := &Machine{
		Config:   cfg,
		Messages: make(chan Message, 256), // Arbitrary size.
	}
	if err := m.Reset(); err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}
	return m, nil
}

// Reset puts the machine back in its startup state: everything zeroed,
// glyph table and program reloaded, PC at the program start.
// The random source is re-seeded with the configured seed.
func (m *Machine) Reset() error {
	m.Ram = Ram{}
	m.Display.Clear()
	m.Keys.Reset()
	m.V = [op.RegisterCount]byte{}
	m.I = 0
	m.Stack.Reset()
	m.DT, m.ST = 0, 0
	m.WaitingKey, m.WaitRegister = false, 0
	m.Cycle = 0
	m.LastInstruction = op.Instruction{}
	m.rand = rand.New(rand.NewPCG(m.Config.Seed, m.Config.Seed>>1|1))

	m.Ram.LoadFont()
	if err := m.Ram.Load(m.Config.Program); err != nil {
		return err
	}
	m.PC = op.ProgramStart
	m.send(MsgReset, m.PC, "reset")
	return nil
}

func (m *Machine) send(mt MessageType, pc uint16, msg string) {
	if m.Messages == nil {
		return
	}
	select {
	case m.Messages <- NewMessage(mt, pc, m.Cycle, msg):
	default:
	}
}

// Sound reports whether the tone should be playing.
func (m *Machine) Sound() bool {
	return m.ST > 0
}

func (m *Machine) setSoundTimer(v byte) {
	was := m.ST > 0
	m.ST = v
	if now := m.ST > 0; now != was {
		m.send(MsgSound, m.PC, f("sound %t", now))
	}
}

// TickTimers decrements both timers, floored at 0.
func (m *Machine) TickTimers() {
	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.setSoundTimer(m.ST - 1)
	}
}

// Step runs a single cycle: fetch the instruction at PC, advance PC
// and execute it. While waiting for a key, polls the latch instead.
func (m *Machine) Step() error {
	m.Cycle++

	if m.WaitingKey {
		if key, ok := m.Keys.FirstPressed(); ok {
			m.V[m.WaitRegister] = key
			m.WaitingKey = false
		}
		return nil
	}

	pc := m.PC
	ins := op.Decode(m.Ram.Word(pc))
	m.PC += op.InstructionLen
	m.LastInstruction = ins

	if m.Config.Trace {
		m.send(MsgDebug, pc, fmt.Sprintf("%04x %s", ins.Word, ins))
	}

	if err := ops[ins.Kind()](m, ins); err != nil {
		m.PC = pc
		return &ErrRuntime{PC: pc, Instruction: ins, Err: err}
	}
	return nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += op.InstructionLen
	}
}

// flagOp returns the op function for the 8xy arithmetic group.
// The result is computed from the operands before any write, VF is written
// first and Vx last, so with x == F the result wins over the flag.
func flagOp(operation func(vx, vy byte) (result, flag byte)) func(m *Machine, ins op.Instruction) error {
	return func(m *Machine, ins op.Instruction) error {
		result, flag := operation(m.V[ins.X()], m.V[ins.Y()])
		m.V[op.FlagRegister] = flag
		m.V[ins.X()] = result
		return nil
	}
}

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func opAdd(vx, vy byte) (byte, byte)  { return vx + vy, b2u(uint16(vx)+uint16(vy) > 0xFF) }
func opSub(vx, vy byte) (byte, byte)  { return vx - vy, b2u(vx > vy) }
func opSubn(vx, vy byte) (byte, byte) { return vy - vx, b2u(vy > vx) }

// Shifts operate on Vx, Vy is ignored. Some variants shift Vy into Vx instead.
func opShr(vx, _ byte) (byte, byte) { return vx >> 1, vx & 0x01 }
func opShl(vx, _ byte) (byte, byte) { return vx << 1, (vx >> 7) & 0x01 }

func noop(*Machine, op.Instruction) error { return nil }

var ops = func() map[op.Kind]func(m *Machine, ins op.Instruction) error {
	ops := map[op.Kind]func(m *Machine, ins op.Instruction) error{}

	// Unrecognized words and machine code routines are no-ops, the PC
	// has already been advanced.
	ops[op.Unknown] = func(m *Machine, ins op.Instruction) error {
		m.send(MsgWarning, m.PC-op.InstructionLen, fmt.Sprintf("unknown opcode 0x%04x", ins.Word))
		return nil
	}
	ops[op.Sys] = noop

	// cls. Clear the pixel plane.
	ops[op.Cls] = func(m *Machine, _ op.Instruction) error {
		m.Display.Clear()
		m.send(MsgClear, m.PC-op.InstructionLen, "clear")
		return nil
	}

	// ret. Pop the return address.
	ops[op.Ret] = func(m *Machine, _ op.Instruction) error {
		addr, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		m.PC = addr
		return nil
	}

	// jp nnn.
	ops[op.Jp] = func(m *Machine, ins op.Instruction) error {
		m.PC = ins.NNN()
		return nil
	}

	// call nnn. Push the address of the next instruction.
	ops[op.Call] = func(m *Machine, ins op.Instruction) error {
		if err := m.Stack.Push(m.PC); err != nil {
			return err
		}
		m.PC = ins.NNN()
		return nil
	}

	// Conditional skips.
	ops[op.SeByte] = func(m *Machine, ins op.Instruction) error {
		m.skipIf(m.V[ins.X()] == ins.KK())
		return nil
	}
	ops[op.SneByte] = func(m *Machine, ins op.Instruction) error {
		m.skipIf(m.V[ins.X()] != ins.KK())
		return nil
	}
	ops[op.SeReg] = func(m *Machine, ins op.Instruction) error {
		m.skipIf(m.V[ins.X()] == m.V[ins.Y()])
		return nil
	}
	ops[op.SneReg] = func(m *Machine, ins op.Instruction) error {
		m.skipIf(m.V[ins.X()] != m.V[ins.Y()])
		return nil
	}

	// ld Vx, kk. add Vx, kk. The add wraps and leaves VF untouched.
	ops[op.LdByte] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] = ins.KK()
		return nil
	}
	ops[op.AddByte] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] += ins.KK()
		return nil
	}

	// Register to register, no flag.
	ops[op.LdReg] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] = m.V[ins.Y()]
		return nil
	}
	ops[op.Or] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] |= m.V[ins.Y()]
		return nil
	}
	ops[op.And] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] &= m.V[ins.Y()]
		return nil
	}
	ops[op.Xor] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] ^= m.V[ins.Y()]
		return nil
	}

	// Arithmetic with VF as carry/no-borrow/shifted-out bit.
	ops[op.AddReg] = flagOp(opAdd)
	ops[op.Sub] = flagOp(opSub)
	ops[op.Subn] = flagOp(opSubn)
	ops[op.Shr] = flagOp(opShr)
	ops[op.Shl] = flagOp(opShl)

	// ld I, nnn.
	ops[op.LdI] = func(m *Machine, ins op.Instruction) error {
		m.I = ins.NNN()
		return nil
	}

	// jp V0, nnn.
	ops[op.JpV0] = func(m *Machine, ins op.Instruction) error {
		m.PC = ins.NNN() + uint16(m.V[0])
		return nil
	}

	// rnd Vx, kk.
	ops[op.Rnd] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] = byte(m.rand.UintN(256)) & ins.KK()
		return nil
	}

	// drw Vx, Vy, n. XOR n rows read at I onto the plane, VF = collision.
	ops[op.Drw] = func(m *Machine, ins op.Instruction) error {
		x, y := int(m.V[ins.X()]), int(m.V[ins.Y()])
		rows := m.Ram.Bytes(m.I, int(ins.N()))
		m.V[op.FlagRegister] = 0
		if m.Display.DrawSprite(x, y, rows) {
			m.V[op.FlagRegister] = 1
		}
		return nil
	}

	// Key latch.
	ops[op.Skp] = func(m *Machine, ins op.Instruction) error {
		m.skipIf(m.Keys.Pressed(m.V[ins.X()]))
		return nil
	}
	ops[op.Sknp] = func(m *Machine, ins op.Instruction) error {
		m.skipIf(!m.Keys.Pressed(m.V[ins.X()]))
		return nil
	}
	ops[op.LdVxK] = func(m *Machine, ins op.Instruction) error {
		if key, ok := m.Keys.FirstPressed(); ok {
			m.V[ins.X()] = key
			return nil
		}
		m.WaitingKey = true
		m.WaitRegister = ins.X()
		m.send(MsgWaitKey, m.PC-op.InstructionLen, f("waiting for key into V%X", ins.X()))
		return nil
	}

	// Timers.
	ops[op.LdVxDT] = func(m *Machine, ins op.Instruction) error {
		m.V[ins.X()] = m.DT
		return nil
	}
	ops[op.LdDTVx] = func(m *Machine, ins op.Instruction) error {
		m.DT = m.V[ins.X()]
		return nil
	}
	ops[op.LdSTVx] = func(m *Machine, ins op.Instruction) error {
		m.setSoundTimer(m.V[ins.X()])
		return nil
	}

	// Index register. I keeps 16 bits, only memory accesses wrap.
	ops[op.AddI] = func(m *Machine, ins op.Instruction) error {
		m.I += uint16(m.V[ins.X()])
		return nil
	}
	ops[op.LdF] = func(m *Machine, ins op.Instruction) error {
		m.I = op.GlyphAddr(m.V[ins.X()])
		return nil
	}

	// ld B, Vx. Hundreds, tens and ones digits at I, I+1, I+2.
	ops[op.LdB] = func(m *Machine, ins op.Instruction) error {
		v := m.V[ins.X()]
		m.Ram.Write(m.I, v/100)
		m.Ram.Write(m.I+1, (v/10)%10)
		m.Ram.Write(m.I+2, v%10)
		return nil
	}

	// Register dump/load, V0 through Vx inclusive. I is left unchanged.
	ops[op.LdIVx] = func(m *Machine, ins op.Instruction) error {
		for i := range uint16(ins.X()) + 1 {
			m.Ram.Write(m.I+i, m.V[i])
		}
		return nil
	}
	ops[op.LdVxI] = func(m *Machine, ins op.Instruction) error {
		for i := range uint16(ins.X()) + 1 {
			m.V[i] = m.Ram.Read(m.I + i)
		}
		return nil
	}

	return ops
}()
