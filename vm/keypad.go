package vm

import "go.creack.net/chip8/op"

// Keypad is the latch of the 16 logical keys. Written by the front end,
// read by the machine.
type Keypad [op.KeyCount]bool

// Set records the press state of the key. Codes above 0xF are ignored.
func (k *Keypad) Set(code byte, pressed bool) {
	if int(code) >= len(k) {
		return
	}
	k[code] = pressed
}

func (k *Keypad) Press(code byte)   { k.Set(code, true) }
func (k *Keypad) Release(code byte) { k.Set(code, false) }

// Pressed reports the key state. Only the low nibble of code is used.
func (k *Keypad) Pressed(code byte) bool {
	return k[code&0x0F]
}

// FirstPressed returns the lowest pressed key code.
func (k *Keypad) FirstPressed() (byte, bool) {
	for i, down := range k {
		if down {
			return byte(i), true
		}
	}
	return 0, false
}

// Reset releases every key.
func (k *Keypad) Reset() {
	*k = Keypad{}
}
