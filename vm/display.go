package vm

import "go.creack.net/chip8/op"

// Display is the 64x32 monochrome pixel plane, row major.
type Display [op.ScreenWidth * op.ScreenHeight]bool

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

// SetPixel toggles the cell at (x, y), after wrapping both coordinates.
// Returns true if the cell was lit and got turned off.
func (d *Display) SetPixel(x, y int) (erased bool) {
	idx := wrap(y, op.ScreenHeight)*op.ScreenWidth + wrap(x, op.ScreenWidth)
	erased = d[idx]
	d[idx] = !d[idx]
	return erased
}

// Pixel reports whether the cell at (x, y) is lit. Coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	return d[wrap(y, op.ScreenHeight)*op.ScreenWidth+wrap(x, op.ScreenWidth)]
}

func (d *Display) Clear() {
	*d = Display{}
}

// Lit returns the number of lit cells.
func (d *Display) Lit() int {
	n := 0
	for _, c := range d {
		if c {
			n++
		}
	}
	return n
}

// DrawSprite XORs the sprite rows at (x, y), 8 columns per row, MSB first.
// Returns true if any lit cell got turned off.
func (d *Display) DrawSprite(x, y int, rows []byte) (collision bool) {
	for row, b := range rows {
		for col := range op.SpriteWidth {
			if b&(0x80>>col) == 0 {
				continue
			}
			if d.SetPixel(x+col, y+row) {
				collision = true
			}
		}
	}
	return collision
}
