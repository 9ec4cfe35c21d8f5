package main

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// keymap maps the left hand side of a qwerty keyboard to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keymap = map[ebiten.Key]byte{
	ebiten.KeyX: 0x0,
	ebiten.Key1: 0x1,
	ebiten.Key2: 0x2,
	ebiten.Key3: 0x3,
	ebiten.KeyQ: 0x4,
	ebiten.KeyW: 0x5,
	ebiten.KeyE: 0x6,
	ebiten.KeyA: 0x7,
	ebiten.KeyS: 0x8,
	ebiten.KeyD: 0x9,
	ebiten.KeyZ: 0xA,
	ebiten.KeyC: 0xB,
	ebiten.Key4: 0xC,
	ebiten.KeyR: 0xD,
	ebiten.KeyF: 0xE,
	ebiten.KeyV: 0xF,
}
