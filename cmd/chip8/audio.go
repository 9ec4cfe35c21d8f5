package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
	toneVolume    = 15 // Percent of the full scale.
)

// squareWave is an infinite 16 bit signed little endian stereo stream.
type squareWave struct {
	pos int64 // In frames.
}

func (s *squareWave) Read(buf []byte) (int, error) {
	const period = sampleRate / toneFrequency
	const amplitude = int16(0x7FFF * toneVolume / 100)

	n := len(buf) / 4 * 4
	for i := 0; i < n; i += 4 {
		v := amplitude
		if s.pos%period >= period/2 {
			v = -amplitude
		}
		buf[i] = byte(v)
		buf[i+1] = byte(v >> 8)
		buf[i+2] = byte(v)
		buf[i+3] = byte(v >> 8)
		s.pos++
	}
	return n, nil
}

// tone plays while the sound timer is running.
type tone struct {
	player *audio.Player
}

func newTone() (*tone, error) {
	ctx := audio.NewContext(sampleRate)
	p, err := ctx.NewPlayer(&squareWave{})
	if err != nil {
		return nil, fmt.Errorf("new audio player: %w", err)
	}
	return &tone{player: p}, nil
}

func (t *tone) set(on bool) {
	if t == nil {
		return
	}
	if on && !t.player.IsPlaying() {
		t.player.Play()
	} else if !on && t.player.IsPlaying() {
		t.player.Pause()
	}
}
