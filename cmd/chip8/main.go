// Package main is the entry point of the window front end.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"go.creack.net/chip8/cli"
	"go.creack.net/chip8/op"
	"go.creack.net/chip8/vm"
)

var (
	hudFace  font.Face = bitmapfont.Face
	fontFace           = text.NewGoXFace(hudFace)
)

var (
	hudColor     = color.RGBA{R: 0xFF, G: 0x80, A: 0xFF}
	hudBackColor = color.RGBA{A: 0xC0}
)

const hudMargin = 4

// Game implements ebiten.Game interface.
type Game struct {
	sched *vm.Scheduler
	rom   *cli.Rom
	tone  *tone // nil when muted.
	trace bool
	hud   bool
}

// Update polls the keyboard and drives the scheduler. The TPS is set to
// the CPU rate, the scheduler decides what is due.
func (g *Game) Update() error {
	m := g.sched.Machine

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.sched.Paused = !g.sched.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud = !g.hud
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if err := g.sched.Reset(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	for k, code := range keymap {
		m.Keys.Set(code, ebiten.IsKeyPressed(k))
	}

	if g.sched.Paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := g.sched.StepOnce(); err != nil {
			return fmt.Errorf("step: %w", err)
		}
	}
	if _, err := g.sched.Tick(time.Now()); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	g.drainMessages()
	g.tone.set(m.Sound() && !g.sched.Paused)

	return nil
}

func (g *Game) drainMessages() {
	for {
		select {
		case msg := <-g.sched.Machine.Messages:
			if g.trace || msg.Type == vm.MsgWarning || msg.Type == vm.MsgError {
				log.Printf("%s", msg)
			}
		default:
			return
		}
	}
}

// viewport returns the largest integer cell size fitting the window and the
// offset centering the pixel plane.
func viewport(w, h int) (scale, offX, offY int) {
	scale = max(min(w/op.ScreenWidth, h/op.ScreenHeight), 1)
	return scale, (w - op.ScreenWidth*scale) / 2, (h - op.ScreenHeight*scale) / 2
}

// Draw renders the pixel plane and the optional status line.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	m := g.sched.Machine
	scale, offX, offY := viewport(screen.Bounds().Dx(), screen.Bounds().Dy())
	for y := range op.ScreenHeight {
		for x := range op.ScreenWidth {
			if !m.Display.Pixel(x, y) {
				continue
			}
			vector.DrawFilledRect(screen,
				float32(offX+x*scale), float32(offY+y*scale),
				float32(scale), float32(scale),
				color.White, false)
		}
	}

	if !g.hud && !g.sched.Paused {
		return
	}
	status := fmt.Sprintf("%s  PC 0x%03X  I 0x%03X  cycle %d", g.rom.ShortName, m.PC, m.I, m.Cycle)
	if g.sched.Paused {
		status += "  [PAUSED]"
	}
	// Backdrop so the status stays legible over lit cells.
	width := font.MeasureString(hudFace, status).Ceil()
	height := hudFace.Metrics().Height.Ceil()
	vector.DrawFilledRect(screen, 0, 0, float32(width+2*hudMargin), float32(height+hudMargin), hudBackColor, false)

	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(hudMargin, hudMargin/2)
	textOp.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, status, fontFace, textOp)
}

// Layout uses the window size as is, Draw does the letterboxing.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return outsideWidth, outsideHeight
}

func main() {
	cfg, opts, rom, err := cli.ParseConfig(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse cli config: %s.", err)
	}

	m, err := vm.NewMachine(cfg)
	if err != nil {
		log.Fatalf("Failed to create machine: %s.", err)
	}
	sched := vm.NewScheduler(m)
	sched.Paused = opts.Paused

	game := &Game{
		sched: sched,
		rom:   rom,
		trace: cfg.Trace,
	}
	if !opts.Mute {
		t, err := newTone()
		if err != nil {
			log.Printf("Audio disabled: %s.", err)
		} else {
			game.tone = t
		}
	}

	ebiten.SetWindowSize(op.ScreenWidth*opts.Scale, op.ScreenHeight*opts.Scale)
	ebiten.SetWindowTitle("CHIP-8 Emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// One Update per batch, the scheduler still checks the elapsed time.
	ebiten.SetTPS(cfg.CPUHz)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("Machine stopped: %s.", err)
	}
}
