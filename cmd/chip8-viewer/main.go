// Package main is a terminal debugger: pixel plane, registers, code around
// the PC and the machine messages, with pause and single step.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/chip8/cli"
	"go.creack.net/chip8/disasm"
	"go.creack.net/chip8/op"
	"go.creack.net/chip8/vm"
)

// Terminals only report presses, a key is held for keyHold after its last
// press or repeat.
const keyHold = 150 * time.Millisecond

const (
	redrawInterval = time.Second / 30
	codeLines      = 24
)

var keymap = map[rune]byte{
	'x': 0x0, '1': 0x1, '2': 0x2, '3': 0x3,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'a': 0x7,
	's': 0x8, 'd': 0x9, 'z': 0xA, 'c': 0xB,
	'4': 0xC, 'r': 0xD, 'f': 0xE, 'v': 0xF,
}

// Two pixel rows per text row.
var halfBlocks = [2][2]rune{
	{' ', '▄'},
	{'▀', '█'},
}

func dumpScreen(d *vm.Display) string {
	out := &strings.Builder{}
	for y := 0; y < op.ScreenHeight; y += 2 {
		for x := range op.ScreenWidth {
			out.WriteRune(halfBlocks[b2i(d.Pixel(x, y))][b2i(d.Pixel(x, y+1))])
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

type Game struct {
	app *tview.Application

	root *tview.Pages

	screenView    *tview.TextView
	registersView *tview.Table
	codeView      *tview.TextView
	stateView     *tview.TextView
	logsView      *tview.TextView

	sched *vm.Scheduler
	rom   *cli.Rom

	keyDeadlines [op.KeyCount]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func NewGame(ctx context.Context, sched *vm.Scheduler, rom *cli.Rom, listing *disasm.Program) *Game {
	app := tview.NewApplication()

	newTextView := func(title string) *tview.TextView {
		tv := tview.NewTextView().SetDynamicColors(true)
		tv.SetTitle(title).SetBorder(true)
		return tv
	}

	screenView := tview.NewTextView().SetWrap(false)
	screenView.SetTitle(rom.ShortName).SetBorder(true)

	registersView := tview.NewTable().SetBorders(false)
	registersView.SetTitle("Registers").SetBorder(true)

	codeView := newTextView("Code")
	stateView := newTextView("State")

	logsView := newTextView("Logs")
	logsView.SetMaxLines(1000)
	logsView.ScrollToEnd()

	leftPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(screenView, op.ScreenHeight/2+2, 0, false).
		AddItem(logsView, 0, 1, false)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(stateView, 8, 0, false).
		AddItem(registersView, 12, 0, false).
		AddItem(codeView, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(leftPane, op.ScreenWidth+2, 0, true).
		AddItem(rightPane, 0, 1, false)

	listingView := tview.NewTextView().SetDynamicColors(false)
	listingView.SetTitle("Listing").SetBorder(true)
	buf := &strings.Builder{}
	if err := listing.Write(buf); err != nil {
		fmt.Fprintf(buf, "Failed to write listing: %s.\n", err)
	}
	listingView.SetText(buf.String())

	pages := tview.NewPages()
	pages.AddPage("main", flex, true, true)
	pages.AddPage("listing", listingView, true, false)

	ctx, cancel := context.WithCancel(ctx)

	return &Game{
		app:  app,
		root: pages,

		screenView:    screenView,
		registersView: registersView,
		codeView:      codeView,
		stateView:     stateView,
		logsView:      logsView,

		sched: sched,
		rom:   rom,

		ctx:    ctx,
		cancel: cancel,
	}
}

func (g *Game) Stop() {
	g.app.Stop()
	g.cancel()
}

// Init sets up the key handling. Input capture runs on the tview goroutine
// like the queued updates, the machine is never touched concurrently.
func (g *Game) Init() {
	f := func(event *tcell.EventKey) *tcell.EventKey {
		curPage, _ := g.root.GetFrontPage()
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if err := g.sched.Reset(); err != nil {
				g.logf("[red]Reset failed: %s.[-]", err)
			}
			g.keyDeadlines = [op.KeyCount]time.Time{}
			return nil
		case tcell.KeyTab:
			if curPage == "main" {
				g.root.SwitchToPage("listing")
			} else {
				g.root.SwitchToPage("main")
			}
			return nil
		case tcell.KeyRune:
		default:
			return event
		}

		switch r := event.Rune(); r {
		case ' ':
			g.sched.Paused = !g.sched.Paused
			return nil
		case 'n':
			if g.sched.Paused {
				if err := g.sched.StepOnce(); err != nil {
					g.logf("[red]Step failed: %s.[-]", err)
				}
			}
			return nil
		default:
			code, ok := keymap[r]
			if !ok {
				return event
			}
			g.sched.Machine.Keys.Press(code)
			g.keyDeadlines[code] = time.Now().Add(keyHold)
			return nil
		}
	}
	g.root.SetInputCapture(f)
}

func (g *Game) logf(format string, args ...any) {
	fmt.Fprintf(g.logsView, format+"\n", args...)
}

// Update releases expired keys and ticks the scheduler.
func (g *Game) Update(now time.Time) {
	keys := &g.sched.Machine.Keys
	for code, deadline := range g.keyDeadlines {
		if !deadline.IsZero() && now.After(deadline) {
			keys.Release(byte(code))
			g.keyDeadlines[code] = time.Time{}
		}
	}

	if g.sched.Err() != nil {
		return
	}
	if _, err := g.sched.Tick(now); err != nil {
		g.sched.Paused = true
		g.logf("[red]Machine stopped: %s.[-]", err)
	}
}

func (g *Game) drainMessages() {
	for {
		select {
		case msg := <-g.sched.Machine.Messages:
			color := ""
			switch msg.Type {
			case vm.MsgError:
				color = "[red]"
			case vm.MsgWarning:
				color = "[yellow]"
			case vm.MsgDebug:
				color = "[gray]"
			case vm.MsgReset:
				g.logsView.Clear()
			}
			if color != "" {
				g.logf("%s%s[-]", color, tview.Escape(msg.String()))
			} else {
				g.logf("%s", tview.Escape(msg.String()))
			}
		default:
			return
		}
	}
}

func (g *Game) drawRegisters() {
	m := g.sched.Machine
	g.registersView.Clear()

	cell := func(s string) *tview.TableCell {
		return tview.NewTableCell(s).SetAlign(tview.AlignRight)
	}
	label := func(s string) *tview.TableCell {
		return tview.NewTableCell(s).SetAttributes(tcell.AttrBold)
	}
	for i, v := range m.V {
		row, col := i%8, (i/8)*2
		g.registersView.SetCell(row, col, label(fmt.Sprintf("V%X ", i)))
		g.registersView.SetCell(row, col+1, cell(fmt.Sprintf("%02X  ", v)))
	}
	for i, elem := range []struct {
		name  string
		value string
	}{
		{"PC ", fmt.Sprintf("%03X", m.PC)},
		{"I  ", fmt.Sprintf("%03X", m.I)},
		{"DT ", fmt.Sprintf("%02X", m.DT)},
		{"ST ", fmt.Sprintf("%02X", m.ST)},
		{"SP ", fmt.Sprintf("%d", m.Stack.SP)},
	} {
		g.registersView.SetCell(i, 4, label(elem.name))
		g.registersView.SetCell(i, 5, cell(elem.value))
	}
	frames := make([]string, 0, m.Stack.SP)
	for _, addr := range m.Stack.Frames() {
		frames = append(frames, fmt.Sprintf("%03X", addr))
	}
	g.registersView.SetCell(8, 0, label("Stack "))
	g.registersView.SetCell(8, 1, tview.NewTableCell(strings.Join(frames, " ")).SetExpansion(1))
}

func (g *Game) drawCode() {
	m := g.sched.Machine
	g.codeView.Clear()

	from := (m.PC - codeLines/2*op.InstructionLen) & op.AddrMask
	for _, l := range disasm.Range(&m.Ram, from, codeLines) {
		if l.Addr == m.PC {
			fmt.Fprintf(g.codeView, "[::r]%s[::-]\n", tview.Escape(l.String()))
			continue
		}
		fmt.Fprintf(g.codeView, "%s\n", tview.Escape(l.String()))
	}
}

func (g *Game) drawState() {
	m := g.sched.Machine
	g.stateView.Clear()

	status := "running"
	switch {
	case g.sched.Err() != nil:
		status = "[red]stopped[-]"
	case g.sched.Paused:
		status = "[yellow]paused[-]"
	case m.WaitingKey:
		status = fmt.Sprintf("waiting key -> V%X", m.WaitRegister)
	}
	pressed := make([]string, 0, op.KeyCount)
	for code := range byte(op.KeyCount) {
		if m.Keys.Pressed(code) {
			pressed = append(pressed, fmt.Sprintf("%X", code))
		}
	}

	fmt.Fprintf(g.stateView, "Status: %s\n", status)
	fmt.Fprintf(g.stateView, "Cycle: %d\n", m.Cycle)
	fmt.Fprintf(g.stateView, "Rate: %d Hz x %d\n", m.Config.CPUHz, m.Config.BatchSize)
	fmt.Fprintf(g.stateView, "Sound: %t\n", m.Sound())
	fmt.Fprintf(g.stateView, "Keys: %s\n", strings.Join(pressed, " "))
	fmt.Fprintf(g.stateView, "Lit: %d\n", m.Display.Lit())
}

func (g *Game) Draw() {
	g.drainMessages()
	g.screenView.SetText(dumpScreen(&g.sched.Machine.Display))
	g.drawState()
	g.drawRegisters()
	g.drawCode()
}

// Run drives the machine from a ticker. Both the ticks and the redraws are
// queued to the tview goroutine.
func (g *Game) Run() {
	defer func() {
		if e := recover(); e != nil {
			g.app.Stop()
			log.Printf("Recovered from panic: %v", e)
			debug.PrintStack()
		}
	}()

	ticker := time.NewTicker(g.sched.CPUInterval)
	defer ticker.Stop()
	redraw := time.NewTicker(redrawInterval)
	defer redraw.Stop()

	for {
		select {
		case now := <-ticker.C:
			g.app.QueueUpdate(func() { g.Update(now) })
		case <-redraw.C:
			g.app.QueueUpdateDraw(g.Draw)
		case <-g.ctx.Done():
			return
		}
	}
}

func main() {
	cfg, opts, rom, err := cli.ParseConfig(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse CLI config: %s.", err)
	}

	listing, err := disasm.Disasm(rom.ShortName, rom.Data)
	if err != nil {
		log.Fatalf("Failed to disassemble %q: %s.", rom.PathName, err)
	}

	m, err := vm.NewMachine(cfg)
	if err != nil {
		log.Fatalf("Failed to create machine: %s.", err)
	}
	sched := vm.NewScheduler(m)
	sched.Paused = opts.Paused

	g := NewGame(context.Background(), sched, rom, listing)
	g.Init()
	go g.Run()

	if err := g.app.SetRoot(g.root, true).SetFocus(g.root).Run(); err != nil {
		log.Fatalf("Failed to run the terminal ui: %s.", err)
	}
	if err := sched.Err(); err != nil {
		log.Fatalf("Machine stopped: %s.", err)
	}
}
