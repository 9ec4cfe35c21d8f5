// Package cli provides the functions to parse the CLI flags and load the ROM.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.creack.net/chip8/asm"
	"go.creack.net/chip8/assets"
	"go.creack.net/chip8/op"
	"go.creack.net/chip8/vm"
)

// DemoPrefix selects one of the embedded demo programs instead of a file, i.e. "demo:bounce".
const DemoPrefix = "demo:"

// ErrUsage is returned when the command line is not valid.
var ErrUsage = errors.New("usage")

type Rom struct {
	PathName  string
	ShortName string
	Data      []byte
}

// Options are the front end settings that don't belong to the machine.
type Options struct {
	Scale  int  // Initial window scale.
	Mute   bool // Don't play the tone.
	Paused bool // Start paused.
}

func loadDemo(pathName string) (*Rom, error) {
	name := strings.TrimPrefix(pathName, DemoPrefix)
	src, err := assets.Source(name)
	if err != nil {
		names, _ := assets.Names() // Best effort.
		return nil, fmt.Errorf("unknown demo %q, available: %s: %w", name, strings.Join(names, ", "), err)
	}
	data, _, err := asm.Compile(name+".s", src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile demo %q: %w", name, err)
	}
	return &Rom{
		PathName:  pathName,
		ShortName: name,
		Data:      data,
	}, nil
}

// LoadRom reads the program image from disk, or assembles an embedded demo.
func LoadRom(pathName string) (*Rom, error) {
	if strings.HasPrefix(pathName, DemoPrefix) {
		return loadDemo(pathName)
	}
	data, err := os.ReadFile(pathName)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", pathName, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%q: %w", pathName, vm.ErrProgramEmpty)
	}
	if len(data) > op.MaxProgramSize {
		return nil, fmt.Errorf("%q: %w: %d bytes, max %d", pathName, vm.ErrProgramTooLarge, len(data), op.MaxProgramSize)
	}

	shortName := filepath.Base(pathName)
	shortName = strings.TrimSuffix(shortName, filepath.Ext(shortName))

	return &Rom{
		PathName:  pathName,
		ShortName: shortName,
		Data:      data,
	}, nil
}

// ParseConfig parses the arguments (without the program name) and loads the ROM.
// Usage and errors go to output, nil discards it.
func ParseConfig(name string, args []string, output io.Writer) (vm.Config, Options, *Rom, error) {
	cfg := vm.DefaultConfig()
	opts := Options{}

	if output == nil {
		output = io.Discard
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: %s [options] <rom path>\n", name)
		fs.PrintDefaults()
	}
	fs.IntVar(&cfg.CPUHz, "hz", cfg.CPUHz, "instruction batches per second")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "instructions per batch")
	fs.DurationVar(&cfg.TimerPeriod, "timer", cfg.TimerPeriod, "delay and sound timer period")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "random seed, 0 for a random one")
	fs.BoolVar(&cfg.Trace, "trace", false, "log every executed instruction")
	fs.IntVar(&opts.Scale, "scale", 10, "initial window scale")
	fs.BoolVar(&opts.Mute, "mute", false, "don't play the tone")
	fs.BoolVar(&opts.Paused, "paused", false, "start paused")

	if err := fs.Parse(args); err != nil {
		return vm.Config{}, Options{}, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return vm.Config{}, Options{}, nil, fmt.Errorf("%w: expected exactly one rom path, got %d", ErrUsage, fs.NArg())
	}
	if opts.Scale <= 0 {
		return vm.Config{}, Options{}, nil, fmt.Errorf("%w: scale must be positive, got %d", ErrUsage, opts.Scale)
	}
	if err := cfg.Validate(); err != nil {
		return vm.Config{}, Options{}, nil, err
	}

	rom, err := LoadRom(fs.Arg(0))
	if err != nil {
		return vm.Config{}, Options{}, nil, fmt.Errorf("load rom: %w", err)
	}
	cfg.Program = rom.Data

	return cfg, opts, rom, nil
}
