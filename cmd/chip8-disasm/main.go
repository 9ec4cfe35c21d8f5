package main

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.creack.net/chip8/asm"
	"go.creack.net/chip8/assets"
	"go.creack.net/chip8/cli"
	"go.creack.net/chip8/disasm"
)

func md5sum(data []byte) string {
	h := md5.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// searchExistingSrc looks for a demo program assembling to the given md5.
func searchExistingSrc(search string) (string, string, error) {
	names, err := assets.Names()
	if err != nil {
		return "", "", fmt.Errorf("failed to list demos: %w", err)
	}
	for _, name := range names {
		src, err := assets.Source(name)
		if err != nil {
			return "", "", fmt.Errorf("failed to read demo %q: %w", name, err)
		}
		buf, _, err := asm.Compile(name, src)
		if err != nil {
			// Should not happen.
			return "", "", fmt.Errorf("failed to compile demo %q: %w", name, err)
		}
		if md5sum(buf) == search {
			return name, src, nil
		}
	}
	return "", "", nil
}

func dump(w io.Writer, rom *cli.Rom, labels, source, known bool) error {
	prog, err := disasm.Disasm(rom.ShortName, rom.Data)
	if err != nil {
		return fmt.Errorf("failed to disassemble %q: %w", rom.PathName, err)
	}

	if known {
		name, src, err := searchExistingSrc(prog.MD5)
		if err != nil {
			return fmt.Errorf("failed to search known sources: %w", err)
		}
		if name != "" {
			log.Printf("Found match in known sources: %s.", name)
			_, err := io.WriteString(w, src)
			return err
		}
	}

	switch {
	case labels:
		buf := &bytes.Buffer{}
		for _, addr := range prog.SortedLabels() {
			fmt.Fprintf(buf, "0x%03X %s\n", addr, prog.Labels[addr])
		}
		_, err = w.Write(buf.Bytes())
	case source:
		err = prog.WriteSource(w)
	default:
		err = prog.Write(w)
	}
	return err
}

func main() {
	labels := flag.Bool("labels", false, "only print the jump, call and index targets")
	source := flag.Bool("source", false, "print assembler source instead of the listing")
	known := flag.Bool("known", true, "print the demo source when the rom is one of the demos")
	flag.Parse()
	f := flag.Arg(0)
	if f == "" {
		tmp := strings.Split(os.Args[0], "/")
		binName := tmp[len(tmp)-1]
		fmt.Fprintf(os.Stderr, "usage: %s [options] <rom path>\n", binName)
		flag.PrintDefaults()
		os.Exit(2)
	}

	rom, err := cli.LoadRom(f)
	if err != nil {
		log.Fatalf("Failed to load rom: %s.", err)
	}

	w := bufio.NewWriter(os.Stdout)
	if err := dump(w, rom, *labels, *source, *known); err != nil {
		log.Fatalf("Fail: %s.", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to flush output: %s.", err)
	}
}
