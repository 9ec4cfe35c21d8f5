package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.creack.net/chip8/asm"
)

func run(input, output string, prettyPrint bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	buf, pr, err := asm.Compile(input, string(data))
	if err != nil {
		return fmt.Errorf("failed to compile: %w", err)
	}
	if prettyPrint {
		for _, elem := range pr.Nodes {
			fmt.Printf("%s\n", elem.PrettyPrint(pr.Nodes))
		}
		return nil
	}

	if err := os.WriteFile(output, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	log.Printf("%s: %d bytes.", output, len(buf))

	return nil
}

func main() {
	log.SetFlags(0)
	output := flag.String("o", "", "output file, default to <input>.ch8")
	prettyPrint := flag.Bool("pretty", false, "pretty print, do not output compiled file")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		tmp := strings.Split(os.Args[0], "/")
		binName := tmp[len(tmp)-1]
		fmt.Fprintf(os.Stderr, "usage: %s [options] <.s path>\n", binName)
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *output == "" {
		*output = strings.TrimSuffix(input, filepath.Ext(input)) + ".ch8"
	}

	if err := run(input, *output, *prettyPrint); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
