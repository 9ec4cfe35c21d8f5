package assets

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

// Demo programs in assembler source form.
//
//go:embed srcs/*.s
var Sources embed.FS

// Names returns the demo program names, without extension.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(Sources, "srcs")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return out, nil
}

// Source returns the source of the named demo program.
func Source(name string) (string, error) {
	buf, err := Sources.ReadFile("srcs/" + name + ".s")
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
