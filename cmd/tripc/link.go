package main

import (
	"fmt"
	"os"

	"github.com/triplang/tripc/internal/ast"
	triplink "github.com/triplang/tripc/internal/link"
	"github.com/triplang/tripc/internal/manifest"
	"github.com/triplang/tripc/internal/objfile"
	"github.com/triplang/tripc/internal/terrors"
)

func runLink(args []string) {
	manifestPath := ""
	var files []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--manifest" {
			if i+1 >= len(args) {
				fail("--manifest requires a FILE argument")
			}
			manifestPath = args[i+1]
			i++
			continue
		}
		files = append(files, args[i])
	}

	var m *manifest.LinkManifest
	if manifestPath != "" {
		var err error
		m, err = manifest.Load(manifestPath)
		if err != nil {
			fail("%v", err)
		}
		if err := m.Validate(); err != nil {
			fail("%v", err)
		}
		files = append(files, m.Paths()...)
	}

	if len(files) == 0 {
		fail("usage: tripc link [--manifest FILE] <file1.tripc> [file2.tripc ...]")
	}

	var progs []*ast.Program
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fail("cannot read %q: %v", path, err)
		}
		f, err := objfile.Unmarshal(data)
		if err != nil {
			fail("%s", terrors.Format(err))
		}
		prog := f.Program()
		if m != nil {
			if alias, ok := m.Alias(path); ok {
				prog.Module = &ast.ModuleDeclDef{Name: alias}
			}
		}
		progs = append(progs, prog)
	}

	opts := triplink.LinkOptions{}
	if m != nil {
		opts.MainRef = m.Main
	}
	value, _, err := triplink.Link(progs, opts)
	if err != nil {
		fail("%s", terrors.Format(err))
	}

	fmt.Println(value.String())
}
