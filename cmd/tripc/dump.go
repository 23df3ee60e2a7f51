package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/triplang/tripc/internal/objfile"
	"github.com/triplang/tripc/internal/terrors"
)

func runDump(args []string) {
	if len(args) < 1 {
		fail("usage: tripc dump <file.tripc>")
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fail("cannot read %q: %v", path, err)
	}
	f, err := objfile.Unmarshal(data)
	if err != nil {
		fail("%s", terrors.Format(err))
	}

	fmt.Printf("%s %s\n", bold("module"), f.Module)
	if len(f.Imports) > 0 {
		fmt.Println(bold("imports:"))
		for _, imp := range f.Imports {
			fmt.Printf("  %s %s %s\n", cyan("import"), imp.From, imp.Name)
		}
	}
	if len(f.Exports) > 0 {
		fmt.Println(bold("exports:"))
		for _, name := range f.Exports {
			fmt.Printf("  %s %s\n", cyan("export"), name)
		}
	}

	names := make([]string, 0, len(f.Definitions))
	for name := range f.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(bold("definitions:"))
	for _, name := range names {
		fmt.Printf("  %s\n", f.Definitions[name].String())
	}
}
