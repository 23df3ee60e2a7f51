package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/triplang/tripc/internal/elaborate"
	"github.com/triplang/tripc/internal/objfile"
	"github.com/triplang/tripc/internal/parse"
	"github.com/triplang/tripc/internal/resolve"
	"github.com/triplang/tripc/internal/symtab"
	"github.com/triplang/tripc/internal/terrors"
	"github.com/triplang/tripc/internal/typecheck"
)

// frontend is the injection point for the out-of-scope parser collaborator
// (see internal/parse). A production build links a real implementation in;
// left nil here, "compile" reports that no frontend is wired in rather than
// silently producing an empty program.
var frontend parse.Frontend

func runCompile(args []string) {
	if len(args) < 1 {
		fail("usage: tripc compile <input.trip> [output.tripc]")
	}
	input := args[0]
	output := args[1:]
	outPath := defaultObjectPath(input)
	if len(output) > 0 {
		outPath = output[0]
	}

	if frontend == nil {
		fail("no .trip frontend linked into this binary (internal/parse.Frontend is unset)")
	}

	source, err := os.ReadFile(input)
	if err != nil {
		fail("cannot read %q: %v", input, err)
	}

	prog, perrs := frontend.Parse(input, source)
	if len(perrs) > 0 {
		for _, e := range perrs {
			warn("%v", e)
		}
		fail("parsing %q failed", input)
	}

	tab, err := symtab.Build(prog)
	if err != nil {
		fail("%s", terrors.Format(err))
	}

	elaborated, err := elaborate.Elaborate(prog, tab)
	if err != nil {
		fail("%s", terrors.Format(err))
	}
	tab, err = symtab.Build(elaborated)
	if err != nil {
		fail("%s", terrors.Format(err))
	}

	resolved, err := resolve.Resolve(elaborated, tab)
	if err != nil {
		fail("%s", terrors.Format(err))
	}
	tab, err = symtab.Build(resolved)
	if err != nil {
		fail("%s", terrors.Format(err))
	}

	skipped, err := typecheck.CheckProgram(resolved, tab)
	if err != nil {
		fail("%s", terrors.Format(err))
	}
	for _, name := range skipped {
		warn("skipped %q: import reference or numeric literal not typed until link time", name)
	}

	f, err := objfile.Encode(resolved)
	if err != nil {
		fail("%s", terrors.Format(err))
	}
	data, err := f.Marshal()
	if err != nil {
		fail("%s", terrors.Format(err))
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fail("cannot write %q: %v", outPath, err)
	}

	status("compiled %s -> %s", input, outPath)
}

func defaultObjectPath(input string) string {
	if strings.HasSuffix(input, ".trip") {
		return strings.TrimSuffix(input, ".trip") + ".tripc"
	}
	return input + ".tripc"
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", yellow("Warning"), fmt.Sprintf(format, args...))
}

func status(format string, args ...any) {
	fmt.Printf("%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}
