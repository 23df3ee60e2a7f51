package link

import (
	"fmt"
	"sort"
	"strings"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/subst"
	"github.com/triplang/tripc/internal/symtab"
	"github.com/triplang/tripc/internal/terrors"
)

// linkNode is one entry of the global Module.symbol namespace (§4.8).
type linkNode struct {
	kind string // "term" | "type"
	mod  *loadedModule
}

func qualify(moduleName, symbol string) string { return moduleName + "." + symbol }

func bareName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func sortedSet(s freevars.Set) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func member(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func nodeValue(qn string, n linkNode) ast.TripValue {
	name := bareName(qn)
	if n.kind == "type" {
		return n.mod.tab.Types[name].Type
	}
	return termValue(n.mod.tab.Terms[name])
}

func termValue(td ast.TermDef) ast.TripValue {
	switch d := td.(type) {
	case *ast.PolyDef:
		return d.Term
	case *ast.TypedDef:
		return d.Term
	case *ast.UntypedDef:
		return d.Term
	case *ast.CombinatorDef:
		return d.Term
	default:
		return nil
	}
}

func termLevel(m *loadedModule, name string) ast.Stratum {
	return m.tab.Terms[name].Level()
}

func withTermValue(m *loadedModule, name string, value ast.TripValue) ast.TermDef {
	switch d := m.tab.Terms[name].(type) {
	case *ast.PolyDef:
		return &ast.PolyDef{Name: d.Name, Term: value, Type: d.Type, Rec: d.Rec}
	case *ast.TypedDef:
		return &ast.TypedDef{Name: d.Name, Term: value, Type: d.Type}
	case *ast.UntypedDef:
		return &ast.UntypedDef{Name: d.Name, Term: value}
	case *ast.CombinatorDef:
		return &ast.CombinatorDef{Name: d.Name, Term: value}
	default:
		return &ast.UntypedDef{Name: name, Term: value}
	}
}

func termDefValue(td ast.TermDef) ast.TripValue { return termValue(td) }

func levelOf(qn string, n linkNode) ast.Stratum {
	if n.kind == "type" {
		return ast.LevelNone
	}
	return n.mod.tab.Terms[bareName(qn)].Level()
}

func substituteWorking(value ast.TripValue, kind, name string, replacement ast.TripValue, fv *subst.FVCache) ast.TripValue {
	if kind == "type" {
		return subst.Type(value, name, replacement, fv)
	}
	return subst.Term(value, name, replacement, fv)
}

func loadModules(progs []*ast.Program) ([]*loadedModule, error) {
	out := make([]*loadedModule, 0, len(progs))
	for _, prog := range progs {
		if prog.Module == nil {
			return nil, terrors.New(terrors.Link, terrors.LNK002MissingModule, "program has no module declaration")
		}
		tab, err := symtab.Build(prog)
		if err != nil {
			return nil, err
		}
		exports := make(map[string]bool)
		for _, e := range prog.Exports() {
			exports[e.SymbolRef] = true
		}
		imports := make(map[string]string)
		for _, imp := range prog.Imports() {
			imports[imp.SymbolRef] = imp.ModuleRef
		}
		out = append(out, &loadedModule{name: prog.Module.Name, prog: prog, tab: tab, exports: exports, imports: imports})
	}
	return out, nil
}

func checkAmbiguousExports(mods []*loadedModule) error {
	owners := make(map[string][]string)
	for _, m := range mods {
		for name := range m.exports {
			owners[name] = append(owners[name], m.name)
		}
	}
	names := make([]string, 0, len(owners))
	for name := range owners {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mods := owners[name]
		if len(mods) > 1 {
			sort.Strings(mods)
			return terrors.New(terrors.Link, terrors.LNK001AmbiguousExport,
				fmt.Sprintf("ambiguous export %q: declared by %s", name, strings.Join(mods, ", ")))
		}
	}
	return nil
}

func validateImports(mods []*loadedModule) error {
	byName := make(map[string]*loadedModule, len(mods))
	for _, m := range mods {
		byName[m.name] = m
	}
	for _, m := range mods {
		for _, imp := range m.prog.Imports() {
			src, ok := byName[imp.ModuleRef]
			if !ok {
				return terrors.New(terrors.Link, terrors.LNK002MissingModule,
					fmt.Sprintf("module %q imports unknown module %q", m.name, imp.ModuleRef))
			}
			if !src.exports[imp.SymbolRef] {
				return terrors.New(terrors.Link, terrors.LNK003NonExportedImport,
					fmt.Sprintf("module %q imports %q from %q, which does not export it", m.name, imp.SymbolRef, imp.ModuleRef))
			}
		}
	}
	return nil
}

func findMain(mods []*loadedModule) (string, error) {
	var found []string
	for _, m := range mods {
		if m.exports["main"] {
			if _, ok := m.tab.Terms["main"]; ok {
				found = append(found, qualify(m.name, "main"))
			}
		}
	}
	switch len(found) {
	case 0:
		return "", terrors.New(terrors.Link, terrors.LNK004MissingMain, "no module exports a term named \"main\"")
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", terrors.New(terrors.Link, terrors.LNK005MultipleMain,
			fmt.Sprintf("multiple modules export \"main\": %s", strings.Join(found, ", ")))
	}
}
