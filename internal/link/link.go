// Package link implements the multi-module linker (§4.8): it fuses a set of
// already per-module-resolved programs into a single closed SKI combinator
// term for the `main` export, via a global Module.symbol namespace, a
// Tarjan SCC dependency graph, and an SCC-ordered fix-point substitution.
package link

import (
	"fmt"
	"strings"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/lower"
	"github.com/triplang/tripc/internal/subst"
	"github.com/triplang/tripc/internal/symtab"
	"github.com/triplang/tripc/internal/terrors"
)

// maxFixpointRounds bounds the SCC iterative fix-point (§4.8).
const maxFixpointRounds = 32

// LinkOptions configures optional diagnostics for a link.
type LinkOptions struct {
	// Verbose, when true, populates LinkReport.Trace with one line per
	// resolved node, mirroring the teacher's LinkOptions.Verbose.
	Verbose bool
	// MainRef overrides which qualified Module.symbol is extracted as the
	// program entry point; empty means "search exports for main".
	MainRef string
}

// LinkReport carries the optional resolution trace produced when
// LinkOptions.Verbose is set (§4.8 [SUPPLEMENT]).
type LinkReport struct {
	Trace []string
}

type loadedModule struct {
	name    string
	prog    *ast.Program
	tab     *symtab.Table
	exports map[string]bool
	// imports maps a locally-imported symbol name to its source module.
	imports map[string]string
}

// Link fuses modules (in the given order) and returns the closed SKI term
// bound to the linked program's `main` export (or opts.MainRef, if set).
func Link(modules []*ast.Program, opts LinkOptions) (ast.TripValue, *LinkReport, error) {
	mods, err := loadModules(modules)
	if err != nil {
		return nil, nil, err
	}
	if err := checkAmbiguousExports(mods); err != nil {
		return nil, nil, err
	}
	if err := validateImports(mods); err != nil {
		return nil, nil, err
	}

	g := newGraph()
	nodes := make(map[string]linkNode)

	for _, m := range mods {
		for name := range m.tab.Terms {
			nodes[qualify(m.name, name)] = linkNode{kind: "term", mod: m}
			g.addNode(qualify(m.name, name))
		}
		for name := range m.tab.Types {
			nodes[qualify(m.name, name)] = linkNode{kind: "type", mod: m}
			g.addNode(qualify(m.name, name))
		}
	}

	resolveRef := func(m *loadedModule, name string) (string, bool) {
		if src, ok := m.imports[name]; ok {
			return qualify(src, name), true
		}
		if _, ok := m.tab.Terms[name]; ok {
			return qualify(m.name, name), true
		}
		if _, ok := m.tab.Types[name]; ok {
			return qualify(m.name, name), true
		}
		return "", false
	}

	for qn, n := range nodes {
		value := nodeValue(qn, n)
		termFV, typeFV := freevars.Scan(value)
		for _, r := range sortedSet(termFV) {
			target, ok := resolveRef(n.mod, r)
			if !ok {
				return nil, nil, terrors.New(terrors.Resolve, terrors.RES001Unresolved,
					fmt.Sprintf("unresolved reference %q in %q", r, qn))
			}
			if target == qn {
				continue // rec / self-referential type: suppressed (§4.8)
			}
			g.addEdge(qn, target)
		}
		for _, r := range sortedSet(typeFV) {
			target, ok := resolveRef(n.mod, r)
			if !ok {
				return nil, nil, terrors.New(terrors.Resolve, terrors.RES001Unresolved,
					fmt.Sprintf("unresolved type reference %q in %q", r, qn))
			}
			if target == qn {
				continue
			}
			g.addEdge(qn, target)
		}
	}

	fv := subst.NewFVCache()
	resolvedValue := make(map[string]ast.TripValue, len(nodes))
	resolvedLevel := make(map[string]ast.Stratum, len(nodes))
	report := &LinkReport{}

	trace := func(format string, args ...any) {
		if opts.Verbose {
			report.Trace = append(report.Trace, fmt.Sprintf(format, args...))
		}
	}

	substituteOne := func(qn string, value ast.TripValue, dep string) (ast.TripValue, error) {
		depKind := nodes[dep].kind
		bare := bareName(dep)
		if depKind == "type" {
			return subst.Type(value, bare, resolvedValue[dep], fv), nil
		}
		referent := resolvedValue[dep]
		referentLevel := resolvedLevel[dep]
		ownerKind := nodes[qn].kind
		if ownerKind == "term" {
			ownerLevel := termLevel(nodes[qn].mod, bareName(qn))
			if referentLevel > ownerLevel {
				loweredDef, err := lower.To(withTermValue(nodes[dep].mod, bare, referent), ownerLevel)
				if err != nil {
					return nil, err
				}
				referent = termDefValue(loweredDef)
			}
		}
		return subst.Term(value, bare, referent, fv), nil
	}

	for _, scc := range g.sccs() {
		// Self-references (rec terms, recursive types) never become graph
		// edges (the `target == qn` checks above), so a singleton SCC can
		// never carry a self-loop here; every singleton is handled by plain
		// substitution, and only a genuine cross-definition cycle reaches
		// the fix-point branch below. Link assumes its input already passed
		// through resolve.Resolve, which is what rejects a self-loop on a
		// non-rec definition (§4.5); Link itself is not a second check for
		// that boundary case.
		if len(scc) == 1 {
			qn := scc[0]
			value := nodeValue(qn, nodes[qn])
			for _, dep := range dedupe(g.edges[qn]) {
				var err error
				value, err = substituteOne(qn, value, dep)
				if err != nil {
					return nil, nil, err
				}
			}
			resolvedValue[qn] = value
			resolvedLevel[qn] = levelOf(qn, nodes[qn])
			trace("resolved %s", qn)
			continue
		}

		working := make(map[string]ast.TripValue, len(scc))
		for _, qn := range scc {
			working[qn] = nodeValue(qn, nodes[qn])
		}
		converged := false
		for round := 0; round < maxFixpointRounds; round++ {
			next := make(map[string]ast.TripValue, len(scc))
			for _, qn := range scc {
				value := working[qn]
				for _, dep := range dedupe(g.edges[qn]) {
					if member(scc, dep) {
						value = substituteWorking(value, nodes[dep].kind, bareName(dep), working[dep], fv)
						continue
					}
					var err error
					value, err = substituteOne(qn, value, dep)
					if err != nil {
						return nil, nil, err
					}
				}
				next[qn] = value
			}
			stable := true
			for _, qn := range scc {
				if ast.Hash(next[qn]) != ast.Hash(working[qn]) {
					stable = false
					break
				}
			}
			working = next
			if stable {
				converged = true
				break
			}
		}
		if !converged {
			return nil, nil, terrors.New(terrors.Link, terrors.LNK006CircularDep,
				fmt.Sprintf("circular dependency did not converge within %d rounds: %s", maxFixpointRounds, strings.Join(scc, ", ")))
		}
		for _, qn := range scc {
			resolvedValue[qn] = working[qn]
			resolvedLevel[qn] = levelOf(qn, nodes[qn])
			trace("resolved %s (fix-point)", qn)
		}
	}

	mainRef := opts.MainRef
	if mainRef == "" {
		ref, err := findMain(mods)
		if err != nil {
			return nil, nil, err
		}
		mainRef = ref
	}
	mainNode, ok := nodes[mainRef]
	if !ok {
		return nil, nil, terrors.New(terrors.Link, terrors.LNK004MissingMain,
			fmt.Sprintf("main reference %q not found", mainRef))
	}
	if mainNode.kind != "term" {
		return nil, nil, terrors.New(terrors.Link, terrors.LNK004MissingMain,
			fmt.Sprintf("%q resolves to a type, not a term", mainRef))
	}

	mainValue := resolvedValue[mainRef]
	mainValue, err = expandLiterals(mainValue, mods, resolvedValue)
	if err != nil {
		return nil, nil, err
	}
	mainDef := withTermValue(mainNode.mod, bareName(mainRef), mainValue)
	combinatorDef, err := lower.ToCombinator(mainDef)
	if err != nil {
		return nil, nil, err
	}
	return termDefValue(combinatorDef), report, nil
}
