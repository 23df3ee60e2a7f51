// Package resolve implements the single-module resolver (§4.5): it
// substitutes every externally-referenced definition's resolved value into
// each definition's body, leaving only import-bound references free.
package resolve

import (
	"fmt"
	"sort"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/lower"
	"github.com/triplang/tripc/internal/subst"
	"github.com/triplang/tripc/internal/symtab"
	"github.com/triplang/tripc/internal/terrors"
)

type resolver struct {
	tab     *symtab.Table
	fv      *subst.FVCache
	imports map[string]bool

	doneTerms map[string]ast.TermDef
	doneTypes map[string]ast.TripValue

	inProgressTerms map[string]bool
	inProgressTypes map[string]bool
}

// Resolve returns a new Program where every term and type definition has
// had its non-import external references substituted by resolved values,
// per §4.5's four-step algorithm.
func Resolve(prog *ast.Program, tab *symtab.Table) (*ast.Program, error) {
	for name := range tab.Terms {
		if _, isType := tab.Types[name]; isType {
			return nil, terrors.New(terrors.Resolve, terrors.RES002DualNamespace,
				fmt.Sprintf("%q is declared as both a term and a type", name))
		}
	}

	r := &resolver{
		tab:             tab,
		fv:              subst.NewFVCache(),
		imports:         importedNames(prog),
		doneTerms:       make(map[string]ast.TermDef),
		doneTypes:       make(map[string]ast.TripValue),
		inProgressTerms: make(map[string]bool),
		inProgressTypes: make(map[string]bool),
	}

	out := &ast.Program{Module: prog.Module, Decls: make([]ast.Def, len(prog.Decls))}
	for i, d := range prog.Decls {
		switch def := d.(type) {
		case ast.TermDef:
			resolved, err := r.resolveTerm(def)
			if err != nil {
				return nil, err
			}
			out.Decls[i] = resolved
		default:
			out.Decls[i] = d
		}
	}
	return out, nil
}

func importedNames(prog *ast.Program) map[string]bool {
	names := make(map[string]bool)
	for _, imp := range prog.Imports() {
		names[imp.SymbolRef] = true
	}
	return names
}

func (r *resolver) resolveTerm(td ast.TermDef) (ast.TermDef, error) {
	name := termName(td)
	if existing, ok := r.doneTerms[name]; ok {
		return existing, nil
	}
	if r.inProgressTerms[name] {
		return nil, terrors.New(terrors.Resolve, terrors.RES001Unresolved,
			fmt.Sprintf("circular reference resolving %q", name)).WithTerm(td.String())
	}
	r.inProgressTerms[name] = true
	defer delete(r.inProgressTerms, name)

	value := termValue(td)
	termFV, typeFV := freevars.Scan(value)
	if isRec(td) {
		delete(termFV, name)
	}

	for _, tname := range sortedKeys(typeFV) {
		if r.imports[tname] {
			continue
		}
		resolvedType, err := r.resolveTypeRef(tname)
		if err != nil {
			return nil, err
		}
		value = subst.Type(value, tname, resolvedType, r.fv)
	}

	for _, rname := range sortedKeys(termFV) {
		if r.imports[rname] {
			continue
		}
		if otherTerm, ok := r.tab.Terms[rname]; ok {
			resolvedOther, err := r.resolveTerm(otherTerm)
			if err != nil {
				return nil, err
			}
			referent := resolvedOther
			if referent.Level() > td.Level() {
				lowered, err := lower.To(referent, td.Level())
				if err != nil {
					return nil, err
				}
				referent = lowered
			}
			value = subst.Term(value, rname, termValue(referent), r.fv)
			continue
		}
		if _, ok := r.tab.Types[rname]; ok {
			// A type name used in term position (§4.5 step 3c).
			resolvedType, err := r.resolveTypeRef(rname)
			if err != nil {
				return nil, err
			}
			value = subst.Type(value, rname, resolvedType, r.fv)
			continue
		}
		return nil, terrors.New(terrors.Resolve, terrors.RES001Unresolved,
			fmt.Sprintf("unresolved reference %q in %q", rname, name)).WithTerm(td.String())
	}

	if err := r.checkFullyResolved(name, value); err != nil {
		return nil, err
	}

	resolved := withValue(td, value)
	r.doneTerms[name] = resolved
	return resolved, nil
}

func (r *resolver) checkFullyResolved(name string, value ast.TripValue) error {
	terms, _ := freevars.Scan(value)
	for t := range terms {
		if r.imports[t] {
			continue
		}
		if t == name {
			// A rec definition's own self-reference: left abstract by
			// design (§4.8), not a leftover unresolved reference.
			continue
		}
		if _, isType := r.tab.Types[t]; isType {
			// A type name in term position, already handled by step 3c.
			continue
		}
		return terrors.New(terrors.Resolve, terrors.RES001Unresolved,
			fmt.Sprintf("unresolved reference %q remains in %q", t, name))
	}
	return nil
}

func (r *resolver) resolveTypeRef(name string) (ast.TripValue, error) {
	if existing, ok := r.doneTypes[name]; ok {
		return existing, nil
	}
	if r.inProgressTypes[name] {
		// Recursive type definition (§4.8, §9): break the cycle by leaving
		// the reference abstract, identified by its declared name, instead
		// of expanding it transitively.
		return ast.TypeVar(name), nil
	}
	tdef, ok := r.tab.Types[name]
	if !ok {
		return nil, terrors.New(terrors.Resolve, terrors.RES001Unresolved,
			fmt.Sprintf("unresolved type reference %q", name))
	}

	r.inProgressTypes[name] = true
	defer delete(r.inProgressTypes, name)

	value := tdef.Type
	_, typeFV := freevars.Scan(value)
	for _, inner := range sortedKeys(typeFV) {
		if inner == name {
			// Self-reference: leave exactly as-is, not expanded (§9).
			continue
		}
		if r.imports[inner] {
			continue
		}
		resolvedInner, err := r.resolveTypeRef(inner)
		if err != nil {
			return nil, err
		}
		value = subst.Type(value, inner, resolvedInner, r.fv)
	}

	r.doneTypes[name] = value
	return value, nil
}

func sortedKeys(s freevars.Set) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isRec(td ast.TermDef) bool {
	pd, ok := td.(*ast.PolyDef)
	return ok && pd.Rec
}

func termName(td ast.TermDef) string {
	switch d := td.(type) {
	case *ast.PolyDef:
		return d.Name
	case *ast.TypedDef:
		return d.Name
	case *ast.UntypedDef:
		return d.Name
	case *ast.CombinatorDef:
		return d.Name
	default:
		return ""
	}
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

func withValue(td ast.TermDef, value ast.TripValue) ast.TermDef {
	switch d := td.(type) {
	case *ast.PolyDef:
		return &ast.PolyDef{Name: d.Name, Term: value, Type: d.Type, Rec: d.Rec}
	case *ast.TypedDef:
		return &ast.TypedDef{Name: d.Name, Term: value, Type: d.Type}
	case *ast.UntypedDef:
		return &ast.UntypedDef{Name: d.Name, Term: value}
	case *ast.CombinatorDef:
		return &ast.CombinatorDef{Name: d.Name, Term: value}
	default:
		return td
	}
}
