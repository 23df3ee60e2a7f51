// Package elaborate implements the purely syntactic desugaring pass (§4.4):
// numeric-literal expansion, data-declaration expansion into Scott-encoded
// constructors and eliminators, and propagation of match expressions into
// eliminator calls. It never typechecks.
package elaborate

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/symtab"
)

// Elaborate returns a new Program with every data declaration expanded and
// every match expression and numeric literal desugared, per §4.4.
func Elaborate(prog *ast.Program, tab *symtab.Table) (*ast.Program, error) {
	decls, ctors, err := expandData(prog.Decls)
	if err != nil {
		return nil, err
	}

	out := &ast.Program{Module: prog.Module, Decls: make([]ast.Def, len(decls))}
	for i, d := range decls {
		rewritten, err := rewriteDef(d, ctors, tab)
		if err != nil {
			return nil, err
		}
		out.Decls[i] = rewritten
	}
	return out, nil
}

func rewriteDef(d ast.Def, ctors map[string]ctorInfo, tab *symtab.Table) (ast.Def, error) {
	switch def := d.(type) {
	case *ast.PolyDef:
		term, err := expandMatches(def.Term, ctors)
		if err != nil {
			return nil, err
		}
		term = desugarLiterals(term, tab)
		return &ast.PolyDef{Name: def.Name, Term: term, Type: def.Type, Rec: def.Rec}, nil
	case *ast.TypedDef:
		term, err := expandMatches(def.Term, ctors)
		if err != nil {
			return nil, err
		}
		term = desugarLiterals(term, tab)
		return &ast.TypedDef{Name: def.Name, Term: term, Type: def.Type}, nil
	case *ast.UntypedDef:
		term, err := expandMatches(def.Term, ctors)
		if err != nil {
			return nil, err
		}
		term = desugarLiterals(term, tab)
		return &ast.UntypedDef{Name: def.Name, Term: term}, nil
	case *ast.CombinatorDef:
		return def, nil
	default:
		return d, nil
	}
}
