// Package symtab builds per-module symbol tables (§4.1): name -> definition
// maps for terms and types, rejecting duplicate names within a namespace.
package symtab

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/terrors"
)

// Table holds the term and type definitions of a single module, indexed by
// name. Module/import/export declarations are not stored here; callers
// inspect those directly on the ast.Program.
type Table struct {
	Terms map[string]ast.TermDef
	Types map[string]*ast.TypeDef
}

// Build indexes prog in a single pass over its declarations in source order.
// A definition is "eligible" when its kind is one of poly/typed/untyped/
// combinator (terms) or type (types); data and module/import/export
// declarations are left to the elaborator.
func Build(prog *ast.Program) (*Table, error) {
	tab := &Table{
		Terms: make(map[string]ast.TermDef),
		Types: make(map[string]*ast.TypeDef),
	}
	for _, d := range prog.Decls {
		switch def := d.(type) {
		case ast.TermDef:
			name := termName(def)
			if _, exists := tab.Terms[name]; exists {
				return nil, terrors.New(terrors.Index, terrors.IDX001DuplicateTerm,
					fmt.Sprintf("duplicate term definition %q", name))
			}
			tab.Terms[name] = def
		case *ast.TypeDef:
			if _, exists := tab.Types[def.Name]; exists {
				return nil, terrors.New(terrors.Index, terrors.IDX002DuplicateType,
					fmt.Sprintf("duplicate type definition %q", def.Name))
			}
			tab.Types[def.Name] = def
		}
	}
	return tab, nil
}

func termName(def ast.TermDef) string {
	switch d := def.(type) {
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
