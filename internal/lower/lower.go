// Package lower implements the stratum-lowering pipeline (§4.7):
// poly/typed -> untyped by type erasure (with Z-combinator wrapping for
// recursive polys), and untyped -> combinator by bracket abstraction.
// combinator is a fixed point.
package lower

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
)

// Step lowers def by exactly one stage of the pipeline described in §4.7.
// poly and typed both land directly on untyped (there is no intermediate
// stop at each other's stratum); combinator is returned unchanged.
func Step(def ast.TermDef) (ast.TermDef, error) {
	switch d := def.(type) {
	case *ast.PolyDef:
		body := d.Term
		if d.Rec {
			body = wrapZ(d.Name, body)
		}
		return &ast.UntypedDef{Name: d.Name, Term: eraseTypes(body)}, nil
	case *ast.TypedDef:
		return &ast.UntypedDef{Name: d.Name, Term: eraseTypes(d.Term)}, nil
	case *ast.UntypedDef:
		return &ast.CombinatorDef{Name: d.Name, Term: bracketAbstract(d.Term)}, nil
	case *ast.CombinatorDef:
		return d, nil
	default:
		return nil, fmt.Errorf("lower: unsupported term definition kind %T", def)
	}
}

// To lowers def repeatedly until it reaches target, or returns an error if
// target is a higher stratum than def already occupies (lowering is
// monotonically decreasing; stratum cannot be raised).
func To(def ast.TermDef, target ast.Stratum) (ast.TermDef, error) {
	if def.Level() < target {
		return nil, fmt.Errorf("lower: cannot raise %q from %s to %s", nameOf(def), def.Level(), target)
	}
	for def.Level() > target {
		next, err := Step(def)
		if err != nil {
			return nil, err
		}
		if next.Level() == def.Level() {
			// Fixed point (combinator) reached without hitting target;
			// only possible if target was below combinator, which cannot
			// happen since combinator is the lowest stratum.
			break
		}
		def = next
	}
	return def, nil
}

// ToCombinator lowers def all the way to the combinator stratum.
func ToCombinator(def ast.TermDef) (ast.TermDef, error) {
	return To(def, ast.LevelCombinator)
}

func nameOf(def ast.TermDef) string {
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
		return "?"
	}
}
