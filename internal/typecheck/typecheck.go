// Package typecheck implements the System F / simply-typed bidirectional
// checker (§4.6): it checks poly and typed definitions against expected
// types using a type-alias environment built from the module's TypeDefs.
package typecheck

import (
	"errors"
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/symtab"
	"github.com/triplang/tripc/internal/terrors"
)

// errSkip signals that a definition could not be checked because it still
// contains an unresolved, import-bound free reference or a numeric-literal
// sentinel. Per §4.6 this is not a type error: the owning definition is
// simply skipped, since resolving the reference's or numeral's type is the
// linker's responsibility once the source module is actually linked.
var errSkip = errors.New("typecheck: skipped (unresolved import reference or numeric literal)")

type ctx struct {
	terms   map[string]ast.TripValue
	types   map[string]bool
	aliases map[string]ast.TripValue
}

func newCtx(tab *symtab.Table) *ctx {
	aliases := make(map[string]ast.TripValue, len(tab.Types))
	for name, td := range tab.Types {
		aliases[name] = td.Type
	}
	return &ctx{terms: map[string]ast.TripValue{}, types: map[string]bool{}, aliases: aliases}
}

func (c *ctx) withTerm(name string, t ast.TripValue) *ctx {
	nc := &ctx{terms: make(map[string]ast.TripValue, len(c.terms)+1), types: c.types, aliases: c.aliases}
	for k, v := range c.terms {
		nc.terms[k] = v
	}
	nc.terms[name] = t
	return nc
}

func (c *ctx) withType(name string) *ctx {
	nc := &ctx{terms: c.terms, types: make(map[string]bool, len(c.types)+1), aliases: c.aliases}
	for k := range c.types {
		nc.types[k] = true
	}
	nc.types[name] = true
	return nc
}

// CheckProgram typechecks every poly and typed definition in prog. A
// definition that reaches a still-free, import-bound reference or a
// numeric-literal sentinel is skipped (returned in skipped) rather than
// treated as an error.
func CheckProgram(prog *ast.Program, tab *symtab.Table) (skipped []string, err error) {
	base := newCtx(tab)
	for _, def := range prog.TermDefs() {
		switch d := def.(type) {
		case *ast.PolyDef:
			if err := checkPolyDef(base, d); err != nil {
				if errors.Is(err, errSkip) {
					skipped = append(skipped, d.Name)
					continue
				}
				return skipped, err
			}
		case *ast.TypedDef:
			if err := checkTypedDef(base, d); err != nil {
				if errors.Is(err, errSkip) {
					skipped = append(skipped, d.Name)
					continue
				}
				return skipped, err
			}
		}
	}
	return skipped, nil
}

func checkPolyDef(base *ctx, d *ast.PolyDef) error {
	c := base
	if d.Rec {
		if d.Type == nil {
			return terrors.New(terrors.Typecheck, terrors.TC001UnknownVariable,
				fmt.Sprintf("recursive poly definition %q requires an explicit type annotation", d.Name))
		}
		c = c.withTerm(d.Name, d.Type)
	}
	if d.Type != nil {
		return checkTerm(c, d.Term, d.Type)
	}
	_, err := inferTerm(c, d.Term)
	return err
}

func checkTypedDef(base *ctx, d *ast.TypedDef) error {
	if d.Type != nil {
		return checkTerm(base, d.Term, d.Type)
	}
	_, err := inferTerm(base, d.Term)
	return err
}
