package typecheck

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/subst"
	"github.com/triplang/tripc/internal/terrors"
)

var fvCache = subst.NewFVCache()

func arrow(a, b ast.TripValue) ast.TripValue {
	return ast.TypeApp(ast.TypeApp(ast.TypeVar("->"), a), b)
}

// asArrow reports whether t is an arrow type A->B, expanding at most one
// level of alias when t is a bare TypeVar naming a declared alias.
func asArrow(t ast.TripValue, aliases map[string]ast.TripValue) (a, b ast.TripValue, ok bool) {
	if app, isApp := t.(*ast.TypeAppNode); isApp {
		if inner, isInner := app.Fn.(*ast.TypeAppNode); isInner {
			if head, isVar := inner.Fn.(*ast.TypeVarNode); isVar && head.Name == "->" {
				return inner.Arg, app.Arg, true
			}
		}
	}
	if tv, isVar := t.(*ast.TypeVarNode); isVar {
		if expanded, found := aliases[tv.Name]; found {
			if _, isSelf := expanded.(*ast.TypeVarNode); !(isSelf && expanded.(*ast.TypeVarNode).Name == tv.Name) {
				return asArrow(expanded, nil)
			}
		}
	}
	return nil, nil, false
}

func asForall(t ast.TripValue, aliases map[string]ast.TripValue) (*ast.ForallNode, bool) {
	if f, ok := t.(*ast.ForallNode); ok {
		return f, true
	}
	if tv, isVar := t.(*ast.TypeVarNode); isVar {
		if expanded, found := aliases[tv.Name]; found {
			if _, isSelf := expanded.(*ast.TypeVarNode); !(isSelf && expanded.(*ast.TypeVarNode).Name == tv.Name) {
				return asForall(expanded, nil)
			}
		}
	}
	return nil, false
}

// typeEquiv checks structural equality up to one level of alias expansion on
// either side, matching the teacher's environment-based type comparison.
func typeEquiv(a, b ast.TripValue, aliases map[string]ast.TripValue) bool {
	if ast.Equal(a, b) {
		return true
	}
	ea, eb := a, b
	if tv, ok := a.(*ast.TypeVarNode); ok {
		if expanded, found := aliases[tv.Name]; found {
			ea = expanded
		}
	}
	if tv, ok := b.(*ast.TypeVarNode); ok {
		if expanded, found := aliases[tv.Name]; found {
			eb = expanded
		}
	}
	return ast.Equal(ea, b) || ast.Equal(a, eb) || ast.Equal(ea, eb)
}

// inferTerm infers the type of term under c, implementing the System F and
// STLC introduction/elimination rules of §4.6.
func inferTerm(c *ctx, term ast.TripValue) (ast.TripValue, error) {
	switch t := term.(type) {
	case *ast.LambdaVarNode:
		return lookupVar(c, t.Name)
	case *ast.SysFVarNode:
		return lookupVar(c, t.Name)

	case *ast.SysFAbsNode:
		bodyCtx := c.withTerm(t.Param, t.ParamType)
		bodyType, err := inferTerm(bodyCtx, t.Body)
		if err != nil {
			return nil, err
		}
		return arrow(t.ParamType, bodyType), nil

	case *ast.TypedAbsNode:
		bodyCtx := c.withTerm(t.Param, t.ParamType)
		bodyType, err := inferTerm(bodyCtx, t.Body)
		if err != nil {
			return nil, err
		}
		return arrow(t.ParamType, bodyType), nil

	case *ast.SysFTypeAbsNode:
		bodyCtx := c.withType(t.TypeVar)
		bodyType, err := inferTerm(bodyCtx, t.Body)
		if err != nil {
			return nil, err
		}
		return ast.Forall(t.TypeVar, bodyType), nil

	case *ast.SysFTypeAppNode:
		fnType, err := inferTerm(c, t.Term)
		if err != nil {
			return nil, err
		}
		forall, ok := asForall(fnType, c.aliases)
		if !ok {
			return nil, terrors.New(terrors.Typecheck, terrors.TC003ForallExpected,
				fmt.Sprintf("type application to non-universal type %s", fnType)).WithTerm(term.String())
		}
		return subst.Type(forall.Body, forall.TypeVar, t.TypeArg, fvCache), nil

	case *ast.AppNode:
		fnType, err := inferTerm(c, t.Lft)
		if err != nil {
			return nil, err
		}
		argType, paramType, ok := asArrow(fnType, c.aliases)
		if !ok {
			return nil, terrors.New(terrors.Typecheck, terrors.TC002ArrowExpected,
				fmt.Sprintf("application of non-arrow type %s", fnType)).WithTerm(term.String())
		}
		if err := checkTerm(c, t.Rgt, argType); err != nil {
			return nil, err
		}
		return paramType, nil

	case *ast.SysFLetNode:
		// SysFLet is typed as an immediate application (λname:T.body) value,
		// where T is the inferred type of value (§4.6).
		valType, err := inferTerm(c, t.Value)
		if err != nil {
			return nil, err
		}
		return inferTerm(c.withTerm(t.Name, valType), t.Body)

	case *ast.LambdaAbsNode:
		return nil, terrors.New(terrors.Typecheck, terrors.TC002ArrowExpected,
			"cannot infer the type of an unannotated abstraction").WithTerm(term.String())

	case *ast.SysFMatchNode:
		return nil, terrors.New(terrors.Typecheck, terrors.TC001UnknownVariable,
			"unexpected match node reached the typechecker (elaboration should have eliminated it)").WithTerm(term.String())

	case *ast.TerminalNode:
		return nil, terrors.New(terrors.Typecheck, terrors.TC001UnknownVariable,
			"unexpected combinator atom reached the typechecker").WithTerm(term.String())

	default:
		return nil, terrors.New(terrors.Typecheck, terrors.TC001UnknownVariable,
			fmt.Sprintf("cannot infer type of %T", term)).WithTerm(term.String())
	}
}

// checkTerm checks term against expected, falling back to inference plus an
// equivalence check when no bidirectional rule applies directly.
func checkTerm(c *ctx, term ast.TripValue, expected ast.TripValue) error {
	switch t := term.(type) {
	case *ast.LambdaAbsNode:
		argType, resultType, ok := asArrow(expected, c.aliases)
		if !ok {
			return terrors.New(terrors.Typecheck, terrors.TC002ArrowExpected,
				fmt.Sprintf("unannotated abstraction checked against non-arrow type %s", expected)).WithTerm(term.String())
		}
		return checkTerm(c.withTerm(t.Param, argType), t.Body, resultType)

	case *ast.SysFTypeAbsNode:
		forall, ok := asForall(expected, c.aliases)
		if !ok {
			return terrors.New(terrors.Typecheck, terrors.TC003ForallExpected,
				fmt.Sprintf("type abstraction checked against non-universal type %s", expected)).WithTerm(term.String())
		}
		renamed := subst.Type(forall.Body, forall.TypeVar, ast.TypeVar(t.TypeVar), fvCache)
		return checkTerm(c.withType(t.TypeVar), t.Body, renamed)
	}

	inferred, err := inferTerm(c, term)
	if err != nil {
		return err
	}
	if !typeEquiv(inferred, expected, c.aliases) {
		return terrors.New(terrors.Typecheck, terrors.TC004ArgMismatch,
			fmt.Sprintf("expected type %s, got %s", expected, inferred)).WithTerm(term.String())
	}
	return nil
}

func lookupVar(c *ctx, name string) (ast.TripValue, error) {
	if t, ok := c.terms[name]; ok {
		return t, nil
	}
	if ast.IsLiteralSentinel(name) {
		// Numeral type resolution happens at link time against the linked
		// Prelude; the owning definition is skipped here (§4.6, §4.8).
		return nil, errSkip
	}
	// A free reference not bound in this context is an unresolved import:
	// the resolver guarantees every other free name has already been
	// substituted away, so this must be an import-bound symbol.
	return nil, errSkip
}
