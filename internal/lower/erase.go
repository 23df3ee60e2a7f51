package lower

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/subst"
)

// eraseTypes strips every type-stratum construct from v, producing the
// corresponding untyped term: System F and simply-typed abstractions lose
// their parameter-type annotation and become plain LambdaAbsNode, System F
// type abstraction/application nodes disappear entirely (their body/term
// survives), and SysFLet is desugared to an immediate application — the
// same "let as application" reduction the typechecker uses for typing
// (§4.6), reused here for runtime semantics too.
func eraseTypes(v ast.TripValue) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		return v
	case *ast.SysFVarNode:
		return ast.LambdaVar(n.Name)
	case *ast.TypeVarNode, *ast.ForallNode, *ast.TypeAppNode:
		return v
	case *ast.LambdaAbsNode:
		return ast.LambdaAbs(n.Param, eraseTypes(n.Body))
	case *ast.TypedAbsNode:
		return ast.LambdaAbs(n.Param, eraseTypes(n.Body))
	case *ast.SysFAbsNode:
		return ast.LambdaAbs(n.Param, eraseTypes(n.Body))
	case *ast.SysFTypeAbsNode:
		return eraseTypes(n.Body)
	case *ast.SysFTypeAppNode:
		return eraseTypes(n.Term)
	case *ast.SysFLetNode:
		return ast.App(ast.LambdaAbs(n.Name, eraseTypes(n.Body)), eraseTypes(n.Value))
	case *ast.SysFMatchNode:
		// Elaboration removes every match before lowering runs; this branch
		// only guards against a definition that skipped elaboration.
		arms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = ast.MatchArm{Ctor: arm.Ctor, Params: arm.Params, Body: eraseTypes(arm.Body)}
		}
		return ast.SysFMatch(eraseTypes(n.Scrutinee), n.ReturnType, arms)
	case *ast.AppNode:
		return ast.App(eraseTypes(n.Lft), eraseTypes(n.Rgt))
	case *ast.TerminalNode:
		return v
	default:
		return v
	}
}

// wrapZ wraps body in an application of the call-by-value Z fix-point
// combinator over λname.body, so that recursive poly definitions need no
// native recursion once erased to the untyped stratum (§4.7, §9):
//
//	Z = λf. (λx. f (λv. x x v)) (λx. f (λv. x x v))
//	rec name = body   ~>   Z (λname. erase(body))
//
// f, x, and v are freshened against body's free names (and name itself) so
// the combinator's internal plumbing never captures a name already in use.
func wrapZ(name string, body ast.TripValue) ast.TripValue {
	terms, _ := freevars.Scan(body)
	avoid := func(s string) bool {
		if s == name {
			return true
		}
		return terms.Has(s)
	}
	f := subst.Freshen("f", avoid)
	x := subst.Freshen("x", avoid)
	v := subst.Freshen("v", avoid)

	selfApp := ast.LambdaAbs(v, ast.App(ast.App(ast.LambdaVar(x), ast.LambdaVar(x)), ast.LambdaVar(v)))
	half := ast.LambdaAbs(x, ast.App(ast.LambdaVar(f), selfApp))
	z := ast.LambdaAbs(f, ast.App(half, half))

	return ast.App(z, ast.LambdaAbs(name, body))
}
