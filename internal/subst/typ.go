package subst

import "github.com/triplang/tripc/internal/ast"

// Type performs capture-avoiding substitution of replacement for every free
// occurrence of the type name `name` within v (§4.3). Unlike Term, this
// walks the entire tree rather than skipping type-stratum subtrees: a type
// variable can appear nested arbitrarily deep inside term structure via
// parameter-type annotations, System F type arguments, and match return
// types, so every field that might carry a type position has to be visited.
// Term binders and term-variable names are never touched.
func Type(v ast.TripValue, name string, replacement ast.TripValue, cache *FVCache) ast.TripValue {
	_, replFV := cache.FreeVars(replacement)
	return substType(v, name, replacement, replFV, nil)
}

func substType(v ast.TripValue, name string, replacement ast.TripValue, replFV map[string]struct{}, bound *scope) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode, *ast.SysFVarNode, *ast.TerminalNode:
		return v
	case *ast.TypeVarNode:
		if n.Name != name {
			return v
		}
		return replacement
	case *ast.LambdaAbsNode:
		newBody := substType(n.Body, name, replacement, replFV, bound)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.LambdaAbs(n.Param, newBody)
	case *ast.TypedAbsNode:
		newParamType := substType(n.ParamType, name, replacement, replFV, bound)
		newBody := substType(n.Body, name, replacement, replFV, bound)
		if sameNode(newParamType, n.ParamType) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.TypedAbs(n.Param, newParamType, newBody)
	case *ast.SysFAbsNode:
		newParamType := substType(n.ParamType, name, replacement, replFV, bound)
		newBody := substType(n.Body, name, replacement, replFV, bound)
		if sameNode(newParamType, n.ParamType) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFAbs(n.Param, newParamType, newBody)
	case *ast.SysFTypeAbsNode:
		typeVar, body := rebindType(n.TypeVar, n.Body, name, replacement, replFV, bound)
		if typeVar == n.TypeVar && sameNode(body, n.Body) {
			return v
		}
		return ast.SysFTypeAbs(typeVar, body)
	case *ast.ForallNode:
		typeVar, body := rebindType(n.TypeVar, n.Body, name, replacement, replFV, bound)
		if typeVar == n.TypeVar && sameNode(body, n.Body) {
			return v
		}
		return ast.Forall(typeVar, body)
	case *ast.SysFTypeAppNode:
		newTerm := substType(n.Term, name, replacement, replFV, bound)
		newTypeArg := substType(n.TypeArg, name, replacement, replFV, bound)
		if sameNode(newTerm, n.Term) && sameNode(newTypeArg, n.TypeArg) {
			return v
		}
		return ast.SysFTypeApp(newTerm, newTypeArg)
	case *ast.TypeAppNode:
		newFn := substType(n.Fn, name, replacement, replFV, bound)
		newArg := substType(n.Arg, name, replacement, replFV, bound)
		if sameNode(newFn, n.Fn) && sameNode(newArg, n.Arg) {
			return v
		}
		return ast.TypeApp(newFn, newArg)
	case *ast.SysFLetNode:
		newValue := substType(n.Value, name, replacement, replFV, bound)
		newBody := substType(n.Body, name, replacement, replFV, bound)
		if sameNode(newValue, n.Value) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFLet(n.Name, newValue, newBody)
	case *ast.SysFMatchNode:
		newScrutinee := substType(n.Scrutinee, name, replacement, replFV, bound)
		newReturnType := substType(n.ReturnType, name, replacement, replFV, bound)
		changed := !sameNode(newScrutinee, n.Scrutinee) || !sameNode(newReturnType, n.ReturnType)
		newArms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			newArmBody := substType(arm.Body, name, replacement, replFV, bound)
			if sameNode(newArmBody, arm.Body) {
				newArms[i] = arm
				continue
			}
			changed = true
			newArms[i] = ast.MatchArm{Ctor: arm.Ctor, Params: arm.Params, Body: newArmBody}
		}
		if !changed {
			return v
		}
		return ast.SysFMatch(newScrutinee, newReturnType, newArms)
	case *ast.AppNode:
		newLft := substType(n.Lft, name, replacement, replFV, bound)
		newRgt := substType(n.Rgt, name, replacement, replFV, bound)
		if sameNode(newLft, n.Lft) && sameNode(newRgt, n.Rgt) {
			return v
		}
		return ast.App(newLft, newRgt)
	default:
		return v
	}
}

// rebindType handles the type-binder case shared by SysFTypeAbs/Forall: if
// typeVar shadows name, substitution stops under this binder; if typeVar is
// free in the replacement, it is renamed to a fresh type name first.
func rebindType(typeVar string, body ast.TripValue, name string, replacement ast.TripValue, replFV map[string]struct{}, bound *scope) (string, ast.TripValue) {
	if typeVar == name {
		return typeVar, body
	}
	if _, capture := replFV[typeVar]; capture {
		fresh := freshen(typeVar, func(x string) bool {
			_, inRepl := replFV[x]
			return inRepl || bound.has(x)
		})
		renamed := AlphaRenameType(body, typeVar, fresh)
		newBody := substType(renamed, name, replacement, replFV, extend(bound, fresh))
		return fresh, newBody
	}
	newBody := substType(body, name, replacement, replFV, extend(bound, typeVar))
	return typeVar, newBody
}
