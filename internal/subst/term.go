package subst

import "github.com/triplang/tripc/internal/ast"

// Term performs capture-avoiding substitution of replacement for every free
// occurrence of the term name `name` within v (§4.3). Type-stratum subtrees
// (parameter-type annotations, type arguments, match return types) never
// contain a term variable by construction and are left untouched, as
// required by §3 invariant 6 (term and type namespaces are independent).
// Numeric-literal sentinels (§3 invariant 7) are never substituted into.
//
// v is returned unchanged (same pointer) whenever no substitution actually
// occurs anywhere in the tree.
func Term(v ast.TripValue, name string, replacement ast.TripValue, cache *FVCache) ast.TripValue {
	replFV, _ := cache.FreeVars(replacement)
	return substTerm(v, name, replacement, replFV, nil)
}

func substTerm(v ast.TripValue, name string, replacement ast.TripValue, replFV map[string]struct{}, bound *scope) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		if ast.IsLiteralSentinel(n.Name) || n.Name != name {
			return v
		}
		return replacement
	case *ast.SysFVarNode:
		if ast.IsLiteralSentinel(n.Name) || n.Name != name {
			return v
		}
		return replacement
	case *ast.TypeVarNode:
		return v
	case *ast.LambdaAbsNode:
		if n.Param == name {
			return v
		}
		param, body := rebindTerm(n.Param, n.Body, name, replacement, replFV, bound)
		if param == n.Param && sameNode(body, n.Body) {
			return v
		}
		return ast.LambdaAbs(param, body)
	case *ast.TypedAbsNode:
		if n.Param == name {
			return v
		}
		param, body := rebindTerm(n.Param, n.Body, name, replacement, replFV, bound)
		if param == n.Param && sameNode(body, n.Body) {
			return v
		}
		return ast.TypedAbs(param, n.ParamType, body)
	case *ast.SysFAbsNode:
		if n.Param == name {
			return v
		}
		param, body := rebindTerm(n.Param, n.Body, name, replacement, replFV, bound)
		if param == n.Param && sameNode(body, n.Body) {
			return v
		}
		return ast.SysFAbs(param, n.ParamType, body)
	case *ast.SysFTypeAbsNode:
		newBody := substTerm(n.Body, name, replacement, replFV, bound)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFTypeAbs(n.TypeVar, newBody)
	case *ast.ForallNode:
		return v
	case *ast.SysFTypeAppNode:
		newTerm := substTerm(n.Term, name, replacement, replFV, bound)
		if sameNode(newTerm, n.Term) {
			return v
		}
		return ast.SysFTypeApp(newTerm, n.TypeArg)
	case *ast.TypeAppNode:
		return v
	case *ast.SysFLetNode:
		newValue := substTerm(n.Value, name, replacement, replFV, bound)
		if n.Name == name {
			if sameNode(newValue, n.Value) {
				return v
			}
			return ast.SysFLet(n.Name, newValue, n.Body)
		}
		bindName, newBody := rebindTerm(n.Name, n.Body, name, replacement, replFV, bound)
		if sameNode(newValue, n.Value) && bindName == n.Name && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFLet(bindName, newValue, newBody)
	case *ast.SysFMatchNode:
		newScrutinee := substTerm(n.Scrutinee, name, replacement, replFV, bound)
		changed := !sameNode(newScrutinee, n.Scrutinee)
		newArms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			shadowed := false
			for _, p := range arm.Params {
				if p == name {
					shadowed = true
					break
				}
			}
			if shadowed {
				newArms[i] = arm
				continue
			}
			params, body := rebindTermMulti(arm.Params, arm.Body, name, replacement, replFV, bound)
			if paramsEqual(params, arm.Params) && sameNode(body, arm.Body) {
				newArms[i] = arm
				continue
			}
			changed = true
			newArms[i] = ast.MatchArm{Ctor: arm.Ctor, Params: params, Body: body}
		}
		if !changed {
			return v
		}
		return ast.SysFMatch(newScrutinee, n.ReturnType, newArms)
	case *ast.AppNode:
		newLft := substTerm(n.Lft, name, replacement, replFV, bound)
		newRgt := substTerm(n.Rgt, name, replacement, replFV, bound)
		if sameNode(newLft, n.Lft) && sameNode(newRgt, n.Rgt) {
			return v
		}
		return ast.App(newLft, newRgt)
	case *ast.TerminalNode:
		return v
	default:
		return v
	}
}

// rebindTerm handles the single-binder case shared by LambdaAbs/TypedAbs/
// SysFAbs/SysFLet: if param is free in the replacement, it is renamed to a
// fresh name (avoiding the replacement's free vars and every binder on the
// current path) before the body is renamed and then substituted into.
func rebindTerm(param string, body ast.TripValue, name string, replacement ast.TripValue, replFV map[string]struct{}, bound *scope) (string, ast.TripValue) {
	if _, capture := replFV[param]; capture {
		fresh := freshen(param, func(x string) bool {
			_, inRepl := replFV[x]
			return inRepl || bound.has(x)
		})
		renamed := AlphaRenameTerm(body, param, fresh)
		newBody := substTerm(renamed, name, replacement, replFV, extend(bound, fresh))
		return fresh, newBody
	}
	newBody := substTerm(body, name, replacement, replFV, extend(bound, param))
	return param, newBody
}

func rebindTermMulti(params []string, body ast.TripValue, name string, replacement ast.TripValue, replFV map[string]struct{}, bound *scope) ([]string, ast.TripValue) {
	newParams := make([]string, len(params))
	curBody := body
	curBound := bound
	for i, p := range params {
		if _, capture := replFV[p]; capture {
			fresh := freshen(p, func(x string) bool {
				_, inRepl := replFV[x]
				return inRepl || curBound.has(x)
			})
			curBody = AlphaRenameTerm(curBody, p, fresh)
			newParams[i] = fresh
		} else {
			newParams[i] = p
		}
		curBound = extend(curBound, newParams[i])
	}
	newBody := substTerm(curBody, name, replacement, replFV, curBound)
	return newParams, newBody
}

func paramsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TermBatch performs a simultaneous, capture-avoiding substitution of every
// name in subs, descending the tree once instead of once per name (§4.3).
// unionFV must be the union of the free term names across every value in
// subs (callers typically get this by folding cache.FreeVars over subs and
// pass it in precomputed so repeated calls over many targets don't
// recompute it per node).
func TermBatch(v ast.TripValue, subs map[string]ast.TripValue, unionFV map[string]struct{}) ast.TripValue {
	return substTermBatch(v, subs, unionFV, nil)
}

func substTermBatch(v ast.TripValue, subs map[string]ast.TripValue, unionFV map[string]struct{}, bound *scope) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		if ast.IsLiteralSentinel(n.Name) {
			return v
		}
		if r, ok := subs[n.Name]; ok {
			return r
		}
		return v
	case *ast.SysFVarNode:
		if ast.IsLiteralSentinel(n.Name) {
			return v
		}
		if r, ok := subs[n.Name]; ok {
			return r
		}
		return v
	case *ast.TypeVarNode:
		return v
	case *ast.LambdaAbsNode:
		innerSubs := withoutKey(subs, n.Param)
		param, body := rebindTermBatch(n.Param, n.Body, innerSubs, unionFV, bound)
		if param == n.Param && sameNode(body, n.Body) {
			return v
		}
		return ast.LambdaAbs(param, body)
	case *ast.TypedAbsNode:
		innerSubs := withoutKey(subs, n.Param)
		param, body := rebindTermBatch(n.Param, n.Body, innerSubs, unionFV, bound)
		if param == n.Param && sameNode(body, n.Body) {
			return v
		}
		return ast.TypedAbs(param, n.ParamType, body)
	case *ast.SysFAbsNode:
		innerSubs := withoutKey(subs, n.Param)
		param, body := rebindTermBatch(n.Param, n.Body, innerSubs, unionFV, bound)
		if param == n.Param && sameNode(body, n.Body) {
			return v
		}
		return ast.SysFAbs(param, n.ParamType, body)
	case *ast.SysFTypeAbsNode:
		newBody := substTermBatch(n.Body, subs, unionFV, bound)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFTypeAbs(n.TypeVar, newBody)
	case *ast.ForallNode:
		return v
	case *ast.SysFTypeAppNode:
		newTerm := substTermBatch(n.Term, subs, unionFV, bound)
		if sameNode(newTerm, n.Term) {
			return v
		}
		return ast.SysFTypeApp(newTerm, n.TypeArg)
	case *ast.TypeAppNode:
		return v
	case *ast.SysFLetNode:
		newValue := substTermBatch(n.Value, subs, unionFV, bound)
		innerSubs := withoutKey(subs, n.Name)
		bindName, newBody := rebindTermBatch(n.Name, n.Body, innerSubs, unionFV, bound)
		if sameNode(newValue, n.Value) && bindName == n.Name && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFLet(bindName, newValue, newBody)
	case *ast.SysFMatchNode:
		newScrutinee := substTermBatch(n.Scrutinee, subs, unionFV, bound)
		changed := !sameNode(newScrutinee, n.Scrutinee)
		newArms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			innerSubs := subs
			for _, p := range arm.Params {
				innerSubs = withoutKey(innerSubs, p)
			}
			params, body := rebindTermBatchMulti(arm.Params, arm.Body, innerSubs, unionFV, bound)
			if paramsEqual(params, arm.Params) && sameNode(body, arm.Body) {
				newArms[i] = arm
				continue
			}
			changed = true
			newArms[i] = ast.MatchArm{Ctor: arm.Ctor, Params: params, Body: body}
		}
		if !changed {
			return v
		}
		return ast.SysFMatch(newScrutinee, n.ReturnType, newArms)
	case *ast.AppNode:
		newLft := substTermBatch(n.Lft, subs, unionFV, bound)
		newRgt := substTermBatch(n.Rgt, subs, unionFV, bound)
		if sameNode(newLft, n.Lft) && sameNode(newRgt, n.Rgt) {
			return v
		}
		return ast.App(newLft, newRgt)
	case *ast.TerminalNode:
		return v
	default:
		return v
	}
}

func rebindTermBatch(param string, body ast.TripValue, innerSubs map[string]ast.TripValue, unionFV map[string]struct{}, bound *scope) (string, ast.TripValue) {
	if _, capture := unionFV[param]; capture {
		fresh := freshen(param, func(x string) bool {
			_, inUnion := unionFV[x]
			return inUnion || bound.has(x)
		})
		renamed := AlphaRenameTerm(body, param, fresh)
		newBody := substTermBatch(renamed, innerSubs, unionFV, extend(bound, fresh))
		return fresh, newBody
	}
	newBody := substTermBatch(body, innerSubs, unionFV, extend(bound, param))
	return param, newBody
}

func rebindTermBatchMulti(params []string, body ast.TripValue, innerSubs map[string]ast.TripValue, unionFV map[string]struct{}, bound *scope) ([]string, ast.TripValue) {
	newParams := make([]string, len(params))
	curBody := body
	curBound := bound
	for i, p := range params {
		if _, capture := unionFV[p]; capture {
			fresh := freshen(p, func(x string) bool {
				_, inUnion := unionFV[x]
				return inUnion || curBound.has(x)
			})
			curBody = AlphaRenameTerm(curBody, p, fresh)
			newParams[i] = fresh
		} else {
			newParams[i] = p
		}
		curBound = extend(curBound, newParams[i])
	}
	newBody := substTermBatch(curBody, innerSubs, unionFV, curBound)
	return newParams, newBody
}

// withoutKey returns subs unchanged if key is absent (preserving map
// identity so callers doing no renaming along a path allocate nothing),
// otherwise a shallow copy with key removed.
func withoutKey(subs map[string]ast.TripValue, key string) map[string]ast.TripValue {
	if _, ok := subs[key]; !ok {
		return subs
	}
	out := make(map[string]ast.TripValue, len(subs)-1)
	for k, v := range subs {
		if k != key {
			out[k] = v
		}
	}
	return out
}
