package subst

import "github.com/triplang/tripc/internal/ast"

// AlphaRenameTerm renames every free occurrence of the term name `from` to
// `to` within v, stopping at any binder that rebinds `from` (shadowing). It
// is used internally to rename a binder's own occurrences before recursing
// a capturing substitution into its body, and is exported for callers that
// need to pick a fresh name ahead of time.
func AlphaRenameTerm(v ast.TripValue, from, to string) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		if ast.IsLiteralSentinel(n.Name) || n.Name != from {
			return v
		}
		return ast.LambdaVar(to)
	case *ast.SysFVarNode:
		if ast.IsLiteralSentinel(n.Name) || n.Name != from {
			return v
		}
		return ast.SysFVar(to)
	case *ast.TypeVarNode:
		return v
	case *ast.LambdaAbsNode:
		if n.Param == from {
			return v
		}
		newBody := AlphaRenameTerm(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.LambdaAbs(n.Param, newBody)
	case *ast.TypedAbsNode:
		if n.Param == from {
			return v
		}
		newBody := AlphaRenameTerm(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.TypedAbs(n.Param, n.ParamType, newBody)
	case *ast.SysFAbsNode:
		if n.Param == from {
			return v
		}
		newBody := AlphaRenameTerm(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFAbs(n.Param, n.ParamType, newBody)
	case *ast.SysFTypeAbsNode:
		newBody := AlphaRenameTerm(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFTypeAbs(n.TypeVar, newBody)
	case *ast.ForallNode:
		return v
	case *ast.SysFTypeAppNode:
		newTerm := AlphaRenameTerm(n.Term, from, to)
		if sameNode(newTerm, n.Term) {
			return v
		}
		return ast.SysFTypeApp(newTerm, n.TypeArg)
	case *ast.TypeAppNode:
		return v
	case *ast.SysFLetNode:
		newValue := AlphaRenameTerm(n.Value, from, to)
		if n.Name == from {
			if sameNode(newValue, n.Value) {
				return v
			}
			return ast.SysFLet(n.Name, newValue, n.Body)
		}
		newBody := AlphaRenameTerm(n.Body, from, to)
		if sameNode(newValue, n.Value) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFLet(n.Name, newValue, newBody)
	case *ast.SysFMatchNode:
		newScrutinee := AlphaRenameTerm(n.Scrutinee, from, to)
		changed := !sameNode(newScrutinee, n.Scrutinee)
		newArms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			shadowed := false
			for _, p := range arm.Params {
				if p == from {
					shadowed = true
					break
				}
			}
			if shadowed {
				newArms[i] = arm
				continue
			}
			newArmBody := AlphaRenameTerm(arm.Body, from, to)
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
		return ast.SysFMatch(newScrutinee, n.ReturnType, newArms)
	case *ast.AppNode:
		newLft := AlphaRenameTerm(n.Lft, from, to)
		newRgt := AlphaRenameTerm(n.Rgt, from, to)
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

// AlphaRenameType renames every free occurrence of the type name `from` to
// `to` throughout v, descending into term structure to reach nested type
// annotations (ParamType, type arguments, match return types) and stopping
// at any type binder that rebinds `from`.
func AlphaRenameType(v ast.TripValue, from, to string) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode, *ast.SysFVarNode, *ast.TerminalNode:
		return v
	case *ast.TypeVarNode:
		if n.Name != from {
			return v
		}
		return ast.TypeVar(to)
	case *ast.LambdaAbsNode:
		newBody := AlphaRenameType(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.LambdaAbs(n.Param, newBody)
	case *ast.TypedAbsNode:
		newParamType := AlphaRenameType(n.ParamType, from, to)
		newBody := AlphaRenameType(n.Body, from, to)
		if sameNode(newParamType, n.ParamType) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.TypedAbs(n.Param, newParamType, newBody)
	case *ast.SysFAbsNode:
		newParamType := AlphaRenameType(n.ParamType, from, to)
		newBody := AlphaRenameType(n.Body, from, to)
		if sameNode(newParamType, n.ParamType) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFAbs(n.Param, newParamType, newBody)
	case *ast.SysFTypeAbsNode:
		if n.TypeVar == from {
			return v
		}
		newBody := AlphaRenameType(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFTypeAbs(n.TypeVar, newBody)
	case *ast.ForallNode:
		if n.TypeVar == from {
			return v
		}
		newBody := AlphaRenameType(n.Body, from, to)
		if sameNode(newBody, n.Body) {
			return v
		}
		return ast.Forall(n.TypeVar, newBody)
	case *ast.SysFTypeAppNode:
		newTerm := AlphaRenameType(n.Term, from, to)
		newTypeArg := AlphaRenameType(n.TypeArg, from, to)
		if sameNode(newTerm, n.Term) && sameNode(newTypeArg, n.TypeArg) {
			return v
		}
		return ast.SysFTypeApp(newTerm, newTypeArg)
	case *ast.TypeAppNode:
		newFn := AlphaRenameType(n.Fn, from, to)
		newArg := AlphaRenameType(n.Arg, from, to)
		if sameNode(newFn, n.Fn) && sameNode(newArg, n.Arg) {
			return v
		}
		return ast.TypeApp(newFn, newArg)
	case *ast.SysFLetNode:
		newValue := AlphaRenameType(n.Value, from, to)
		newBody := AlphaRenameType(n.Body, from, to)
		if sameNode(newValue, n.Value) && sameNode(newBody, n.Body) {
			return v
		}
		return ast.SysFLet(n.Name, newValue, newBody)
	case *ast.SysFMatchNode:
		newScrutinee := AlphaRenameType(n.Scrutinee, from, to)
		newReturnType := AlphaRenameType(n.ReturnType, from, to)
		changed := !sameNode(newScrutinee, n.Scrutinee) || !sameNode(newReturnType, n.ReturnType)
		newArms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			newArmBody := AlphaRenameType(arm.Body, from, to)
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
		newLft := AlphaRenameType(n.Lft, from, to)
		newRgt := AlphaRenameType(n.Rgt, from, to)
		if sameNode(newLft, n.Lft) && sameNode(newRgt, n.Rgt) {
			return v
		}
		return ast.App(newLft, newRgt)
	default:
		return v
	}
}

func sameNode(a, b ast.TripValue) bool { return a == b }
