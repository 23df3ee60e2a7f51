package elaborate

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/terrors"
)

// expandMatches rewrites every SysFMatchNode in v into an application of the
// generated eliminator for the data type its arms belong to, in constructor
// declaration order. This is the elaboration-time desugaring that lets the
// lowering pipeline (§4.7) ignore match entirely: by the time lowering runs,
// no SysFMatchNode remains in a resolved program.
func expandMatches(v ast.TripValue, ctors map[string]ctorInfo) (ast.TripValue, error) {
	switch n := v.(type) {
	case *ast.LambdaVarNode, *ast.SysFVarNode, *ast.TypeVarNode, *ast.TerminalNode:
		return v, nil
	case *ast.LambdaAbsNode:
		body, err := expandMatches(n.Body, ctors)
		if err != nil {
			return nil, err
		}
		return ast.LambdaAbs(n.Param, body), nil
	case *ast.TypedAbsNode:
		body, err := expandMatches(n.Body, ctors)
		if err != nil {
			return nil, err
		}
		return ast.TypedAbs(n.Param, n.ParamType, body), nil
	case *ast.SysFAbsNode:
		body, err := expandMatches(n.Body, ctors)
		if err != nil {
			return nil, err
		}
		return ast.SysFAbs(n.Param, n.ParamType, body), nil
	case *ast.SysFTypeAbsNode:
		body, err := expandMatches(n.Body, ctors)
		if err != nil {
			return nil, err
		}
		return ast.SysFTypeAbs(n.TypeVar, body), nil
	case *ast.ForallNode:
		return v, nil
	case *ast.SysFTypeAppNode:
		term, err := expandMatches(n.Term, ctors)
		if err != nil {
			return nil, err
		}
		return ast.SysFTypeApp(term, n.TypeArg), nil
	case *ast.TypeAppNode:
		return v, nil
	case *ast.SysFLetNode:
		value, err := expandMatches(n.Value, ctors)
		if err != nil {
			return nil, err
		}
		body, err := expandMatches(n.Body, ctors)
		if err != nil {
			return nil, err
		}
		return ast.SysFLet(n.Name, value, body), nil
	case *ast.AppNode:
		lft, err := expandMatches(n.Lft, ctors)
		if err != nil {
			return nil, err
		}
		rgt, err := expandMatches(n.Rgt, ctors)
		if err != nil {
			return nil, err
		}
		return ast.App(lft, rgt), nil
	case *ast.SysFMatchNode:
		return expandOneMatch(n, ctors)
	default:
		return v, nil
	}
}

func expandOneMatch(n *ast.SysFMatchNode, ctors map[string]ctorInfo) (ast.TripValue, error) {
	if len(n.Arms) == 0 {
		return nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl, "match with no arms")
	}
	first, ok := ctors[n.Arms[0].Ctor]
	if !ok {
		return nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl,
			fmt.Sprintf("match arm references unknown constructor %q", n.Arms[0].Ctor))
	}

	byName := make(map[string]ast.MatchArm, len(n.Arms))
	for _, arm := range n.Arms {
		info, ok := ctors[arm.Ctor]
		if !ok {
			return nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl,
				fmt.Sprintf("match arm references unknown constructor %q", arm.Ctor))
		}
		if info.dataName != first.dataName {
			return nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl,
				fmt.Sprintf("match mixes constructors of %q and %q", first.dataName, info.dataName))
		}
		if _, dup := byName[arm.Ctor]; dup {
			return nil, terrors.New(terrors.Elaborate, terrors.ELB002DuplicateArm,
				fmt.Sprintf("duplicate match arm for constructor %q", arm.Ctor))
		}
		byName[arm.Ctor] = arm
	}
	if len(byName) != len(first.allCtors) {
		return nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl,
			fmt.Sprintf("match on %q is not exhaustive", first.dataName))
	}

	scrutinee, err := expandMatches(n.Scrutinee, ctors)
	if err != nil {
		return nil, err
	}

	handlers := make([]ast.TripValue, len(first.allCtors))
	for i, sig := range first.allCtors {
		arm := byName[sig.Name]
		if len(arm.Params) != len(sig.ArgTypes) {
			return nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl,
				fmt.Sprintf("constructor %q expects %d argument(s), match arm binds %d", sig.Name, len(sig.ArgTypes), len(arm.Params)))
		}
		armBody, err := expandMatches(arm.Body, ctors)
		if err != nil {
			return nil, err
		}
		h := armBody
		for j := len(arm.Params) - 1; j >= 0; j-- {
			h = ast.LambdaAbs(arm.Params[j], h)
		}
		handlers[i] = h
	}

	result := ast.TripValue(ast.SysFTypeApp(ast.SysFVar(first.matchName), n.ReturnType))
	result = ast.App(result, scrutinee)
	for _, h := range handlers {
		result = ast.App(result, h)
	}
	return result, nil
}
