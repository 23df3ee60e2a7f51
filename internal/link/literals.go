package link

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/elaborate"
	"github.com/triplang/tripc/internal/terrors"
)

// expandLiterals expands any numeric-literal sentinel remaining in value
// against the first linked module that defines both "zero" and "succ"
// (§4.8: "expansion happens lazily... by consulting the currently linked
// Nat or Bin definition"). Only Church (zero/succ) expansion is wired; see
// DESIGN.md for why Bin numerals are out of scope.
func expandLiterals(value ast.TripValue, mods []*loadedModule, resolvedValue map[string]ast.TripValue) (ast.TripValue, error) {
	if !hasLiteralSentinel(value) {
		return value, nil
	}
	var zero, succ ast.TripValue
	for _, m := range mods {
		zv, zok := resolvedValue[qualify(m.name, "zero")]
		sv, sok := resolvedValue[qualify(m.name, "succ")]
		if zok && sok {
			zero, succ = zv, sv
			break
		}
	}
	if zero == nil || succ == nil {
		return nil, terrors.New(terrors.Link, terrors.LNK007UnexpandableLiteral,
			"numeric literal used but no linked module defines both \"zero\" and \"succ\"")
	}
	return rewriteWithNumeral(value, zero, succ)
}

func hasLiteralSentinel(v ast.TripValue) bool {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		_, ok := ast.LiteralSentinelPayload(n.Name)
		return ok
	case *ast.SysFVarNode:
		_, ok := ast.LiteralSentinelPayload(n.Name)
		return ok
	case *ast.LambdaAbsNode:
		return hasLiteralSentinel(n.Body)
	case *ast.TypedAbsNode:
		return hasLiteralSentinel(n.Body)
	case *ast.SysFAbsNode:
		return hasLiteralSentinel(n.Body)
	case *ast.SysFTypeAbsNode:
		return hasLiteralSentinel(n.Body)
	case *ast.SysFTypeAppNode:
		return hasLiteralSentinel(n.Term)
	case *ast.SysFLetNode:
		return hasLiteralSentinel(n.Value) || hasLiteralSentinel(n.Body)
	case *ast.SysFMatchNode:
		if hasLiteralSentinel(n.Scrutinee) {
			return true
		}
		for _, arm := range n.Arms {
			if hasLiteralSentinel(arm.Body) {
				return true
			}
		}
		return false
	case *ast.AppNode:
		return hasLiteralSentinel(n.Lft) || hasLiteralSentinel(n.Rgt)
	default:
		return false
	}
}

func rewriteWithNumeral(v, zero, succ ast.TripValue) (ast.TripValue, error) {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		if decimal, ok := ast.LiteralSentinelPayload(n.Name); ok {
			spine, ok := elaborate.ChurchSpine(decimal, zero, succ)
			if !ok {
				return nil, fmt.Errorf("link: malformed literal sentinel %q", n.Name)
			}
			return spine, nil
		}
		return v, nil
	case *ast.SysFVarNode:
		if decimal, ok := ast.LiteralSentinelPayload(n.Name); ok {
			spine, ok := elaborate.ChurchSpine(decimal, zero, succ)
			if !ok {
				return nil, fmt.Errorf("link: malformed literal sentinel %q", n.Name)
			}
			return spine, nil
		}
		return v, nil
	case *ast.LambdaAbsNode:
		body, err := rewriteWithNumeral(n.Body, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.LambdaAbs(n.Param, body), nil
	case *ast.TypedAbsNode:
		body, err := rewriteWithNumeral(n.Body, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.TypedAbs(n.Param, n.ParamType, body), nil
	case *ast.SysFAbsNode:
		body, err := rewriteWithNumeral(n.Body, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.SysFAbs(n.Param, n.ParamType, body), nil
	case *ast.SysFTypeAbsNode:
		body, err := rewriteWithNumeral(n.Body, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.SysFTypeAbs(n.TypeVar, body), nil
	case *ast.SysFTypeAppNode:
		term, err := rewriteWithNumeral(n.Term, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.SysFTypeApp(term, n.TypeArg), nil
	case *ast.SysFLetNode:
		value, err := rewriteWithNumeral(n.Value, zero, succ)
		if err != nil {
			return nil, err
		}
		body, err := rewriteWithNumeral(n.Body, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.SysFLet(n.Name, value, body), nil
	case *ast.SysFMatchNode:
		scrutinee, err := rewriteWithNumeral(n.Scrutinee, zero, succ)
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			body, err := rewriteWithNumeral(arm.Body, zero, succ)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.MatchArm{Ctor: arm.Ctor, Params: arm.Params, Body: body}
		}
		return ast.SysFMatch(scrutinee, n.ReturnType, arms), nil
	case *ast.AppNode:
		lft, err := rewriteWithNumeral(n.Lft, zero, succ)
		if err != nil {
			return nil, err
		}
		rgt, err := rewriteWithNumeral(n.Rgt, zero, succ)
		if err != nil {
			return nil, err
		}
		return ast.App(lft, rgt), nil
	default:
		return v, nil
	}
}
