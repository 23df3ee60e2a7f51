package elaborate

import (
	"math/big"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/symtab"
)

// ChurchSpine builds the Church-numeral application spine for decimal using
// the given zero/succ term references: succ (succ (... (succ zero))).
// Exported so the linker (§4.8) can reuse it once zero/succ are resolved
// against a linked Prelude, for literals that couldn't be expanded locally.
func ChurchSpine(decimal string, zero, succ ast.TripValue) (ast.TripValue, bool) {
	n, ok := new(big.Int).SetString(decimal, 10)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	term := zero
	one := big.NewInt(1)
	for i := new(big.Int).Set(n); i.Sign() > 0; i.Sub(i, one) {
		term = ast.App(succ, term)
	}
	return term, true
}

// desugarLiterals expands numeric-literal sentinels (§3 invariant 7) into
// Church-numeral spines wherever this module locally defines both "zero"
// and "succ" terms. When it doesn't, the sentinel is left untouched: it
// survives resolution and lowering opaquely (§4.8) and is expanded lazily
// by the linker once a Prelude supplying zero/succ has actually been
// linked in. Bin-numeral expansion is not attempted here: no scenario in
// the spec names concrete Bin constructor identifiers, so only the Church
// encoding is wired (see DESIGN.md).
func desugarLiterals(v ast.TripValue, tab *symtab.Table) ast.TripValue {
	_, hasZero := tab.Terms["zero"]
	_, hasSucc := tab.Terms["succ"]
	if !hasZero || !hasSucc {
		return v
	}
	return rewriteLiterals(v)
}

func rewriteLiterals(v ast.TripValue) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		if decimal, ok := ast.LiteralSentinelPayload(n.Name); ok {
			spine, ok := ChurchSpine(decimal, ast.SysFVar("zero"), ast.SysFVar("succ"))
			if ok {
				return spine
			}
		}
		return v
	case *ast.SysFVarNode:
		if decimal, ok := ast.LiteralSentinelPayload(n.Name); ok {
			spine, ok := ChurchSpine(decimal, ast.SysFVar("zero"), ast.SysFVar("succ"))
			if ok {
				return spine
			}
		}
		return v
	case *ast.TypeVarNode, *ast.TerminalNode:
		return v
	case *ast.LambdaAbsNode:
		return ast.LambdaAbs(n.Param, rewriteLiterals(n.Body))
	case *ast.TypedAbsNode:
		return ast.TypedAbs(n.Param, n.ParamType, rewriteLiterals(n.Body))
	case *ast.SysFAbsNode:
		return ast.SysFAbs(n.Param, n.ParamType, rewriteLiterals(n.Body))
	case *ast.SysFTypeAbsNode:
		return ast.SysFTypeAbs(n.TypeVar, rewriteLiterals(n.Body))
	case *ast.ForallNode:
		return v
	case *ast.SysFTypeAppNode:
		return ast.SysFTypeApp(rewriteLiterals(n.Term), n.TypeArg)
	case *ast.TypeAppNode:
		return v
	case *ast.SysFLetNode:
		return ast.SysFLet(n.Name, rewriteLiterals(n.Value), rewriteLiterals(n.Body))
	case *ast.SysFMatchNode:
		arms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = ast.MatchArm{Ctor: arm.Ctor, Params: arm.Params, Body: rewriteLiterals(arm.Body)}
		}
		return ast.SysFMatch(rewriteLiterals(n.Scrutinee), n.ReturnType, arms)
	case *ast.AppNode:
		return ast.App(rewriteLiterals(n.Lft), rewriteLiterals(n.Rgt))
	default:
		return v
	}
}
