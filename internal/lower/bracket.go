package lower

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
)

// bracketAbstract converts an untyped term to combinator form via classical
// bracket abstraction (§4.7): every LambdaAbsNode is eliminated in favor of
// S/K/I application spines. The input must already be free of type-stratum
// constructs (eraseTypes guarantees this for poly/typed-derived bodies).
func bracketAbstract(v ast.TripValue) ast.TripValue {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		return v
	case *ast.LambdaAbsNode:
		return abstractOver(n.Param, bracketAbstract(n.Body))
	case *ast.AppNode:
		return ast.App(bracketAbstract(n.Lft), bracketAbstract(n.Rgt))
	case *ast.TerminalNode:
		return v
	default:
		// SysFLet/SysFMatch/type nodes never survive eraseTypes; treat any
		// that slip through as opaque atoms rather than panic.
		return v
	}
}

// abstractOver implements T[x]M, the four classical bracket-abstraction
// rules from §4.7:
//
//	T[x]x      = I
//	T[x]M      = K M            when x not free in M
//	T[x](A x)  = A               when x not free in A (η-optimization)
//	T[x](A B)  = S (T[x]A) (T[x]B)
//
// M is assumed already bracket-converted (no LambdaAbsNode remains in it);
// only LambdaVarNode/AppNode/TerminalNode occur.
func abstractOver(x string, m ast.TripValue) ast.TripValue {
	if lv, ok := m.(*ast.LambdaVarNode); ok && lv.Name == x {
		return ast.Terminal(ast.I)
	}
	if !occursFree(x, m) {
		return ast.App(ast.Terminal(ast.K), m)
	}
	app := m.(*ast.AppNode)
	if rv, ok := app.Rgt.(*ast.LambdaVarNode); ok && rv.Name == x && !occursFree(x, app.Lft) {
		return app.Lft
	}
	return ast.App(ast.App(ast.Terminal(ast.S), abstractOver(x, app.Lft)), abstractOver(x, app.Rgt))
}

func occursFree(x string, v ast.TripValue) bool {
	terms, _ := freevars.Scan(v)
	return terms.Has(x)
}
