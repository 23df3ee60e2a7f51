package ast

import (
	"hash/fnv"
)

// Equal reports whether a and b are structurally identical TripValue trees.
// Go gives interfaces no free structural-equality story for recursive sum
// types, so this is supplied explicitly; it is the direct substitute for the
// JSON-stringify-equality the original TypeScript implementation used to
// decide fix-point convergence (§4.8, §8 property 9 "structural hash").
func Equal(a, b TripValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *LambdaVarNode:
		y, ok := b.(*LambdaVarNode)
		return ok && x.Name == y.Name
	case *SysFVarNode:
		y, ok := b.(*SysFVarNode)
		return ok && x.Name == y.Name
	case *TypeVarNode:
		y, ok := b.(*TypeVarNode)
		return ok && x.Name == y.Name
	case *LambdaAbsNode:
		y, ok := b.(*LambdaAbsNode)
		return ok && x.Param == y.Param && Equal(x.Body, y.Body)
	case *TypedAbsNode:
		y, ok := b.(*TypedAbsNode)
		return ok && x.Param == y.Param && Equal(x.ParamType, y.ParamType) && Equal(x.Body, y.Body)
	case *SysFAbsNode:
		y, ok := b.(*SysFAbsNode)
		return ok && x.Param == y.Param && Equal(x.ParamType, y.ParamType) && Equal(x.Body, y.Body)
	case *SysFTypeAbsNode:
		y, ok := b.(*SysFTypeAbsNode)
		return ok && x.TypeVar == y.TypeVar && Equal(x.Body, y.Body)
	case *ForallNode:
		y, ok := b.(*ForallNode)
		return ok && x.TypeVar == y.TypeVar && Equal(x.Body, y.Body)
	case *SysFTypeAppNode:
		y, ok := b.(*SysFTypeAppNode)
		return ok && Equal(x.Term, y.Term) && Equal(x.TypeArg, y.TypeArg)
	case *TypeAppNode:
		y, ok := b.(*TypeAppNode)
		return ok && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	case *SysFLetNode:
		y, ok := b.(*SysFLetNode)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value) && Equal(x.Body, y.Body)
	case *SysFMatchNode:
		y, ok := b.(*SysFMatchNode)
		if !ok || len(x.Arms) != len(y.Arms) || !Equal(x.Scrutinee, y.Scrutinee) || !Equal(x.ReturnType, y.ReturnType) {
			return false
		}
		for i := range x.Arms {
			if !armEqual(x.Arms[i], y.Arms[i]) {
				return false
			}
		}
		return true
	case *AppNode:
		y, ok := b.(*AppNode)
		return ok && Equal(x.Lft, y.Lft) && Equal(x.Rgt, y.Rgt)
	case *TerminalNode:
		y, ok := b.(*TerminalNode)
		return ok && x.Sym == y.Sym
	default:
		return false
	}
}

func armEqual(a, b MatchArm) bool {
	if a.Ctor != b.Ctor || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return Equal(a.Body, b.Body)
}

// Hash computes an FNV-1a structural hash of v by hashing a canonical
// textual encoding of its shape. It is used by the linker's SCC fix-point
// (§4.8) to detect when iterative substitution has converged, without
// requiring a deep structural comparison on every round.
func Hash(v TripValue) uint64 {
	h := fnv.New64a()
	hashInto(h, v)
	return h.Sum64()
}

func hashInto(h interface{ Write([]byte) (int, error) }, v TripValue) {
	write := func(s string) { _, _ = h.Write([]byte(s)) }
	if v == nil {
		write("<nil>")
		return
	}
	switch x := v.(type) {
	case *LambdaVarNode:
		write("LV:" + x.Name)
	case *SysFVarNode:
		write("FV:" + x.Name)
	case *TypeVarNode:
		write("TV:" + x.Name)
	case *LambdaAbsNode:
		write("LA:" + x.Param + "(")
		hashInto(h, x.Body)
		write(")")
	case *TypedAbsNode:
		write("TA:" + x.Param + "[")
		hashInto(h, x.ParamType)
		write("](")
		hashInto(h, x.Body)
		write(")")
	case *SysFAbsNode:
		write("FA:" + x.Param + "[")
		hashInto(h, x.ParamType)
		write("](")
		hashInto(h, x.Body)
		write(")")
	case *SysFTypeAbsNode:
		write("FTA:" + x.TypeVar + "(")
		hashInto(h, x.Body)
		write(")")
	case *ForallNode:
		write("FORALL:" + x.TypeVar + "(")
		hashInto(h, x.Body)
		write(")")
	case *SysFTypeAppNode:
		write("FTAPP(")
		hashInto(h, x.Term)
		write(",")
		hashInto(h, x.TypeArg)
		write(")")
	case *TypeAppNode:
		write("TAPP(")
		hashInto(h, x.Fn)
		write(",")
		hashInto(h, x.Arg)
		write(")")
	case *SysFLetNode:
		write("LET:" + x.Name + "(")
		hashInto(h, x.Value)
		write(",")
		hashInto(h, x.Body)
		write(")")
	case *SysFMatchNode:
		write("MATCH(")
		hashInto(h, x.Scrutinee)
		write(":")
		hashInto(h, x.ReturnType)
		for _, arm := range x.Arms {
			write("|" + arm.Ctor + "#")
			for _, p := range arm.Params {
				write(p + ",")
			}
			hashInto(h, arm.Body)
		}
		write(")")
	case *AppNode:
		write("APP(")
		hashInto(h, x.Lft)
		write(",")
		hashInto(h, x.Rgt)
		write(")")
	case *TerminalNode:
		write("T:" + x.Sym.String())
	default:
		write("?")
	}
}
