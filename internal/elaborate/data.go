package elaborate

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/terrors"
)

// ctorInfo records where a constructor sits within its data declaration, so
// that later match-expansion can look up arity and argument types by name.
type ctorInfo struct {
	dataName  string
	matchName string
	index     int
	sig       ast.CtorSig
	allCtors  []ast.CtorSig
}

// resultVar is the fresh-enough type variable name used for the Scott
// encoding's universally quantified result type. Data declarations in this
// language never bind a type parameter literally named "#r", so collision
// with a user type parameter is not a concern in practice; expandOne uses
// the name as is and does not rename it on a clash.
const resultVar = "#r"

// expandData expands every DataDef in decls into a Scott-encoded TypeDef,
// one PolyDef per constructor, and one eliminator PolyDef (§4.4), in place
// of the original DataDef. Returns the rewritten declaration list and a
// constructor index used by expandMatches to rewrite SysFMatchNode uses.
func expandData(decls []ast.Def) ([]ast.Def, map[string]ctorInfo, error) {
	ctors := make(map[string]ctorInfo)
	out := make([]ast.Def, 0, len(decls))

	for _, d := range decls {
		dd, ok := d.(*ast.DataDef)
		if !ok {
			out = append(out, d)
			continue
		}
		if len(dd.Ctors) == 0 {
			return nil, nil, terrors.New(terrors.Elaborate, terrors.ELB001BadDataDecl,
				fmt.Sprintf("data declaration %q has no constructors", dd.Name))
		}
		seen := make(map[string]bool, len(dd.Ctors))
		for _, c := range dd.Ctors {
			if seen[c.Name] {
				return nil, nil, terrors.New(terrors.Elaborate, terrors.ELB002DuplicateArm,
					fmt.Sprintf("constructor %q declared twice in data %q", c.Name, dd.Name))
			}
			seen[c.Name] = true
		}

		matchName := "match" + dd.Name
		typeDef, ctorDefs, matchDef := expandOne(dd, matchName)

		out = append(out, typeDef)
		out = append(out, ctorDefs...)
		out = append(out, matchDef)

		for i, c := range dd.Ctors {
			ctors[c.Name] = ctorInfo{dataName: dd.Name, matchName: matchName, index: i, sig: c, allCtors: dd.Ctors}
		}
	}

	return out, ctors, nil
}

func handlerType(c ast.CtorSig, result ast.TripValue) ast.TripValue {
	t := result
	for i := len(c.ArgTypes) - 1; i >= 0; i-- {
		t = arrowType(c.ArgTypes[i], t)
	}
	return t
}

func arrowType(a, b ast.TripValue) ast.TripValue {
	return ast.TypeApp(ast.TypeApp(ast.TypeVar("->"), a), b)
}

// scottValueType is ∀r. handler(C1,r) -> handler(C2,r) -> ... -> r.
func scottValueType(ctors []ast.CtorSig) ast.TripValue {
	r := ast.TypeVar(resultVar)
	body := ast.TripValue(r)
	for i := len(ctors) - 1; i >= 0; i-- {
		body = arrowType(handlerType(ctors[i], r), body)
	}
	return ast.Forall(resultVar, body)
}

func expandOne(dd *ast.DataDef, matchName string) (*ast.TypeDef, []ast.Def, *ast.PolyDef) {
	typeDef := &ast.TypeDef{Name: dd.Name, Type: scottValueType(dd.Ctors)}

	ctorDefs := make([]ast.Def, 0, len(dd.Ctors))
	for _, c := range dd.Ctors {
		ctorDefs = append(ctorDefs, &ast.PolyDef{
			Name: c.Name,
			Type: ctorFullType(dd.Ctors, c),
			Term: ctorTerm(dd.Ctors, c),
		})
	}

	matchDef := &ast.PolyDef{
		Name: matchName,
		Type: matchType(dd),
		Term: matchTerm(dd),
	}

	return typeDef, ctorDefs, matchDef
}

// ctorFullType is argType1 -> ... -> argTypeK -> (∀r. handlers -> r).
func ctorFullType(ctors []ast.CtorSig, self ast.CtorSig) ast.TripValue {
	t := scottValueType(ctors)
	for i := len(self.ArgTypes) - 1; i >= 0; i-- {
		t = arrowType(self.ArgTypes[i], t)
	}
	return t
}

// ctorTerm builds λa1:T1. ... λak:Tk. ΛR. λh1:H1. ... λhn:Hn. hi a1 ... ak.
func ctorTerm(ctors []ast.CtorSig, self ast.CtorSig) ast.TripValue {
	argNames := make([]string, len(self.ArgTypes))
	for i := range self.ArgTypes {
		argNames[i] = fmt.Sprintf("#a%d", i)
	}

	var selfIndex int
	for i, c := range ctors {
		if c.Name == self.Name {
			selfIndex = i
			break
		}
	}

	handlerNames := make([]string, len(ctors))
	for i := range ctors {
		handlerNames[i] = fmt.Sprintf("#h%d", i)
	}

	body := ast.TripValue(ast.LambdaVar(handlerNames[selfIndex]))
	for _, a := range argNames {
		body = ast.App(body, ast.LambdaVar(a))
	}

	r := ast.TypeVar(resultVar)
	for i := len(ctors) - 1; i >= 0; i-- {
		body = ast.SysFAbs(handlerNames[i], handlerType(ctors[i], r), body)
	}
	body = ast.SysFTypeAbs(resultVar, body)
	for i := len(self.ArgTypes) - 1; i >= 0; i-- {
		body = ast.SysFAbs(argNames[i], self.ArgTypes[i], body)
	}
	return body
}

// matchType is ∀r. Name -> handler(C1,r) -> ... -> handler(Cn,r) -> r.
func matchType(dd *ast.DataDef) ast.TripValue {
	r := ast.TypeVar(resultVar)
	body := ast.TripValue(r)
	for i := len(dd.Ctors) - 1; i >= 0; i-- {
		body = arrowType(handlerType(dd.Ctors[i], r), body)
	}
	body = arrowType(ast.TypeVar(dd.Name), body)
	return ast.Forall(resultVar, body)
}

// matchTerm is ΛR. λscrutinee. λh1. ... λhn. scrutinee[R] h1 ... hn — a
// forwarding eliminator over the Scott-encoded value, which is itself
// already the eliminator; matchTerm gives the data declaration a named,
// directly-callable entry point as §4.4 requires.
func matchTerm(dd *ast.DataDef) ast.TripValue {
	handlerNames := make([]string, len(dd.Ctors))
	for i := range dd.Ctors {
		handlerNames[i] = fmt.Sprintf("#h%d", i)
	}

	body := ast.TripValue(ast.SysFTypeApp(ast.LambdaVar("#scrutinee"), ast.TypeVar(resultVar)))
	for _, h := range handlerNames {
		body = ast.App(body, ast.LambdaVar(h))
	}

	r := ast.TypeVar(resultVar)
	for i := len(dd.Ctors) - 1; i >= 0; i-- {
		body = ast.SysFAbs(handlerNames[i], handlerType(dd.Ctors[i], r), body)
	}
	body = ast.SysFAbs("#scrutinee", ast.TypeVar(dd.Name), body)
	body = ast.SysFTypeAbs(resultVar, body)
	return body
}
