package objfile

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/terrors"
)

// encodeTerm converts a TripValue into the generic JSON shape used inside a
// definitions entry: a tagged union keyed by "kind" (§6). Numeric-literal
// sentinels are unwrapped into a BigInt-tagged leaf rather than carried as
// an opaque variable name, so the decimal payload round-trips as data
// instead of as a reserved-prefix string.
func encodeTerm(v ast.TripValue) (any, error) {
	switch n := v.(type) {
	case *ast.LambdaVarNode:
		if decimal, ok := ast.LiteralSentinelPayload(n.Name); ok {
			return map[string]any{"kind": "lit", "ns": "lambda", "value": bigint(decimal)}, nil
		}
		return map[string]any{"kind": "var", "name": n.Name}, nil
	case *ast.SysFVarNode:
		if decimal, ok := ast.LiteralSentinelPayload(n.Name); ok {
			return map[string]any{"kind": "lit", "ns": "sysf", "value": bigint(decimal)}, nil
		}
		return map[string]any{"kind": "sysfvar", "name": n.Name}, nil
	case *ast.TypeVarNode:
		return map[string]any{"kind": "typevar", "name": n.Name}, nil
	case *ast.LambdaAbsNode:
		body, err := encodeTerm(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "lam", "param": n.Param, "body": body}, nil
	case *ast.TypedAbsNode:
		paramType, err := encodeTerm(n.ParamType)
		if err != nil {
			return nil, err
		}
		body, err := encodeTerm(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "tlam", "param": n.Param, "paramType": paramType, "body": body}, nil
	case *ast.SysFAbsNode:
		paramType, err := encodeTerm(n.ParamType)
		if err != nil {
			return nil, err
		}
		body, err := encodeTerm(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "flam", "param": n.Param, "paramType": paramType, "body": body}, nil
	case *ast.SysFTypeAbsNode:
		body, err := encodeTerm(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "tyabs", "typeVar": n.TypeVar, "body": body}, nil
	case *ast.ForallNode:
		body, err := encodeTerm(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "forall", "typeVar": n.TypeVar, "body": body}, nil
	case *ast.SysFTypeAppNode:
		term, err := encodeTerm(n.Term)
		if err != nil {
			return nil, err
		}
		typeArg, err := encodeTerm(n.TypeArg)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "tyapp", "term": term, "typeArg": typeArg}, nil
	case *ast.TypeAppNode:
		fn, err := encodeTerm(n.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := encodeTerm(n.Arg)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "typeapp", "fn": fn, "arg": arg}, nil
	case *ast.SysFLetNode:
		value, err := encodeTerm(n.Value)
		if err != nil {
			return nil, err
		}
		body, err := encodeTerm(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "let", "name": n.Name, "value": value, "body": body}, nil
	case *ast.SysFMatchNode:
		scrutinee, err := encodeTerm(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		returnType, err := encodeTerm(n.ReturnType)
		if err != nil {
			return nil, err
		}
		arms := make([]any, len(n.Arms))
		for i, arm := range n.Arms {
			body, err := encodeTerm(arm.Body)
			if err != nil {
				return nil, err
			}
			params := make([]any, len(arm.Params))
			for j, p := range arm.Params {
				params[j] = p
			}
			arms[i] = map[string]any{"ctor": arm.Ctor, "params": params, "body": body}
		}
		return map[string]any{"kind": "match", "scrutinee": scrutinee, "returnType": returnType, "arms": arms}, nil
	case *ast.AppNode:
		lft, err := encodeTerm(n.Lft)
		if err != nil {
			return nil, err
		}
		rgt, err := encodeTerm(n.Rgt)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "app", "lft": lft, "rgt": rgt}, nil
	case *ast.TerminalNode:
		return map[string]any{"kind": "ski", "symbol": n.Sym.String()}, nil
	default:
		return nil, fmt.Errorf("objfile: unencodable term node %T", v)
	}
}

// bigint builds the §6 BigInt-tagged leaf for a decimal literal payload.
func bigint(decimal string) map[string]any {
	return map[string]any{"__trip_bigint__": decimal}
}

// decodeTerm is the inverse of encodeTerm, operating over the generic
// map[string]any/[]any shape produced by encoding/json's interface{} decode.
func decodeTerm(raw any) (ast.TripValue, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, parseErr("term node is not a JSON object")
	}
	kind, ok := obj["kind"].(string)
	if !ok {
		return nil, parseErr("term node missing string \"kind\"")
	}
	switch kind {
	case "var":
		name, err := reqString(obj, "name")
		if err != nil {
			return nil, err
		}
		return ast.LambdaVar(name), nil
	case "sysfvar":
		name, err := reqString(obj, "name")
		if err != nil {
			return nil, err
		}
		return ast.SysFVar(name), nil
	case "typevar":
		name, err := reqString(obj, "name")
		if err != nil {
			return nil, err
		}
		return ast.TypeVar(name), nil
	case "lit":
		decimal, err := decodeBigint(obj["value"])
		if err != nil {
			return nil, err
		}
		ns, _ := obj["ns"].(string)
		if ns == "sysf" {
			return ast.SysFVar(ast.LiteralSentinelName(decimal)), nil
		}
		return ast.LambdaVar(ast.LiteralSentinelName(decimal)), nil
	case "lam":
		param, err := reqString(obj, "param")
		if err != nil {
			return nil, err
		}
		body, err := reqTerm(obj, "body")
		if err != nil {
			return nil, err
		}
		return ast.LambdaAbs(param, body), nil
	case "tlam":
		param, err := reqString(obj, "param")
		if err != nil {
			return nil, err
		}
		paramType, err := reqTerm(obj, "paramType")
		if err != nil {
			return nil, err
		}
		body, err := reqTerm(obj, "body")
		if err != nil {
			return nil, err
		}
		return ast.TypedAbs(param, paramType, body), nil
	case "flam":
		param, err := reqString(obj, "param")
		if err != nil {
			return nil, err
		}
		paramType, err := reqTerm(obj, "paramType")
		if err != nil {
			return nil, err
		}
		body, err := reqTerm(obj, "body")
		if err != nil {
			return nil, err
		}
		return ast.SysFAbs(param, paramType, body), nil
	case "tyabs":
		typeVar, err := reqString(obj, "typeVar")
		if err != nil {
			return nil, err
		}
		body, err := reqTerm(obj, "body")
		if err != nil {
			return nil, err
		}
		return ast.SysFTypeAbs(typeVar, body), nil
	case "forall":
		typeVar, err := reqString(obj, "typeVar")
		if err != nil {
			return nil, err
		}
		body, err := reqTerm(obj, "body")
		if err != nil {
			return nil, err
		}
		return ast.Forall(typeVar, body), nil
	case "tyapp":
		term, err := reqTerm(obj, "term")
		if err != nil {
			return nil, err
		}
		typeArg, err := reqTerm(obj, "typeArg")
		if err != nil {
			return nil, err
		}
		return ast.SysFTypeApp(term, typeArg), nil
	case "typeapp":
		fn, err := reqTerm(obj, "fn")
		if err != nil {
			return nil, err
		}
		arg, err := reqTerm(obj, "arg")
		if err != nil {
			return nil, err
		}
		return ast.TypeApp(fn, arg), nil
	case "let":
		name, err := reqString(obj, "name")
		if err != nil {
			return nil, err
		}
		value, err := reqTerm(obj, "value")
		if err != nil {
			return nil, err
		}
		body, err := reqTerm(obj, "body")
		if err != nil {
			return nil, err
		}
		return ast.SysFLet(name, value, body), nil
	case "match":
		scrutinee, err := reqTerm(obj, "scrutinee")
		if err != nil {
			return nil, err
		}
		returnType, err := reqTerm(obj, "returnType")
		if err != nil {
			return nil, err
		}
		rawArms, ok := obj["arms"].([]any)
		if !ok {
			return nil, parseErr("match node missing array \"arms\"")
		}
		arms := make([]ast.MatchArm, len(rawArms))
		for i, ra := range rawArms {
			armObj, ok := ra.(map[string]any)
			if !ok {
				return nil, parseErr("match arm is not a JSON object")
			}
			ctor, err := reqString(armObj, "ctor")
			if err != nil {
				return nil, err
			}
			rawParams, _ := armObj["params"].([]any)
			params := make([]string, len(rawParams))
			for j, rp := range rawParams {
				s, ok := rp.(string)
				if !ok {
					return nil, parseErr("match arm parameter is not a string")
				}
				params[j] = s
			}
			body, err := reqTerm(armObj, "body")
			if err != nil {
				return nil, err
			}
			arms[i] = ast.MatchArm{Ctor: ctor, Params: params, Body: body}
		}
		return ast.SysFMatch(scrutinee, returnType, arms), nil
	case "app":
		lft, err := reqTerm(obj, "lft")
		if err != nil {
			return nil, err
		}
		rgt, err := reqTerm(obj, "rgt")
		if err != nil {
			return nil, err
		}
		return ast.App(lft, rgt), nil
	case "ski":
		sym, err := reqString(obj, "symbol")
		if err != nil {
			return nil, err
		}
		if len(sym) != 1 {
			return nil, parseErr(fmt.Sprintf("invalid SKI symbol %q", sym))
		}
		switch sym[0] {
		case byte(ast.S), byte(ast.K), byte(ast.I):
			return ast.Terminal(ast.SKISymbol(sym[0])), nil
		default:
			return nil, parseErr(fmt.Sprintf("invalid SKI symbol %q", sym))
		}
	default:
		return nil, parseErr(fmt.Sprintf("unknown term kind %q", kind))
	}
}

func reqString(obj map[string]any, key string) (string, error) {
	v, ok := obj[key].(string)
	if !ok {
		return "", parseErr(fmt.Sprintf("missing or non-string field %q", key))
	}
	return v, nil
}

func reqTerm(obj map[string]any, key string) (ast.TripValue, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, parseErr(fmt.Sprintf("missing field %q", key))
	}
	return decodeTerm(raw)
}

func decodeBigint(raw any) (string, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", parseErr("literal value is not a JSON object")
	}
	decimal, ok := obj["__trip_bigint__"].(string)
	if !ok {
		return "", parseErr("literal value missing \"__trip_bigint__\"")
	}
	return decimal, nil
}

func parseErr(message string) error {
	return terrors.New(terrors.Parse, terrors.PAR001MalformedObjectFile, message)
}
