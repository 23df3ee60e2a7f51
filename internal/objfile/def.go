package objfile

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
)

// encodeDef converts one top-level definition into the generic JSON shape
// stored under definitions[name] (§6). The symbol name itself is the map
// key, not part of the encoded value.
func encodeDef(d ast.Def) (any, error) {
	switch def := d.(type) {
	case *ast.PolyDef:
		term, err := encodeTerm(def.Term)
		if err != nil {
			return nil, err
		}
		out := map[string]any{"defKind": "poly", "term": term, "rec": def.Rec}
		if def.Type != nil {
			typ, err := encodeTerm(def.Type)
			if err != nil {
				return nil, err
			}
			out["type"] = typ
		}
		return out, nil
	case *ast.TypedDef:
		term, err := encodeTerm(def.Term)
		if err != nil {
			return nil, err
		}
		out := map[string]any{"defKind": "typed", "term": term}
		if def.Type != nil {
			typ, err := encodeTerm(def.Type)
			if err != nil {
				return nil, err
			}
			out["type"] = typ
		}
		return out, nil
	case *ast.UntypedDef:
		term, err := encodeTerm(def.Term)
		if err != nil {
			return nil, err
		}
		return map[string]any{"defKind": "untyped", "term": term}, nil
	case *ast.CombinatorDef:
		term, err := encodeTerm(def.Term)
		if err != nil {
			return nil, err
		}
		return map[string]any{"defKind": "combinator", "term": term}, nil
	case *ast.TypeDef:
		typ, err := encodeTerm(def.Type)
		if err != nil {
			return nil, err
		}
		return map[string]any{"defKind": "type", "type": typ}, nil
	case *ast.DataDef:
		typeParams := make([]any, len(def.TypeParams))
		for i, p := range def.TypeParams {
			typeParams[i] = p
		}
		ctors := make([]any, len(def.Ctors))
		for i, c := range def.Ctors {
			argTypes := make([]any, len(c.ArgTypes))
			for j, a := range c.ArgTypes {
				enc, err := encodeTerm(a)
				if err != nil {
					return nil, err
				}
				argTypes[j] = enc
			}
			ctors[i] = map[string]any{"name": c.Name, "argTypes": argTypes}
		}
		return map[string]any{"defKind": "data", "typeParams": typeParams, "ctors": ctors}, nil
	default:
		return nil, fmt.Errorf("objfile: unencodable definition %T", d)
	}
}

// decodeDef is the inverse of encodeDef. name is threaded back in from the
// definitions map key since the encoded value never repeats it.
func decodeDef(name string, raw any) (ast.Def, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, parseErr(fmt.Sprintf("definition %q is not a JSON object", name))
	}
	defKind, ok := obj["defKind"].(string)
	if !ok {
		return nil, parseErr(fmt.Sprintf("definition %q missing string \"defKind\"", name))
	}
	switch defKind {
	case "poly":
		term, err := reqTerm(obj, "term")
		if err != nil {
			return nil, err
		}
		var typ ast.TripValue
		if raw, ok := obj["type"]; ok {
			typ, err = decodeTerm(raw)
			if err != nil {
				return nil, err
			}
		}
		rec, _ := obj["rec"].(bool)
		return &ast.PolyDef{Name: name, Term: term, Type: typ, Rec: rec}, nil
	case "typed":
		term, err := reqTerm(obj, "term")
		if err != nil {
			return nil, err
		}
		var typ ast.TripValue
		if raw, ok := obj["type"]; ok {
			typ, err = decodeTerm(raw)
			if err != nil {
				return nil, err
			}
		}
		return &ast.TypedDef{Name: name, Term: term, Type: typ}, nil
	case "untyped":
		term, err := reqTerm(obj, "term")
		if err != nil {
			return nil, err
		}
		return &ast.UntypedDef{Name: name, Term: term}, nil
	case "combinator":
		term, err := reqTerm(obj, "term")
		if err != nil {
			return nil, err
		}
		return &ast.CombinatorDef{Name: name, Term: term}, nil
	case "type":
		typ, err := reqTerm(obj, "type")
		if err != nil {
			return nil, err
		}
		return &ast.TypeDef{Name: name, Type: typ}, nil
	case "data":
		rawParams, _ := obj["typeParams"].([]any)
		typeParams := make([]string, len(rawParams))
		for i, rp := range rawParams {
			s, ok := rp.(string)
			if !ok {
				return nil, parseErr(fmt.Sprintf("definition %q has a non-string type parameter", name))
			}
			typeParams[i] = s
		}
		rawCtors, _ := obj["ctors"].([]any)
		ctors := make([]ast.CtorSig, len(rawCtors))
		for i, rc := range rawCtors {
			ctorObj, ok := rc.(map[string]any)
			if !ok {
				return nil, parseErr(fmt.Sprintf("definition %q has a malformed constructor", name))
			}
			ctorName, err := reqString(ctorObj, "name")
			if err != nil {
				return nil, err
			}
			rawArgs, _ := ctorObj["argTypes"].([]any)
			argTypes := make([]ast.TripValue, len(rawArgs))
			for j, ra := range rawArgs {
				at, err := decodeTerm(ra)
				if err != nil {
					return nil, err
				}
				argTypes[j] = at
			}
			ctors[i] = ast.CtorSig{Name: ctorName, ArgTypes: argTypes}
		}
		return &ast.DataDef{Name: name, TypeParams: typeParams, Ctors: ctors}, nil
	default:
		return nil, parseErr(fmt.Sprintf("definition %q has unknown defKind %q", name, defKind))
	}
}
