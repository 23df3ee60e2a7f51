// Package freevars implements the external-reference scanner (§4.2): given a
// TripValue, it reports the term and type names used free within it — i.e.
// not captured by any binder between the root and the use site.
package freevars

import "github.com/triplang/tripc/internal/ast"

// scope is a persistent (cons-list) binder set, letting each stack frame
// carry its own view of what's in scope without copying a map per frame.
type scope struct {
	name   string
	parent *scope
}

func (s *scope) has(name string) bool {
	for ; s != nil; s = s.parent {
		if s.name == name {
			return true
		}
	}
	return false
}

func extend(s *scope, name string) *scope {
	return &scope{name: name, parent: s}
}

// Set is a name set used for both free-term and free-type results.
type Set map[string]struct{}

// Has reports whether name is a member of the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) add(name string) { s[name] = struct{}{} }

type frame struct {
	v  ast.TripValue
	ts *scope // bound term names on the path to v
	ty *scope // bound type names on the path to v
}

// Scan returns the free term references and free type references that occur
// in v, tracking the term and type binder namespaces independently (§4.2).
// Numeric-literal sentinel names (§3 invariant 7) are never reported.
//
// Traversal is iterative over an explicit stack rather than recursive, so
// that long application/constructor spines don't exhaust the Go call stack.
func Scan(v ast.TripValue) (terms Set, types Set) {
	terms = Set{}
	types = Set{}

	stack := []frame{{v: v}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.v == nil {
			continue
		}

		switch n := f.v.(type) {
		case *ast.LambdaVarNode:
			recordTerm(terms, f.ts, n.Name)
		case *ast.SysFVarNode:
			recordTerm(terms, f.ts, n.Name)
		case *ast.TypeVarNode:
			if !f.ty.has(n.Name) {
				types.add(n.Name)
			}
		case *ast.LambdaAbsNode:
			stack = append(stack, frame{n.Body, extend(f.ts, n.Param), f.ty})
		case *ast.TypedAbsNode:
			stack = append(stack, frame{n.ParamType, f.ts, f.ty})
			stack = append(stack, frame{n.Body, extend(f.ts, n.Param), f.ty})
		case *ast.SysFAbsNode:
			stack = append(stack, frame{n.ParamType, f.ts, f.ty})
			stack = append(stack, frame{n.Body, extend(f.ts, n.Param), f.ty})
		case *ast.SysFTypeAbsNode:
			stack = append(stack, frame{n.Body, f.ts, extend(f.ty, n.TypeVar)})
		case *ast.ForallNode:
			stack = append(stack, frame{n.Body, f.ts, extend(f.ty, n.TypeVar)})
		case *ast.SysFTypeAppNode:
			stack = append(stack, frame{n.Term, f.ts, f.ty})
			stack = append(stack, frame{n.TypeArg, f.ts, f.ty})
		case *ast.TypeAppNode:
			stack = append(stack, frame{n.Fn, f.ts, f.ty})
			stack = append(stack, frame{n.Arg, f.ts, f.ty})
		case *ast.SysFLetNode:
			stack = append(stack, frame{n.Value, f.ts, f.ty})
			stack = append(stack, frame{n.Body, extend(f.ts, n.Name), f.ty})
		case *ast.SysFMatchNode:
			stack = append(stack, frame{n.Scrutinee, f.ts, f.ty})
			stack = append(stack, frame{n.ReturnType, f.ts, f.ty})
			for _, arm := range n.Arms {
				armTS := f.ts
				for _, p := range arm.Params {
					armTS = extend(armTS, p)
				}
				stack = append(stack, frame{arm.Body, armTS, f.ty})
			}
		case *ast.AppNode:
			stack = append(stack, frame{n.Lft, f.ts, f.ty})
			stack = append(stack, frame{n.Rgt, f.ts, f.ty})
		case *ast.TerminalNode:
			// atomic, no references
		}
	}

	return terms, types
}

func recordTerm(terms Set, ts *scope, name string) {
	if ast.IsLiteralSentinel(name) {
		return
	}
	if !ts.has(name) {
		terms.add(name)
	}
}
