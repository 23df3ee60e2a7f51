package subst

import "fmt"

// scope is a persistent binder-name chain used while descending through a
// term to answer "is x already bound on the path to here" in O(depth)
// without copying a set at every frame.
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

// Freshen is the exported form of freshen, used by packages outside subst
// (e.g. internal/lower's Z-combinator wrapping) that need the same
// "append a counter until absent from the avoid-set" fresh-name policy.
func Freshen(base string, avoid func(string) bool) string {
	return freshen(base, avoid)
}

// freshen returns base if avoid(base) is false, otherwise the first
// base+"1", base+"2", ... for which avoid returns false (§9: "Fresh names
// are generated by appending a counter until absent from the avoid-set").
func freshen(base string, avoid func(string) bool) string {
	if !avoid(base) {
		return base
	}
	for i := 1; ; i++ {
		cand := fmt.Sprintf("%s%d", base, i)
		if !avoid(cand) {
			return cand
		}
	}
}
