package subst

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/freevars"
)

// FVCache memoizes freevars.Scan results keyed by node identity. TripValue
// nodes are immutable once built and every rewrite in this package returns a
// fresh node rather than mutating in place, so a scan computed for a given
// node stays valid for the lifetime of the cache. This is the pointer-keyed
// substitute for the node-ID-keyed free-variable cache the spec describes.
type FVCache struct {
	terms map[ast.TripValue]freevars.Set
	types map[ast.TripValue]freevars.Set
}

// NewFVCache returns an empty cache.
func NewFVCache() *FVCache {
	return &FVCache{
		terms: make(map[ast.TripValue]freevars.Set),
		types: make(map[ast.TripValue]freevars.Set),
	}
}

// FreeVars returns the free term and type names of v, computing and
// memoizing them on first request.
func (c *FVCache) FreeVars(v ast.TripValue) (terms, types freevars.Set) {
	if t, ok := c.terms[v]; ok {
		return t, c.types[v]
	}
	t, ty := freevars.Scan(v)
	c.terms[v] = t
	c.types[v] = ty
	return t, ty
}
