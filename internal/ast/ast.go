// Package ast defines TripLang's unified value model: the single sum type
// that represents every term and type in every stratum (System F, simply
// typed lambda, untyped lambda, SKI combinators), plus the top-level
// definition and program shapes that sit above it.
//
// Source locations are intentionally absent from every node: diagnostics in
// this compiler are identified by kind and name only, never by line/column.
package ast

import "fmt"

// TripValue is the base interface implemented by every term/type node.
// It is a closed sum type: tripValue is unexported so no type outside this
// package can implement it.
type TripValue interface {
	fmt.Stringer
	tripValue()
}

// Stratum orders the four term languages poly > typed > untyped > combinator.
// Types and data declarations have no stratum (Level returns LevelNone for them).
type Stratum int

const (
	LevelNone       Stratum = 0
	LevelCombinator Stratum = 1
	LevelUntyped    Stratum = 2
	LevelTyped      Stratum = 3
	LevelPoly       Stratum = 4
)

func (s Stratum) String() string {
	switch s {
	case LevelPoly:
		return "poly"
	case LevelTyped:
		return "typed"
	case LevelUntyped:
		return "untyped"
	case LevelCombinator:
		return "combinator"
	default:
		return "none"
	}
}

// LiteralSentinelPrefix tags a term-variable name as an opaque numeric
// literal identifier (§3 invariant 7, §9). Substitution, α-renaming, and
// free-variable analysis must treat names with this prefix as atoms.
const LiteralSentinelPrefix = "#lit:"

// IsLiteralSentinel reports whether name is a reserved numeric-literal atom.
func IsLiteralSentinel(name string) bool {
	return len(name) > len(LiteralSentinelPrefix) && name[:len(LiteralSentinelPrefix)] == LiteralSentinelPrefix
}

// LiteralSentinelName builds the sentinel identifier carrying a decimal
// big-integer payload, e.g. "#lit:42".
func LiteralSentinelName(decimal string) string {
	return LiteralSentinelPrefix + decimal
}

// LiteralSentinelPayload extracts the decimal payload from a sentinel name.
// ok is false if name is not a sentinel.
func LiteralSentinelPayload(name string) (decimal string, ok bool) {
	if !IsLiteralSentinel(name) {
		return "", false
	}
	return name[len(LiteralSentinelPrefix):], true
}
