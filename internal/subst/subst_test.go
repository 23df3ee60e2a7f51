package subst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triplang/tripc/internal/ast"
)

func TestTermSubstitutesFreeOccurrence(t *testing.T) {
	cache := NewFVCache()
	// (\y. x y)[x := \z.z] -> \y. (\z.z) y
	term := ast.LambdaAbs("y", ast.App(ast.LambdaVar("x"), ast.LambdaVar("y")))
	repl := ast.LambdaAbs("z", ast.LambdaVar("z"))

	got := Term(term, "x", repl, cache)

	abs, ok := got.(*ast.LambdaAbsNode)
	assert.True(t, ok)
	assert.Equal(t, "y", abs.Param)
	app, ok := abs.Body.(*ast.AppNode)
	assert.True(t, ok)
	assert.True(t, ast.Equal(app.Lft, repl))
}

func TestTermSubstitutionRenamesCapturingBinder(t *testing.T) {
	cache := NewFVCache()
	// (\y. x)[x := y] must rename the binder to avoid capturing the
	// replacement's free variable y.
	term := ast.LambdaAbs("y", ast.LambdaVar("x"))
	repl := ast.LambdaVar("y")

	got := Term(term, "x", repl, cache)

	abs, ok := got.(*ast.LambdaAbsNode)
	assert.True(t, ok)
	assert.NotEqual(t, "y", abs.Param)
	assert.True(t, ast.Equal(abs.Body, ast.LambdaVar("y")))
}

func TestTermSubstitutionStopsAtShadow(t *testing.T) {
	cache := NewFVCache()
	// (\x. x)[x := y] leaves the inner x alone: it's bound, not free.
	term := ast.LambdaAbs("x", ast.LambdaVar("x"))
	repl := ast.LambdaVar("y")

	got := Term(term, "x", repl, cache)

	assert.Same(t, term, got)
}

func TestTermSubstitutionPreservesIdentityWhenNameAbsent(t *testing.T) {
	cache := NewFVCache()
	term := ast.App(ast.LambdaVar("a"), ast.LambdaVar("b"))
	got := Term(term, "z", ast.LambdaVar("q"), cache)
	assert.Same(t, term, got)
}

func TestTermSubstitutionSkipsLiteralSentinels(t *testing.T) {
	cache := NewFVCache()
	sentinelName := ast.LiteralSentinelName("0")
	term := ast.LambdaVar(sentinelName)
	got := Term(term, sentinelName, ast.LambdaVar("nope"), cache)
	assert.Same(t, term, got)
}

func TestTypeSubstitutionRenamesCapturingForall(t *testing.T) {
	cache := NewFVCache()
	// (forall b. a)[a := b] must rename the bound b.
	typ := ast.Forall("b", ast.TypeVar("a"))
	repl := ast.TypeVar("b")

	got := Type(typ, "a", repl, cache)

	fa, ok := got.(*ast.ForallNode)
	assert.True(t, ok)
	assert.NotEqual(t, "b", fa.TypeVar)
	assert.True(t, ast.Equal(fa.Body, ast.TypeVar("b")))
}

func TestTypeSubstitutionReachesNestedAnnotation(t *testing.T) {
	cache := NewFVCache()
	// (\x:a. x)[a := Int] rewrites the parameter annotation.
	term := ast.TypedAbs("x", ast.TypeVar("a"), ast.LambdaVar("x"))
	repl := ast.TypeVar("Int")

	got := Type(term, "a", repl, cache)

	ta, ok := got.(*ast.TypedAbsNode)
	assert.True(t, ok)
	assert.True(t, ast.Equal(ta.ParamType, ast.TypeVar("Int")))
}

func TestTermBatchSubstitutesMultipleNamesInOnePass(t *testing.T) {
	term := ast.App(ast.LambdaVar("x"), ast.LambdaVar("y"))
	subs := map[string]ast.TripValue{
		"x": ast.LambdaVar("a"),
		"y": ast.LambdaVar("b"),
	}
	union := map[string]struct{}{"a": {}, "b": {}}

	got := TermBatch(term, subs, union)

	app, ok := got.(*ast.AppNode)
	assert.True(t, ok)
	assert.True(t, ast.Equal(app.Lft, ast.LambdaVar("a")))
	assert.True(t, ast.Equal(app.Rgt, ast.LambdaVar("b")))
}

func TestAlphaRenameTermStopsAtShadow(t *testing.T) {
	term := ast.LambdaAbs("x", ast.LambdaVar("x"))
	got := AlphaRenameTerm(term, "x", "z")
	assert.Same(t, term, got)
}

func TestAlphaRenameTermRewritesFreeOccurrence(t *testing.T) {
	term := ast.App(ast.LambdaVar("x"), ast.LambdaVar("y"))
	got := AlphaRenameTerm(term, "x", "z")
	app, ok := got.(*ast.AppNode)
	assert.True(t, ok)
	assert.True(t, ast.Equal(app.Lft, ast.LambdaVar("z")))
	assert.True(t, ast.Equal(app.Rgt, ast.LambdaVar("y")))
}
