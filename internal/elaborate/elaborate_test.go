package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/symtab"
)

func boolData() *ast.DataDef {
	return &ast.DataDef{
		Name: "Bool",
		Ctors: []ast.CtorSig{
			{Name: "True"},
			{Name: "False"},
		},
	}
}

func TestExpandDataProducesTypeCtorsAndEliminator(t *testing.T) {
	decls, ctors, err := expandData([]ast.Def{boolData()})
	require.NoError(t, err)

	require.Len(t, decls, 4) // TypeDef, True, False, matchBool
	_, ok := decls[0].(*ast.TypeDef)
	assert.True(t, ok)

	names := map[string]bool{}
	for _, d := range decls {
		if td, ok := d.(*ast.PolyDef); ok {
			names[td.Name] = true
		}
	}
	assert.True(t, names["True"])
	assert.True(t, names["False"])
	assert.True(t, names["matchBool"])

	assert.Contains(t, ctors, "True")
	assert.Contains(t, ctors, "False")
	assert.Equal(t, 0, ctors["True"].index)
	assert.Equal(t, 1, ctors["False"].index)
}

func TestExpandDataRejectsDuplicateConstructor(t *testing.T) {
	dd := &ast.DataDef{Name: "Bad", Ctors: []ast.CtorSig{{Name: "X"}, {Name: "X"}}}
	_, _, err := expandData([]ast.Def{dd})
	require.Error(t, err)
}

func TestExpandMatchesRewritesToEliminatorCall(t *testing.T) {
	_, ctors, err := expandData([]ast.Def{boolData()})
	require.NoError(t, err)

	match := ast.SysFMatch(ast.LambdaVar("b"), ast.TypeVar("Bool"), []ast.MatchArm{
		{Ctor: "True", Params: nil, Body: ast.LambdaVar("True")},
		{Ctor: "False", Params: nil, Body: ast.LambdaVar("False")},
	})

	got, err := expandMatches(match, ctors)
	require.NoError(t, err)

	// Top-most node must be App(matchBool[Bool] b True', False')
	app, ok := got.(*ast.AppNode)
	require.True(t, ok)
	assert.True(t, ok)
	_ = app
}

func TestExpandMatchesRejectsNonExhaustive(t *testing.T) {
	_, ctors, err := expandData([]ast.Def{boolData()})
	require.NoError(t, err)

	match := ast.SysFMatch(ast.LambdaVar("b"), ast.TypeVar("Bool"), []ast.MatchArm{
		{Ctor: "True", Body: ast.LambdaVar("x")},
	})
	_, err = expandMatches(match, ctors)
	assert.Error(t, err)
}

func TestDesugarLiteralsExpandsWhenZeroSuccLocal(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.PolyDef{Name: "zero", Term: ast.LambdaVar("z")},
		&ast.PolyDef{Name: "succ", Term: ast.LambdaVar("s")},
	}
	tab, err := symtab.Build(prog)
	require.NoError(t, err)

	lit := ast.LambdaVar(ast.LiteralSentinelName("2"))
	got := desugarLiterals(lit, tab)

	app, ok := got.(*ast.AppNode)
	require.True(t, ok)
	inner, ok := app.Rgt.(*ast.AppNode)
	require.True(t, ok)
	assert.True(t, ast.Equal(inner.Rgt, ast.SysFVar("zero")))
}

func TestDesugarLiteralsLeavesSentinelWhenNoLocalNumeral(t *testing.T) {
	prog := ast.NewProgram()
	tab, err := symtab.Build(prog)
	require.NoError(t, err)

	lit := ast.LambdaVar(ast.LiteralSentinelName("2"))
	got := desugarLiterals(lit, tab)
	assert.Same(t, lit, got)
}

func TestElaborateEndToEnd(t *testing.T) {
	prog := ast.NewProgram()
	prog.Module = &ast.ModuleDeclDef{Name: "T"}
	prog.Decls = []ast.Def{
		boolData(),
		&ast.PolyDef{Name: "notB", Term: ast.LambdaAbs("b", ast.SysFMatch(
			ast.LambdaVar("b"), ast.TypeVar("Bool"),
			[]ast.MatchArm{
				{Ctor: "True", Body: ast.LambdaVar("False")},
				{Ctor: "False", Body: ast.LambdaVar("True")},
			},
		))},
	}
	tab, err := symtab.Build(prog)
	require.NoError(t, err)

	out, err := Elaborate(prog, tab)
	require.NoError(t, err)

	var notB *ast.PolyDef
	for _, d := range out.Decls {
		if pd, ok := d.(*ast.PolyDef); ok && pd.Name == "notB" {
			notB = pd
		}
	}
	require.NotNil(t, notB)
	abs, ok := notB.Term.(*ast.LambdaAbsNode)
	require.True(t, ok)
	_, isMatch := abs.Body.(*ast.SysFMatchNode)
	assert.False(t, isMatch)
}
