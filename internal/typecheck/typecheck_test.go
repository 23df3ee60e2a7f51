package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/symtab"
)

func buildTab(t *testing.T, prog *ast.Program) *symtab.Table {
	t.Helper()
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	return tab
}

func TestCheckProgramAcceptsPolymorphicIdentity(t *testing.T) {
	idType := ast.Forall("X", ast.TypeApp(ast.TypeApp(ast.TypeVar("->"), ast.TypeVar("X")), ast.TypeVar("X")))
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.PolyDef{
			Name: "id",
			Type: idType,
			Term: ast.SysFTypeAbs("X", ast.SysFAbs("x", ast.TypeVar("X"), ast.SysFVar("x"))),
		},
	}
	skipped, err := CheckProgram(prog, buildTab(t, prog))
	require.NoError(t, err)
	assert.Empty(t, skipped)
}

func TestCheckProgramRejectsArgTypeMismatch(t *testing.T) {
	natArrowNat := ast.TypeApp(ast.TypeApp(ast.TypeVar("->"), ast.TypeVar("Nat")), ast.TypeVar("Nat"))
	boolT := ast.TypeVar("Bool")
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.TypedDef{
			Name: "bad",
			Type: natArrowNat,
			Term: ast.TypedAbs("x", boolT, ast.LambdaVar("x")),
		},
	}
	_, err := CheckProgram(prog, buildTab(t, prog))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TC004")
}

func TestCheckProgramRequiresAnnotationOnRecPoly(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.PolyDef{Name: "loop", Rec: true, Term: ast.SysFVar("loop")},
	}
	_, err := CheckProgram(prog, buildTab(t, prog))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TC001")
}

func TestCheckProgramSkipsDefinitionWithUnresolvedImport(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.ImportDef{ModuleRef: "Prelude", SymbolRef: "zero"},
		&ast.TypedDef{Name: "main", Term: ast.LambdaVar("zero")},
	}
	skipped, err := CheckProgram(prog, buildTab(t, prog))
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, skipped)
}

func TestCheckTermAppliesArrowElimination(t *testing.T) {
	c := newCtx(buildTab(t, ast.NewProgram()))
	c = c.withTerm("f", ast.TypeApp(ast.TypeApp(ast.TypeVar("->"), ast.TypeVar("A")), ast.TypeVar("B")))
	c = c.withTerm("a", ast.TypeVar("A"))
	got, err := inferTerm(c, ast.App(ast.LambdaVar("f"), ast.LambdaVar("a")))
	require.NoError(t, err)
	assert.True(t, ast.Equal(got, ast.TypeVar("B")))
}

func TestCheckTermRejectsApplicationOfNonArrow(t *testing.T) {
	c := newCtx(buildTab(t, ast.NewProgram()))
	c = c.withTerm("f", ast.TypeVar("A"))
	c = c.withTerm("a", ast.TypeVar("A"))
	_, err := inferTerm(c, ast.App(ast.LambdaVar("f"), ast.LambdaVar("a")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TC002")
}

func TestCheckTermHandlesSysFLetAsImmediateApplication(t *testing.T) {
	c := newCtx(buildTab(t, ast.NewProgram()))
	c = c.withTerm("a", ast.TypeVar("A"))
	got, err := inferTerm(c, ast.SysFLet("x", ast.LambdaVar("a"), ast.LambdaVar("x")))
	require.NoError(t, err)
	assert.True(t, ast.Equal(got, ast.TypeVar("A")))
}

func TestTypeEquivExpandsOneLevelAlias(t *testing.T) {
	aliases := map[string]ast.TripValue{"Nat": ast.TypeVar("Int")}
	assert.True(t, typeEquiv(ast.TypeVar("Nat"), ast.TypeVar("Int"), aliases))
	assert.False(t, typeEquiv(ast.TypeVar("Nat"), ast.TypeVar("Bool"), aliases))
}
