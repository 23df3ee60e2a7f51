package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/symtab"
)

func buildAndResolve(t *testing.T, prog *ast.Program) *ast.Program {
	t.Helper()
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	out, err := Resolve(prog, tab)
	require.NoError(t, err)
	return out
}

func TestResolveInlinesLocalReference(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.UntypedDef{Name: "id", Term: ast.LambdaAbs("x", ast.LambdaVar("x"))},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("id")},
	}
	out := buildAndResolve(t, prog)

	main := findUntyped(t, out, "main")
	assert.True(t, ast.Equal(main.Term, ast.LambdaAbs("x", ast.LambdaVar("x"))))
}

func TestResolveLeavesImportsFree(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.ImportDef{ModuleRef: "Prelude", SymbolRef: "zero"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("zero")},
	}
	out := buildAndResolve(t, prog)

	main := findUntyped(t, out, "main")
	assert.True(t, ast.Equal(main.Term, ast.LambdaVar("zero")))
}

func TestResolveFailsOnUnresolvedReference(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("ghost")},
	}
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	_, err = Resolve(prog, tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RES001")
}

func TestResolveLowersHigherStratumReferent(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.PolyDef{Name: "id", Term: ast.SysFTypeAbs("X", ast.SysFAbs("x", ast.TypeVar("X"), ast.SysFVar("x")))},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("id")},
	}
	out := buildAndResolve(t, prog)

	main := findUntyped(t, out, "main")
	// id, a poly def, must have been lowered to untyped (\x.x) before
	// substitution into the untyped "main".
	assert.True(t, ast.Equal(main.Term, ast.LambdaAbs("x", ast.LambdaVar("x"))))
}

func TestResolveDetectsDualNamespaceCollision(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.UntypedDef{Name: "Nat", Term: ast.LambdaVar("x")},
		&ast.TypeDef{Name: "Nat", Type: ast.TypeVar("X")},
	}
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	_, err = Resolve(prog, tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RES002")
}

func TestResolveBreaksRecursiveTypeCycle(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.TypeDef{Name: "List", Type: ast.Forall("a", ast.TypeApp(ast.TypeVar("List"), ast.TypeVar("a")))},
		&ast.UntypedDef{Name: "main", Term: ast.SysFVar("List")},
	}
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	_, err = Resolve(prog, tab)
	require.NoError(t, err)
}

func findUntyped(t *testing.T, prog *ast.Program, name string) *ast.UntypedDef {
	t.Helper()
	for _, d := range prog.Decls {
		if ud, ok := d.(*ast.UntypedDef); ok && ud.Name == name {
			return ud
		}
	}
	t.Fatalf("definition %q not found", name)
	return nil
}
