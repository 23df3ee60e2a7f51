package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplang/tripc/internal/ast"
)

func TestBuildIndexesTermsAndTypes(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.PolyDef{Name: "main", Term: ast.LambdaVar("x")},
		&ast.TypeDef{Name: "Nat", Type: ast.TypeVar("X")},
	}

	tab, err := Build(prog)
	require.NoError(t, err)
	assert.Len(t, tab.Terms, 1)
	assert.Len(t, tab.Types, 1)
	assert.Contains(t, tab.Terms, "main")
	assert.Contains(t, tab.Types, "Nat")
}

func TestBuildRejectsDuplicateTerm(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.PolyDef{Name: "f", Term: ast.LambdaVar("x")},
		&ast.UntypedDef{Name: "f", Term: ast.LambdaVar("y")},
	}

	_, err := Build(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDX001")
}

func TestBuildRejectsDuplicateType(t *testing.T) {
	prog := ast.NewProgram()
	prog.Decls = []ast.Def{
		&ast.TypeDef{Name: "Nat", Type: ast.TypeVar("X")},
		&ast.TypeDef{Name: "Nat", Type: ast.TypeVar("Y")},
	}

	_, err := Build(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDX002")
}

func TestBuildIgnoresModuleImportExportAndData(t *testing.T) {
	prog := ast.NewProgram()
	prog.Module = &ast.ModuleDeclDef{Name: "M"}
	prog.Decls = []ast.Def{
		&ast.ImportDef{ModuleRef: "Prelude", SymbolRef: "zero"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.DataDef{Name: "List", Ctors: []ast.CtorSig{{Name: "Nil"}}},
		&ast.PolyDef{Name: "main", Term: ast.LambdaVar("zero")},
	}

	tab, err := Build(prog)
	require.NoError(t, err)
	assert.Len(t, tab.Terms, 1)
	assert.Len(t, tab.Types, 0)
}
