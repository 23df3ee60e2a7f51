package objfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplang/tripc/internal/ast"
)

func sampleProgram() *ast.Program {
	prog := ast.NewProgram()
	prog.Module = &ast.ModuleDeclDef{Name: "Sample"}
	prog.Decls = []ast.Def{
		&ast.ImportDef{ModuleRef: "Prelude", SymbolRef: "zero"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.TypeDef{Name: "Nat", Type: ast.TypeVar("Nat")},
		&ast.DataDef{
			Name:       "List",
			TypeParams: []string{"a"},
			Ctors: []ast.CtorSig{
				{Name: "Nil", ArgTypes: nil},
				{Name: "Cons", ArgTypes: []ast.TripValue{ast.TypeVar("a"), ast.TypeVar("List")}},
			},
		},
		&ast.PolyDef{
			Name: "id",
			Term: ast.SysFTypeAbs("X", ast.SysFAbs("x", ast.TypeVar("X"), ast.SysFVar("x"))),
			Type: ast.Forall("X", ast.TypeApp(ast.TypeApp(ast.TypeVar("->"), ast.TypeVar("X")), ast.TypeVar("X"))),
			Rec:  false,
		},
		&ast.UntypedDef{
			Name: "main",
			Term: ast.LambdaAbs("n", ast.App(ast.LambdaVar("n"), ast.LambdaVar(ast.LiteralSentinelName("7")))),
		},
		&ast.CombinatorDef{Name: "k", Term: ast.Terminal(ast.K)},
	}
	return prog
}

func TestEncodeMarshalUnmarshalRoundTrips(t *testing.T) {
	prog := sampleProgram()
	f, err := Encode(prog)
	require.NoError(t, err)

	data, err := f.Marshal()
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)

	data2, err := back.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(data2))
}

func TestUnmarshalPreservesLiteralPayload(t *testing.T) {
	prog := sampleProgram()
	f, err := Encode(prog)
	require.NoError(t, err)
	data, err := f.Marshal()
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)

	main, ok := back.Definitions["main"].(*ast.UntypedDef)
	require.True(t, ok)
	lam, ok := main.Term.(*ast.LambdaAbsNode)
	require.True(t, ok)
	app, ok := lam.Body.(*ast.AppNode)
	require.True(t, ok)
	lit, ok := app.Rgt.(*ast.LambdaVarNode)
	require.True(t, ok)
	decimal, ok := ast.LiteralSentinelPayload(lit.Name)
	require.True(t, ok)
	assert.Equal(t, "7", decimal)
}

func TestUnmarshalRejectsNonObjectDocument(t *testing.T) {
	_, err := Unmarshal([]byte(`[1,2,3]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAR001")
}

func TestUnmarshalRejectsMissingModuleField(t *testing.T) {
	_, err := Unmarshal([]byte(`{"exports":[],"imports":[],"definitions":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module")
}

func TestUnmarshalRejectsImportEntryMissingFrom(t *testing.T) {
	doc := `{"module":"M","exports":[],"imports":[{"name":"x"}],"definitions":{}}`
	_, err := Unmarshal([]byte(doc))
	require.Error(t, err)
}

func TestProgramRebuildsModuleDecl(t *testing.T) {
	prog := sampleProgram()
	f, err := Encode(prog)
	require.NoError(t, err)
	rebuilt := f.Program()
	require.NotNil(t, rebuilt.Module)
	assert.Equal(t, "Sample", rebuilt.Module.Name)
}
