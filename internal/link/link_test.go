package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/prelude"
	"github.com/triplang/tripc/internal/resolve"
	"github.com/triplang/tripc/internal/symtab"
)

func moduleProgram(name string, decls ...ast.Def) *ast.Program {
	prog := ast.NewProgram()
	prog.Module = &ast.ModuleDeclDef{Name: name}
	prog.Decls = decls
	return prog
}

func TestLinkFusesMainAgainstImportedModule(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ImportDef{ModuleRef: "Other", SymbolRef: "id"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.App(ast.LambdaVar("id"), ast.LambdaVar("id"))},
	)
	other := moduleProgram("Other",
		&ast.ExportDef{SymbolRef: "id"},
		&ast.UntypedDef{Name: "id", Term: ast.LambdaAbs("x", ast.LambdaVar("x"))},
	)

	value, _, err := Link([]*ast.Program{main, other}, LinkOptions{})
	require.NoError(t, err)
	require.NotNil(t, value)
}

func TestLinkRejectsAmbiguousExport(t *testing.T) {
	a := moduleProgram("A",
		&ast.ExportDef{SymbolRef: "dup"},
		&ast.UntypedDef{Name: "dup", Term: ast.LambdaVar("dup")},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("dup")},
	)
	b := moduleProgram("B",
		&ast.ExportDef{SymbolRef: "dup"},
		&ast.UntypedDef{Name: "dup", Term: ast.LambdaVar("dup")},
	)

	_, _, err := Link([]*ast.Program{a, b}, LinkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNK001")
}

func TestLinkRejectsImportFromMissingModule(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ImportDef{ModuleRef: "Ghost", SymbolRef: "x"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("x")},
	)

	_, _, err := Link([]*ast.Program{main}, LinkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNK002")
}

func TestLinkRejectsImportOfNonExportedSymbol(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ImportDef{ModuleRef: "Other", SymbolRef: "secret"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("secret")},
	)
	other := moduleProgram("Other",
		&ast.UntypedDef{Name: "secret", Term: ast.LambdaVar("secret")},
	)

	_, _, err := Link([]*ast.Program{main, other}, LinkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNK003")
}

func TestLinkRejectsMissingMain(t *testing.T) {
	other := moduleProgram("Other",
		&ast.ExportDef{SymbolRef: "id"},
		&ast.UntypedDef{Name: "id", Term: ast.LambdaAbs("x", ast.LambdaVar("x"))},
	)

	_, _, err := Link([]*ast.Program{other}, LinkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNK004")
}

func TestLinkRejectsMultipleMain(t *testing.T) {
	a := moduleProgram("A",
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("main")},
	)
	b := moduleProgram("B",
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("main")},
	)

	_, _, err := Link([]*ast.Program{a, b}, LinkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNK005")
}

func TestLinkResolvesMutualRecursionAcrossModulesViaFixpoint(t *testing.T) {
	a := moduleProgram("A",
		&ast.ImportDef{ModuleRef: "B", SymbolRef: "isOdd"},
		&ast.ExportDef{SymbolRef: "isEven"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "isEven", Term: ast.LambdaAbs("n",
			ast.App(ast.LambdaVar("isOdd"), ast.LambdaVar("n")))},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar("isEven")},
	)
	b := moduleProgram("B",
		&ast.ImportDef{ModuleRef: "A", SymbolRef: "isEven"},
		&ast.ExportDef{SymbolRef: "isOdd"},
		&ast.UntypedDef{Name: "isOdd", Term: ast.LambdaAbs("n",
			ast.App(ast.LambdaVar("isEven"), ast.LambdaVar("n")))},
	)

	value, _, err := Link([]*ast.Program{a, b}, LinkOptions{})
	require.NoError(t, err)
	require.NotNil(t, value)
}

// A non-rec definition whose body refers to itself is resolve.Resolve's
// boundary case to reject (§4.5), not Link's: Link only ever receives
// already-resolved programs, so this test exercises the full pipeline a
// real `.tripc` input went through, rather than feeding Link a shape it
// never sees in practice.
func TestLinkLowersSelfReferentialRecTermToClosedCombinator(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ExportDef{SymbolRef: "main"},
		&ast.PolyDef{Name: "main", Rec: true, Term: ast.LambdaAbs("n",
			ast.App(ast.SysFVar("main"), ast.LambdaVar("n")))},
	)

	tab, err := symtab.Build(main)
	require.NoError(t, err)
	resolved, err := resolve.Resolve(main, tab)
	require.NoError(t, err)

	value, _, err := Link([]*ast.Program{resolved}, LinkOptions{})
	require.NoError(t, err)
	assertClosedCombinator(t, value)
}

func TestLinkRejectsSelfLoopOnNonRecDefinitionAtResolveTime(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaAbs("n",
			ast.App(ast.LambdaVar("main"), ast.LambdaVar("n")))},
	)

	tab, err := symtab.Build(main)
	require.NoError(t, err)
	_, err = resolve.Resolve(main, tab)
	require.Error(t, err)
}

// assertClosedCombinator walks v and fails unless every node is a Terminal
// or App — the only node kinds a closed term at the combinator stratum can
// contain (§4.7, invariant 5). A surviving LambdaVar/SysFVar means a free
// reference escaped lowering.
func assertClosedCombinator(t *testing.T, v ast.TripValue) {
	t.Helper()
	switch n := v.(type) {
	case *ast.TerminalNode:
		return
	case *ast.AppNode:
		assertClosedCombinator(t, n.Lft)
		assertClosedCombinator(t, n.Rgt)
	default:
		t.Fatalf("expected a closed combinator term (Terminal/App only), got %T: %s", v, v.String())
	}
}

func TestLinkExpandsLiteralAgainstLinkedPrelude(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ImportDef{ModuleRef: prelude.ModuleName, SymbolRef: "succ"},
		&ast.ImportDef{ModuleRef: prelude.ModuleName, SymbolRef: "zero"},
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar(ast.LiteralSentinelName("2"))},
	)

	value, _, err := Link([]*ast.Program{main, prelude.Module()}, LinkOptions{})
	require.NoError(t, err)
	assert.False(t, ast.IsLiteralSentinel(value.String()))
}

func TestLinkFailsWhenLiteralHasNoNumeralTypeReachable(t *testing.T) {
	main := moduleProgram("Main",
		&ast.ExportDef{SymbolRef: "main"},
		&ast.UntypedDef{Name: "main", Term: ast.LambdaVar(ast.LiteralSentinelName("3"))},
	)

	_, _, err := Link([]*ast.Program{main}, LinkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNK007")
}

func TestQualifyAndBareNameRoundTrip(t *testing.T) {
	qn := qualify("Prelude", "zero")
	assert.Equal(t, "Prelude.zero", qn)
	assert.Equal(t, "zero", bareName(qn))
}
