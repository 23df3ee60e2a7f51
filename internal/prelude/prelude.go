// Package prelude builds the in-repo numeral module the linker's end-to-end
// scenarios link against (§4.8, §9): a ready-made Church-numeral and
// Church-boolean module so a scenario like "link main against Prelude" is
// directly runnable without an external fixture file on disk. Grounded on
// the teacher's synthetic, in-memory $builtin module (registered directly
// with the linker rather than loaded from a file) generalized from a
// builtin-function registry to a small user-level module of definitions.
package prelude

import "github.com/triplang/tripc/internal/ast"

// ModuleName is the module name the linker sees when it links this module.
const ModuleName = "Prelude"

// Names lists every symbol Prelude exports, in definition order.
var Names = []string{"true_", "false_", "cond", "zero", "succ", "add", "mul", "pred", "isZero"}

// Module builds a fresh Program implementing Prelude's Church-encoded
// numerals and booleans, entirely in the untyped stratum (the same stratum
// the linker's literal-expansion spine targets).
func Module() *ast.Program {
	prog := ast.NewProgram()
	prog.Module = &ast.ModuleDeclDef{Name: ModuleName}

	defs := []*ast.UntypedDef{
		{Name: "true_", Term: trueTerm()},
		{Name: "false_", Term: falseTerm()},
		{Name: "cond", Term: condTerm()},
		{Name: "zero", Term: zeroTerm()},
		{Name: "succ", Term: succTerm()},
		{Name: "add", Term: addTerm()},
		{Name: "mul", Term: mulTerm()},
		{Name: "pred", Term: predTerm()},
		{Name: "isZero", Term: isZeroTerm()},
	}
	for _, d := range defs {
		prog.Decls = append(prog.Decls, d)
	}
	for _, name := range Names {
		prog.Decls = append(prog.Decls, &ast.ExportDef{SymbolRef: name})
	}
	return prog
}

// true_ = \t.\f.t
func trueTerm() ast.TripValue {
	return ast.LambdaAbs("t", ast.LambdaAbs("f", ast.LambdaVar("t")))
}

// false_ = \t.\f.f
func falseTerm() ast.TripValue {
	return ast.LambdaAbs("t", ast.LambdaAbs("f", ast.LambdaVar("f")))
}

// cond = \b.\t.\f. b t f
func condTerm() ast.TripValue {
	return ast.LambdaAbs("b", ast.LambdaAbs("t", ast.LambdaAbs("f",
		ast.App(ast.App(ast.LambdaVar("b"), ast.LambdaVar("t")), ast.LambdaVar("f")))))
}

// zero = \f.\x.x
func zeroTerm() ast.TripValue {
	return ast.LambdaAbs("f", ast.LambdaAbs("x", ast.LambdaVar("x")))
}

// succ = \n.\f.\x. f (n f x)
func succTerm() ast.TripValue {
	return ast.LambdaAbs("n", ast.LambdaAbs("f", ast.LambdaAbs("x",
		ast.App(ast.LambdaVar("f"), ast.App(ast.App(ast.LambdaVar("n"), ast.LambdaVar("f")), ast.LambdaVar("x"))))))
}

// add = \m.\n.\f.\x. m f (n f x)
func addTerm() ast.TripValue {
	return ast.LambdaAbs("m", ast.LambdaAbs("n", ast.LambdaAbs("f", ast.LambdaAbs("x",
		ast.App(ast.App(ast.LambdaVar("m"), ast.LambdaVar("f")),
			ast.App(ast.App(ast.LambdaVar("n"), ast.LambdaVar("f")), ast.LambdaVar("x")))))))
}

// mul = \m.\n.\f. m (n f)
func mulTerm() ast.TripValue {
	return ast.LambdaAbs("m", ast.LambdaAbs("n", ast.LambdaAbs("f",
		ast.App(ast.LambdaVar("m"), ast.App(ast.LambdaVar("n"), ast.LambdaVar("f"))))))
}

// pred = \n.\f.\x. n (\g.\h. h (g f)) (\u.x) (\u.u)
func predTerm() ast.TripValue {
	shiftPair := ast.LambdaAbs("g", ast.LambdaAbs("h",
		ast.App(ast.LambdaVar("h"), ast.App(ast.LambdaVar("g"), ast.LambdaVar("f")))))
	dropFirst := ast.LambdaAbs("u", ast.LambdaVar("x"))
	identity := ast.LambdaAbs("u", ast.LambdaVar("u"))
	body := ast.App(ast.App(ast.App(ast.LambdaVar("n"), shiftPair), dropFirst), identity)
	return ast.LambdaAbs("n", ast.LambdaAbs("f", ast.LambdaAbs("x", body)))
}

// isZero = \n. n (\x. false_) true_
func isZeroTerm() ast.TripValue {
	return ast.LambdaAbs("n", ast.App(ast.App(ast.LambdaVar("n"),
		ast.LambdaAbs("x", ast.LambdaVar("false_"))), ast.LambdaVar("true_")))
}
