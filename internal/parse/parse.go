// Package parse declares the surface-syntax collaborator this repo depends
// on but does not implement: turning `.trip` source text into an
// *ast.Program is out of scope here (the parser is its own component), so
// this package only fixes the entry point every other phase is built
// against, the way the teacher's internal/lexer and internal/parser expose
// Lexer/Parser as the boundary internal/pipeline drives.
package parse

import "github.com/triplang/tripc/internal/ast"

// Frontend turns `.trip` source text into a Program. filename is used only
// for error messages; this repo's diagnostics otherwise carry no source
// location (§3).
type Frontend interface {
	Parse(filename string, source []byte) (*ast.Program, []error)
}
