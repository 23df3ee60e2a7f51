// Package objfile implements the `.tripc` object-file codec (§6): a
// deterministic JSON encoding of a resolved, typechecked Program, with
// BigInt-tagged numeric literals and schema validation on load. Grounded
// on internal/schema's deterministic marshaling and the single
// terrors.Error type every other phase already uses for diagnostics.
package objfile

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/schema"
	"github.com/triplang/tripc/internal/terrors"
)

// Import is one entry of an object file's imports array (§6).
type Import struct {
	Name string `json:"name"`
	From string `json:"from"`
}

// File is the in-memory form of a `.tripc` object file.
type File struct {
	Module      string
	Exports     []string
	Imports     []Import
	Definitions map[string]ast.Def
}

// Encode builds a File from a compiled Program. prog is expected to have
// already passed resolution and typechecking; Encode itself does not
// re-validate semantics, only shape.
func Encode(prog *ast.Program) (*File, error) {
	if prog.Module == nil {
		return nil, terrors.New(terrors.Parse, terrors.PAR001MalformedObjectFile, "program has no module declaration")
	}
	f := &File{
		Module:      prog.Module.Name,
		Definitions: make(map[string]ast.Def),
	}
	for _, e := range prog.Exports() {
		f.Exports = append(f.Exports, e.SymbolRef)
	}
	for _, i := range prog.Imports() {
		f.Imports = append(f.Imports, Import{Name: i.SymbolRef, From: i.ModuleRef})
	}
	for _, td := range prog.TermDefs() {
		f.Definitions[termDefName(td)] = td
	}
	for _, td := range prog.TypeDefs() {
		f.Definitions[td.Name] = td
	}
	for _, dd := range prog.DataDefs() {
		f.Definitions[dd.Name] = dd
	}
	return f, nil
}

func termDefName(td ast.TermDef) string {
	switch d := td.(type) {
	case *ast.PolyDef:
		return d.Name
	case *ast.TypedDef:
		return d.Name
	case *ast.UntypedDef:
		return d.Name
	case *ast.CombinatorDef:
		return d.Name
	default:
		return ""
	}
}

// Program rebuilds an *ast.Program from a File, in deterministic
// (name-sorted) definition order. Import/export decls are emitted before
// definitions, matching the surface grammar's declare-before-use habit.
func (f *File) Program() *ast.Program {
	prog := ast.NewProgram()
	prog.Module = &ast.ModuleDeclDef{Name: f.Module}
	for _, imp := range f.Imports {
		prog.Decls = append(prog.Decls, &ast.ImportDef{ModuleRef: imp.From, SymbolRef: imp.Name})
	}
	for _, name := range f.Exports {
		prog.Decls = append(prog.Decls, &ast.ExportDef{SymbolRef: name})
	}
	names := make([]string, 0, len(f.Definitions))
	for name := range f.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prog.Decls = append(prog.Decls, f.Definitions[name])
	}
	return prog
}

// Marshal renders f as deterministic (sorted-key) `.tripc` JSON (§6).
func (f *File) Marshal() ([]byte, error) {
	defs := make(map[string]any, len(f.Definitions))
	for name, d := range f.Definitions {
		enc, err := encodeDef(d)
		if err != nil {
			return nil, err
		}
		defs[name] = enc
	}
	imports := make([]any, len(f.Imports))
	for i, imp := range f.Imports {
		imports[i] = map[string]any{"name": imp.Name, "from": imp.From}
	}
	exports := make([]any, len(f.Exports))
	for i, e := range f.Exports {
		exports[i] = e
	}
	doc := map[string]any{
		"module":      f.Module,
		"exports":     exports,
		"imports":     imports,
		"definitions": defs,
	}
	return schema.MarshalDeterministic(doc)
}

// Unmarshal parses `.tripc` JSON into a File, validating the top-level
// shape per §6 ("module is a string, exports/imports are arrays, every
// import entry has string name and from, definitions is an object").
// Invalid JSON or schema violations return a terrors.Parse error whose
// message includes the JSON decode cause.
func Unmarshal(data []byte) (*File, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, terrors.New(terrors.Parse, terrors.PAR001MalformedObjectFile,
			fmt.Sprintf("invalid object file JSON: %v", err)).WithCause(err)
	}

	moduleName, ok := doc["module"].(string)
	if !ok {
		return nil, parseErr("\"module\" must be a string")
	}

	rawExports, ok := doc["exports"].([]any)
	if !ok {
		return nil, parseErr("\"exports\" must be an array")
	}
	exports := make([]string, len(rawExports))
	for i, re := range rawExports {
		s, ok := re.(string)
		if !ok {
			return nil, parseErr("every \"exports\" entry must be a string")
		}
		exports[i] = s
	}

	rawImports, ok := doc["imports"].([]any)
	if !ok {
		return nil, parseErr("\"imports\" must be an array")
	}
	imports := make([]Import, len(rawImports))
	for i, ri := range rawImports {
		impObj, ok := ri.(map[string]any)
		if !ok {
			return nil, parseErr("every \"imports\" entry must be an object")
		}
		name, err := reqString(impObj, "name")
		if err != nil {
			return nil, err
		}
		from, err := reqString(impObj, "from")
		if err != nil {
			return nil, err
		}
		imports[i] = Import{Name: name, From: from}
	}

	rawDefs, ok := doc["definitions"].(map[string]any)
	if !ok {
		return nil, parseErr("\"definitions\" must be an object")
	}
	defs := make(map[string]ast.Def, len(rawDefs))
	for name, raw := range rawDefs {
		d, err := decodeDef(name, raw)
		if err != nil {
			return nil, err
		}
		defs[name] = d
	}

	return &File{Module: moduleName, Exports: exports, Imports: imports, Definitions: defs}, nil
}
