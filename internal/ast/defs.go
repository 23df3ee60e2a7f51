package ast

import "fmt"

// Def is the sum type of top-level definitions and module metadata.
type Def interface {
	fmt.Stringer
	def()
}

// ModuleDeclDef declares the enclosing module's name. At most one may appear
// in a Program (§3 invariant, enforced by the caller that builds a Program).
type ModuleDeclDef struct {
	Name string
}

func (d *ModuleDeclDef) def()          {}
func (d *ModuleDeclDef) String() string { return fmt.Sprintf("module %s", d.Name) }

// ImportDef declares an import of a single symbol from another module.
type ImportDef struct {
	ModuleRef string
	SymbolRef string
}

func (d *ImportDef) def() {}
func (d *ImportDef) String() string {
	return fmt.Sprintf("import %s %s", d.ModuleRef, d.SymbolRef)
}

// ExportDef declares that a locally defined symbol is visible to importers.
type ExportDef struct {
	SymbolRef string
}

func (d *ExportDef) def()          {}
func (d *ExportDef) String() string { return fmt.Sprintf("export %s", d.SymbolRef) }

// PolyDef is a System F (polymorphic) term definition. Type is optional
// (nil when absent) but required whenever Rec is true (§4.6).
type PolyDef struct {
	Name string
	Term TripValue
	Type TripValue // optional
	Rec  bool
}

func (d *PolyDef) def()          {}
func (d *PolyDef) Level() Stratum { return LevelPoly }
func (d *PolyDef) String() string {
	rec := ""
	if d.Rec {
		rec = "rec "
	}
	if d.Type != nil {
		return fmt.Sprintf("poly %s%s : %s = %s", rec, d.Name, d.Type, d.Term)
	}
	return fmt.Sprintf("poly %s%s = %s", rec, d.Name, d.Term)
}

// TypedDef is a simply typed term definition.
type TypedDef struct {
	Name string
	Term TripValue
	Type TripValue // optional
}

func (d *TypedDef) def()          {}
func (d *TypedDef) Level() Stratum { return LevelTyped }
func (d *TypedDef) String() string {
	return fmt.Sprintf("typed %s = %s", d.Name, d.Term)
}

// UntypedDef is an untyped lambda-calculus term definition.
type UntypedDef struct {
	Name string
	Term TripValue
}

func (d *UntypedDef) def()          {}
func (d *UntypedDef) Level() Stratum { return LevelUntyped }
func (d *UntypedDef) String() string {
	return fmt.Sprintf("untyped %s = %s", d.Name, d.Term)
}

// CombinatorDef is an SKI combinator term definition.
type CombinatorDef struct {
	Name string
	Term TripValue
}

func (d *CombinatorDef) def()          {}
func (d *CombinatorDef) Level() Stratum { return LevelCombinator }
func (d *CombinatorDef) String() string {
	return fmt.Sprintf("combinator %s = %s", d.Name, d.Term)
}

// TypeDef is a type-alias definition.
type TypeDef struct {
	Name string
	Type TripValue
}

func (d *TypeDef) def()          {}
func (d *TypeDef) String() string { return fmt.Sprintf("type %s = %s", d.Name, d.Type) }

// CtorSig is one constructor in a DataDef.
type CtorSig struct {
	Name     string
	ArgTypes []TripValue
}

// DataDef is an algebraic data declaration with zero or more type parameters
// and one or more constructors.
type DataDef struct {
	Name       string
	TypeParams []string
	Ctors      []CtorSig
}

func (d *DataDef) def() {}
func (d *DataDef) String() string {
	s := fmt.Sprintf("data %s", d.Name)
	for _, p := range d.TypeParams {
		s += " " + p
	}
	s += " ="
	for i, c := range d.Ctors {
		if i > 0 {
			s += " |"
		}
		s += " " + c.Name
		for _, a := range c.ArgTypes {
			s += " " + a.String()
		}
	}
	return s
}

// TermDef is implemented by every Def variant that binds a term name to a
// value at a specific stratum (poly/typed/untyped/combinator). TypeDef and
// DataDef do not implement it since they have no stratum.
type TermDef interface {
	Def
	Level() Stratum
}

// Program is an ordered list of definitions plus (at most one) module
// declaration, exactly as §3 describes.
type Program struct {
	Module *ModuleDeclDef
	Decls  []Def
}

// NewProgram constructs an empty program with no module declaration.
func NewProgram() *Program {
	return &Program{}
}

// Imports returns the ImportDef entries in source order.
func (p *Program) Imports() []*ImportDef {
	var out []*ImportDef
	for _, d := range p.Decls {
		if imp, ok := d.(*ImportDef); ok {
			out = append(out, imp)
		}
	}
	return out
}

// Exports returns the ExportDef entries in source order.
func (p *Program) Exports() []*ExportDef {
	var out []*ExportDef
	for _, d := range p.Decls {
		if exp, ok := d.(*ExportDef); ok {
			out = append(out, exp)
		}
	}
	return out
}

// TermDefs returns every term-bearing definition (poly/typed/untyped/combinator)
// in source order.
func (p *Program) TermDefs() []TermDef {
	var out []TermDef
	for _, d := range p.Decls {
		if td, ok := d.(TermDef); ok {
			out = append(out, td)
		}
	}
	return out
}

// TypeDefs returns every TypeDef in source order.
func (p *Program) TypeDefs() []*TypeDef {
	var out []*TypeDef
	for _, d := range p.Decls {
		if td, ok := d.(*TypeDef); ok {
			out = append(out, td)
		}
	}
	return out
}

// DataDefs returns every DataDef in source order.
func (p *Program) DataDefs() []*DataDef {
	var out []*DataDef
	for _, d := range p.Decls {
		if dd, ok := d.(*DataDef); ok {
			out = append(out, dd)
		}
	}
	return out
}
