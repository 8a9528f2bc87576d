package types

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/util"
	"github.com/hashicorp/go-set/v3"
)

// ClassDef is a resolved class or interface declaration.
//
// Supertypes may mention Params through TypeParamRef. A ClassDef must not be
// modified once a Table or a Type refers to it.
type ClassDef struct {
	Name       string
	Kind       ast.ClassKind
	Params     []*TypeParameter
	Supertypes []Type
	Final      bool
	// ArrayLike classes are invariant in all their parameters, whatever they declare
	ArrayLike  bool
	Properties []*PropertyDef
	Functions  []*FunctionDef
	// Decl is nil for builtins and for classes built through the API
	Decl *ast.ClassDecl
	// superExprs are the source of Supertypes, index by index, when Decl is not nil
	superExprs []*ast.TypeExpr
}

// NewClass creates a class owning params, which must not be shared with other declarations
func NewClass(name string, final bool, params []*TypeParameter, supertypes ...Type) *ClassDef {
	for i, p := range params {
		p.Owner = name
		p.Index = i
	}
	return &ClassDef{
		Name:       name,
		Kind:       ast.KindClass,
		Params:     params,
		Supertypes: supertypes,
		Final:      final,
	}
}

func NewTypeParameter(name string, variance ast.Variance, bound Type) *TypeParameter {
	return &TypeParameter{Name: name, Variance: variance, Bound: bound}
}

func (c *ClassDef) declaredVariance(p *TypeParameter) ast.Variance {
	if c.ArrayLike {
		return ast.Invariant
	}
	return p.Variance
}

// SelfType is the class applied to its own type parameters
func (c *ClassDef) SelfType() Type {
	args := make([]TypeArgument, len(c.Params))
	for i, p := range c.Params {
		args[i] = Arg(p.Ref())
	}
	return Apply(c, args...)
}

// Range points at the declaration of c, if there was one
func (c *ClassDef) Range() ast.Range {
	if c.Decl == nil {
		return ast.Range{}
	}
	return c.Decl.Range
}

type PropertyDef struct {
	Name    string
	Mutable bool
	Type    Type
	Decl    *ast.PropertyDecl
}

type ParamDef struct {
	Name string
	Type Type
	Decl *ast.ParamDecl
}

// FunctionDef is a top-level function when Owner is nil, and a member otherwise
type FunctionDef struct {
	Name       string
	Owner      *ClassDef
	TypeParams []*TypeParameter
	Params     []ParamDef
	Return     Type
	Decl       *ast.FunctionDecl
}

// Table holds every class and top-level function known to a TypeCtx.
//
// Table is a persistent value: With* methods return a new Table and leave the receiver unchanged.
type Table struct {
	classes   *immutable.SortedMap[string, *ClassDef]
	functions *immutable.List[*FunctionDef]
}

// NewTable returns a Table holding only the builtin classes
func NewTable() Table {
	t := Table{
		classes:   immutable.NewSortedMap[string, *ClassDef](nil),
		functions: immutable.NewList[*FunctionDef](),
	}
	for _, c := range builtinClasses {
		t = t.WithClass(c)
	}
	return t
}

func (t Table) WithClass(c *ClassDef) Table {
	return Table{classes: t.classes.Set(c.Name, c), functions: t.functions}
}

func (t Table) WithFunction(f *FunctionDef) Table {
	return Table{classes: t.classes, functions: t.functions.Append(f)}
}

func (t Table) Class(name string) (*ClassDef, bool) {
	if t.classes == nil {
		return nil, false
	}
	return t.classes.Get(name)
}

// Classes returns all classes sorted by name, builtins included
func (t Table) Classes() []*ClassDef {
	if t.classes == nil {
		return nil
	}
	classes := make([]*ClassDef, 0, t.classes.Len())
	itr := t.classes.Iterator()
	for !itr.Done() {
		_, c, _ := itr.Next()
		classes = append(classes, c)
	}
	return classes
}

// Functions returns the top-level functions in the order they were added
func (t Table) Functions() []*FunctionDef {
	if t.functions == nil {
		return nil
	}
	fns := make([]*FunctionDef, 0, t.functions.Len())
	itr := t.functions.Iterator()
	for !itr.Done() {
		_, f := itr.Next()
		fns = append(fns, f)
	}
	return fns
}

// TypeNames lists every name a type expression could refer to
func (t Table) TypeNames() []string {
	names := []string{AnyName, NothingName}
	for _, c := range t.Classes() {
		names = append(names, c.Name)
	}
	return util.SortedUnique(names)
}

// SupertypeNames returns the names of all classes c inherits from, directly or not, sorted
func (t Table) SupertypeNames(c *ClassDef) []string {
	visited := set.New[string](len(c.Supertypes))
	var names []string
	var walk func(*ClassDef)
	walk = func(c *ClassDef) {
		for _, super := range c.Supertypes {
			sc := classOf(super)
			if sc == nil || !visited.Insert(sc.Name) {
				continue
			}
			names = append(names, sc.Name)
			walk(sc)
		}
	}
	walk(c)
	names = append(names, AnyName)
	return util.SortedUnique(names)
}
