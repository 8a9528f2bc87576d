package types

import (
	"fmt"
	"slices"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/internal/log"
	"github.com/hashicorp/go-set/v3"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var logger = log.DefaultLogger.With("section", log.SectionTypes)

// scope holds the type parameters visible to a type expression
type scope struct {
	params map[string]*TypeParameter
	parent *scope
}

func (s *scope) lookup(name string) (*TypeParameter, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if p, ok := sc.params[name]; ok {
			return p, true
		}
	}
	return nil, false
}

func (s *scope) names() []string {
	var names []string
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.params {
			names = append(names, name)
		}
	}
	return names
}

func newScope(parent *scope, params []*TypeParameter) *scope {
	sc := &scope{params: make(map[string]*TypeParameter, len(params)), parent: parent}
	for _, p := range params {
		sc.params[p.Name] = p
	}
	return sc
}

// typeAstTypeContext turns ast.TypeExpr into Type, reporting unknown names and wrong arities
type typeAstTypeContext struct {
	table    Table
	allowRaw bool
	errs     *ilerr.Errors
}

func (ctx *typeAstTypeContext) addError(err ilerr.Diagnostic) {
	ctx.errs = ctx.errs.With(err)
}

func (ctx *typeAstTypeContext) typeAstType(expr *ast.TypeExpr, sc *scope) Type {
	if p, ok := sc.lookup(expr.Name); ok {
		if expr.Args != nil {
			ctx.addError(ilerr.New(ilerr.WrongTypeArgumentCount{
				Positioner: expr.Range,
				Name:       expr.Name,
				Expected:   0,
				Actual:     len(expr.Args),
			}))
		}
		return p.Ref()
	}
	switch expr.Name {
	case AnyName, NothingName:
		if expr.Args != nil {
			ctx.addError(ilerr.New(ilerr.WrongTypeArgumentCount{
				Positioner: expr.Range,
				Name:       expr.Name,
				Expected:   0,
				Actual:     len(expr.Args),
			}))
		}
		if expr.Name == AnyName {
			return Top
		}
		return Bottom
	}
	class, ok := ctx.table.Class(expr.Name)
	if !ok {
		ctx.addError(ilerr.New(ilerr.UnknownType{
			Positioner: expr.Range,
			Name:       expr.Name,
			Suggestion: closestName(expr.Name, append(ctx.table.TypeNames(), sc.names()...)),
		}))
		return Top
	}
	if expr.Args == nil {
		if len(class.Params) > 0 && !ctx.allowRaw {
			ctx.addError(ilerr.New(ilerr.WrongTypeArgumentCount{
				Positioner: expr.Range,
				Name:       expr.Name,
				Expected:   len(class.Params),
				Actual:     0,
			}))
		}
		return &Nominal{Class: class}
	}
	if len(expr.Args) != len(class.Params) {
		ctx.addError(ilerr.New(ilerr.WrongTypeArgumentCount{
			Positioner: expr.Range,
			Name:       expr.Name,
			Expected:   len(class.Params),
			Actual:     len(expr.Args),
		}))
		return &Nominal{Class: class}
	}
	args := make([]TypeArgument, len(expr.Args))
	for i, arg := range expr.Args {
		if arg.Star || arg.Type == nil {
			args[i] = Star()
			continue
		}
		args[i] = TypeArgument{Type: ctx.typeAstType(arg.Type, sc), Projection: arg.Projection}
	}
	return &Parameterized{Class: class, Args: args}
}

// closestName returns the candidate with the smallest edit distance to name, as long
// as it does not require replacing the whole of it
func closestName(name string, candidates []string) string {
	nameRunes := []rune(name)
	closestDistance := len(name)
	closest := ""
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)
	for _, candidate := range sorted {
		distance := levenshtein.DistanceForStrings(nameRunes, []rune(candidate), levenshtein.DefaultOptions)
		if distance < closestDistance && distance < len(candidate) {
			closest = candidate
			closestDistance = distance
		}
	}
	return closest
}

// BuildTable resolves the declarations of files into a Table.
//
// Declarations that are only partially well-formed are still added, so that later
// checks can report as much as possible; the returned errors say what was wrong.
func BuildTable(files []*ast.File) (Table, *ilerr.Errors) {
	b := &tableBuilder{
		typeAstTypeContext: typeAstTypeContext{table: NewTable()},
	}
	b.collectClasses(files)
	b.resolveClasses()
	b.breakCycles()
	b.resolveFunctions(files)
	logger.Debug("built declaration table", "classes", len(b.classes), "errors", b.errs)
	return b.table, b.errs
}

type tableBuilder struct {
	typeAstTypeContext
	// classes in declaration order, builtins excluded
	classes []*ClassDef
}

func (b *tableBuilder) collectClasses(files []*ast.File) {
	for _, file := range files {
		for _, decl := range file.Classes {
			if _, exists := b.table.Class(decl.Name); exists || isBuiltin(decl.Name) {
				b.addError(ilerr.New(ilerr.Redeclaration{
					Positioner: decl.Range,
					Name:       decl.Name,
					What:       "class",
				}))
				continue
			}
			class := &ClassDef{
				Name:      decl.Name,
				Kind:      decl.Kind,
				Final:     decl.IsFinal(),
				ArrayLike: decl.Array,
				Params:    b.typeParams(decl.Name, decl.TypeParams),
				Decl:      decl,
			}
			b.table = b.table.WithClass(class)
			b.classes = append(b.classes, class)
		}
	}
}

// typeParams creates the parameters of a declaration. Their bounds are resolved later,
// once every parameter is in scope.
func (b *tableBuilder) typeParams(owner string, decls []*ast.TypeParamDecl) []*TypeParameter {
	seen := set.New[string](len(decls))
	params := make([]*TypeParameter, 0, len(decls))
	for i, decl := range decls {
		name := decl.Name
		if decl.Star {
			name = "*"
		} else if !seen.Insert(name) {
			b.addError(ilerr.New(ilerr.Redeclaration{
				Positioner: decl.Range,
				Name:       name,
				What:       "type parameter",
			}))
		}
		params = append(params, &TypeParameter{
			Name:     name,
			Variance: decl.Variance,
			Owner:    owner,
			Index:    i,
			Reified:  decl.Reified,
		})
	}
	return params
}

func (b *tableBuilder) resolveBounds(params []*TypeParameter, decls []*ast.TypeParamDecl, sc *scope) {
	for i, decl := range decls {
		if decl.Bound != nil {
			params[i].Bound = b.typeAstType(decl.Bound, sc)
		}
	}
	for i, param := range params {
		cycle, cyclic := boundCycle(param)
		if !cyclic {
			continue
		}
		b.addError(ilerr.New(ilerr.CyclicUpperBound{
			Positioner: decls[i].Bound.Range,
			Cycle:      cycle,
		}))
		param.Bound = nil
	}
}

// boundCycle follows the bounds of param that are type parameters themselves, and
// reports whether they lead back to param
func boundCycle(param *TypeParameter) ([]string, bool) {
	visited := set.New[*TypeParameter](0)
	cycle := []string{param.Name}
	for current := param; visited.Insert(current); {
		ref, ok := current.Bound.(*TypeParamRef)
		if !ok {
			return nil, false
		}
		cycle = append(cycle, ref.Param.Name)
		if ref.Param == param {
			return cycle, true
		}
		current = ref.Param
	}
	// a cycle that does not go through param, reported when its own members are checked
	return nil, false
}

func (b *tableBuilder) resolveClasses() {
	for _, class := range b.classes {
		decl := class.Decl
		sc := newScope(nil, class.Params)
		b.resolveBounds(class.Params, decl.TypeParams, sc)

		for _, superExpr := range decl.Supertypes {
			super := b.typeAstType(superExpr, sc)
			switch super.(type) {
			case *Nominal, *Parameterized:
				class.Supertypes = append(class.Supertypes, super)
				class.superExprs = append(class.superExprs, superExpr)
			case extremeType:
				if super == Bottom {
					b.addError(ilerr.New(ilerr.Unclassified{
						Positioner: superExpr.Range,
						From:       fmt.Errorf("'%s' cannot be used as a supertype", superExpr.Name),
					}))
				}
			case *TypeParamRef:
				b.addError(ilerr.New(ilerr.Unclassified{
					Positioner: superExpr.Range,
					From:       fmt.Errorf("type parameter '%s' cannot be used as a supertype", superExpr.Name),
				}))
			}
		}

		props := set.New[string](len(decl.Properties))
		for _, propDecl := range decl.Properties {
			if !props.Insert(propDecl.Name) {
				b.addError(ilerr.New(ilerr.Redeclaration{
					Positioner: propDecl.Range,
					Name:       propDecl.Name,
					What:       "property",
				}))
			}
			class.Properties = append(class.Properties, &PropertyDef{
				Name:    propDecl.Name,
				Mutable: propDecl.Mutable,
				Type:    b.typeAstType(propDecl.Type, sc),
				Decl:    propDecl,
			})
		}
		for i, fnDecl := range decl.Functions {
			fn := b.function(fmt.Sprintf("%s.%s/%d", class.Name, fnDecl.Name, i), fnDecl, sc)
			fn.Owner = class
			class.Functions = append(class.Functions, fn)
		}
	}
}

func (b *tableBuilder) resolveFunctions(files []*ast.File) {
	i := 0
	for _, file := range files {
		for _, decl := range file.Functions {
			b.table = b.table.WithFunction(b.function(fmt.Sprintf("%s/%d", decl.Name, i), decl, nil))
			i++
		}
	}
}

func (b *tableBuilder) function(owner string, decl *ast.FunctionDecl, outer *scope) *FunctionDef {
	fn := &FunctionDef{
		Name:       decl.Name,
		TypeParams: b.typeParams(owner, decl.TypeParams),
		Decl:       decl,
	}
	for _, p := range fn.TypeParams {
		// reported by the declaration checker, which still sees decl
		p.Variance = ast.Invariant
	}
	sc := newScope(outer, fn.TypeParams)
	b.resolveBounds(fn.TypeParams, decl.TypeParams, sc)
	for _, param := range decl.Params {
		fn.Params = append(fn.Params, ParamDef{
			Name: param.Name,
			Type: b.typeAstType(param.Type, sc),
			Decl: param,
		})
	}
	if decl.Return != nil {
		fn.Return = b.typeAstType(decl.Return, sc)
	} else {
		fn.Return = UnitType
	}
	return fn
}

// breakCycles reports classes that inherit from themselves, and drops the supertype
// closing each cycle so that walking supertypes always terminates
func (b *tableBuilder) breakCycles() {
	for _, class := range b.classes {
		for i := 0; i < len(class.Supertypes); {
			path, cyclic := reaches(classOf(class.Supertypes[i]), class.Name, set.New[string](0))
			if !cyclic {
				i++
				continue
			}
			b.addError(ilerr.New(ilerr.CyclicInheritance{
				Positioner: class.superExprs[i].Range,
				Cycle:      append([]string{class.Name}, path...),
			}))
			class.Supertypes = slices.Delete(class.Supertypes, i, i+1)
			class.superExprs = slices.Delete(class.superExprs, i, i+1)
		}
	}
}

// reaches returns the names from c to target along supertype edges, both ends included
func reaches(c *ClassDef, target string, visited *set.Set[string]) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	if c.Name == target {
		return []string{c.Name}, true
	}
	if !visited.Insert(c.Name) {
		return nil, false
	}
	for _, super := range c.Supertypes {
		if path, ok := reaches(classOf(super), target, visited); ok {
			return append([]string{c.Name}, path...), true
		}
	}
	return nil, false
}

// ResolveType turns a type written outside any declaration into a Type, as used in
// subtyping queries and casts. Raw uses of generic classes are allowed.
func (ctx *TypeCtx) ResolveType(expr *ast.TypeExpr) (Type, *ilerr.Errors) {
	tctx := &typeAstTypeContext{table: ctx.table, allowRaw: true}
	t := tctx.typeAstType(expr, nil)
	if tctx.errs.HasError() {
		return t, tctx.errs
	}
	c := &declChecker{TypeCtx: ctx}
	c.checkUse(expr, t, use{position: ast.InvariantPosition, site: SiteTypeArgument})
	return t, tctx.errs.Merge(c.errs)
}
