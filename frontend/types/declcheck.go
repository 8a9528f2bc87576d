package types

import (
	"strings"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/hashicorp/go-set/v3"
)

// declChecker validates the declarations of a Table once it is fully built,
// so that bounds can be checked against the final subtyping relation
type declChecker struct {
	*TypeCtx
	errs *ilerr.Errors
}

func (c *declChecker) addError(err ilerr.Diagnostic) {
	if err != nil {
		c.errs = c.errs.With(err)
	}
}

// CheckDeclarations checks every class and top-level function in the table of ctx.
// Classes come first, sorted by name, then functions in declaration order.
func (ctx *TypeCtx) CheckDeclarations() *ilerr.Errors {
	var errs *ilerr.Errors
	for _, class := range ctx.table.Classes() {
		errs = errs.Merge(ctx.CheckClass(class))
	}
	fns := ctx.table.Functions()
	for _, fn := range fns {
		errs = errs.Merge(ctx.CheckFunction(fn))
	}
	return errs.Merge(ctx.CheckOverloads(fns))
}

// CheckClass checks the header and the members of a class that was declared in source
func (ctx *TypeCtx) CheckClass(class *ClassDef) *ilerr.Errors {
	if class.Decl == nil {
		return nil
	}
	c := &declChecker{TypeCtx: ctx}
	c.checkClassTypeParams(class)
	c.checkSupertypes(class)

	for _, prop := range class.Properties {
		pos := ast.ProducerPosition
		if prop.Mutable {
			pos = ast.InvariantPosition
		}
		c.checkUse(prop.Decl.Type, prop.Type, use{position: pos, site: SiteTypeArgument, positional: true})
	}
	for _, fn := range class.Functions {
		c.checkFunction(fn)
	}
	c.errs = c.errs.Merge(ctx.CheckOverloads(class.Functions))
	ctx.logger.Debug("checked class", "class", class.Name, "errors", c.errs)
	return c.errs
}

// CheckFunction checks the signature of a top-level or member function
func (ctx *TypeCtx) CheckFunction(fn *FunctionDef) *ilerr.Errors {
	if fn.Decl == nil {
		return nil
	}
	c := &declChecker{TypeCtx: ctx}
	c.checkFunction(fn)
	return c.errs
}

// CheckOverloads reports functions with the same name whose value parameters
// erase to the same types, which an erasing runtime cannot tell apart
func (ctx *TypeCtx) CheckOverloads(fns []*FunctionDef) *ilerr.Errors {
	var errs *ilerr.Errors
	seen := set.New[string](len(fns))
	for _, fn := range fns {
		erased := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			erased[i] = Erase(p.Type).String()
		}
		signature := strings.Join(erased, ", ")
		if seen.Insert(fn.Name + "(" + signature + ")") {
			continue
		}
		var at ast.Positioner = ast.Range{}
		if fn.Decl != nil {
			at = fn.Decl.Range
		}
		errs = errs.With(ilerr.New(ilerr.ConflictingOverloads{
			Positioner: at,
			Name:       fn.Name,
			Signature:  signature,
		}))
	}
	return errs
}

func (c *declChecker) checkClassTypeParams(class *ClassDef) {
	for i, decl := range class.Decl.TypeParams {
		param := class.Params[i]
		projection := ast.ProjectionNone
		if decl.Star {
			projection = ast.ProjectionStar
		}
		_, err := resolveVariance(SiteClassTypeParameter, decl.Variance, projection, ast.InvariantPosition, param.Name, decl.Range)
		c.addError(err)
		if decl.Reified {
			c.addError(ilerr.New(ilerr.ReifiedClassParameter{
				Positioner: decl.Range,
				Param:      param.Name,
				Class:      class.Name,
			}))
		}
		if decl.Bound == nil {
			continue
		}
		c.checkUse(decl.Bound, param.Bound, use{position: ast.InvariantPosition, site: SiteTypeArgument})
		if bound, ok := UniqueInstantiation(param); ok {
			c.addError(ilerr.New(ilerr.FinalUpperBound{
				Positioner: decl.Bound.Range,
				Param:      param.Name,
				Bound:      bound.String(),
			}))
		}
	}
}

func (c *declChecker) checkSupertypes(class *ClassDef) {
	for i, super := range class.Supertypes {
		expr := class.superExprs[i]
		superClass := classOf(super)
		if superClass.Final {
			c.addError(ilerr.New(ilerr.FinalSupertype{
				Positioner: expr.Range,
				Class:      class.Name,
				Supertype:  superClass.Name,
			}))
		}
		c.checkUse(expr, super, use{position: ast.ProducerPosition, site: SiteSupertypeArgument, positional: true})
	}
}

func (c *declChecker) checkFunction(fn *FunctionDef) {
	for i, decl := range fn.Decl.TypeParams {
		param := fn.TypeParams[i]
		projection := ast.ProjectionNone
		if decl.Star {
			projection = ast.ProjectionStar
		}
		_, err := resolveVariance(SiteFunctionTypeParameter, decl.Variance, projection, ast.ConsumerPosition, param.Name, decl.Range)
		c.addError(err)
		if decl.Bound != nil {
			c.checkUse(decl.Bound, param.Bound, use{position: ast.ConsumerPosition, site: SiteTypeArgument, positional: true})
		}
	}
	for _, p := range fn.Params {
		c.checkUse(p.Decl.Type, p.Type, use{position: ast.ConsumerPosition, site: SiteTypeArgument, positional: true})
	}
	if fn.Decl.Return != nil {
		c.checkUse(fn.Decl.Return, fn.Return, use{position: ast.ProducerPosition, site: SiteTypeArgument, positional: true})
	}
}

// use is where a type expression occurs
type use struct {
	position ast.Position
	// site applies to the immediate arguments of the type only
	site Site
	// positional uses must respect the declared variance of the type parameters they mention
	positional bool
	// root is the outermost type of the use, for error messages
	root string
}

// checkUse walks expr and its resolved type t together. Parts of t that failed to
// resolve no longer match expr, and are skipped: they were already reported.
func (c *declChecker) checkUse(expr *ast.TypeExpr, t Type, u use) {
	if expr == nil || t == nil {
		return
	}
	if u.root == "" {
		u.root = expr.String()
	}
	switch t := t.(type) {
	case *TypeParamRef:
		if u.positional && !allowedIn(t.Param.Variance, u.position) {
			c.addError(ilerr.New(ilerr.PositionMismatch{
				Positioner: expr.Range,
				Param:      t.Param.Name,
				Declared:   t.Param.Variance,
				Position:   u.position,
				Type:       u.root,
			}))
		}
	case *Parameterized:
		if len(expr.Args) != len(t.Args) || len(t.Args) != len(t.Class.Params) {
			return
		}
		for i, argExpr := range expr.Args {
			param := t.Class.Params[i]
			declared := t.Class.declaredVariance(param)
			if argExpr.Star && argExpr.Projection != ast.ProjectionNone {
				_, err := resolveVariance(SiteProjectedArgument, declared, argExpr.Projection, u.position, param.Name, argExpr.Range)
				c.addError(err)
				continue
			}
			projection := argExpr.Projection
			if argExpr.Star {
				projection = ast.ProjectionStar
			}
			eff, err := resolveVariance(u.site, declared, projection, u.position, param.Name, argExpr.Range)
			if err != nil {
				c.addError(err)
				continue
			}
			if isRedundant(declared, projection) {
				c.addError(ilerr.New(ilerr.RedundantProjection{
					Positioner: argExpr.Range,
					Param:      param.Name,
					Projection: projection,
				}))
			}
			argPos, checked := ArgumentPosition(u.position, eff)
			if !checked {
				continue
			}
			c.checkUse(argExpr.Type, t.Args[i].Type, use{
				position:   argPos,
				site:       SiteTypeArgument,
				positional: u.positional,
				root:       u.root,
			})
		}
		for _, err := range c.checkArgumentBounds(t.Class, t.Args, func(i int) ast.Positioner { return expr.Args[i].Range }) {
			c.addError(err)
		}
	}
}
