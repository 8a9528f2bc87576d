package types

import (
	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
)

// CheckBound succeeds when argument is a subtype of bound.
// A nil bound is the universal top type, so it is always satisfied.
// A failure is always an ilerr.BoundViolation.
func (ctx *TypeCtx) CheckBound(argument, bound Type) error {
	if err := ctx.checkBound(argument, bound, "", ast.Range{}); err != nil {
		return err
	}
	return nil
}

func (ctx *TypeCtx) checkBound(argument, bound Type, param string, at ast.Positioner) ilerr.Diagnostic {
	if bound == nil || argument == nil {
		return nil
	}
	if ctx.IsSubtype(argument, bound) {
		return nil
	}
	ctx.logger.Debug("bound not satisfied", "argument", argument, "bound", bound)
	return ilerr.New(ilerr.BoundViolation{
		Positioner: at,
		Param:      param,
		Argument:   argument.String(),
		Bound:      bound.String(),
	})
}

// checkArgumentBounds checks every non-wildcard argument of a use of class against
// the bound of its parameter, where the bounds may mention the class' own parameters
func (ctx *TypeCtx) checkArgumentBounds(class *ClassDef, args []TypeArgument, at func(i int) ast.Positioner) []ilerr.Diagnostic {
	if len(args) != len(class.Params) {
		return nil
	}
	plain := make([]TypeArgument, len(args))
	for i, arg := range args {
		if arg.IsStar() {
			plain[i] = arg
			continue
		}
		plain[i] = Arg(arg.Type)
	}
	subst := substitutionFor(class.Params, plain)
	var errs []ilerr.Diagnostic
	for i, param := range class.Params {
		if args[i].IsStar() || param.Bound == nil {
			continue
		}
		bound := subst.apply(param.Bound)
		if err := ctx.checkBound(args[i].Type, bound, param.Name, at(i)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// UniqueInstantiation returns the only type param could ever be instantiated with,
// which is the case when its bound is a final type that cannot vary
func UniqueInstantiation(param *TypeParameter) (Type, bool) {
	if param.Bound == nil {
		return nil, false
	}
	switch bound := param.Bound.(type) {
	case *Nominal:
		if bound.Class.Final && !bound.IsRaw() {
			return bound, true
		}
	case *Parameterized:
		if !bound.Class.Final {
			return nil, false
		}
		for i, arg := range bound.Args {
			if arg.Projection != ast.ProjectionNone {
				return nil, false
			}
			if !bound.Class.ArrayLike && bound.Class.Params[i].Variance != ast.Invariant {
				return nil, false
			}
		}
		return bound, true
	}
	return nil, false
}

// substitution maps the type parameters of a declaration to the arguments of one of its uses
type substitution map[*TypeParameter]TypeArgument

func substitutionFor(params []*TypeParameter, args []TypeArgument) substitution {
	s := make(substitution, len(params))
	for i, p := range params {
		if i < len(args) {
			s[p] = args[i]
		} else {
			s[p] = Star()
		}
	}
	return s
}

func (s substitution) apply(t Type) Type {
	if len(s) == 0 {
		return t
	}
	switch t := t.(type) {
	case *TypeParamRef:
		arg, ok := s[t.Param]
		if !ok {
			return t
		}
		switch arg.Projection {
		case ast.ProjectionNone, ast.ProjectionOut:
			if arg.Type != nil {
				return arg.Type
			}
		}
		// only the bound is known for in-projections and wildcards
		return s.without(t.Param).apply(t.Param.UpperBound())
	case *Parameterized:
		changed := false
		args := make([]TypeArgument, len(t.Args))
		for i, arg := range t.Args {
			args[i] = s.applyArg(arg)
			changed = changed || args[i] != arg
		}
		if !changed {
			return t
		}
		return &Parameterized{Class: t.Class, Args: args}
	default:
		return t
	}
}

func (s substitution) applyArg(a TypeArgument) TypeArgument {
	if a.IsStar() {
		return a
	}
	if ref, ok := a.Type.(*TypeParamRef); ok {
		if inner, ok := s[ref.Param]; ok {
			return combineProjections(a.Projection, inner)
		}
	}
	return TypeArgument{Type: s.apply(a.Type), Projection: a.Projection}
}

// combineProjections places inner where an argument projected with outer was written.
// Opposite projections leave nothing known about the argument, so they become a wildcard.
func combineProjections(outer ast.Projection, inner TypeArgument) TypeArgument {
	switch {
	case inner.IsStar():
		return Star()
	case outer == ast.ProjectionNone:
		return inner
	case inner.Projection == ast.ProjectionNone || inner.Projection == outer:
		return TypeArgument{Type: inner.Type, Projection: outer}
	default:
		return Star()
	}
}

func (s substitution) without(p *TypeParameter) substitution {
	cp := make(substitution, len(s))
	for k, v := range s {
		if k != p {
			cp[k] = v
		}
	}
	return cp
}
