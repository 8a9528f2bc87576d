package types

import (
	"fmt"
	"strings"

	"github.com/cottand/variance/frontend/ast"
)

// RuntimeMode is what a runtime knows about the type arguments of a value
type RuntimeMode uint8

const (
	// Erased runtimes only keep the class of a value, so 'Box<Int>' and
	// 'Box<String>' cannot be told apart
	Erased RuntimeMode = iota
	// Reified runtimes keep full type arguments
	Reified
)

func (m RuntimeMode) String() string {
	switch m {
	case Erased:
		return "erased"
	case Reified:
		return "reified"
	default:
		return "invalid"
	}
}

func ParseRuntimeMode(s string) (RuntimeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "erased":
		return Erased, nil
	case "reified":
		return Reified, nil
	default:
		return Erased, fmt.Errorf("unknown runtime mode '%s', expected one of 'erased' or 'reified'", s)
	}
}

// Erase drops the type arguments of t, and replaces type parameters with their erased bound
func Erase(t Type) Type {
	switch t := t.(type) {
	case *Parameterized:
		return &Nominal{Class: t.Class}
	case *TypeParamRef:
		return Erase(t.Param.UpperBound())
	default:
		return t
	}
}

func SameErasure(a, b Type) bool {
	return Equal(Erase(a), Erase(b))
}

type CastResult uint8

const (
	// AlwaysSucceeds casts are upcasts, and need no check at runtime
	AlwaysSucceeds CastResult = iota
	// Checked casts are fully verified at runtime
	Checked
	// Unchecked casts only verify the class at runtime, not the type arguments
	Unchecked
	// Impossible casts can never succeed
	Impossible
)

func (r CastResult) String() string {
	switch r {
	case AlwaysSucceeds:
		return "always succeeds"
	case Checked:
		return "checked"
	case Unchecked:
		return "unchecked"
	case Impossible:
		return "impossible"
	default:
		return "invalid"
	}
}

// CheckCast classifies a cast of a value statically known to be a from into a to,
// under the runtime mode of ctx
func (ctx *TypeCtx) CheckCast(from, to Type) CastResult {
	res := ctx.checkCast(from, to)
	ctx.logger.Debug("checked cast", "from", from, "to", to, "result", res, "mode", ctx.mode)
	return res
}

func (ctx *TypeCtx) checkCast(from, to Type) CastResult {
	if ctx.IsAssignable(from, to) {
		return AlwaysSucceeds
	}
	if to == Bottom {
		return Impossible
	}
	erasedFrom, erasedTo := Erase(from), Erase(to)
	related := ctx.IsSubtype(erasedFrom, erasedTo) || ctx.IsSubtype(erasedTo, erasedFrom)
	if !related && (isFinal(erasedFrom) || isFinal(erasedTo)) {
		return Impossible
	}
	if ctx.mode == Reified {
		return Checked
	}
	if ref, ok := to.(*TypeParamRef); ok {
		if ref.Param.Reified {
			return Checked
		}
		return Unchecked
	}
	if !hasConcreteArguments(to) {
		return Checked
	}
	if ctx.argumentsDeterminedBy(from, to) {
		return Checked
	}
	return Unchecked
}

// RuntimeIsInstance simulates an instance check at runtime, for a value whose exact
// type is actual. Under Erased, only classes are compared.
func (ctx *TypeCtx) RuntimeIsInstance(actual, target Type) bool {
	if ctx.mode == Reified {
		return ctx.IsSubtype(actual, target)
	}
	return ctx.IsSubtype(Erase(actual), Erase(target))
}

// RuntimeIsInstanceIn simulates an instance check inside the body of fn, called with
// the type arguments args. The runtime knows the arguments of reified parameters, the
// others are only known through their bound.
func (ctx *TypeCtx) RuntimeIsInstanceIn(fn *FunctionDef, args []TypeArgument, actual, target Type) bool {
	known := make(substitution, len(fn.TypeParams))
	for i, param := range fn.TypeParams {
		if param.Reified && i < len(args) {
			known[param] = args[i]
		}
	}
	return ctx.RuntimeIsInstance(actual, known.apply(target))
}

func isFinal(t Type) bool {
	if t == Bottom {
		return true
	}
	c := classOf(t)
	return c != nil && c.Final
}

func hasConcreteArguments(t Type) bool {
	for _, arg := range argumentsOf(t) {
		if !arg.IsStar() {
			return true
		}
	}
	return false
}

// argumentsDeterminedBy reports whether the type arguments of to follow from
// those of from, so that checking the class of a value at runtime is enough
// to know the cast is sound: a 'List<Int>' that is an 'ArrayList' is an 'ArrayList<Int>'
func (ctx *TypeCtx) argumentsDeterminedBy(from, to Type) bool {
	fromClass, toClass := classOf(from), classOf(to)
	if fromClass == nil || toClass == nil {
		return false
	}
	view, ok := viewAs(toClass.SelfType(), fromClass)
	if !ok {
		return false
	}
	fromArgs, viewArgs := argumentsOf(from), argumentsOf(view)
	if len(fromArgs) != len(viewArgs) {
		return false
	}
	inferred := make(substitution, len(toClass.Params))
	for i, arg := range viewArgs {
		ref, ok := arg.Type.(*TypeParamRef)
		if !ok || arg.Projection != ast.ProjectionNone {
			continue
		}
		if fromArgs[i].IsStar() {
			return false
		}
		inferred[ref.Param] = fromArgs[i]
	}
	for _, p := range toClass.Params {
		if _, ok := inferred[p]; !ok {
			return false
		}
	}
	return ctx.IsAssignable(inferred.apply(toClass.SelfType()), to)
}

// viewAs finds the supertype of t that is a use of class
func viewAs(t Type, class *ClassDef) (Type, bool) {
	c := classOf(t)
	if c == nil {
		return nil, false
	}
	if c.Name == class.Name {
		return t, true
	}
	subst := substitutionFor(c.Params, argumentsOf(t))
	for _, super := range c.Supertypes {
		if view, ok := viewAs(subst.apply(super), class); ok {
			return view, true
		}
	}
	return nil, false
}
