package types

import (
	"github.com/cottand/variance/frontend/ast"
)

// IsSubtype decides whether a value of type a can be used where b is expected.
//
// A wildcard on either side of a type argument satisfies that argument, and raw
// uses of generic classes behave as if every argument were a wildcard.
func (ctx *TypeCtx) IsSubtype(a, b Type) bool {
	return ctx.judge(a, b, false)
}

// IsAssignable is IsSubtype, except that a wildcard on the left does not satisfy
// a concrete argument on the right: 'Box<*>' is not assignable to 'Box<Int>'
// without a cast, even though the two are related.
func (ctx *TypeCtx) IsAssignable(a, b Type) bool {
	return ctx.judge(a, b, true)
}

func (ctx *TypeCtx) judge(a, b Type, strict bool) bool {
	key := subtypeKey{l: a.Hash(), r: b.Hash(), strict: strict}
	if res, ok := ctx.cache.get(key); ok {
		return res
	}
	res := ctx.isSubtype(a, b, strict)
	ctx.cache.put(key, res)
	return res
}

func (ctx *TypeCtx) isSubtype(a, b Type, strict bool) bool {
	if Equal(a, b) || a == Bottom || b == Top {
		return true
	}
	if ref, ok := a.(*TypeParamRef); ok {
		return ctx.judge(ref.Param.UpperBound(), b, strict)
	}
	aClass, bClass := classOf(a), classOf(b)
	if aClass == nil || bClass == nil {
		// what remains: Top on the left, Bottom or a type parameter on the right
		return false
	}
	aArgs := argumentsOf(a)
	if aClass.Name == bClass.Name {
		return ctx.argumentsConform(aClass, aArgs, argumentsOf(b), strict)
	}
	subst := substitutionFor(aClass.Params, aArgs)
	for _, super := range aClass.Supertypes {
		if ctx.judge(subst.apply(super), b, strict) {
			return true
		}
	}
	return false
}

func (ctx *TypeCtx) argumentsConform(class *ClassDef, as, bs []TypeArgument, strict bool) bool {
	if len(as) != len(bs) || len(as) != len(class.Params) {
		return false
	}
	for i, param := range class.Params {
		if !ctx.slotConforms(class.declaredVariance(param), param.UpperBound(), as[i], bs[i], strict) {
			return false
		}
	}
	return true
}

// slotConforms checks a single pair of type arguments for a parameter declared with
// declared and bounded by bound
func (ctx *TypeCtx) slotConforms(declared ast.Variance, bound Type, a, b TypeArgument, strict bool) bool {
	if b.IsStar() {
		return true
	}
	effB, ok := effectiveVariance(declared, b.Projection)
	if !ok || effB.IsBivariant() {
		return true
	}
	effA, ok := effectiveVariance(declared, a.Projection)
	if a.IsStar() || !ok || effA.IsBivariant() {
		if !strict {
			return true
		}
		// all that is known of a wildcard is that it produces its bound
		switch {
		case effB.IsCovariant():
			return ctx.judge(bound, b.Type, strict)
		case effB.IsContravariant():
			return b.Type == Bottom
		default:
			return false
		}
	}
	switch {
	case effB.IsInvariant():
		return effA.IsInvariant() && Equal(a.Type, b.Type)
	case effB.IsCovariant():
		if effA.IsContravariant() {
			// nothing but Any is known to come out of an in-projected argument
			return b.Type == Top
		}
		return ctx.judge(a.Type, b.Type, strict)
	default:
		if effA.IsCovariant() {
			return b.Type == Bottom
		}
		return ctx.judge(b.Type, a.Type, strict)
	}
}
