package types

import (
	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
)

// Site is the syntactic context a projection or variance annotation was written in
type Site uint8

const (
	// SiteTypeArgument is an immediate argument of a type use, like the 'out T' in 'List<out T>'
	SiteTypeArgument Site = iota
	// SiteSupertypeArgument is an immediate argument of a supertype in a class header
	SiteSupertypeArgument
	// SiteCallTypeArgument is an explicit type argument of a function call
	SiteCallTypeArgument
	// SiteClassTypeParameter is the type parameter list of a class or interface
	SiteClassTypeParameter
	// SiteFunctionTypeParameter is the type parameter list of a function
	SiteFunctionTypeParameter
	// SiteProjectedArgument is a wildcard written after a projection keyword, as in 'out *'
	SiteProjectedArgument
)

func (s Site) String() string {
	switch s {
	case SiteTypeArgument:
		return "type argument"
	case SiteSupertypeArgument:
		return "supertype argument"
	case SiteCallTypeArgument:
		return "call type argument"
	case SiteClassTypeParameter:
		return "class type parameter"
	case SiteFunctionTypeParameter:
		return "function type parameter"
	case SiteProjectedArgument:
		return "projected argument"
	default:
		return "invalid"
	}
}

// ResolveVariance computes the effective variance of a type argument written with
// projection, for a parameter declared with declared, used in position.
// A failure is always an ilerr.ProjectionError.
func ResolveVariance(declared ast.Variance, projection ast.Projection, position ast.Position) (EffectiveVariance, error) {
	return ResolveVarianceAt(SiteTypeArgument, declared, projection, position)
}

// ResolveVarianceAt is ResolveVariance for annotations written somewhere other than a type argument
func ResolveVarianceAt(site Site, declared ast.Variance, projection ast.Projection, position ast.Position) (EffectiveVariance, error) {
	eff, err := resolveVariance(site, declared, projection, position, "", ast.Range{})
	if err != nil {
		return eff, err
	}
	return eff, nil
}

func resolveVariance(
	site Site,
	declared ast.Variance,
	projection ast.Projection,
	position ast.Position,
	param string,
	at ast.Positioner,
) (EffectiveVariance, ilerr.Diagnostic) {
	fail := func(rule ilerr.ProjectionRule) (EffectiveVariance, ilerr.Diagnostic) {
		return VarianceBivariant, ilerr.New(ilerr.ProjectionError{
			Positioner: at,
			Rule:       rule,
			Param:      param,
			Position:   position,
			Declared:   declared,
			Projection: projection,
		})
	}

	switch site {
	case SiteClassTypeParameter:
		if projection == ast.ProjectionStar {
			return fail(ilerr.RuleWildcardNotAllowedHere)
		}
		eff, _ := effectiveVariance(declared, ast.ProjectionNone)
		return eff, nil
	case SiteFunctionTypeParameter:
		if projection == ast.ProjectionStar {
			return fail(ilerr.RuleWildcardNotAllowedHere)
		}
		if declared != ast.Invariant {
			return fail(ilerr.RuleVarianceNotAllowedOnFunctionTypeParameter)
		}
		return VarianceInvariant, nil
	case SiteProjectedArgument:
		return fail(ilerr.RuleWildcardNotAllowedHere)
	case SiteSupertypeArgument:
		if projection != ast.ProjectionNone {
			return fail(ilerr.RuleNotAllowedInSupertypeArgument)
		}
	case SiteCallTypeArgument:
		if projection != ast.ProjectionNone {
			return fail(ilerr.RuleNotAllowedOnCallTypeArgument)
		}
	}

	eff, ok := effectiveVariance(declared, projection)
	if !ok {
		return fail(ilerr.RuleConflictingVariance)
	}
	return eff, nil
}

// isRedundant reports whether projection only repeats the declared variance
func isRedundant(declared ast.Variance, projection ast.Projection) bool {
	return (declared == ast.Producer && projection == ast.ProjectionOut) ||
		(declared == ast.Consumer && projection == ast.ProjectionIn)
}
