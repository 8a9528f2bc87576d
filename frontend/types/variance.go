package types

import (
	"github.com/cottand/variance/frontend/ast"
)

// EffectiveVariance is how a type argument may vary once the declared variance
// of its parameter and the projection at the use site are combined.
//
// Both flags set means the argument is fully abstracted (a wildcard).
type EffectiveVariance struct {
	covariant, contravariant bool
}

var (
	VarianceBivariant     = EffectiveVariance{covariant: true, contravariant: true}
	VarianceCovariant     = EffectiveVariance{covariant: true}
	VarianceContravariant = EffectiveVariance{contravariant: true}
	VarianceInvariant     = EffectiveVariance{}
)

func (v EffectiveVariance) IsCovariant() bool     { return v.covariant }
func (v EffectiveVariance) IsContravariant() bool { return v.contravariant }
func (v EffectiveVariance) IsInvariant() bool     { return !v.covariant && !v.contravariant }
func (v EffectiveVariance) IsBivariant() bool     { return v.covariant && v.contravariant }

func (v EffectiveVariance) String() string {
	switch v {
	case VarianceBivariant:
		return "*"
	case VarianceCovariant:
		return "out"
	case VarianceContravariant:
		return "in"
	default:
		return "invariant"
	}
}

// effectiveVariance combines declared and projection without any site rules.
// It returns false when they conflict.
func effectiveVariance(declared ast.Variance, projection ast.Projection) (EffectiveVariance, bool) {
	if projection == ast.ProjectionStar {
		return VarianceBivariant, true
	}
	switch declared {
	case ast.Producer:
		if projection == ast.ProjectionIn {
			return VarianceBivariant, false
		}
		return VarianceCovariant, true
	case ast.Consumer:
		if projection == ast.ProjectionOut {
			return VarianceBivariant, false
		}
		return VarianceContravariant, true
	default:
		switch projection {
		case ast.ProjectionOut:
			return VarianceCovariant, true
		case ast.ProjectionIn:
			return VarianceContravariant, true
		default:
			return VarianceInvariant, true
		}
	}
}

// ArgumentPosition is the position the type of an argument occupies, given the
// position of the enclosing type use and the effective variance of the argument.
//
// It returns false for wildcards, whose type is not checked.
func ArgumentPosition(outer ast.Position, eff EffectiveVariance) (ast.Position, bool) {
	switch {
	case eff.IsBivariant():
		return outer, false
	case eff.IsCovariant():
		return outer, true
	case eff.IsContravariant():
		return outer.Flip(), true
	default:
		return ast.InvariantPosition, true
	}
}

// allowedIn reports whether a type parameter declared with v may occur in position pos
func allowedIn(v ast.Variance, pos ast.Position) bool {
	switch v {
	case ast.Producer:
		return pos == ast.ProducerPosition
	case ast.Consumer:
		return pos == ast.ConsumerPosition
	default:
		return true
	}
}
