package ast

import (
	"strings"
)

// TypeExpr is a type as written in the source: a name, optionally applied to type arguments.
//
// Args is nil when the type is written without angle brackets, which for a generic
// declaration is a raw use.
type TypeExpr struct {
	Name string
	Args []*TypeArgExpr
	Range
}

func (t *TypeExpr) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	sb := strings.Builder{}
	sb.WriteString(t.Name)
	sb.WriteByte('<')
	for i, arg := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// TypeArgExpr is a single argument in a TypeExpr's argument list.
//
// A wildcard is written '*' and has Star set and a nil Type. When Star is set together
// with a Projection (as in 'out *') the argument is malformed, but it is kept so that the
// checker can report where it happened.
type TypeArgExpr struct {
	Projection Projection
	Star       bool
	Type       *TypeExpr
	Range
}

func (a *TypeArgExpr) String() string {
	var body string
	if a.Star || a.Type == nil {
		body = "*"
	} else {
		body = a.Type.String()
	}
	if kw := a.Projection.Keyword(); kw != "" && a.Projection != ProjectionStar {
		return kw + " " + body
	}
	return body
}

// TypeParamDecl declares a type parameter of a class or a function
type TypeParamDecl struct {
	Name     string
	Variance Variance
	// Reified parameters are known at runtime
	Reified bool
	// Star is set for the malformed declaration '*'
	Star  bool
	Bound *TypeExpr
	Range
}

func (p *TypeParamDecl) String() string {
	if p.Star {
		return "*"
	}
	sb := strings.Builder{}
	if p.Reified {
		sb.WriteString("reified ")
	}
	if p.Variance != Invariant {
		sb.WriteString(p.Variance.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(p.Name)
	if p.Bound != nil {
		sb.WriteString(" : ")
		sb.WriteString(p.Bound.String())
	}
	return sb.String()
}

func showTypeParams(params []*TypeParamDecl) string {
	if len(params) == 0 {
		return ""
	}
	strs := make([]string, 0, len(params))
	for _, p := range params {
		strs = append(strs, p.String())
	}
	return "<" + strings.Join(strs, ", ") + ">"
}
