package types

import (
	"hash/fnv"
	"strings"

	"github.com/cottand/variance/frontend/ast"
	"github.com/hashicorp/go-set/v3"
)

// Type is a fully resolved type term.
//
// Implementations are immutable and safe to share between goroutines.
type Type interface {
	String() string
	// Hash identifies a type structurally: two types with the same Hash are the same type
	Hash() uint64
	isType()
}

var (
	_ Type = extremeType{}
	_ Type = (*Nominal)(nil)
	_ Type = (*Parameterized)(nil)
	_ Type = (*TypeParamRef)(nil)
)

// Equal can be used to compare Type instances for equality.
// Types have no identity other than their structure, which Hash captures.
func Equal[H, HH set.Hasher[uint64]](this H, other HH) bool {
	return this.Hash() == other.Hash()
}

type extremeType struct {
	// polarity = true means bottom, = false means top
	polarity bool
}

var (
	// Top is the supertype of every type, written Any
	Top Type = extremeType{polarity: false}
	// Bottom is the subtype of every type, written Nothing
	Bottom Type = extremeType{polarity: true}
)

func (extremeType) isType() {}
func (t extremeType) String() string {
	if t.polarity {
		return NothingName
	}
	return AnyName
}
func (t extremeType) Hash() uint64 {
	if t.polarity {
		return 16777619
	}
	return 1099511628211
}

// Nominal is a use of a class without type arguments.
// When the class is generic, this is a raw use.
type Nominal struct {
	Class *ClassDef
}

func (*Nominal) isType()          {}
func (t *Nominal) String() string { return t.Class.Name }
func (t *Nominal) Hash() uint64   { return hashString(t.Class.Name) }

// IsRaw reports whether t names a generic class without supplying its arguments
func (t *Nominal) IsRaw() bool { return len(t.Class.Params) > 0 }

// Parameterized is a generic class applied to type arguments
type Parameterized struct {
	Class *ClassDef
	Args  []TypeArgument
}

func (*Parameterized) isType() {}
func (t *Parameterized) String() string {
	sb := strings.Builder{}
	sb.WriteString(t.Class.Name)
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

func (t *Parameterized) Hash() uint64 {
	const prime1 uint64 = 14695981039346656037
	var hash = prime1
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.Class.Name))
	for _, arg := range t.Args {
		hash = hash*31 + arg.Hash()
	}
	return h.Sum64() ^ hash
}

// TypeParamRef is an occurrence of a type parameter inside the declaration that introduces it
type TypeParamRef struct {
	Param *TypeParameter
}

func (*TypeParamRef) isType()          {}
func (t *TypeParamRef) String() string { return t.Param.Name }
func (t *TypeParamRef) Hash() uint64 {
	return hashString(t.Param.Owner + "::" + t.Param.Name)
}

// TypeParameter is declared once on a class or function and never changes afterwards
type TypeParameter struct {
	Name     string
	Variance ast.Variance
	// Bound is nil when no upper bound was declared, which means Top
	Bound Type
	// Owner is the name of the declaration introducing the parameter, used to
	// tell apart parameters with the same name
	Owner string
	Index int
	// Reified parameters of functions are known at runtime
	Reified bool
}

func (p *TypeParameter) UpperBound() Type {
	if p.Bound == nil {
		return Top
	}
	return p.Bound
}

func (p *TypeParameter) Ref() *TypeParamRef { return &TypeParamRef{Param: p} }

func (p *TypeParameter) String() string {
	sb := strings.Builder{}
	if p.Reified {
		sb.WriteString("reified ")
	}
	if p.Variance != ast.Invariant {
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

// TypeArgument is a type applied to a generic class at a use site.
// The wildcard has ast.ProjectionStar and a nil Type.
type TypeArgument struct {
	Type       Type
	Projection ast.Projection
}

func Arg(t Type) TypeArgument { return TypeArgument{Type: t} }
func Out(t Type) TypeArgument { return TypeArgument{Type: t, Projection: ast.ProjectionOut} }
func In(t Type) TypeArgument  { return TypeArgument{Type: t, Projection: ast.ProjectionIn} }
func Star() TypeArgument      { return TypeArgument{Projection: ast.ProjectionStar} }

func (a TypeArgument) IsStar() bool {
	return a.Projection == ast.ProjectionStar || a.Type == nil
}

func (a TypeArgument) String() string {
	if a.IsStar() {
		return "*"
	}
	if kw := a.Projection.Keyword(); kw != "" {
		return kw + " " + a.Type.String()
	}
	return a.Type.String()
}

func (a TypeArgument) Hash() uint64 {
	if a.IsStar() {
		return 42
	}
	return a.Type.Hash()*7 + uint64(a.Projection) + 1
}

// Apply builds a use of class with the given arguments: a Nominal when
// there are none, and a Parameterized otherwise
func Apply(class *ClassDef, args ...TypeArgument) Type {
	if len(args) == 0 {
		return &Nominal{Class: class}
	}
	return &Parameterized{Class: class, Args: args}
}

// classOf returns the class a type refers to, or nil for extremes and type parameters
func classOf(t Type) *ClassDef {
	switch t := t.(type) {
	case *Nominal:
		return t.Class
	case *Parameterized:
		return t.Class
	default:
		return nil
	}
}

// argumentsOf returns the arguments of t, with raw uses expanded to all-wildcard
func argumentsOf(t Type) []TypeArgument {
	switch t := t.(type) {
	case *Parameterized:
		return t.Args
	case *Nominal:
		if !t.IsRaw() {
			return nil
		}
		stars := make([]TypeArgument, len(t.Class.Params))
		for i := range stars {
			stars[i] = Star()
		}
		return stars
	default:
		return nil
	}
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
