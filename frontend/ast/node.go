package ast

import (
	"strings"
)

// Declaration is implemented by the top-level nodes of a File
type Declaration interface {
	Positioner
	DeclName() string
	declNode()
}

var (
	_ Declaration = (*ClassDecl)(nil)
	_ Declaration = (*FunctionDecl)(nil)
)

// File represents a single parsed source file
type File struct {
	Name      string
	Classes   []*ClassDecl
	Functions []*FunctionDecl
	Range
}

// Declarations returns the classes and then the functions of the file, in source order within each group
func (f *File) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(f.Classes)+len(f.Functions))
	for _, c := range f.Classes {
		decls = append(decls, c)
	}
	for _, fn := range f.Functions {
		decls = append(decls, fn)
	}
	return decls
}

type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return "invalid"
	}
}

type Modifiers struct {
	Open     bool
	Abstract bool
	Final    bool
	// Array marks an array-like container, which is invariant whatever its declaration says
	Array bool
}

// ClassDecl is a class or interface declaration, possibly generic
type ClassDecl struct {
	Name string
	Kind ClassKind
	Modifiers
	TypeParams []*TypeParamDecl
	Supertypes []*TypeExpr
	Properties []*PropertyDecl
	Functions  []*FunctionDecl
	Range
}

func (c *ClassDecl) DeclName() string { return c.Name }
func (c *ClassDecl) declNode()        {}

// IsFinal reports whether the class can have subclasses.
// Classes are final unless declared open or abstract, interfaces never are.
func (c *ClassDecl) IsFinal() bool {
	if c.Kind == KindInterface {
		return false
	}
	if c.Final {
		return true
	}
	return !c.Open && !c.Abstract
}

func (c *ClassDecl) String() string {
	sb := strings.Builder{}
	if c.Array {
		sb.WriteString("array ")
	}
	if c.Open {
		sb.WriteString("open ")
	}
	if c.Abstract {
		sb.WriteString("abstract ")
	}
	sb.WriteString(c.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(c.Name)
	sb.WriteString(showTypeParams(c.TypeParams))
	if len(c.Supertypes) > 0 {
		sb.WriteString(" : ")
		for i, s := range c.Supertypes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.String())
		}
	}
	return sb.String()
}

// PropertyDecl is a 'val' (read-only) or 'var' (mutable) member
type PropertyDecl struct {
	Name    string
	Mutable bool
	Type    *TypeExpr
	Range
}

func (p *PropertyDecl) String() string {
	kw := "val"
	if p.Mutable {
		kw = "var"
	}
	return kw + " " + p.Name + ": " + p.Type.String()
}

type ParamDecl struct {
	Name string
	Type *TypeExpr
	Range
}

// FunctionDecl is either a top-level function or a class member.
// A nil Return means the function returns Unit.
type FunctionDecl struct {
	Name       string
	TypeParams []*TypeParamDecl
	Params     []*ParamDecl
	Return     *TypeExpr
	Range
}

func (f *FunctionDecl) DeclName() string { return f.Name }
func (f *FunctionDecl) declNode()        {}

func (f *FunctionDecl) String() string {
	sb := strings.Builder{}
	sb.WriteString("fun ")
	if tps := showTypeParams(f.TypeParams); tps != "" {
		sb.WriteString(tps)
		sb.WriteByte(' ')
	}
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Type.String())
	}
	sb.WriteByte(')')
	if f.Return != nil {
		sb.WriteString(": ")
		sb.WriteString(f.Return.String())
	}
	return sb.String()
}
