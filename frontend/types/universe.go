package types

import (
	"github.com/cottand/variance/frontend/ast"
)

const (
	AnyName     = "Any"
	NothingName = "Nothing"
	UnitName    = "Unit"
	ArrayName   = "Array"
)

var unitClass = NewClass(UnitName, true, nil)

var arrayClass = func() *ClassDef {
	c := NewClass(ArrayName, true, []*TypeParameter{NewTypeParameter("T", ast.Invariant, nil)})
	c.ArrayLike = true
	return c
}()

var builtinClasses = []*ClassDef{unitClass, arrayClass}

// UnitType is the return type of functions that do not declare one
var UnitType Type = &Nominal{Class: unitClass}

func ArrayOf(elem TypeArgument) Type {
	return &Parameterized{Class: arrayClass, Args: []TypeArgument{elem}}
}

func isBuiltin(name string) bool {
	switch name {
	case AnyName, NothingName:
		return true
	}
	for _, c := range builtinClasses {
		if c.Name == name {
			return true
		}
	}
	return false
}
