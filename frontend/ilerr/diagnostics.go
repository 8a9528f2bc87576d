package ilerr

import (
	"fmt"
	"strings"

	"github.com/cottand/variance/frontend/ast"
)

type Unclassified struct {
	From error
	ast.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Unwrap() error    { return e.From }
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type Syntax struct {
	ast.Positioner
	ParserMessage string
	Hint          string
	stack         []byte
}

func (e Syntax) Error() string {
	if e.Hint != "" {
		return e.ParserMessage + " (" + e.Hint + ")"
	}
	return e.ParserMessage
}
func (e Syntax) Code() ErrCode    { return Parse }
func (e Syntax) getStack() []byte { return e.stack }
func (e Syntax) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// BoundViolation is a type argument that is not a subtype of the upper bound of its parameter
type BoundViolation struct {
	ast.Positioner
	Param    string
	Argument string
	Bound    string
	stack    []byte
}

func (e BoundViolation) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("type argument '%s' is not within its bound: should be a subtype of '%s'", e.Argument, e.Bound)
	}
	return fmt.Sprintf("type argument '%s' is not within the bound of '%s': should be a subtype of '%s'", e.Argument, e.Param, e.Bound)
}
func (e BoundViolation) Code() ErrCode    { return BoundNotSatisfied }
func (e BoundViolation) getStack() []byte { return e.stack }
func (e BoundViolation) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type ProjectionRule uint8

const (
	RuleConflictingVariance ProjectionRule = iota
	RuleNotAllowedInSupertypeArgument
	RuleVarianceNotAllowedOnFunctionTypeParameter
	RuleWildcardNotAllowedHere
	RuleNotAllowedOnCallTypeArgument
)

func (r ProjectionRule) String() string {
	switch r {
	case RuleConflictingVariance:
		return "ConflictingVariance"
	case RuleNotAllowedInSupertypeArgument:
		return "NotAllowedInSupertypeArgument"
	case RuleVarianceNotAllowedOnFunctionTypeParameter:
		return "VarianceNotAllowedOnFunctionTypeParameter"
	case RuleWildcardNotAllowedHere:
		return "WildcardNotAllowedHere"
	case RuleNotAllowedOnCallTypeArgument:
		return "NotAllowedOnCallTypeArgument"
	default:
		return "invalid"
	}
}

// ProjectionError is a use-site projection, wildcard or variance annotation
// that is not allowed where it was written.
// Position, Declared and Projection are the triple that was being resolved.
type ProjectionError struct {
	ast.Positioner
	Rule       ProjectionRule
	Param      string
	Position   ast.Position
	Declared   ast.Variance
	Projection ast.Projection
	stack      []byte
}

func (e ProjectionError) Error() string {
	subject := "type argument"
	if e.Param != "" {
		subject = fmt.Sprintf("type argument for '%s'", e.Param)
	}
	switch e.Rule {
	case RuleConflictingVariance:
		return fmt.Sprintf("conflicting projection: %s is declared '%s' but projected as '%s'", subject, e.Declared, e.Projection)
	case RuleNotAllowedInSupertypeArgument:
		return fmt.Sprintf("projection '%s' is not allowed for the immediate arguments of a supertype", e.Projection)
	case RuleVarianceNotAllowedOnFunctionTypeParameter:
		if e.Param != "" {
			return fmt.Sprintf("variance annotation '%s' is only allowed for type parameters of classes and interfaces, not on '%s'", e.Declared, e.Param)
		}
		return fmt.Sprintf("variance annotation '%s' is only allowed for type parameters of classes and interfaces", e.Declared)
	case RuleWildcardNotAllowedHere:
		if e.Projection != ast.ProjectionStar && e.Projection != ast.ProjectionNone {
			return fmt.Sprintf("wildcard '*' cannot be projected with '%s'", e.Projection)
		}
		return "wildcard '*' is only allowed as the immediate type argument of a type"
	case RuleNotAllowedOnCallTypeArgument:
		return fmt.Sprintf("projection '%s' is not allowed on the type arguments of a function call", e.Projection)
	default:
		return fmt.Sprintf("invalid projection '%s' for %s in %s position", e.Projection, subject, e.Position)
	}
}
func (e ProjectionError) Code() ErrCode {
	switch e.Rule {
	case RuleConflictingVariance:
		return ConflictingVariance
	case RuleNotAllowedInSupertypeArgument:
		return ProjectionInSupertype
	case RuleVarianceNotAllowedOnFunctionTypeParameter:
		return VarianceOnFunctionTypeParam
	case RuleWildcardNotAllowedHere:
		return MisplacedWildcard
	case RuleNotAllowedOnCallTypeArgument:
		return ProjectionOnCallTypeArg
	default:
		return None
	}
}
func (e ProjectionError) getStack() []byte { return e.stack }
func (e ProjectionError) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// PositionMismatch is a type parameter declared 'out' used in a consumer
// position, or declared 'in' used in a producer position
type PositionMismatch struct {
	ast.Positioner
	Param    string
	Declared ast.Variance
	Position ast.Position
	Type     string
	stack    []byte
}

func (e PositionMismatch) Error() string {
	return fmt.Sprintf("type parameter '%s' is declared as '%s' but occurs in '%s' position in type '%s'", e.Param, e.Declared, e.Position, e.Type)
}
func (e PositionMismatch) Code() ErrCode    { return VariancePosition }
func (e PositionMismatch) getStack() []byte { return e.stack }
func (e PositionMismatch) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type UnknownType struct {
	ast.Positioner
	Name string
	// Suggestion is the closest known name, if any was close enough
	Suggestion string
	stack      []byte
}

func (e UnknownType) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unresolved type '%s', did you mean '%s'?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unresolved type '%s'", e.Name)
}
func (e UnknownType) Code() ErrCode    { return UndefinedType }
func (e UnknownType) getStack() []byte { return e.stack }
func (e UnknownType) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type WrongTypeArgumentCount struct {
	ast.Positioner
	Name     string
	Expected int
	Actual   int
	stack    []byte
}

func (e WrongTypeArgumentCount) Error() string {
	return fmt.Sprintf("'%s' expects %d type argument(s), but %d were given", e.Name, e.Expected, e.Actual)
}
func (e WrongTypeArgumentCount) Code() ErrCode    { return TypeArgumentCount }
func (e WrongTypeArgumentCount) getStack() []byte { return e.stack }
func (e WrongTypeArgumentCount) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CyclicInheritance struct {
	ast.Positioner
	Cycle []string
	stack []byte
}

func (e CyclicInheritance) Error() string {
	return fmt.Sprintf("there's a cycle in the inheritance hierarchy: %s", strings.Join(e.Cycle, " -> "))
}
func (e CyclicInheritance) Code() ErrCode    { return InheritanceCycle }
func (e CyclicInheritance) getStack() []byte { return e.stack }
func (e CyclicInheritance) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type FinalSupertype struct {
	ast.Positioner
	Class     string
	Supertype string
	stack     []byte
}

func (e FinalSupertype) Error() string {
	return fmt.Sprintf("'%s' cannot inherit from '%s': this type is final", e.Class, e.Supertype)
}
func (e FinalSupertype) Code() ErrCode    { return InheritsFinal }
func (e FinalSupertype) getStack() []byte { return e.stack }
func (e FinalSupertype) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// ConflictingOverloads are functions whose value parameters are identical after erasure
type ConflictingOverloads struct {
	ast.Positioner
	Name      string
	Signature string
	stack     []byte
}

func (e ConflictingOverloads) Error() string {
	return fmt.Sprintf("conflicting overloads for '%s': parameters erase to the same signature (%s)", e.Name, e.Signature)
}
func (e ConflictingOverloads) Code() ErrCode    { return OverloadClash }
func (e ConflictingOverloads) getStack() []byte { return e.stack }
func (e ConflictingOverloads) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type Redeclaration struct {
	ast.Positioner
	Name  string
	What  string
	stack []byte
}

func (e Redeclaration) Error() string {
	return fmt.Sprintf("%s '%s' is declared more than once", e.What, e.Name)
}
func (e Redeclaration) Code() ErrCode    { return DuplicateDeclaration }
func (e Redeclaration) getStack() []byte { return e.stack }
func (e Redeclaration) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// FinalUpperBound is a warning for a type parameter whose bound is a final type,
// so that the parameter can only ever be instantiated with that type
type FinalUpperBound struct {
	ast.Positioner
	Param string
	Bound string
	stack []byte
}

func (e FinalUpperBound) Error() string {
	return fmt.Sprintf("'%s' is a final type, and thus a value of the type parameter '%s' is predetermined", e.Bound, e.Param)
}
func (e FinalUpperBound) Code() ErrCode    { return FinalBound }
func (e FinalUpperBound) getStack() []byte { return e.stack }
func (e FinalUpperBound) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// RedundantProjection is a warning for a use-site projection that repeats the declared variance
type RedundantProjection struct {
	ast.Positioner
	Param      string
	Projection ast.Projection
	stack      []byte
}

func (e RedundantProjection) Error() string {
	return fmt.Sprintf("projection '%s' is redundant: the type parameter '%s' is already declared '%s'", e.Projection, e.Param, e.Projection)
}
func (e RedundantProjection) Code() ErrCode    { return ProjectionRedundant }
func (e RedundantProjection) getStack() []byte { return e.stack }
func (e RedundantProjection) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// CyclicUpperBound is a type parameter bounded, directly or not, by itself
type CyclicUpperBound struct {
	ast.Positioner
	Cycle []string
	stack []byte
}

func (e CyclicUpperBound) Error() string {
	return fmt.Sprintf("type parameter '%s' has a cyclic upper bound: %s", e.Cycle[0], strings.Join(e.Cycle, " : "))
}
func (e CyclicUpperBound) Code() ErrCode    { return CyclicBound }
func (e CyclicUpperBound) getStack() []byte { return e.stack }
func (e CyclicUpperBound) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type ReifiedClassParameter struct {
	ast.Positioner
	Param string
	Class string
	stack []byte
}

func (e ReifiedClassParameter) Error() string {
	return fmt.Sprintf("type parameter '%s' of '%s' cannot be reified: only type parameters of functions can", e.Param, e.Class)
}
func (e ReifiedClassParameter) Code() ErrCode    { return ReifiedClassTypeParam }
func (e ReifiedClassParameter) getStack() []byte { return e.stack }
func (e ReifiedClassParameter) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}
