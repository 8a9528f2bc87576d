package types_test

import (
	"testing"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prelude = `
open class User
final class Guest : User
interface Source<out T>
interface Sink<in T>
interface MutableList<E>
`

func TestDeclarationChecks(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []ilerr.ErrCode
	}{
		{
			name: "producer in producer position",
			src:  `class Box<out T> { val t: T fun get(): T }`,
		},
		{
			name:  "producer in consumer position",
			src:   `class Box<out T> { fun set(t: T) }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name:  "producer in mutable property",
			src:   `class Box<out T> { var t: T }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name:  "consumer in producer position",
			src:   `class Box<in T> { val t: T }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name: "consumer in consumer position",
			src:  `class Box<in T> { fun set(t: T) }`,
		},
		{
			name: "invariant anywhere",
			src:  `class Box<T> { var t: T fun set(t: T): T }`,
		},
		{
			name: "contravariant argument flips position",
			src:  `class Box<out T> { fun drain(to: Sink<T>) }`,
		},
		{
			name:  "contravariant argument of a return type",
			src:   `class Box<out T> { fun sink(): Sink<T> }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name: "twice contravariant",
			src:  `class Box<out T> { fun nested(): Sink<Sink<T>> }`,
		},
		{
			name:  "invariant argument",
			src:   `class Box<out T> { val items: MutableList<T> }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name: "out projected invariant argument",
			src:  `class Box<out T> { val items: MutableList<out T> }`,
		},
		{
			name:  "arrays are invariant",
			src:   `class Box<out T> { val items: Array<T> }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name:  "function type parameter bound",
			src:   `class Box<out T> { fun <R : T> put(r: R) }`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name:  "variance on function type parameter",
			src:   `fun <out T> copy(from: T, to: Sink<T>)`,
			codes: []ilerr.ErrCode{ilerr.VarianceOnFunctionTypeParam},
		},
		{
			name:  "variance on member function type parameter",
			src:   `class Box { fun <in T> put(t: T) }`,
			codes: []ilerr.ErrCode{ilerr.VarianceOnFunctionTypeParam},
		},
		{
			name:  "wildcard type parameter",
			src:   `class Box<*>`,
			codes: []ilerr.ErrCode{ilerr.MisplacedWildcard},
		},
		{
			name:  "projected wildcard",
			src:   `fun f(s: Source<out *>)`,
			codes: []ilerr.ErrCode{ilerr.MisplacedWildcard},
		},
		{
			name:  "conflicting projection",
			src:   `fun f(s: Source<in User>)`,
			codes: []ilerr.ErrCode{ilerr.ConflictingVariance},
		},
		{
			name:  "redundant projection",
			src:   `fun f(s: Sink<in User>)`,
			codes: []ilerr.ErrCode{ilerr.ProjectionRedundant},
		},
		{
			name:  "projected supertype argument",
			src:   `class Box<T> : Source<out T>`,
			codes: []ilerr.ErrCode{ilerr.ProjectionInSupertype},
		},
		{
			name:  "wildcard supertype argument",
			src:   `class Box : Source<*>`,
			codes: []ilerr.ErrCode{ilerr.ProjectionInSupertype},
		},
		{
			name: "nested supertype argument can be projected",
			src:  `class Box : Source<MutableList<out User>>`,
		},
		{
			name:  "supertype respects variance",
			src:   `class Box<out T> : Sink<T>`,
			codes: []ilerr.ErrCode{ilerr.VariancePosition},
		},
		{
			name:  "final supertype",
			src:   `class Box : Guest`,
			codes: []ilerr.ErrCode{ilerr.InheritsFinal},
		},
		{
			name:  "unknown type",
			src:   `fun f(u: Usr)`,
			codes: []ilerr.ErrCode{ilerr.UndefinedType},
		},
		{
			name:  "too many arguments",
			src:   `fun f(s: Source<User, User>)`,
			codes: []ilerr.ErrCode{ilerr.TypeArgumentCount},
		},
		{
			name:  "raw use in a declaration",
			src:   `fun f(s: Source)`,
			codes: []ilerr.ErrCode{ilerr.TypeArgumentCount},
		},
		{
			name:  "arguments on a type parameter",
			src:   `fun <T> f(t: T<User>)`,
			codes: []ilerr.ErrCode{ilerr.TypeArgumentCount},
		},
		{
			name:  "inheritance cycle",
			src:   "open class A : B\nopen class B : A",
			codes: []ilerr.ErrCode{ilerr.InheritanceCycle},
		},
		{
			name:  "self inheritance",
			src:   `open class A : A`,
			codes: []ilerr.ErrCode{ilerr.InheritanceCycle},
		},
		{
			name:  "conflicting overloads",
			src:   "fun f(s: Source<User>)\nfun f(s: Source<Guest>)",
			codes: []ilerr.ErrCode{ilerr.OverloadClash},
		},
		{
			name: "overloads with different erasure",
			src:  "fun f(s: Source<User>)\nfun f(s: Sink<User>)",
		},
		{
			name:  "conflicting member overloads",
			src:   `class Box { fun f(s: Source<User>) fun f(s: Source<Any>) }`,
			codes: []ilerr.ErrCode{ilerr.OverloadClash},
		},
		{
			name:  "duplicate class",
			src:   `class Guest`,
			codes: []ilerr.ErrCode{ilerr.DuplicateDeclaration},
		},
		{
			name:  "builtin class",
			src:   `class Unit`,
			codes: []ilerr.ErrCode{ilerr.DuplicateDeclaration},
		},
		{
			name:  "duplicate property",
			src:   `class Box { val a: User val a: Guest }`,
			codes: []ilerr.ErrCode{ilerr.DuplicateDeclaration},
		},
		{
			name:  "duplicate type parameter",
			src:   `class Box<T, T>`,
			codes: []ilerr.ErrCode{ilerr.DuplicateDeclaration},
		},
		{
			name: "class parameter in member function",
			src:  `class Box<in T> { fun <R : User> put(t: T, r: R): R }`,
		},
		{
			name:  "cyclic function type parameter bounds",
			src:   `fun <T : U, U : T> g(x: T)`,
			codes: []ilerr.ErrCode{ilerr.CyclicBound},
		},
		{
			name:  "type parameter bounded by itself",
			src:   `class Box<T : T>`,
			codes: []ilerr.ErrCode{ilerr.CyclicBound},
		},
		{
			name:  "cyclic class type parameter bounds",
			src:   `class Box<T : U, U : T> { val items: MutableList<T> fun put(t: T): U }`,
			codes: []ilerr.ErrCode{ilerr.CyclicBound},
		},
		{
			name: "chained bounds",
			src:  `fun <T : U, U : User> g(x: T): U`,
		},
		{
			name: "reified function type parameter",
			src:  `fun <reified T : User> isGivenType(instance: Any)`,
		},
		{
			name:  "reified class type parameter",
			src:   `class Box<reified T>`,
			codes: []ilerr.ErrCode{ilerr.ReifiedClassTypeParam},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, errs := checkSource(t, prelude+test.src)
			assert.Equal(t, test.codes, codesOf(errs), "%v", errs.Errors())
		})
	}
}

func TestDeclarationCheckMessages(t *testing.T) {
	tests := map[string]struct {
		src  string
		want string
	}{
		"position": {
			src:  `class Box<out T> { fun sink(): Sink<T> }`,
			want: "type parameter 'T' is declared as 'out' but occurs in 'in' position in type 'Sink<T>'",
		},
		"function type parameter": {
			src:  `fun <out T> f()`,
			want: "variance annotation 'out' is only allowed for type parameters of classes and interfaces, not on 'T'",
		},
		"suggestion": {
			src:  `fun f(u: Usr)`,
			want: "unresolved type 'Usr', did you mean 'User'?",
		},
		"cycle": {
			src:  "open class A : B\nopen class B : A",
			want: "there's a cycle in the inheritance hierarchy: A -> B -> A",
		},
		"cyclic bound": {
			src:  `fun <T : U, U : T> g(x: T)`,
			want: "type parameter 'T' has a cyclic upper bound: T : U : T",
		},
		"reified class parameter": {
			src:  `class Box<reified T>`,
			want: "type parameter 'T' of 'Box' cannot be reified: only type parameters of functions can",
		},
		"conflicting projection": {
			src:  `fun f(s: Source<in User>)`,
			want: "conflicting projection: type argument for 'T' is declared 'out' but projected as 'in'",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, errs := checkSource(t, prelude+test.src)
			require.Equal(t, 1, errs.Len())
			assert.Equal(t, test.want, errs.Errors()[0].Error())
		})
	}
}

func TestCheckDeclarationsKeepsGoing(t *testing.T) {
	ctx, errs := checkSource(t, prelude+`
class Box<out T> {
    fun set(t: T)
    val missing: Nope
}
fun <in T> f(t: Box<in T>)
`)
	assert.ElementsMatch(t, []ilerr.ErrCode{
		ilerr.VariancePosition,
		ilerr.UndefinedType,
		ilerr.VarianceOnFunctionTypeParam,
		ilerr.ConflictingVariance,
	}, codesOf(errs))
	assert.True(t, errs.HasError())

	box, ok := ctx.Table().Class("Box")
	require.True(t, ok, "classes with errors are still declared")
	assert.Len(t, box.Properties, 1)
	assert.Len(t, box.Functions, 1)
}

func TestWarningsOnly(t *testing.T) {
	_, errs := checkSource(t, prelude+`
final class Id
class Box<T : Id>
fun f(s: Source<out User>)
`)
	assert.Equal(t, []ilerr.ErrCode{ilerr.FinalBound, ilerr.ProjectionRedundant}, codesOf(errs))
	assert.False(t, errs.HasError())
	assert.Len(t, errs.Warnings(), 2)
}
