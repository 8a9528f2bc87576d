package parser_test

import (
	"go/token"
	"testing"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParse(t *testing.T, input string) (*ast.File, *ilerr.Errors) {
	f, errs := parser.ParseFile(token.NewFileSet(), "test.vdl", []byte(input))
	require.NotNil(t, f)
	return f, errs
}

func noErrors(t *testing.T, errs *ilerr.Errors) {
	t.Helper()
	for _, err := range errs.Errors() {
		t.Errorf("unexpected error: %s", ilerr.FormatWithCode(err))
	}
}

var ignoreRanges = cmpopts.IgnoreTypes(ast.Range{})

func named(name string, args ...*ast.TypeArgExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Name: name, Args: args}
}

func arg(t *ast.TypeExpr) *ast.TypeArgExpr { return &ast.TypeArgExpr{Type: t} }

func TestNoPanics(t *testing.T) {
	files := map[string]string{
		"empty":                  ``,
		"lonely keyword":         `class`,
		"unclosed params":        `class A<T`,
		"unclosed body":          `class A { val x: Int`,
		"garbage":                `@@ ## !!`,
		"fun without parens":     `fun f`,
		"unterminated comment":   `class A /* nope`,
		"projection without arg": `class A : B<out>`,
	}

	for name, file := range files {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _ = parser.ParseFile(token.NewFileSet(), name, []byte(file))
			})
		})
	}
}

func TestClassHeader(t *testing.T) {
	src, errs := testParse(t, `
// a producer
open class Box<out T : Number, in U> : Source<T>, Sink<U>
`)
	noErrors(t, errs)
	require.Len(t, src.Classes, 1)

	expected := &ast.ClassDecl{
		Name:      "Box",
		Kind:      ast.KindClass,
		Modifiers: ast.Modifiers{Open: true},
		TypeParams: []*ast.TypeParamDecl{
			{Name: "T", Variance: ast.Producer, Bound: named("Number")},
			{Name: "U", Variance: ast.Consumer},
		},
		Supertypes: []*ast.TypeExpr{
			named("Source", arg(named("T"))),
			named("Sink", arg(named("U"))),
		},
	}
	if diff := cmp.Diff(expected, src.Classes[0], ignoreRanges); diff != "" {
		t.Errorf("unexpected class (-want +got):\n%s", diff)
	}
	assert.False(t, src.Classes[0].IsFinal())
}

func TestClassBody(t *testing.T) {
	src, errs := testParse(t, `
interface MutableList<E> : List<E> {
    val size: Int
    var first: E
    fun add(e: E): Unit
    fun <R : E> map(f: Fn<in E, out R>): MutableList<R>
    fun clear()
}
`)
	noErrors(t, errs)
	require.Len(t, src.Classes, 1)
	class := src.Classes[0]
	assert.Equal(t, ast.KindInterface, class.Kind)
	assert.False(t, class.IsFinal())

	require.Len(t, class.Properties, 2)
	assert.False(t, class.Properties[0].Mutable)
	assert.True(t, class.Properties[1].Mutable)
	assert.Equal(t, "E", class.Properties[1].Type.Name)

	require.Len(t, class.Functions, 3)
	mapFn := class.Functions[1]
	expected := &ast.FunctionDecl{
		Name:       "map",
		TypeParams: []*ast.TypeParamDecl{{Name: "R", Bound: named("E")}},
		Params: []*ast.ParamDecl{{
			Name: "f",
			Type: named("Fn",
				&ast.TypeArgExpr{Projection: ast.ProjectionIn, Type: named("E")},
				&ast.TypeArgExpr{Projection: ast.ProjectionOut, Type: named("R")},
			),
		}},
		Return: named("MutableList", arg(named("R"))),
	}
	if diff := cmp.Diff(expected, mapFn, ignoreRanges); diff != "" {
		t.Errorf("unexpected function (-want +got):\n%s", diff)
	}
	assert.Nil(t, class.Functions[2].Return)
	assert.Equal(t, "fun <R : E> map(f: Fn<in E, out R>): MutableList<R>", mapFn.String())
}

func TestTopLevelFunction(t *testing.T) {
	src, errs := testParse(t, `fun <out T> copy(from: Array<out T>, to: Array<in T>)`)
	noErrors(t, errs)
	require.Len(t, src.Functions, 1)
	fn := src.Functions[0]
	assert.Equal(t, "copy", fn.Name)
	require.Len(t, fn.TypeParams, 1)
	assert.Equal(t, ast.Producer, fn.TypeParams[0].Variance, "variance is kept so that it can be reported")
	assert.Equal(t, "Array<out T>", fn.Params[0].Type.String())
	assert.Equal(t, "Array<in T>", fn.Params[1].Type.String())
}

func TestWildcards(t *testing.T) {
	src, errs := testParse(t, `
class A<*>
class B : C<*, out *>
`)
	noErrors(t, errs)
	require.Len(t, src.Classes, 2)
	assert.True(t, src.Classes[0].TypeParams[0].Star)

	args := src.Classes[1].Supertypes[0].Args
	require.Len(t, args, 2)
	assert.True(t, args[0].Star)
	assert.Equal(t, ast.ProjectionNone, args[0].Projection)
	assert.True(t, args[1].Star)
	assert.Equal(t, ast.ProjectionOut, args[1].Projection)
	assert.Equal(t, "C<*, out *>", src.Classes[1].Supertypes[0].String())
}

func TestOutAndInAsNames(t *testing.T) {
	src, errs := testParse(t, `class A : B<out, in>`)
	noErrors(t, errs)
	args := src.Classes[0].Supertypes[0].Args
	require.Len(t, args, 2)
	assert.Equal(t, "out", args[0].Type.Name)
	assert.Equal(t, ast.ProjectionNone, args[0].Projection)
	assert.Equal(t, "in", args[1].Type.Name)
}

func TestRecoversAfterError(t *testing.T) {
	src, errs := testParse(t, `
class Broken<T : > {
    val x: T
}
class Fine<out T>
fun ok(): Fine<Any>
`)
	require.Len(t, errs.Errors(), 1)
	assert.Equal(t, ilerr.Parse, errs.Errors()[0].Code())

	require.Len(t, src.Classes, 1)
	assert.Equal(t, "Fine", src.Classes[0].Name)
	require.Len(t, src.Functions, 1)
	assert.Equal(t, "ok", src.Functions[0].Name)
}

func TestErrorPositions(t *testing.T) {
	fset := token.NewFileSet()
	_, errs := parser.ParseFile(fset, "pos.vdl", []byte("class A\nclass B<T"))
	require.Len(t, errs.Errors(), 1)
	pos := fset.Position(errs.Errors()[0].Pos())
	assert.Equal(t, "pos.vdl", pos.Filename)
	assert.Equal(t, 2, pos.Line)
}

func TestRanges(t *testing.T) {
	fset := token.NewFileSet()
	input := "class Box<out T> : Source<T>"
	src, errs := parser.ParseFile(fset, "r.vdl", []byte(input))
	noErrors(t, errs)
	super := src.Classes[0].Supertypes[0]
	start := fset.Position(super.Pos()).Offset
	end := fset.Position(super.End()).Offset
	assert.Equal(t, "Source<T>", input[start:end])

	param := src.Classes[0].TypeParams[0]
	start = fset.Position(param.Pos()).Offset
	end = fset.Position(param.End()).Offset
	assert.Equal(t, "out T", input[start:end])
}

func TestParseType(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"simple":         {input: "Int", want: "Int"},
		"nested":         {input: "Map<K, List<out V>>", want: "Map<K, List<out V>>"},
		"star":           {input: "Box<*>", want: "Box<*>"},
		"trailing input": {input: "Box<Int> Int", wantErr: true},
		"unclosed":       {input: "Box<Int", wantErr: true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			typ, errs := parser.ParseType(token.NewFileSet(), name, test.input)
			if test.wantErr {
				assert.True(t, errs.HasError())
				return
			}
			noErrors(t, errs)
			assert.Equal(t, test.want, typ.String())
		})
	}
}

func TestReified(t *testing.T) {
	src, errs := testParse(t, `
fun <reified T : Any, reified> f(t: T)
class Box<reified out T>
`)
	noErrors(t, errs)
	require.Len(t, src.Functions, 1)
	params := src.Functions[0].TypeParams
	expected := []*ast.TypeParamDecl{
		{Name: "T", Reified: true, Bound: named("Any")},
		{Name: "reified"},
	}
	if diff := cmp.Diff(expected, params, ignoreRanges); diff != "" {
		t.Errorf("unexpected type parameters (-want +got):\n%s", diff)
	}

	require.Len(t, src.Classes, 1)
	assert.Equal(t, "reified out T", src.Classes[0].TypeParams[0].String())
}

func TestEndOfFileErrorPosition(t *testing.T) {
	fset := token.NewFileSet()
	_, errs := parser.ParseFile(fset, "eof.vdl", []byte("class A\nclass B<T\n\n\n"))
	require.Len(t, errs.Errors(), 1)
	pos := fset.Position(errs.Errors()[0].Pos())
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 10, pos.Column, "right after the last token")
}
