package types_test

import (
	"go/token"
	"testing"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/types"
	"github.com/cottand/variance/parser"
	"github.com/stretchr/testify/require"
)

// userHierarchy is Any <- User <- Guest, plus a Container class with the given variance
type userHierarchy struct {
	ctx       *types.TypeCtx
	user      types.Type
	guest     types.Type
	container *types.ClassDef
}

func newUserHierarchy(variance ast.Variance) userHierarchy {
	user := types.NewClass("User", false, nil)
	guest := types.NewClass("Guest", true, nil, types.Apply(user))
	container := types.NewClass("Container", false, []*types.TypeParameter{types.NewTypeParameter("T", variance, nil)})

	table := types.NewTable().WithClass(user).WithClass(guest).WithClass(container)
	return userHierarchy{
		ctx:       types.NewTypeCtx(table),
		user:      types.Apply(user),
		guest:     types.Apply(guest),
		container: container,
	}
}

func (h userHierarchy) of(arg types.TypeArgument) types.Type {
	return types.Apply(h.container, arg)
}

// checkSource parses src, builds its table and checks every declaration in it
func checkSource(t *testing.T, src string) (*types.TypeCtx, *ilerr.Errors) {
	t.Helper()
	f, parseErrs := parser.ParseFile(token.NewFileSet(), t.Name()+".vdl", []byte(src))
	for _, err := range parseErrs.Errors() {
		t.Fatalf("unexpected syntax error: %s", ilerr.FormatWithCode(err))
	}
	table, errs := types.BuildTable([]*ast.File{f})
	ctx := types.NewTypeCtx(table)
	return ctx, errs.Merge(ctx.CheckDeclarations())
}

func codesOf(errs *ilerr.Errors) []ilerr.ErrCode {
	var codes []ilerr.ErrCode
	for _, err := range errs.Errors() {
		codes = append(codes, err.Code())
	}
	return codes
}

// typeOf resolves a type written in the same syntax as declarations
func typeOf(t *testing.T, ctx *types.TypeCtx, src string) types.Type {
	t.Helper()
	expr, errs := parser.ParseType(token.NewFileSet(), "type", src)
	require.False(t, errs.HasError(), "could not parse %s", src)
	typ, errs := ctx.ResolveType(expr)
	for _, err := range errs.Errors() {
		t.Fatalf("could not resolve %s: %s", src, ilerr.FormatWithCode(err))
	}
	return typ
}
