//go:build js && wasm

package variance

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/types"
)

func formatErrors(header string, errs *ilerr.Errors, pkg *Package) string {
	sb := strings.Builder{}
	sb.WriteString(header)
	sb.WriteByte('\n')
	for _, diagnostic := range errs.Sorted() {
		sb.WriteString(ilerr.FormatWithCodeAndSource(diagnostic, pkg))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CheckAndShowDeclarations checks program and prints its resolved declarations,
// or alternatively displays error messages if the program does not parse or check
func CheckAndShowDeclarations(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "checker panicked: " + fmt.Sprint(r)
		}
	}()

	program := args[0].String()
	pkg, errs, err := NewPackageFromBytes([]byte(program), "program")
	if err != nil {
		return fmt.Sprintf("the checker encountered a failure:\n\n%s", err)
	}
	if errs.HasError() {
		return formatErrors("the program has the following errors:", errs, pkg)
	}
	return pkg.DisplayDeclarations()
}

// CheckSubtype answers whether args[1] is a subtype of args[2], given the declarations in args[0].
// An optional args[3] selects the runtime mode used for the cast between them.
//
// output: { error: string } | { subtype: bool, assignable: bool, summary: string, cast: string }
func CheckSubtype(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{
			"error": err,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("checker panicked: " + fmt.Sprint(r))
		}
	}()
	if len(args) < 3 {
		return errorObj(fmt.Sprintf("expected at least 3 arguments, got %d", len(args)))
	}
	mode := types.Erased
	if len(args) > 3 {
		var err error
		if mode, err = types.ParseRuntimeMode(args[3].String()); err != nil {
			return errorObj(err.Error())
		}
	}

	pkg, errs, err := NewPackageFromBytes([]byte(args[0].String()), "program", types.WithRuntimeMode(mode))
	if err != nil {
		return errorObj(fmt.Sprintf("the checker encountered a failure:\n\n%s", err))
	}
	if errs.HasError() {
		return errorObj(formatErrors("the program has the following errors:", errs, pkg))
	}
	res, errs := pkg.Subtype(args[1].String(), args[2].String())
	if errs.HasError() {
		return errorObj(formatErrors("the query has the following errors:", errs, pkg))
	}
	return js.ValueOf(map[string]any{
		"subtype":    res.Subtype,
		"assignable": res.Assignable,
		"summary":    res.String(),
		"cast":       pkg.TypeCtx.CheckCast(res.A, res.B).String(),
	})
}
