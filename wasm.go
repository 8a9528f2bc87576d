//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/variance/variance"
)

func main() {
	js.Global().Set("CheckAndShowDeclarations", js.FuncOf(variance.CheckAndShowDeclarations))
	js.Global().Set("CheckSubtype", js.FuncOf(variance.CheckSubtype))

	// wait indefinitely so that Go does not terminate execution
	// and the functions remain available
	<-make(chan struct{})
}
