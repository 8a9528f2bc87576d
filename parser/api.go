package parser

import (
	"go/token"
	"text/scanner"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/internal/log"
)

var logger = log.DefaultLogger.With("section", log.SectionParser)

// ParseFile parses the declarations in src, registering the file in fset so that
// positions in the result and in the errors can be resolved.
//
// The returned file is never nil: declarations that could not be parsed are left out
// of it, and reported in the returned errors.
func ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, *ilerr.Errors) {
	return ParseTokenFile(fset.AddFile(filename, -1, len(src)), src)
}

// ParseTokenFile is like ParseFile, for a file that was already added to a token.FileSet
// with the size of src. Files can be registered up front so that their positions
// follow a fixed order, and then be parsed concurrently.
func ParseTokenFile(file *token.File, src []byte) (*ast.File, *ilerr.Errors) {
	file.SetLinesForContent(src)

	p := newParser(file, src)
	f := p.parseFile(file.Name())
	logger.Debug("parsed file", "file", file.Name(), "classes", len(f.Classes), "functions", len(f.Functions), "errors", p.errs.Errors)
	return f, p.errs.Errors
}

// ParseType parses a single type expression, like 'Box<out Number>'
func ParseType(fset *token.FileSet, name string, src string) (*ast.TypeExpr, *ilerr.Errors) {
	file := fset.AddFile(name, -1, len(src))
	file.SetLinesForContent([]byte(src))

	p := newParser(file, []byte(src))
	var t *ast.TypeExpr
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(bailout); !ok {
					panic(r)
				}
			}
		}()
		t = p.parseType()
		if p.tok != scanner.EOF {
			p.errorExpected("end of type")
		}
	}()
	return t, p.errs.Errors
}
