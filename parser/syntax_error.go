package parser

import (
	"go/token"
	"text/scanner"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
)

type syntaxErrors struct {
	file   *token.File
	Errors *ilerr.Errors
}

func (e *syntaxErrors) add(at ast.Range, msg, hint string) {
	e.Errors = e.Errors.With(ilerr.New(ilerr.Syntax{
		Positioner:    at,
		ParserMessage: msg,
		Hint:          hint,
	}))
}

// scannerError reports problems found while tokenizing, like unterminated comments
func (e *syntaxErrors) scannerError(s *scanner.Scanner, msg string) {
	offset := s.Position.Offset
	if !s.Position.IsValid() {
		offset = s.Pos().Offset
	}
	offset = min(max(offset, 0), e.file.Size())
	start := e.file.Pos(offset)
	e.add(ast.Range{PosStart: start, PosEnd: start}, msg, "")
}
