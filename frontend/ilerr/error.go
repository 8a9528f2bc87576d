package ilerr

import (
	"bytes"
	"fmt"
	"go/token"
	"runtime/debug"
	"strings"

	"github.com/cottand/variance/frontend/ast"
)

// EnableDebugErrorPrinting makes errors include the frame that created them when printed
var EnableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	Parse
	BoundNotSatisfied
	ConflictingVariance
	ProjectionInSupertype
	VarianceOnFunctionTypeParam
	MisplacedWildcard
	ProjectionOnCallTypeArg
	VariancePosition
	UndefinedType
	TypeArgumentCount
	InheritanceCycle
	InheritsFinal
	OverloadClash
	DuplicateDeclaration

	// warnings

	FinalBound
	ProjectionRedundant

	// errors

	CyclicBound
	ReifiedClassTypeParam
)

// IsWarning reports whether diagnostics with this code still allow a declaration to be used
func (c ErrCode) IsWarning() bool {
	return c == FinalBound || c == ProjectionRedundant
}

// Diagnostic is a user-facing problem found in the source, always tied to a position
type Diagnostic interface {
	Error() string
	Code() ErrCode
	ast.Positioner

	withStack([]byte) Diagnostic
	getStack() []byte
}

func FormatWithCode(e Diagnostic) string {
	letter := "E"
	if e.Code().IsWarning() {
		letter = "W"
	}
	if EnableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			lines := strings.Split(stack, "\n")
			if len(lines) > 6 {
				stack = strings.TrimSpace(lines[6])
			}
		}
		return fmt.Sprintf("%s:(%s%03d) %s", stack, letter, e.Code(), e.Error())
	}
	return fmt.Sprintf("(%s%03d) %s", letter, e.Code(), e.Error())
}

// SourceProvider gives access to the original text of parsed files, so
// that diagnostics can be shown next to the code they refer to
type SourceProvider interface {
	FileSet() *token.FileSet
	Source(filename string) []byte
}

// FormatWithCodeAndSource renders e prefixed with its file location, followed
// by the offending line and a caret under the start of the range.
// When the position of e is unknown, it falls back to FormatWithCode.
func FormatWithCodeAndSource(e Diagnostic, src SourceProvider) string {
	msg := FormatWithCode(e)
	if src == nil || src.FileSet() == nil || !e.Pos().IsValid() {
		return msg
	}
	pos := src.FileSet().Position(e.Pos())
	header := fmt.Sprintf("%s: %s", pos, msg)
	line := sourceLine(src.Source(pos.Filename), pos.Line)
	if line == "" {
		return header
	}
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
	return fmt.Sprintf("%s\n    %s\n    %s", header, line, caret)
}

func sourceLine(src []byte, line int) string {
	if src == nil || line < 1 {
		return ""
	}
	lines := bytes.Split(src, []byte("\n"))
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(string(lines[line-1]), "\r")
}

// New records the stack of the caller into err
func New[E Diagnostic](err E) Diagnostic {
	return err.withStack(debug.Stack())
}
