package parser

import (
	"fmt"
	"go/token"
	"strings"
	"text/scanner"

	"github.com/cottand/variance/frontend/ast"
)

const (
	kwClass     = "class"
	kwInterface = "interface"
	kwFun       = "fun"
	kwVal       = "val"
	kwVar       = "var"
	kwOut       = "out"
	kwIn        = "in"
	kwOpen      = "open"
	kwAbstract  = "abstract"
	kwFinal     = "final"
	kwArray     = "array"
	kwReified   = "reified"
)

// bailout is raised to abandon the current declaration after a syntax error
type bailout struct{}

type parser struct {
	file    *token.File
	scanner scanner.Scanner
	errs    *syntaxErrors

	// current token
	tok  rune
	text string
	pos  token.Pos
	// end of the last consumed token
	prevEnd token.Pos
	// brace nesting of the current token, used to resynchronise after errors
	depth int
}

func newParser(file *token.File, src []byte) *parser {
	p := &parser{file: file, errs: &syntaxErrors{file: file}}
	p.scanner.Init(strings.NewReader(string(src)))
	p.scanner.Filename = file.Name()
	p.scanner.Mode = scanner.ScanIdents | scanner.ScanComments | scanner.SkipComments
	p.scanner.Error = p.errs.scannerError
	p.next()
	return p
}

func (p *parser) next() {
	if p.tok == '{' {
		p.depth++
	}
	if p.tok == '}' {
		p.depth--
	}
	if p.text != "" || p.tok != 0 {
		p.prevEnd = p.pos + token.Pos(len(p.text))
	}
	p.tok = p.scanner.Scan()
	p.text = p.scanner.TokenText()
	offset := p.scanner.Position.Offset
	if p.tok == scanner.EOF {
		offset = p.file.Size()
		p.text = ""
	}
	p.pos = p.file.Pos(offset)
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok == scanner.Ident && p.text == kw
}

func (p *parser) describeCurrent() string {
	switch p.tok {
	case scanner.EOF:
		return "end of file"
	case scanner.Ident:
		return fmt.Sprintf("'%s'", p.text)
	default:
		return fmt.Sprintf("'%c'", p.tok)
	}
}

func (p *parser) errorExpected(what string) {
	at := ast.Range{PosStart: p.pos, PosEnd: p.pos + token.Pos(len(p.text))}
	// point right after the last token rather than at the trailing blank lines
	if p.tok == scanner.EOF && p.prevEnd.IsValid() {
		at = ast.Range{PosStart: p.prevEnd, PosEnd: p.prevEnd}
	}
	p.errs.add(at, fmt.Sprintf("expected %s, found %s", what, p.describeCurrent()), "")
	panic(bailout{})
}

func (p *parser) expect(tok rune) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(fmt.Sprintf("'%c'", tok))
	}
	p.next()
	return pos
}

func (p *parser) expectIdent() (string, ast.Range) {
	if p.tok != scanner.Ident {
		p.errorExpected("identifier")
	}
	name, r := p.text, ast.Range{PosStart: p.pos, PosEnd: p.pos + token.Pos(len(p.text))}
	p.next()
	return name, r
}

func (p *parser) startsDeclaration() bool {
	if p.tok != scanner.Ident {
		return false
	}
	switch p.text {
	case kwClass, kwInterface, kwFun, kwOpen, kwAbstract, kwFinal, kwArray:
		return true
	}
	return false
}

// sync skips tokens until the start of the next top-level declaration
func (p *parser) sync(startDepth int) {
	for p.tok != scanner.EOF {
		if p.depth <= startDepth && p.startsDeclaration() {
			return
		}
		p.next()
	}
}

func (p *parser) parseFile(name string) *ast.File {
	f := &ast.File{Name: name, Range: ast.Range{PosStart: p.pos}}
	for p.tok != scanner.EOF {
		p.parseDeclaration(f)
	}
	f.PosEnd = p.pos
	return f
}

func (p *parser) parseDeclaration(f *ast.File) {
	depth, start := p.depth, p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			// always make progress
			if p.pos == start {
				p.next()
			}
			p.sync(depth)
		}
	}()
	if p.isKeyword(kwFun) {
		f.Functions = append(f.Functions, p.parseFunction())
		return
	}
	f.Classes = append(f.Classes, p.parseClass())
}

func (p *parser) parseClass() *ast.ClassDecl {
	decl := &ast.ClassDecl{Range: ast.Range{PosStart: p.pos}}
modifiers:
	for {
		switch {
		case p.isKeyword(kwOpen):
			decl.Open = true
		case p.isKeyword(kwAbstract):
			decl.Abstract = true
		case p.isKeyword(kwFinal):
			decl.Final = true
		case p.isKeyword(kwArray):
			decl.Array = true
		default:
			break modifiers
		}
		p.next()
	}
	switch {
	case p.isKeyword(kwClass):
		decl.Kind = ast.KindClass
	case p.isKeyword(kwInterface):
		decl.Kind = ast.KindInterface
	default:
		p.errorExpected("'class', 'interface' or 'fun'")
	}
	p.next()
	decl.Name, _ = p.expectIdent()
	if p.tok == '<' {
		decl.TypeParams = p.parseTypeParams()
	}
	if p.tok == ':' {
		p.next()
		decl.Supertypes = append(decl.Supertypes, p.parseType())
		for p.tok == ',' {
			p.next()
			decl.Supertypes = append(decl.Supertypes, p.parseType())
		}
	}
	decl.PosEnd = p.prevEnd
	if p.tok != '{' {
		return decl
	}
	p.next()
	for p.tok != '}' {
		switch {
		case p.isKeyword(kwVal), p.isKeyword(kwVar):
			decl.Properties = append(decl.Properties, p.parseProperty())
		case p.isKeyword(kwFun):
			decl.Functions = append(decl.Functions, p.parseFunction())
		default:
			p.errorExpected("'val', 'var', 'fun' or '}'")
		}
	}
	p.expect('}')
	decl.PosEnd = p.prevEnd
	return decl
}

func (p *parser) parseProperty() *ast.PropertyDecl {
	prop := &ast.PropertyDecl{Range: ast.Range{PosStart: p.pos}, Mutable: p.isKeyword(kwVar)}
	p.next()
	prop.Name, _ = p.expectIdent()
	p.expect(':')
	prop.Type = p.parseType()
	prop.PosEnd = p.prevEnd
	return prop
}

func (p *parser) parseFunction() *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Range: ast.Range{PosStart: p.pos}}
	p.next()
	if p.tok == '<' {
		fn.TypeParams = p.parseTypeParams()
	}
	fn.Name, _ = p.expectIdent()
	p.expect('(')
	for p.tok != ')' {
		if len(fn.Params) > 0 {
			p.expect(',')
		}
		param := &ast.ParamDecl{Range: ast.Range{PosStart: p.pos}}
		param.Name, _ = p.expectIdent()
		p.expect(':')
		param.Type = p.parseType()
		param.PosEnd = p.prevEnd
		fn.Params = append(fn.Params, param)
	}
	p.expect(')')
	if p.tok == ':' {
		p.next()
		fn.Return = p.parseType()
	}
	fn.PosEnd = p.prevEnd
	return fn
}

func (p *parser) parseTypeParams() []*ast.TypeParamDecl {
	p.expect('<')
	var params []*ast.TypeParamDecl
	for {
		params = append(params, p.parseTypeParam())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect('>')
	return params
}

func (p *parser) parseTypeParam() *ast.TypeParamDecl {
	param := &ast.TypeParamDecl{Range: ast.Range{PosStart: p.pos}}
	if p.tok == '*' {
		p.next()
		param.Star = true
		param.PosEnd = p.prevEnd
		return param
	}
	if p.isKeyword(kwReified) && p.followedByName() {
		param.Reified = true
		p.next()
	}
	if variance, ok := p.varianceKeyword(); ok {
		param.Variance = variance
		p.next()
	}
	param.Name, _ = p.expectIdent()
	if p.tok == ':' {
		p.next()
		param.Bound = p.parseType()
	}
	param.PosEnd = p.prevEnd
	return param
}

// varianceKeyword recognises 'out' and 'in' only when they are followed by
// something, so that they can still be used as names
func (p *parser) varianceKeyword() (ast.Variance, bool) {
	if p.tok != scanner.Ident {
		return ast.Invariant, false
	}
	var v ast.Variance
	switch p.text {
	case kwOut:
		v = ast.Producer
	case kwIn:
		v = ast.Consumer
	default:
		return ast.Invariant, false
	}
	if !p.followedByName() {
		return ast.Invariant, false
	}
	return v, true
}

// followedByName reports whether the current identifier is a modifier of a name that follows
func (p *parser) followedByName() bool {
	switch p.scanner.Peek() {
	case ',', '>', ':', scanner.EOF:
		return false
	}
	return true
}

func (p *parser) parseType() *ast.TypeExpr {
	t := &ast.TypeExpr{Range: ast.Range{PosStart: p.pos}}
	t.Name, _ = p.expectIdent()
	if p.tok == '<' {
		p.next()
		t.Args = []*ast.TypeArgExpr{}
		for {
			t.Args = append(t.Args, p.parseTypeArg())
			if p.tok != ',' {
				break
			}
			p.next()
		}
		p.expect('>')
	}
	t.PosEnd = p.prevEnd
	return t
}

func (p *parser) parseTypeArg() *ast.TypeArgExpr {
	arg := &ast.TypeArgExpr{Range: ast.Range{PosStart: p.pos}}
	if variance, ok := p.varianceKeyword(); ok {
		if variance == ast.Producer {
			arg.Projection = ast.ProjectionOut
		} else {
			arg.Projection = ast.ProjectionIn
		}
		p.next()
	}
	if p.tok == '*' {
		p.next()
		arg.Star = true
	} else {
		arg.Type = p.parseType()
	}
	arg.PosEnd = p.prevEnd
	return arg
}
