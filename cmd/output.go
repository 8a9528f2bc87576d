package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/internal/config"
	"github.com/cottand/variance/util"
	"github.com/logrusorgru/aurora/v4"
	"github.com/mattn/go-isatty"
)

type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// printer writes diagnostics and results, colourised when the setting
// and the output allow it
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, setting string) printer {
	p := printer{w: w}
	switch setting {
	case config.ColorAlways:
		p.color = true
	case config.ColorAuto:
		if f, ok := w.(fdWriter); ok {
			p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return p
}

func (p printer) colorize(s string, color aurora.Color) string {
	if !p.color {
		return s
	}
	return aurora.Colorize(s, color).String()
}

// diagnostic renders d with its source line, colouring only its header
func (p printer) diagnostic(d ilerr.Diagnostic, src ilerr.SourceProvider) string {
	formatted := ilerr.FormatWithCodeAndSource(d, src)
	header, rest := util.StringTakeUntil(formatted, '\n')
	color := aurora.RedFg | aurora.BrightFg | aurora.BoldFm
	if d.Code().IsWarning() {
		color = aurora.YellowFg | aurora.BrightFg
	}
	header = p.colorize(header, color)
	if rest == "" {
		return header
	}
	return header + "\n" + rest
}

func (p printer) diagnostics(errs *ilerr.Errors, src ilerr.SourceProvider) {
	for _, d := range errs.Sorted() {
		_, _ = fmt.Fprintln(p.w, p.diagnostic(d, src))
	}
}

// summary describes how many errors and warnings errs holds, or the empty string when there are none
func summary(errs *ilerr.Errors) string {
	warnings := len(errs.Warnings())
	errors := errs.Len() - warnings
	var parts []string
	if errors > 0 {
		parts = append(parts, plural(errors, "error"))
	}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	return strings.Join(parts, " and ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (p printer) verdict(ok bool, msg string) {
	color := aurora.GreenFg
	if !ok {
		color = aurora.RedFg
	}
	_, _ = fmt.Fprintln(p.w, p.colorize(msg, color|aurora.BrightFg))
}
