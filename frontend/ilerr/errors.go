package ilerr

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
)

// Errors accumulates the diagnostics of a compilation phase.
// A nil *Errors is empty and valid.
type Errors struct {
	errs []Diagnostic
}

func (r *Errors) With(err ...Diagnostic) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []Diagnostic {
	if r == nil {
		return nil
	}
	return r.errs
}

// HasError reports whether any diagnostic that is not a warning was recorded
func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	for _, e := range r.errs {
		if !e.Code().IsWarning() {
			return true
		}
	}
	return false
}

// Warnings returns the diagnostics which do not prevent a declaration from being used
func (r *Errors) Warnings() []Diagnostic {
	if r == nil {
		return nil
	}
	var ws []Diagnostic
	for _, e := range r.errs {
		if e.Code().IsWarning() {
			ws = append(ws, e)
		}
	}
	return ws
}

func (r *Errors) Len() int {
	if r == nil {
		return 0
	}
	return len(r.errs)
}

// Sorted returns the diagnostics ordered by source position, then by code
func (r *Errors) Sorted() []Diagnostic {
	if r == nil {
		return nil
	}
	sorted := slices.Clone(r.errs)
	slices.SortStableFunc(sorted, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Pos(), b.Pos()); c != 0 {
			return c
		}
		return cmp.Compare(a.Code(), b.Code())
	})
	return sorted
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
