package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

const (
	SectionTypes   = "types"
	SectionParser  = "parser"
	SectionPackage = "package"
	SectionCLI     = "cli"
)

var enabledSections atomic.Pointer[[]string]

func init() {
	SetSections(SectionTypes, SectionParser, SectionPackage, SectionCLI)
}

// SetSections restricts records below slog.LevelWarn to those logged with
// a 'section' attribute starting with one of sections
func SetSections(sections ...string) {
	s := slices.Clone(sections)
	enabledSections.Store(&s)
}

func sectionEnabled(name string) bool {
	sections := enabledSections.Load()
	if sections == nil {
		return false
	}
	return slices.ContainsFunc(*sections, func(section string) bool {
		return strings.HasPrefix(name, section)
	})
}

var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelWarn)
}

// SetLevel changes the minimum level of DefaultLogger and every logger derived from it
func SetLevel(l slog.Level) {
	level.Set(l)
}

var LoggerOpts = &slog.HandlerOptions{
	AddSource: false,
	Level:     level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}
		return a
	},
}

var DefaultLogger = NewLogger(os.Stderr)

// NewLogger builds a section-filtering logger writing text records to w
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(w, LoggerOpts)})
}

var _ slog.Handler = &filteringHandler{}

type filteringHandler struct {
	underlying slog.Handler
	// sections were attached through WithAttrs, so they are not part of the records
	sections []string
}

func (f filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying.Handle(ctx, record)
	}
	wantSection := slices.ContainsFunc(f.sections, sectionEnabled)
	if !wantSection {
		record.Attrs(func(attr slog.Attr) bool {
			wantSection = attr.Key == "section" && sectionEnabled(attr.Value.String())
			// iterate as long as we have not found our section
			return !wantSection
		})
	}
	if !wantSection {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var newAttrs []slog.Attr
	sections := slices.Clone(f.sections)

	for _, attr := range attrs {
		if attr.Key == "section" {
			sections = append(sections, attr.Value.String())
		}
		newAttrs = append(newAttrs, attr)
	}
	return &filteringHandler{
		underlying: f.underlying.WithAttrs(newAttrs),
		sections:   sections,
	}
}

func (f filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		underlying: f.underlying.WithGroup(name),
		sections:   f.sections,
	}
}
