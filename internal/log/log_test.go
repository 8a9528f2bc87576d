package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilteringHandler(t *testing.T) {
	SetLevel(slog.LevelDebug)
	t.Cleanup(func() {
		SetLevel(slog.LevelWarn)
		SetSections(SectionTypes, SectionParser, SectionPackage, SectionCLI)
	})
	SetSections(SectionTypes)

	t.Run("section attached with With", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewLogger(buf).With("section", SectionTypes).Debug("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("section on the record", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewLogger(buf).Debug("kept", "section", SectionTypes)
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("disabled section", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewLogger(buf).With("section", SectionParser).Debug("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("warnings are never filtered", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewLogger(buf).With("section", SectionParser).Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("level", func(t *testing.T) {
		SetLevel(slog.LevelInfo)
		defer SetLevel(slog.LevelDebug)
		buf := &bytes.Buffer{}
		NewLogger(buf).With("section", SectionTypes).Debug("dropped")
		assert.Empty(t, buf.String())
	})
}
