package main

import (
	"embed"
	"path"
	"slices"
	"strings"
	"testing"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/util"
	"github.com/cottand/variance/variance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeds the test folder
//
//go:embed testdata
var testSet embed.FS

// format is as follows:
//
//	//vdl:expect E008 W016
//
// listing the codes of every diagnostic the file produces, in any order
func extractExpectedCodes(t *testing.T, content string) []string {
	firstLine, _ := util.StringTakeUntil(content, '\n')
	if !strings.HasPrefix(firstLine, "//vdl:expect") {
		t.Fatalf("could not parse comment string: '%v'", firstLine)
	}
	codes := strings.Fields(strings.TrimPrefix(firstLine, "//vdl:expect"))
	slices.Sort(codes)
	return codes
}

func codeOf(d ilerr.Diagnostic) string {
	code, _ := util.StringTakeUntil(strings.TrimPrefix(ilerr.FormatWithCode(d), "("), ')')
	return code
}

func TestDeclarationsEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("testdata")
	require.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), variance.FileExtension) {
			continue
		}
		t.Run(f.Name(), func(t *testing.T) {
			content, err := testSet.ReadFile(path.Join("testdata", f.Name()))
			require.NoError(t, err)
			expected := extractExpectedCodes(t, string(content))

			pkg, errs, err := variance.NewPackageFromBytes(content, f.Name())
			require.NoError(t, err)

			actual := []string{}
			formatted := &strings.Builder{}
			for _, d := range errs.Sorted() {
				actual = append(actual, codeOf(d))
				formatted.WriteString(ilerr.FormatWithCodeAndSource(d, pkg))
				formatted.WriteByte('\n')
			}
			slices.Sort(actual)
			if len(expected) == 0 {
				expected = []string{}
			}
			assert.Equal(t, expected, actual, "diagnostics:\n%s", formatted.String())
		})
	}
}
