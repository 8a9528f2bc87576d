package variance

import (
	"strings"
	"testing"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testError(t *testing.T, prog string, shouldContain ...string) {
	pkg, errs, err := NewPackageFromBytes([]byte(prog), "test.vdl")
	require.NoError(t, err)

	sb := strings.Builder{}
	for _, err := range errs.Sorted() {
		sb.WriteString(ilerr.FormatWithCodeAndSource(err, pkg))
		sb.WriteString("\n-----------\n")
	}
	errMsg := sb.String()
	for _, s := range shouldContain {
		assert.Contains(t, errMsg, s)
	}
	t.Log("error message:\n" + errMsg)
}

func TestErrorOffsetEOF(t *testing.T) {
	prog := `open class User


// a box
class Box<T

`
	testError(t, prog,
		"test.vdl:5:12: (E001) expected '>', found end of file",
		"    class Box<T\n               ^",
	)
}

func TestErrorOffsetStartOfLine(t *testing.T) {
	prog := `open class User

class Box<T> {
 val a: T
}
Missing
`
	testError(t, prog, "test.vdl:6:1:", "    Missing\n    ^")
}

func TestErrorOffsetMidLine(t *testing.T) {
	prog := `

// a comment
class A : Missing`

	testError(t, prog, "test.vdl:4:11: (E009) unresolved type 'Missing'", "    class A : Missing\n              ^")
}

func TestErrorOffsetLongFile(t *testing.T) {
	prog := "open class User" + strings.Repeat("\n", 20) + "class Box<out T> { fun set(t: T) }"

	testError(t, prog, "test.vdl:21:")
}
