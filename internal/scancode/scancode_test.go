package scancode

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeShape = regexp.MustCompile(`^[a-z0-9-]+-[a-z0-9-]+-[a-z0-9]{6}$`)

func TestGenerate_Shape(t *testing.T) {
	code, err := Generate("Coderno Coffee", "Centrum")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "coderno-coffee-centrum-"), code)
	assert.Regexp(t, codeShape, code)
	assert.True(t, IsValidFormat(code), code)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := Generate("Cafe", "Main")
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "coderno-coffee", Clean("Coderno Coffee"))
	assert.Equal(t, "kawiarnia-u-ani", Clean("Kawiarnia u Ani!"))
	assert.Equal(t, "a-b", Clean("  A - - B  "))
	assert.Equal(t, "", Clean("żółć"))

	// Long names are capped without a trailing dash.
	long := Clean("a very long business name indeed")
	assert.LessOrEqual(t, len(long), 20)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat("coderno-coffee-centrum-a3f9k2"))

	assert.False(t, IsValidFormat("short"))
	assert.False(t, IsValidFormat("Has-Upper-Case-a3f9k2"))
	assert.False(t, IsValidFormat("spaces are bad-a3f9k2"))
	assert.False(t, IsValidFormat(strings.Repeat("x", 101)))
}
