package parsers

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Registry:
// - Default() compiles every built-in language without error
// - Lookup accepts extensions with or without a leading dot
// - Unregistered extensions report no extractor
// - Extensions() lists every registered extension, sorted
// - Duplicate extensions are rejected but the first registration is kept
// - A language with a broken query is skipped while the rest still register
// - ExtractFile returns an empty list for unknown extensions
// - ExtractFile dispatches on the path's extension
// - ExtractFile logs files with syntax errors by path and still returns what it found

func TestNewRegistry_BuiltinLanguagesCompile(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(Languages...)
	require.NoError(t, err)
	assert.Len(t, r.Languages(), len(Languages))
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := Default()

	spec, ok := r.Lookup("ts")
	require.True(t, ok)
	assert.Equal(t, "typescript", spec.ID)

	spec, ok = r.Lookup(".tsx")
	require.True(t, ok)
	assert.Equal(t, "tsx", spec.ID)

	spec, ok = r.LookupPath("app/models/user.rb")
	require.True(t, ok)
	assert.Equal(t, "ruby", spec.Fence)

	_, ok = r.Lookup("md")
	assert.False(t, ok)
	assert.False(t, r.Supports("json"))
	assert.True(t, r.Supports("go"))
}

func TestRegistry_Extensions(t *testing.T) {
	t.Parallel()

	exts := Default().Extensions()
	assert.IsNonDecreasing(t, exts)
	for _, want := range []string{"rb", "js", "mjs", "cjs", "jsx", "ts", "mts", "cts", "tsx", "php", "phtml", "py", "pyw", "go", "java", "rs", "c", "h"} {
		assert.Contains(t, exts, want)
	}
}

func TestNewRegistry_DuplicateExtension(t *testing.T) {
	t.Parallel()

	ts := specByID(t, "typescript")
	clash := ts
	clash.ID = "other"
	clash.Extensions = []string{"ts"}

	r, err := NewRegistry(ts, clash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ts"`)

	spec, ok := r.Lookup("ts")
	require.True(t, ok)
	assert.Equal(t, "typescript", spec.ID)
}

func TestNewRegistry_BrokenQuerySkipped(t *testing.T) {
	t.Parallel()

	broken := specByID(t, "python")
	broken.Query = "(not_a_real_node) @function.name"

	r, err := NewRegistry(broken, specByID(t, "go"))
	require.Error(t, err)
	assert.False(t, r.Supports("py"))
	assert.True(t, r.Supports("go"))
}

func TestRegistry_ExtractFile(t *testing.T) {
	t.Parallel()

	r := Default()

	symbols := r.ExtractFile("README.md", []byte("# title\n"))
	assert.NotNil(t, symbols)
	assert.Empty(t, symbols)

	symbols = r.ExtractFile("pkg/server.go", []byte(goFixture))
	assert.Len(t, symbols, 4)
}

func TestRegistry_ExtractFileLogsSyntaxErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	r := Default()

	symbols := r.ExtractFile("web/Badge.js", []byte(jsxComponents))
	assert.Len(t, symbols, 3)
	assert.Empty(t, buf.String())

	broken := "def ok():\n    pass\n\ndef (((:\n"
	symbols = r.ExtractFile("tools/broken.py", []byte(broken))
	assert.NotNil(t, symbols)
	assert.Contains(t, buf.String(), "tools/broken.py has syntax errors")
}
