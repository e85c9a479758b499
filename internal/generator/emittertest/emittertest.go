// Package emittertest holds checks shared by the emitter test suites.
package emittertest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/analyzer"
	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
	"github.com/mcncl/polytyper/internal/parser"
)

// Sample is the document every emitter must handle with default options.
const Sample = `{"a":1,"b":"x","c":null}`

// Complex exercises nesting, arrays, nulls, dates and key characters that
// need escaping in most languages.
const Complex = `{
	"id": "550e8400-e29b-41d4-a716-446655440000",
	"user_name": "ada",
	"created_at": "2024-01-02T03:04:05Z",
	"score": 9.5,
	"tags": ["a", "b"],
	"empty": [],
	"matrix": [[1, 2], [3]],
	"owner": {"name": "x", "email": null},
	"members": [{"name": "y", "email": null}],
	"content-type": "json",
	"class": "reserved",
	"deleted": null
}`

// Infer parses input and infers its descriptor with default options.
func Infer(t testing.TB, input string) descriptor.Descriptor {
	t.Helper()
	ir, err := parser.ParseString(input)
	require.NoError(t, err)
	d, err := analyzer.NewAnalyzer().Analyze(ir)
	require.NoError(t, err)
	return d
}

// Emit infers input and renders it with e.
func Emit(t testing.TB, e generator.Emitter, input string, opts options.Options) string {
	t.Helper()
	out, err := e.Emit(Infer(t, input), opts)
	require.NoError(t, err)
	return out
}

// Fields lists the text each emitter is expected to produce for the a, b
// and c members of Sample.
type Fields struct {
	A, B, C string
}

// Conformance checks the behaviour every emitter shares: the Sample
// declaration, byte-identical reruns, no descriptor mutation across option
// changes, and no errors on empty arrays or the Complex document.
// mutate alters options between runs.
func Conformance(t *testing.T, e generator.Emitter, want Fields, mutate func(*options.Options)) {
	t.Helper()

	t.Run("sample", func(t *testing.T) {
		out := Emit(t, e, Sample, options.Default())
		assert.Contains(t, out, want.A)
		assert.Contains(t, out, want.B)
		assert.Contains(t, out, want.C)
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, input := range []string{Sample, Complex} {
			root := Infer(t, input)
			before := root.String()

			first, err := e.Emit(root, options.Default())
			require.NoError(t, err)

			changed := options.Default()
			changed.RootName = "Changed"
			if mutate != nil {
				mutate(&changed)
			}
			_, err = e.Emit(root, changed)
			require.NoError(t, err)

			second, err := e.Emit(root, options.Default())
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Equal(t, before, root.String(), "descriptor changed")
		}
	})

	t.Run("empty array", func(t *testing.T) {
		out := Emit(t, e, `[]`, options.Default())
		assert.NotEmpty(t, out)
	})

	t.Run("scalar root", func(t *testing.T) {
		_, err := e.Emit(descriptor.NewPrimitive(descriptor.String), options.Default())
		require.NoError(t, err)
	})
}
