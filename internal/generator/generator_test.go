package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/options"
)

type fakeEmitter struct {
	name    string
	aliases []string
}

func (f fakeEmitter) Name() string          { return f.name }
func (f fakeEmitter) FileExtension() string { return "." + f.name }
func (f fakeEmitter) Emit(root descriptor.Descriptor, _ options.Options) (string, error) {
	return f.name + ":" + root.String(), nil
}

type aliasedEmitter struct{ fakeEmitter }

func (a aliasedEmitter) Aliases() []string { return a.aliases }

func TestRegistry_GetByNameAndAlias(t *testing.T) {
	reg := NewRegistry(
		fakeEmitter{name: "rust"},
		aliasedEmitter{fakeEmitter{name: "typescript", aliases: []string{"ts", "TSX"}}},
	)

	for _, name := range []string{"rust", "RUST", " rust ", "typescript", "ts", "tsx"} {
		e, err := reg.Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, e, name)
	}

	e, err := reg.Get("ts")
	require.NoError(t, err)
	assert.Equal(t, "typescript", e.Name())
	assert.Equal(t, []string{"ts", "tsx"}, reg.AliasesOf("typescript"))
}

func TestRegistry_UnknownLanguage(t *testing.T) {
	reg := NewRegistry(fakeEmitter{name: "go"}, fakeEmitter{name: "dart"})

	_, err := reg.Get("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownLanguage))
	assert.Contains(t, err.Error(), "cobol")
	assert.Contains(t, errors.UserFriendlyError(err), "available languages: dart, go")
}

func TestRegistry_AvailableIsSorted(t *testing.T) {
	reg := NewRegistry(fakeEmitter{name: "swift"}, fakeEmitter{name: "csharp"}, fakeEmitter{name: "go"})
	assert.Equal(t, []string{"csharp", "go", "swift"}, reg.Available())

	reg.Register(fakeEmitter{name: "Dart"})
	assert.Equal(t, []string{"csharp", "dart", "go", "swift"}, reg.Available())
}
