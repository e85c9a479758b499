package options

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/errors"
)

func TestDefault(t *testing.T) {
	o := Default()

	assert.Equal(t, DefaultRootName, o.RootName)
	assert.True(t, o.DetectDates)
	assert.Equal(t, "main", o.Go.Package)
	assert.True(t, o.Go.PointerNullable)
	assert.Equal(t, DeclarationInterface, o.TypeScript.Declaration)
	assert.Equal(t, NullableUnion, o.TypeScript.NullableStyle)
	assert.Equal(t, []string{"Debug", "Clone", "Serialize", "Deserialize"}, o.Rust.Derives)
	assert.Equal(t, PythonDataclass, o.Python.Style)
	assert.Equal(t, Draft202012, o.JSONSchema.Draft)
}

func TestDefault_ReturnsIndependentValues(t *testing.T) {
	a := Default()
	a.Rust.Derives[0] = "Changed"

	assert.Equal(t, "Debug", Default().Rust.Derives[0])
}

func TestRoot(t *testing.T) {
	assert.Equal(t, DefaultRootName, Options{}.Root())
	assert.Equal(t, DefaultRootName, Options{RootName: "  "}.Root())
	assert.Equal(t, "Order", Options{RootName: "Order"}.Root())
}

func TestEnum(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		allowed []string
		want    string
	}{
		{"exact", "type", []string{DeclarationInterface, DeclarationType}, DeclarationType},
		{"case insensitive", "TYPE", []string{DeclarationInterface, DeclarationType}, DeclarationType},
		{"unknown falls back to first", "class", []string{DeclarationInterface, DeclarationType}, DeclarationInterface},
		{"empty falls back to first", "", []string{JavaClass, JavaRecord}, JavaClass},
		{"nothing allowed", "x", nil, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Enum(tt.value, tt.allowed...))
		})
	}
}

func TestSet(t *testing.T) {
	o := Default()

	require.NoError(t, o.Set("root_name=Event"))
	require.NoError(t, o.Set(" TypeScript.Declaration = type "))
	require.NoError(t, o.Set("go.pointer_nullable=false"))
	require.NoError(t, o.Set("rust.derives=Debug, PartialEq,"))
	require.NoError(t, o.Set("java.package=com.example.api"))
	require.NoError(t, o.Set("jsonschema.additional_properties=true"))

	assert.Equal(t, "Event", o.RootName)
	assert.Equal(t, DeclarationType, o.TypeScript.Declaration)
	assert.False(t, o.Go.PointerNullable)
	assert.Equal(t, []string{"Debug", "PartialEq"}, o.Rust.Derives)
	assert.Equal(t, "com.example.api", o.Java.Package)
	assert.True(t, o.JSONSchema.AdditionalProperties)
}

func TestSet_Errors(t *testing.T) {
	tests := []struct {
		assignment string
		want       string
	}{
		{"go.package", "must have the form key=value"},
		{"cobol.package=x", "unknown option"},
		{"go.omitempty=maybe", "expected a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.assignment, func(t *testing.T) {
			o := Default()
			err := o.Set(tt.assignment)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, Default(), o, "failed assignments leave options untouched")
		})
	}
}

func TestSet_UnknownOptionListsValidKeys(t *testing.T) {
	o := Default()
	err := o.Set("typescript.declartion=type")
	require.Error(t, err)

	msg := errors.UserFriendlyError(err)
	assert.Contains(t, msg, "Hint: valid options: ")
	assert.Contains(t, msg, "typescript.declaration")
	assert.Contains(t, msg, "go.pointer_nullable")
}

func TestSet_WrapsSetterErrors(t *testing.T) {
	o := Default()
	err := o.Set("go.omitempty=maybe")
	require.Error(t, err)
	assert.Equal(t, `option "go.omitempty": expected a boolean, got "maybe"`, err.Error())
}

func TestKeys(t *testing.T) {
	keys := Keys()

	assert.True(t, sort.StringsAreSorted(keys))
	assert.Contains(t, keys, "typescript.declaration")
	assert.Contains(t, keys, "protobuf.go_package")
	assert.Len(t, keys, len(setters))

	o := Default()
	for _, k := range keys {
		if err := o.Set(k + "=true"); err != nil {
			assert.NotContains(t, err.Error(), "unknown option", k)
		}
	}
}
