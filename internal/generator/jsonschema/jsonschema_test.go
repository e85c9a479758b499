package jsonschema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator/emittertest"
	"github.com/mcncl/polytyper/internal/options"
)

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	return doc
}

func TestEmit_SimpleObject(t *testing.T) {
	out := emittertest.Emit(t, New(), emittertest.Sample, options.Default())
	doc := decode(t, out)

	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
	assert.Equal(t, "RootType", doc["title"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []any{"a", "b", "c"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "integer"}, props["a"])
	assert.Equal(t, map[string]any{"type": "string"}, props["b"])
	assert.Equal(t, map[string]any{"type": "null"}, props["c"])
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestEmit_PropertiesKeepInputOrder(t *testing.T) {
	out := emittertest.Emit(t, New(), `{"zeta": 1, "alpha": 2, "mid": 3}`, options.Default())

	z := strings.Index(out, `"zeta"`)
	a := strings.Index(out, `"alpha"`)
	m := strings.Index(out, `"mid"`)
	assert.True(t, z < a && a < m, out)
}

func TestEmit_DefinitionsAndFormats(t *testing.T) {
	out := emittertest.Emit(t, New(), `{
		"id": "550e8400-e29b-41d4-a716-446655440000",
		"created": "2024-01-02T03:04:05Z",
		"day": "2024-01-02",
		"owner": {"name": "x"},
		"members": [{"name": "y"}],
		"score": 1.5,
		"tags": []
	}`, options.Default())
	doc := decode(t, out)

	props := doc["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "format": "uuid"}, props["id"])
	assert.Equal(t, map[string]any{"type": "string", "format": "date-time"}, props["created"])
	assert.Equal(t, map[string]any{"type": "string", "format": "date"}, props["day"])
	assert.Equal(t, map[string]any{"$ref": "#/$defs/RootTypeOwner"}, props["owner"])
	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/RootTypeOwner"}}, props["members"])
	assert.Equal(t, map[string]any{"type": "number"}, props["score"])
	assert.Equal(t, map[string]any{"type": "array"}, props["tags"])

	defs := doc["$defs"].(map[string]any)
	require.Contains(t, defs, "RootTypeOwner")
	owner := defs["RootTypeOwner"].(map[string]any)
	assert.Equal(t, "object", owner["type"])
	assert.Equal(t, []any{"name"}, owner["required"])
}

func TestEmit_Draft07(t *testing.T) {
	opts := options.Default()
	opts.JSONSchema.Draft = options.Draft07
	doc := decode(t, emittertest.Emit(t, New(), `{"owner": {"name": "x"}}`, opts))

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
	assert.NotContains(t, doc, "$defs")
	require.Contains(t, doc, "definitions")
	assert.Equal(t, map[string]any{"$ref": "#/definitions/RootTypeOwner"}, doc["properties"].(map[string]any)["owner"])
}

func TestEmit_RequiredAndAdditionalProperties(t *testing.T) {
	root := descriptor.NewObject([]descriptor.Field{
		{Name: "id", Type: descriptor.NewPrimitive(descriptor.Integer)},
		{Name: "nick", Type: descriptor.NewNullable(descriptor.NewPrimitive(descriptor.String))},
		{Name: "bio", Type: descriptor.NewPrimitive(descriptor.String), Optional: true},
	})

	out, err := New().Emit(root, options.Default())
	require.NoError(t, err)
	doc := decode(t, out)
	assert.Equal(t, []any{"id", "nick"}, doc["required"])
	assert.Equal(t, map[string]any{
		"anyOf": []any{map[string]any{"type": "string"}, map[string]any{"type": "null"}},
	}, doc["properties"].(map[string]any)["nick"])

	opts := options.Default()
	opts.JSONSchema.RequireAll = false
	opts.JSONSchema.AdditionalProperties = true
	out, err = New().Emit(root, opts)
	require.NoError(t, err)
	doc = decode(t, out)
	assert.Equal(t, []any{"id"}, doc["required"])
	assert.NotContains(t, doc, "additionalProperties")
}

func TestEmit_RootArray(t *testing.T) {
	doc := decode(t, emittertest.Emit(t, New(), `[{"id": 1}]`, options.Default()))

	assert.Equal(t, "array", doc["type"])
	assert.Equal(t, map[string]any{"$ref": "#/$defs/RootTypeItem"}, doc["items"])
	assert.Contains(t, doc["$defs"].(map[string]any), "RootTypeItem")
}

func TestEmit_RootScalar(t *testing.T) {
	doc := decode(t, emittertest.Emit(t, New(), `true`, options.Default()))

	assert.Equal(t, "boolean", doc["type"])
	assert.Equal(t, "RootType", doc["title"])
}

func TestEmit_Conformance(t *testing.T) {
	emittertest.Conformance(t, New(), emittertest.Fields{
		A: `"a": {`,
		B: `"type": "string"`,
		C: `"type": "null"`,
	}, func(o *options.Options) {
		o.JSONSchema.Draft = options.Draft07
		o.JSONSchema.RequireAll = false
	})
}
