package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcncl/polytyper/internal/generator/emittertest"
	"github.com/mcncl/polytyper/internal/options"
)

func TestEmit_SimpleObject(t *testing.T) {
	expected := `using System.Text.Json.Serialization;

namespace Generated;

public class RootType
{
    [JsonPropertyName("a")]
    public long A { get; set; }

    [JsonPropertyName("b")]
    public string B { get; set; } = default!;

    [JsonPropertyName("c")]
    public object? C { get; set; }
}
`
	assert.Equal(t, expected, emittertest.Emit(t, New(), emittertest.Sample, options.Default()))
}

func TestEmit_Newtonsoft(t *testing.T) {
	opts := options.Default()
	opts.CSharp.Serializer = options.SerializerNewtonsoft
	opts.CSharp.Namespace = "Acme.Api"
	out := emittertest.Emit(t, New(), `{"created_at": "2024-01-02T03:04:05Z", "tags": ["a"]}`, opts)

	expected := `using Newtonsoft.Json;
using System;
using System.Collections.Generic;

namespace Acme.Api;

public class RootType
{
    [JsonProperty("created_at")]
    public DateTimeOffset CreatedAt { get; set; }

    [JsonProperty("tags")]
    public List<string> Tags { get; set; } = default!;
}
`
	assert.Equal(t, expected, out)
}

func TestEmit_Records(t *testing.T) {
	opts := options.Default()
	opts.CSharp.Records = true
	opts.CSharp.Serializer = options.SerializerNone
	opts.CSharp.Namespace = ""
	out := emittertest.Emit(t, New(), `{"id": 1, "owner": {"name": null}, "empty": {}}`, opts)

	expected := `public record RootType(
    long Id,
    RootTypeOwner Owner,
    RootTypeEmpty Empty
);

public record RootTypeOwner(
    object? Name
);

public record RootTypeEmpty();
`
	assert.Equal(t, expected, out)
}

func TestEmit_RecordAttributes(t *testing.T) {
	opts := options.Default()
	opts.CSharp.Records = true
	out := emittertest.Emit(t, New(), `{"id": 1}`, opts)

	assert.Contains(t, out, `    [property: JsonPropertyName("id")] long Id`+"\n")
}

func TestEmit_MemberNamedLikeType(t *testing.T) {
	opts := options.Default()
	opts.RootName = "Item"
	out := emittertest.Emit(t, New(), `{"item": 1}`, opts)

	assert.Contains(t, out, "public long ItemValue { get; set; }")
}

func TestEmit_RootArray(t *testing.T) {
	out := emittertest.Emit(t, New(), `[{"id": 1}]`, options.Default())

	assert.Contains(t, out, "using System.Collections.Generic;\n")
	assert.Contains(t, out, "// RootType is List<RootTypeItem>.\n\npublic class RootTypeItem\n{\n")
}

func TestEmit_Conformance(t *testing.T) {
	emittertest.Conformance(t, New(), emittertest.Fields{
		A: "public long A { get; set; }",
		B: "public string B { get; set; }",
		C: "public object? C { get; set; }",
	}, func(o *options.Options) {
		o.CSharp.Records = true
		o.CSharp.Serializer = options.SerializerNewtonsoft
	})
}

func TestEmit_ControlCharacterKeys(t *testing.T) {
	out := emittertest.Emit(t, New(), `{"a\u0001b": 1}`, options.Default())

	assert.Contains(t, out, `[JsonPropertyName("a\u0001b")]`)
	assert.NotContains(t, out, `\x01`)
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"plain":        `"plain"`,
		`a"b\c`:        `"a\"b\\c"`,
		"nul\x00":      `"nul\0"`,
		"bell\x07":     `"bell\u0007"`,
		"sep\u2028end": `"sep\u2028end"`,
		"ünï":          `"ünï"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, quote(in), in)
	}
}
