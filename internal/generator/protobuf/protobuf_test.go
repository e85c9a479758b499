package protobuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator/emittertest"
	"github.com/mcncl/polytyper/internal/options"
)

func TestEmit_SimpleObject(t *testing.T) {
	expected := `syntax = "proto3";

package generated;

import "google/protobuf/struct.proto";

message RootType {
  int64 a = 1;
  string b = 2;
  google.protobuf.Value c = 3;
}
`
	assert.Equal(t, expected, emittertest.Emit(t, New(), emittertest.Sample, options.Default()))
}

func TestEmit_FieldsAndImports(t *testing.T) {
	opts := options.Default()
	opts.Protobuf.GoPackage = "example.com/api;api"
	out := emittertest.Emit(t, New(), `{"userName": "x", "created_at": "2024-01-02T03:04:05Z", "tags": ["a"], "matrix": [[1]], "owner": {"id": 1}}`, opts)

	expected := `syntax = "proto3";

package generated;

import "google/protobuf/struct.proto";
import "google/protobuf/timestamp.proto";

option go_package = "example.com/api;api";

message RootType {
  string user_name = 1 [json_name = "userName"];
  google.protobuf.Timestamp created_at = 2 [json_name = "created_at"];
  repeated string tags = 3;
  repeated google.protobuf.ListValue matrix = 4;
  RootTypeOwner owner = 5;
}

message RootTypeOwner {
  int64 id = 1;
}
`
	assert.Equal(t, expected, out)
}

func TestEmit_OptionalScalars(t *testing.T) {
	root := descriptor.NewObject([]descriptor.Field{
		{Name: "count", Type: descriptor.NewNullable(descriptor.NewPrimitive(descriptor.Integer))},
		{Name: "nick", Type: descriptor.NewPrimitive(descriptor.String), Optional: true},
		{Name: "tags", Type: descriptor.NewArray(descriptor.NewPrimitive(descriptor.String)), Optional: true},
		{Name: "owner", Type: descriptor.NewNullable(descriptor.NewObject(nil))},
	})
	out, err := New().Emit(root, options.Default())
	require.NoError(t, err)

	assert.Contains(t, out, "  optional int64 count = 1;\n")
	assert.Contains(t, out, "  optional string nick = 2;\n")
	assert.Contains(t, out, "  repeated string tags = 3;\n")
	assert.Contains(t, out, "  RootTypeOwner owner = 4;\n")
	assert.Contains(t, out, "message RootTypeOwner {\n}\n")
}

func TestEmit_RootArray(t *testing.T) {
	opts := options.Default()
	opts.Protobuf.Package = ""
	out := emittertest.Emit(t, New(), `[{"n": 1}]`, opts)

	assert.NotContains(t, out, "package ")
	assert.Contains(t, out, "message RootType {\n  repeated RootTypeItem items = 1;\n}\n\nmessage RootTypeItem {\n")
}

func TestEmit_RootScalar(t *testing.T) {
	out := emittertest.Emit(t, New(), `"x"`, options.Default())

	assert.Contains(t, out, "message RootType {\n  string value = 1;\n}\n")
}

func TestEmit_EmptyArray(t *testing.T) {
	out := emittertest.Emit(t, New(), `[]`, options.Default())

	assert.Contains(t, out, "import \"google/protobuf/struct.proto\";\n")
	assert.Contains(t, out, "  repeated google.protobuf.Value items = 1;\n")
}

func TestJSONName(t *testing.T) {
	tests := map[string]string{
		"user_name": "userName",
		"id":        "id",
		"a_b_c":     "aBC",
		"field_2":   "field2",
	}
	for in, want := range tests {
		assert.Equal(t, want, jsonName(in), in)
	}
}

func TestEmit_Conformance(t *testing.T) {
	emittertest.Conformance(t, New(), emittertest.Fields{
		A: "int64 a = 1;",
		B: "string b = 2;",
		C: "google.protobuf.Value c = 3;",
	}, func(o *options.Options) {
		o.Protobuf.Package = "other"
		o.Protobuf.GoPackage = "example.com/other"
	})
}

func TestEmit_NonRFC3339DatesStayStrings(t *testing.T) {
	out := emittertest.Emit(t, New(), `{"day": "1990-01-02", "logged": "2023-05-20 14:56:23", "local": "2023-05-20T14:56:23"}`, options.Default())

	assert.Contains(t, out, "  string day = 1;\n")
	assert.Contains(t, out, "  string logged = 2;\n")
	assert.Contains(t, out, "  string local = 3;\n")
	assert.NotContains(t, out, "timestamp.proto")
}
