package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	assert.Equal(t, KindPrimitive, NewPrimitive(String).Kind())
	assert.Equal(t, KindArray, NewArray(nil).Kind())
	assert.Equal(t, KindObject, NewObject(nil).Kind())
	assert.Equal(t, KindNullable, NewNullable(nil).Kind())
	assert.Equal(t, KindUnknown, Unknown.Kind())
}

func TestString(t *testing.T) {
	obj := NewObject([]Field{
		{Name: "a", Type: NewPrimitive(Integer)},
		{Name: "b", Type: NewFormatted(String, FormatUUID)},
		{Name: "c", Type: NewNullable(Unknown)},
		{Name: "d", Type: NewArray(NewPrimitive(Float)), Optional: true},
	})
	assert.Equal(t, "{a:integer,b:string(uuid),c:null<unknown>,d?:[]float}", obj.String())
}

func TestNewArray_NilElemIsUnknown(t *testing.T) {
	arr := NewArray(nil)
	assert.Equal(t, Unknown, arr.Elem)
}

func TestNewNullable_DoesNotDoubleWrap(t *testing.T) {
	inner := NewNullable(NewPrimitive(String))
	outer := NewNullable(inner)
	assert.Same(t, inner, outer)
}

func TestUnwrap(t *testing.T) {
	d, ok := Unwrap(NewNullable(NewPrimitive(Boolean)))
	require.True(t, ok)
	assert.Equal(t, "boolean", d.String())

	d, ok = Unwrap(NewPrimitive(Boolean))
	assert.False(t, ok)
	assert.Equal(t, "boolean", d.String())
}

func TestNewObject_CopiesInput(t *testing.T) {
	fields := []Field{{Name: "a", Type: NewPrimitive(String)}}
	obj := NewObject(fields)
	fields[0].Name = "mutated"

	got := obj.Fields()
	assert.Equal(t, "a", got[0].Name)

	got[0].Name = "also-mutated"
	f, ok := obj.Field("a")
	require.True(t, ok)
	assert.Equal(t, "a", f.Name)
	assert.Equal(t, 1, obj.Len())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Descriptor
		want bool
	}{
		{"same primitive", NewPrimitive(String), NewPrimitive(String), true},
		{"different primitive", NewPrimitive(String), NewPrimitive(Integer), false},
		{"format differs", NewPrimitive(String), NewFormatted(String, FormatUUID), false},
		{"arrays", NewArray(NewPrimitive(Float)), NewArray(NewPrimitive(Float)), true},
		{"nullable vs bare", NewNullable(Unknown), Unknown, false},
		{
			"objects same order",
			NewObject([]Field{{Name: "a", Type: NewPrimitive(String)}, {Name: "b", Type: NewPrimitive(Integer)}}),
			NewObject([]Field{{Name: "a", Type: NewPrimitive(String)}, {Name: "b", Type: NewPrimitive(Integer)}}),
			true,
		},
		{
			"objects different order",
			NewObject([]Field{{Name: "a", Type: NewPrimitive(String)}, {Name: "b", Type: NewPrimitive(Integer)}}),
			NewObject([]Field{{Name: "b", Type: NewPrimitive(Integer)}, {Name: "a", Type: NewPrimitive(String)}}),
			false,
		},
		{
			"optional differs",
			NewObject([]Field{{Name: "a", Type: NewPrimitive(String)}}),
			NewObject([]Field{{Name: "a", Type: NewPrimitive(String), Optional: true}}),
			false,
		},
		{"unknowns", Unknown, UnknownType{}, true},
		{"nil", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
