// Package descriptor defines the normalized type descriptor inferred from a
// sample value. Descriptors are immutable once built: constructors copy their
// inputs and accessors hand out copies.
package descriptor

import (
	"strings"
)

// Kind identifies a descriptor variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindArray
	KindObject
	KindNullable
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindNullable:
		return "nullable"
	default:
		return "unknown"
	}
}

// PrimitiveType is the scalar kind carried by a Primitive descriptor.
type PrimitiveType int

const (
	String PrimitiveType = iota
	Integer
	Float
	Boolean
	DateTime
)

func (p PrimitiveType) String() string {
	switch p {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case DateTime:
		return "datetime"
	default:
		return "string"
	}
}

// String format hints.
const (
	// FormatUUID marks a String primitive whose samples looked like UUIDs.
	FormatUUID = "uuid"
	// FormatDate marks a String primitive holding calendar dates (2006-01-02).
	FormatDate = "date"
)

// Descriptor is one node of an inferred type tree.
type Descriptor interface {
	Kind() Kind
	String() string
}

// Primitive is a scalar type.
type Primitive struct {
	Type PrimitiveType
	// Format is an optional hint such as FormatUUID. It never changes the
	// target type, emitters may use it for annotations.
	Format string
}

func (p *Primitive) Kind() Kind { return KindPrimitive }

func (p *Primitive) String() string {
	if p.Format != "" {
		return p.Type.String() + "(" + p.Format + ")"
	}
	return p.Type.String()
}

// Array is a homogeneous list of Elem.
type Array struct {
	Elem Descriptor
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) String() string { return "[]" + a.Elem.String() }

// Field is one member of an Object.
type Field struct {
	Name     string
	Type     Descriptor
	Optional bool
}

// Object is an ordered record type.
type Object struct {
	fields []Field
}

func (o *Object) Kind() Kind { return KindObject }

// Fields returns the object's fields in declaration order.
func (o *Object) Fields() []Field {
	out := make([]Field, len(o.fields))
	copy(out, o.fields)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.fields) }

// Field looks a field up by name.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.Name)
		if f.Optional {
			sb.WriteByte('?')
		}
		sb.WriteByte(':')
		sb.WriteString(f.Type.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Nullable marks Inner as possibly null.
type Nullable struct {
	Inner Descriptor
}

func (n *Nullable) Kind() Kind { return KindNullable }

func (n *Nullable) String() string { return "null<" + n.Inner.String() + ">" }

// UnknownType is the placeholder for types that could not be inferred.
type UnknownType struct{}

func (UnknownType) Kind() Kind { return KindUnknown }

func (UnknownType) String() string { return "unknown" }

// Unknown is the shared unknown placeholder.
var Unknown Descriptor = UnknownType{}

// NewPrimitive returns a primitive descriptor.
func NewPrimitive(t PrimitiveType) *Primitive {
	return &Primitive{Type: t}
}

// NewFormatted returns a primitive descriptor with a format hint.
func NewFormatted(t PrimitiveType, format string) *Primitive {
	return &Primitive{Type: t, Format: format}
}

// NewArray returns an array descriptor. A nil elem becomes Unknown.
func NewArray(elem Descriptor) *Array {
	if elem == nil {
		elem = Unknown
	}
	return &Array{Elem: elem}
}

// NewObject returns an object descriptor holding a copy of fields.
// Nil field types become Unknown.
func NewObject(fields []Field) *Object {
	cp := make([]Field, len(fields))
	for i, f := range fields {
		if f.Type == nil {
			f.Type = Unknown
		}
		cp[i] = f
	}
	return &Object{fields: cp}
}

// NewNullable wraps inner. Wrapping an already nullable descriptor is a no-op.
func NewNullable(inner Descriptor) Descriptor {
	if inner == nil {
		inner = Unknown
	}
	if n, ok := inner.(*Nullable); ok {
		return n
	}
	return &Nullable{Inner: inner}
}

// Unwrap strips a Nullable wrapper and reports whether one was present.
func Unwrap(d Descriptor) (Descriptor, bool) {
	if n, ok := d.(*Nullable); ok {
		return n.Inner, true
	}
	return d, false
}

// Equal reports whether a and b describe the same shape, including field
// order and optionality.
func Equal(a, b Descriptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Primitive:
		bv := b.(*Primitive)
		return av.Type == bv.Type && av.Format == bv.Format
	case *Array:
		return Equal(av.Elem, b.(*Array).Elem)
	case *Nullable:
		return Equal(av.Inner, b.(*Nullable).Inner)
	case *Object:
		bv := b.(*Object)
		if len(av.fields) != len(bv.fields) {
			return false
		}
		for i := range av.fields {
			fa, fb := av.fields[i], bv.fields[i]
			if fa.Name != fb.Name || fa.Optional != fb.Optional || !Equal(fa.Type, fb.Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
