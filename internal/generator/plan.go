package generator

import (
	"fmt"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/options"
)

// Resolver supplies the language-specific pieces of a Plan.
type Resolver interface {
	// PrimitiveType returns the type for a scalar.
	PrimitiveType(p *descriptor.Primitive) string
	// ArrayType wraps an already resolved element type.
	ArrayType(elem string) string
	// NullableType marks a resolved type as nullable. It is only used for
	// nested positions such as array elements; nullable fields are reported
	// through Field.Nullable instead.
	NullableType(inner string) string
	// UnknownType returns the placeholder type.
	UnknownType() string
	// TypeName formats a PascalCase candidate into a declaration name.
	TypeName(candidate string) string
	// FieldName formats a JSON key into a field identifier.
	FieldName(key string) string
}

// Plan is the language-neutral layout of the declarations to emit.
type Plan struct {
	// Name is the root type name.
	Name string
	// RootType is the resolved type of the root value. It equals Name when
	// the root is an object.
	RootType string
	// RootIsObject reports whether Defs[0] is the root declaration.
	RootIsObject bool
	// Root is the unwrapped root descriptor.
	Root descriptor.Descriptor
	// Defs holds one declaration per distinct object shape, in the order
	// they were first reached. The root object, if any, comes first.
	Defs []TypeDef

	objects []*descriptor.Object
}

// TypeDef is one object declaration.
type TypeDef struct {
	Name   string
	Fields []Field
}

// Field is one member of a TypeDef.
type Field struct {
	// Key is the JSON member name.
	Key string
	// Name is the target-language identifier, unique within the TypeDef.
	Name string
	// Type is the resolved type with top-level nullability stripped.
	Type string
	// Nullable is set when the sample value was null.
	Nullable bool
	// Optional is set when the member may be absent.
	Optional bool
	// Desc is the field descriptor with top-level nullability stripped.
	Desc descriptor.Descriptor
}

// Renamed reports whether the identifier differs from the JSON key.
func (f Field) Renamed() bool { return f.Name != f.Key }

// NameOf returns the declaration name used for obj.
func (p *Plan) NameOf(obj *descriptor.Object) (string, bool) {
	for i, o := range p.objects {
		if descriptor.Equal(o, obj) {
			return p.Defs[i].Name, true
		}
	}
	return "", false
}

// Resolve returns the type string r gives d in this plan. Objects must
// already be declared.
func (p *Plan) Resolve(d descriptor.Descriptor, r Resolver) string {
	switch v := d.(type) {
	case *descriptor.Primitive:
		return r.PrimitiveType(v)
	case *descriptor.Array:
		return r.ArrayType(p.Resolve(v.Elem, r))
	case *descriptor.Nullable:
		return r.NullableType(p.Resolve(v.Inner, r))
	case *descriptor.Object:
		if name, ok := p.NameOf(v); ok {
			return name
		}
	}
	return r.UnknownType()
}

// Prepare lays out the declarations for root. It only reads root.
func Prepare(root descriptor.Descriptor, opts options.Options, r Resolver) *Plan {
	if root == nil {
		root = descriptor.Unknown
	}
	b := &planner{
		resolver:   r,
		fieldNames: opts.FieldNames,
		taken:      make(map[string]bool),
		plan:       &Plan{},
	}

	name := opts.Root()
	if !IsIdentifier(name) {
		name = Pascal(name)
	}
	name = r.TypeName(name)

	inner, _ := descriptor.Unwrap(root)
	b.plan.Root = inner
	if obj, ok := inner.(*descriptor.Object); ok {
		b.plan.RootIsObject = true
		b.plan.Name = b.declareAs(obj, name)
		b.plan.RootType = b.plan.Name
		return b.plan
	}

	b.plan.Name = b.reserve(name)
	b.plan.RootType = b.resolve(root, name)
	return b.plan
}

type planner struct {
	resolver   Resolver
	fieldNames map[string]string
	taken      map[string]bool
	plan       *Plan
}

func (b *planner) resolve(d descriptor.Descriptor, suggested string) string {
	switch v := d.(type) {
	case *descriptor.Primitive:
		return b.resolver.PrimitiveType(v)
	case *descriptor.Array:
		return b.resolver.ArrayType(b.resolve(v.Elem, elementName(suggested)))
	case *descriptor.Nullable:
		return b.resolver.NullableType(b.resolve(v.Inner, suggested))
	case *descriptor.Object:
		return b.declare(v, suggested)
	default:
		return b.resolver.UnknownType()
	}
}

// declare returns the name of an existing declaration with the same shape,
// or adds a new one.
func (b *planner) declare(obj *descriptor.Object, suggested string) string {
	if name, ok := b.plan.NameOf(obj); ok {
		return name
	}
	return b.declareAs(obj, b.resolver.TypeName(suggested))
}

func (b *planner) declareAs(obj *descriptor.Object, candidate string) string {
	name := b.reserve(candidate)

	// The slot is claimed before the fields are walked so parents precede
	// the types they reference.
	idx := len(b.plan.Defs)
	b.plan.Defs = append(b.plan.Defs, TypeDef{Name: name})
	b.plan.objects = append(b.plan.objects, obj)

	src := obj.Fields()
	fields := make([]Field, 0, len(src))
	used := make(map[string]bool, len(src))
	for _, f := range src {
		inner, nullable := descriptor.Unwrap(f.Type)
		fields = append(fields, Field{
			Key:      f.Name,
			Name:     uniqueField(b.fieldName(f.Name), used),
			Type:     b.resolve(inner, name+Pascal(f.Name)),
			Nullable: nullable,
			Optional: f.Optional,
			Desc:     inner,
		})
	}
	b.plan.Defs[idx].Fields = fields
	return name
}

func (b *planner) fieldName(key string) string {
	if mapped, ok := b.fieldNames[key]; ok && mapped != "" {
		return mapped
	}
	return b.resolver.FieldName(key)
}

// reserve claims name, appending a numeric suffix when it is taken.
func (b *planner) reserve(name string) string {
	candidate := name
	for i := 2; b.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	b.taken[candidate] = true
	return candidate
}

func uniqueField(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	used[candidate] = true
	return candidate
}

// elementName derives the name of an array's element type.
func elementName(suggested string) string {
	if s := Singularize(suggested); s != suggested {
		return s
	}
	return suggested + "Item"
}
