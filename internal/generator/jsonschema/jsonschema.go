// Package jsonschema emits a JSON Schema document describing the sample.
package jsonschema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates JSON Schema.
type Emitter struct{}

// New creates a JSON Schema emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "jsonschema" }
func (e *Emitter) FileExtension() string { return ".schema.json" }
func (e *Emitter) Aliases() []string     { return []string{"json-schema", "schema"} }

const (
	draft202012URI = "https://json-schema.org/draft/2020-12/schema"
	draft07URI     = "http://json-schema.org/draft-07/schema#"
)

// resolver only names declarations; properties keep their JSON keys.
type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string { return p.Type.String() }
func (resolver) ArrayType(elem string) string                 { return "[]" + elem }
func (resolver) NullableType(inner string) string             { return inner }
func (resolver) UnknownType() string                          { return "" }
func (resolver) TypeName(candidate string) string             { return candidate }
func (resolver) FieldName(key string) string                  { return key }

// Emit renders root as an indented JSON Schema document.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.JSONSchema
	draft := options.Enum(o.Draft, options.Draft202012, options.Draft07)
	plan := generator.Prepare(root, opts, resolver{})

	b := &builder{plan: plan, opts: o, refPrefix: "#/$defs/"}
	if draft == options.Draft07 {
		b.refPrefix = "#/definitions/"
	}

	var doc *jsonschema.Schema
	defs := plan.Defs
	if plan.RootIsObject {
		doc = b.object(plan.Defs[0])
		defs = defs[1:]
	} else {
		doc = b.schema(root)
	}
	doc.Title = plan.Name

	if len(defs) > 0 {
		definitions := make(jsonschema.Definitions, len(defs))
		for _, def := range defs {
			definitions[def.Name] = b.object(def)
		}
		if draft == options.Draft07 {
			doc.Extras = map[string]any{"definitions": definitions}
		} else {
			doc.Definitions = definitions
		}
	}

	doc.Version = draft202012URI
	if draft == options.Draft07 {
		doc.Version = draft07URI
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.NewGenerateError("failed to encode JSON Schema", err)
	}
	return string(out) + "\n", nil
}

type builder struct {
	plan      *generator.Plan
	opts      options.JSONSchemaOptions
	refPrefix string
}

func (b *builder) object(def generator.TypeDef) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for _, f := range def.Fields {
		s := b.schema(f.Desc)
		if f.Nullable {
			s = nullable(s, f.Desc)
		}
		props.Set(f.Key, s)

		if f.Optional {
			continue
		}
		if b.opts.RequireAll || !f.Nullable {
			required = append(required, f.Key)
		}
	}

	s := &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
	if !b.opts.AdditionalProperties {
		s.AdditionalProperties = jsonschema.FalseSchema
	}
	return s
}

func (b *builder) schema(d descriptor.Descriptor) *jsonschema.Schema {
	switch v := d.(type) {
	case *descriptor.Primitive:
		return primitive(v)
	case *descriptor.Array:
		s := &jsonschema.Schema{Type: "array"}
		if v.Elem.Kind() != descriptor.KindUnknown {
			s.Items = b.schema(v.Elem)
		}
		return s
	case *descriptor.Nullable:
		return nullable(b.schema(v.Inner), v.Inner)
	case *descriptor.Object:
		name, _ := b.plan.NameOf(v)
		if b.plan.RootIsObject && name == b.plan.Name {
			return &jsonschema.Schema{Ref: "#"}
		}
		return &jsonschema.Schema{Ref: b.refPrefix + name}
	}
	return &jsonschema.Schema{}
}

func primitive(p *descriptor.Primitive) *jsonschema.Schema {
	switch p.Type {
	case descriptor.Integer:
		return &jsonschema.Schema{Type: "integer"}
	case descriptor.Float:
		return &jsonschema.Schema{Type: "number"}
	case descriptor.Boolean:
		return &jsonschema.Schema{Type: "boolean"}
	case descriptor.DateTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	}
	s := &jsonschema.Schema{Type: "string"}
	switch p.Format {
	case descriptor.FormatUUID:
		s.Format = "uuid"
	case descriptor.FormatDate:
		s.Format = "date"
	}
	return s
}

// nullable admits null alongside s. A null with nothing else known is
// described as exactly null.
func nullable(s *jsonschema.Schema, inner descriptor.Descriptor) *jsonschema.Schema {
	if inner.Kind() == descriptor.KindUnknown {
		return &jsonschema.Schema{Type: "null"}
	}
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{s, {Type: "null"}}}
}
