// Package schema reads JSON Schema documents and converts them into type
// descriptors, as an alternative to inferring types from a sample.
package schema

import (
	"encoding/json"
	"os"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/errors"
)

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return errors.New("type must be string or array of strings")
}

// Primary returns the first type other than "null", or "null" when that is
// the only type.
func (st SchemaType) Primary() string {
	for _, t := range st.Types {
		if t != "null" {
			return t
		}
	}
	if len(st.Types) > 0 {
		return "null"
	}
	return ""
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	for _, t := range st.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// Properties keeps object properties in document order.
type Properties = orderedmap.OrderedMap[string, *Schema]

// Schema represents the parts of a JSON Schema document that affect types.
type Schema struct {
	Schema string `json:"$schema,omitempty"`
	ID     string `json:"$id,omitempty"`
	Ref    string `json:"$ref,omitempty"`
	Title  string `json:"title,omitempty"`

	Type     SchemaType  `json:"type,omitempty"`
	Format   string      `json:"format,omitempty"`
	Nullable bool        `json:"nullable,omitempty"`
	Enum     []any       `json:"enum,omitempty"`
	Const    any         `json:"const,omitempty"`
	Items    *Schema     `json:"items,omitempty"`
	Required []string    `json:"required,omitempty"`
	Props    *Properties `json:"properties,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"`
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInputError("failed to read schema file '"+path+"'", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewInputError("schema is empty", errors.ErrEmptyInput)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewParsingError(err.Error(), errors.ErrInvalidSchema)
	}
	return &s, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// Converter turns a parsed schema into a descriptor.
type Converter struct {
	schema      *Schema
	definitions map[string]*Schema
	// resolving holds the $refs currently being expanded.
	resolving map[string]bool
}

// NewConverter creates a new schema converter
func NewConverter(schema *Schema) *Converter {
	definitions := make(map[string]*Schema)
	for k, v := range schema.Definitions {
		definitions[k] = v
	}
	for k, v := range schema.Defs {
		definitions[k] = v
	}

	return &Converter{
		schema:      schema,
		definitions: definitions,
		resolving:   make(map[string]bool),
	}
}

// Convert returns the descriptor for the root schema. Properties missing
// from required become optional fields, and a $ref that refers back to a
// schema being expanded becomes Unknown.
func (c *Converter) Convert() (descriptor.Descriptor, error) {
	d, err := c.convert(c.schema)
	if err != nil {
		return nil, errors.NewAnalysisError("failed to convert schema", err)
	}
	return d, nil
}

// Title returns the schema title, used as a fallback root name.
func (c *Converter) Title() string {
	return c.schema.Title
}

func (c *Converter) convert(s *Schema) (descriptor.Descriptor, error) {
	if s == nil {
		return descriptor.Unknown, nil
	}
	if s.Ref != "" {
		return c.resolveRef(s.Ref)
	}
	if len(s.AllOf) > 0 {
		merged, err := c.mergeAllOf(s)
		if err != nil {
			return nil, err
		}
		return c.convert(merged)
	}
	if alts := alternatives(s); len(alts) > 0 {
		return c.convertAlternatives(alts)
	}

	d, err := c.convertType(s)
	if err != nil {
		return nil, err
	}
	if s.Nullable || s.Type.IsNullable() {
		return descriptor.NewNullable(d), nil
	}
	return d, nil
}

func alternatives(s *Schema) []*Schema {
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	return s.OneOf
}

// convertAlternatives supports the common "T or null" union. Any other
// union has no single type and becomes Unknown.
func (c *Converter) convertAlternatives(alts []*Schema) (descriptor.Descriptor, error) {
	var rest []*Schema
	nullable := false
	for _, alt := range alts {
		if alt != nil && alt.Ref == "" && alt.Type.Primary() == "null" {
			nullable = true
			continue
		}
		rest = append(rest, alt)
	}

	d := descriptor.Unknown
	if len(rest) == 1 {
		var err error
		if d, err = c.convert(rest[0]); err != nil {
			return nil, err
		}
	}
	if nullable {
		return descriptor.NewNullable(d), nil
	}
	return d, nil
}

func (c *Converter) convertType(s *Schema) (descriptor.Descriptor, error) {
	schemaType := s.Type.Primary()
	if schemaType == "" {
		switch {
		case s.Props != nil && s.Props.Len() > 0:
			schemaType = "object"
		case s.Items != nil:
			schemaType = "array"
		case s.Const != nil:
			schemaType = valueType(s.Const)
		case len(s.Enum) > 0:
			schemaType = valueType(s.Enum[0])
		}
	}

	switch schemaType {
	case "object":
		return c.convertObject(s)
	case "array":
		if s.Items == nil {
			return descriptor.NewArray(descriptor.Unknown), nil
		}
		elem, err := c.convert(s.Items)
		if err != nil {
			return nil, errors.Wrap(err, "array items")
		}
		return descriptor.NewArray(elem), nil
	case "string":
		return convertString(s), nil
	case "integer":
		return descriptor.NewPrimitive(descriptor.Integer), nil
	case "number":
		return descriptor.NewPrimitive(descriptor.Float), nil
	case "boolean":
		return descriptor.NewPrimitive(descriptor.Boolean), nil
	case "null":
		return descriptor.NewNullable(descriptor.Unknown), nil
	default:
		return descriptor.Unknown, nil
	}
}

func (c *Converter) convertObject(s *Schema) (descriptor.Descriptor, error) {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	var fields []descriptor.Field
	if s.Props != nil {
		fields = make([]descriptor.Field, 0, s.Props.Len())
		for pair := s.Props.Oldest(); pair != nil; pair = pair.Next() {
			d, err := c.convert(pair.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "property %q", pair.Key)
			}
			fields = append(fields, descriptor.Field{
				Name:     pair.Key,
				Type:     d,
				Optional: !required[pair.Key],
			})
		}
	}
	return descriptor.NewObject(fields), nil
}

// valueType names the schema type of a decoded const or enum value.
func valueType(v any) string {
	switch n := v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if n == float64(int64(n)) {
			return "integer"
		}
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return ""
}

func convertString(s *Schema) descriptor.Descriptor {
	switch s.Format {
	case "date-time":
		return descriptor.NewPrimitive(descriptor.DateTime)
	case "uuid":
		return descriptor.NewFormatted(descriptor.String, descriptor.FormatUUID)
	case "date":
		return descriptor.NewFormatted(descriptor.String, descriptor.FormatDate)
	default:
		return descriptor.NewPrimitive(descriptor.String)
	}
}

// lookup finds the schema a local $ref points at.
func (c *Converter) lookup(ref string) (*Schema, error) {
	if ref == "#" {
		return c.schema, nil
	}
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			if def, found := c.definitions[name]; found {
				return def, nil
			}
			return nil, errors.Wrapf(errors.ErrInvalidSchema, "unresolved $ref %s", ref)
		}
	}
	return nil, errors.Wrapf(errors.ErrInvalidSchema, "external $ref not supported: %s", ref)
}

func (c *Converter) resolveRef(ref string) (descriptor.Descriptor, error) {
	target, err := c.lookup(ref)
	if err != nil {
		return nil, err
	}
	if c.resolving[ref] {
		return descriptor.Unknown, nil
	}
	c.resolving[ref] = true
	defer delete(c.resolving, ref)
	return c.convert(target)
}

// mergeAllOf combines the members of allOf, and the schema's own
// properties, into one object schema. Earlier properties keep their
// position; later ones override their type.
func (c *Converter) mergeAllOf(s *Schema) (*Schema, error) {
	merged := &Schema{
		Type:  SchemaType{Types: []string{"object"}},
		Props: orderedmap.New[string, *Schema](),
		Title: s.Title,
	}
	if s.Nullable || s.Type.IsNullable() {
		merged.Nullable = true
	}

	add := func(part *Schema) {
		if part.Props != nil {
			for pair := part.Props.Oldest(); pair != nil; pair = pair.Next() {
				merged.Props.Set(pair.Key, pair.Value)
			}
		}
		merged.Required = append(merged.Required, part.Required...)
	}

	for _, part := range s.AllOf {
		if part == nil {
			continue
		}
		resolved := part
		if part.Ref != "" {
			if c.resolving[part.Ref] {
				continue
			}
			target, err := c.lookup(part.Ref)
			if err != nil {
				return nil, err
			}
			resolved = target
		}
		if len(resolved.AllOf) > 0 {
			if part.Ref != "" {
				c.resolving[part.Ref] = true
			}
			inner, err := c.mergeAllOf(resolved)
			if part.Ref != "" {
				delete(c.resolving, part.Ref)
			}
			if err != nil {
				return nil, err
			}
			resolved = inner
		}
		add(resolved)
	}
	add(s)
	return merged, nil
}
