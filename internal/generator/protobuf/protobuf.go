// Package protobuf emits proto3 message definitions.
package protobuf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates proto3 messages.
type Emitter struct{}

// New creates a protobuf emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "protobuf" }
func (e *Emitter) FileExtension() string { return ".proto" }
func (e *Emitter) Aliases() []string     { return []string{"proto", "proto3"} }

const repeated = "repeated "

const (
	valueType     = "google.protobuf.Value"
	listValueType = "google.protobuf.ListValue"
	timestampType = "google.protobuf.Timestamp"
)

var wellKnown = map[string]string{
	valueType:     "google/protobuf/struct.proto",
	listValueType: "google/protobuf/struct.proto",
	timestampType: "google/protobuf/timestamp.proto",
}

var scalars = map[string]bool{
	"int64":  true,
	"double": true,
	"bool":   true,
	"string": true,
}

type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "int64"
	case descriptor.Float:
		return "double"
	case descriptor.Boolean:
		return "bool"
	case descriptor.DateTime:
		return timestampType
	default:
		return "string"
	}
}

// ArrayType marks the element repeated. Lists of lists cannot be expressed
// with repeated fields, so the inner list becomes a ListValue.
func (resolver) ArrayType(elem string) string {
	if strings.HasPrefix(elem, repeated) {
		return repeated + listValueType
	}
	return repeated + elem
}

// NullableType is a no-op: message fields already have presence and
// repeated elements cannot be null.
func (resolver) NullableType(inner string) string { return inner }
func (resolver) UnknownType() string              { return valueType }
func (resolver) TypeName(candidate string) string { return candidate }
func (resolver) FieldName(key string) string      { return generator.Snake(key) }

// Emit renders root as a .proto file.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Protobuf
	plan := generator.Prepare(root, opts, resolver{})

	var body strings.Builder
	if !plan.RootIsObject {
		// Top-level values must be messages, so the root is wrapped.
		name := "value"
		if strings.HasPrefix(plan.RootType, repeated) {
			name = "items"
		}
		fmt.Fprintf(&body, "message %s {\n  %s %s = 1;\n}\n", plan.Name, plan.RootType, name)
		if len(plan.Defs) > 0 {
			body.WriteString("\n")
		}
	}
	for i, def := range plan.Defs {
		writeMessage(&body, def)
		if i < len(plan.Defs)-1 {
			body.WriteString("\n")
		}
	}

	text := body.String()
	imports := make(map[string]bool)
	for typ, path := range wellKnown {
		if strings.Contains(text, typ) {
			imports[path] = true
		}
	}

	var sb strings.Builder
	sb.WriteString("syntax = \"proto3\";\n\n")
	if pkg := strings.TrimSpace(o.Package); pkg != "" {
		fmt.Fprintf(&sb, "package %s;\n\n", pkg)
	}
	if len(imports) > 0 {
		paths := make([]string, 0, len(imports))
		for p := range imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Fprintf(&sb, "import %s;\n", strconv.Quote(p))
		}
		sb.WriteString("\n")
	}
	if gp := strings.TrimSpace(o.GoPackage); gp != "" {
		fmt.Fprintf(&sb, "option go_package = %s;\n\n", strconv.Quote(gp))
	}
	sb.WriteString(text)
	return sb.String(), nil
}

func writeMessage(sb *strings.Builder, def generator.TypeDef) {
	fmt.Fprintf(sb, "message %s {\n", def.Name)
	for i, f := range def.Fields {
		sb.WriteString("  ")
		// Only scalars need explicit presence to tell null from zero.
		if (f.Nullable || f.Optional) && scalars[f.Type] {
			sb.WriteString("optional ")
		}
		fmt.Fprintf(sb, "%s %s = %d", f.Type, f.Name, i+1)
		if jsonName(f.Name) != f.Key {
			fmt.Fprintf(sb, " [json_name = %s]", strconv.Quote(f.Key))
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
}

// jsonName is the name protoc derives for the JSON mapping of a field.
func jsonName(field string) string {
	var sb strings.Builder
	upper := false
	for _, r := range field {
		if r == '_' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		sb.WriteRune(r)
	}
	return sb.String()
}
