// Package csharp emits C# classes or records.
package csharp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates C# declarations.
type Emitter struct{}

// New creates a C# emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "csharp" }
func (e *Emitter) FileExtension() string { return ".cs" }
func (e *Emitter) Aliases() []string     { return []string{"cs", "c#"} }

var valueTypes = map[string]bool{
	"long":           true,
	"double":         true,
	"bool":           true,
	"DateTimeOffset": true,
}

type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "long"
	case descriptor.Float:
		return "double"
	case descriptor.Boolean:
		return "bool"
	case descriptor.DateTime:
		return "DateTimeOffset"
	default:
		return "string"
	}
}

func (resolver) ArrayType(elem string) string     { return "List<" + elem + ">" }
func (resolver) NullableType(inner string) string { return nullable(inner) }
func (resolver) UnknownType() string              { return "object" }
func (resolver) TypeName(candidate string) string { return candidate }
func (resolver) FieldName(key string) string      { return generator.Pascal(key) }

func nullable(t string) string {
	if strings.HasSuffix(t, "?") {
		return t
	}
	return t + "?"
}

// Emit renders root as a C# file with a file-scoped namespace.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.CSharp
	serializer := options.Enum(o.Serializer,
		options.SerializerSystemTextJSON, options.SerializerNewtonsoft, options.SerializerNone)
	plan := generator.Prepare(root, opts, resolver{})

	usings := make(map[string]bool)
	var body strings.Builder
	if !plan.RootIsObject {
		fmt.Fprintf(&body, "// %s is %s.\n", plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			body.WriteString("\n")
		}
	}
	for i, def := range plan.Defs {
		if o.Records {
			writeRecord(&body, def, serializer, usings)
		} else {
			writeClass(&body, def, serializer, usings)
		}
		if i < len(plan.Defs)-1 {
			body.WriteString("\n")
		}
	}

	text := body.String()
	if strings.Contains(text, "List<") {
		usings["System.Collections.Generic"] = true
	}
	if strings.Contains(text, "DateTimeOffset") {
		usings["System"] = true
	}

	var sb strings.Builder
	if len(usings) > 0 {
		names := make([]string, 0, len(usings))
		for u := range usings {
			names = append(names, u)
		}
		sort.Strings(names)
		for _, u := range names {
			fmt.Fprintf(&sb, "using %s;\n", u)
		}
		sb.WriteString("\n")
	}
	if ns := strings.TrimSpace(o.Namespace); ns != "" {
		fmt.Fprintf(&sb, "namespace %s;\n\n", ns)
	}
	sb.WriteString(text)
	return sb.String(), nil
}

func attribute(f generator.Field, serializer string, target string, usings map[string]bool) string {
	quoted := quote(f.Key)
	switch serializer {
	case options.SerializerSystemTextJSON:
		usings["System.Text.Json.Serialization"] = true
		return "[" + target + "JsonPropertyName(" + quoted + ")]"
	case options.SerializerNewtonsoft:
		usings["Newtonsoft.Json"] = true
		return "[" + target + "JsonProperty(" + quoted + ")]"
	}
	return ""
}

func fieldType(f generator.Field) string {
	if f.Nullable || f.Optional {
		return nullable(f.Type)
	}
	return f.Type
}

// memberName keeps a property from sharing its type's name, which C#
// rejects.
func memberName(f generator.Field, typeName string) string {
	if f.Name == typeName {
		return f.Name + "Value"
	}
	return f.Name
}

func writeClass(sb *strings.Builder, def generator.TypeDef, serializer string, usings map[string]bool) {
	fmt.Fprintf(sb, "public class %s\n{\n", def.Name)
	for i, f := range def.Fields {
		if i > 0 {
			sb.WriteString("\n")
		}
		if attr := attribute(f, serializer, "", usings); attr != "" {
			fmt.Fprintf(sb, "    %s\n", attr)
		}
		typ := fieldType(f)
		fmt.Fprintf(sb, "    public %s %s { get; set; }", typ, memberName(f, def.Name))
		if !strings.HasSuffix(typ, "?") && !valueTypes[typ] {
			sb.WriteString(" = default!;")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
}

func writeRecord(sb *strings.Builder, def generator.TypeDef, serializer string, usings map[string]bool) {
	if len(def.Fields) == 0 {
		fmt.Fprintf(sb, "public record %s();\n", def.Name)
		return
	}
	fmt.Fprintf(sb, "public record %s(\n", def.Name)
	for i, f := range def.Fields {
		sb.WriteString("    ")
		if attr := attribute(f, serializer, "property: ", usings); attr != "" {
			sb.WriteString(attr + " ")
		}
		fmt.Fprintf(sb, "%s %s", fieldType(f), memberName(f, def.Name))
		if i < len(def.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(");\n")
}

// quote renders s as a regular C# string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			// C# treats U+0085, U+2028 and U+2029 as line terminators.
			if r < 0x20 || r == 0x7f || r == 0x85 || r == 0x2028 || r == 0x2029 {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
