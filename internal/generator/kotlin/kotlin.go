// Package kotlin emits Kotlin data classes.
package kotlin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates Kotlin data classes.
type Emitter struct{}

// New creates a Kotlin emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "kotlin" }
func (e *Emitter) FileExtension() string { return ".kt" }
func (e *Emitter) Aliases() []string     { return []string{"kt"} }

// Hard keywords only; soft keywords are valid property names.
var keywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true, "else": true,
	"false": true, "for": true, "fun": true, "if": true, "in": true, "interface": true,
	"is": true, "null": true, "object": true, "package": true, "return": true, "super": true,
	"this": true, "throw": true, "true": true, "try": true, "typealias": true, "typeof": true,
	"val": true, "var": true, "when": true, "while": true,
}

type resolver struct {
	unknown string
}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "Long"
	case descriptor.Float:
		return "Double"
	case descriptor.Boolean:
		return "Boolean"
	default:
		return "String"
	}
}

func (resolver) ArrayType(elem string) string     { return "List<" + elem + ">" }
func (resolver) NullableType(inner string) string { return nullable(inner) }
func (r resolver) UnknownType() string            { return r.unknown }
func (resolver) TypeName(candidate string) string { return candidate }
func (resolver) FieldName(key string) string      { return generator.Camel(key) }

func nullable(t string) string {
	if strings.HasSuffix(t, "?") {
		return t
	}
	return t + "?"
}

// Emit renders root as a Kotlin file.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Kotlin
	serializer := options.Enum(o.Serializer,
		options.SerializerKotlinx, options.SerializerJackson, options.SerializerGson, options.SerializerNone)

	r := resolver{unknown: "Any"}
	if serializer == options.SerializerKotlinx {
		// Any has no serializer; JsonElement round-trips arbitrary values.
		r.unknown = "JsonElement"
	}
	plan := generator.Prepare(root, opts, r)

	imports := make(map[string]bool)
	var body strings.Builder
	for i, def := range plan.Defs {
		writeClass(&body, def, serializer, imports)
		if i < len(plan.Defs)-1 {
			body.WriteString("\n")
		}
	}
	if !plan.RootIsObject {
		if len(plan.Defs) > 0 {
			body.WriteString("\n")
		}
		fmt.Fprintf(&body, "typealias %s = %s\n", plan.Name, plan.RootType)
	}
	if strings.Contains(body.String(), "JsonElement") {
		imports["kotlinx.serialization.json.JsonElement"] = true
	}

	var sb strings.Builder
	if pkg := strings.TrimSpace(o.Package); pkg != "" {
		fmt.Fprintf(&sb, "package %s\n\n", pkg)
	}
	if len(imports) > 0 {
		paths := make([]string, 0, len(imports))
		for p := range imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Fprintf(&sb, "import %s\n", p)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(body.String())
	return sb.String(), nil
}

func writeClass(sb *strings.Builder, def generator.TypeDef, serializer string, imports map[string]bool) {
	if serializer == options.SerializerKotlinx {
		imports["kotlinx.serialization.Serializable"] = true
		sb.WriteString("@Serializable\n")
	}
	if len(def.Fields) == 0 {
		// A data class needs at least one property.
		fmt.Fprintf(sb, "class %s\n", def.Name)
		return
	}

	fmt.Fprintf(sb, "data class %s(\n", def.Name)
	for _, f := range def.Fields {
		sb.WriteString("    ")
		if f.Renamed() {
			sb.WriteString(annotation(f.Key, serializer, imports))
		}
		typ := f.Type
		if f.Nullable || f.Optional {
			typ = nullable(typ)
		}
		fmt.Fprintf(sb, "val %s: %s", ident(f.Name), typ)
		if f.Nullable || f.Optional {
			sb.WriteString(" = null")
		}
		sb.WriteString(",\n")
	}
	sb.WriteString(")\n")
}

func annotation(key, serializer string, imports map[string]bool) string {
	quoted := quote(key)
	switch serializer {
	case options.SerializerKotlinx:
		imports["kotlinx.serialization.SerialName"] = true
		return "@SerialName(" + quoted + ") "
	case options.SerializerJackson:
		imports["com.fasterxml.jackson.annotation.JsonProperty"] = true
		return "@JsonProperty(" + quoted + ") "
	case options.SerializerGson:
		imports["com.google.gson.annotations.SerializedName"] = true
		return "@SerializedName(" + quoted + ") "
	}
	return ""
}

func ident(name string) string {
	if keywords[name] {
		return "`" + name + "`"
	}
	return name
}

// quote renders s as a Kotlin string literal. $ is escaped so the literal
// stays a constant rather than a template.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '$':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
