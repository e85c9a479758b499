// Package java emits Java classes or records.
package java

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates Java declarations.
type Emitter struct{}

// New creates a Java emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "java" }
func (e *Emitter) FileExtension() string { return ".java" }

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true, "case": true,
	"catch": true, "char": true, "class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true, "extends": true, "final": true,
	"finally": true, "float": true, "for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true, "long": true,
	"native": true, "new": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "short": true, "static": true, "strictfp": true,
	"super": true, "switch": true, "synchronized": true, "this": true, "throw": true,
	"throws": true, "transient": true, "try": true, "void": true, "volatile": true,
	"while": true, "true": true, "false": true, "null": true, "record": true, "var": true,
	"yield": true,
}

var boxed = map[string]string{
	"long":    "Long",
	"double":  "Double",
	"boolean": "Boolean",
}

func box(t string) string {
	if b, ok := boxed[t]; ok {
		return b
	}
	return t
}

type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "long"
	case descriptor.Float:
		return "double"
	case descriptor.Boolean:
		return "boolean"
	default:
		return "String"
	}
}

func (resolver) ArrayType(elem string) string     { return "List<" + box(elem) + ">" }
func (resolver) NullableType(inner string) string { return box(inner) }
func (resolver) UnknownType() string              { return "Object" }
func (resolver) TypeName(candidate string) string { return candidate }

func (resolver) FieldName(key string) string {
	name := generator.Camel(key)
	if keywords[name] {
		return name + "_"
	}
	return name
}

// Emit renders root as a Java compilation unit. Only the first type is
// public; the rest are package-private so they can share the file.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Java
	style := options.Enum(o.Style, options.JavaClass, options.JavaRecord)
	plan := generator.Prepare(root, opts, resolver{})

	imports := make(map[string]bool)
	var body strings.Builder

	if !plan.RootIsObject {
		fmt.Fprintf(&body, "// %s is %s.\n", plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			body.WriteString("\n")
		}
	}

	for i, def := range plan.Defs {
		visibility := ""
		if i == 0 {
			visibility = "public "
		}
		if style == options.JavaRecord {
			writeRecord(&body, def, visibility, o, imports)
		} else {
			writeClass(&body, def, visibility, o, imports)
		}
		if i < len(plan.Defs)-1 {
			body.WriteString("\n")
		}
	}

	if strings.Contains(body.String(), "List<") {
		imports["java.util.List"] = true
	}

	var sb strings.Builder
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
			fmt.Fprintf(&sb, "import %s;\n", p)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(body.String())
	return sb.String(), nil
}

func fieldType(f generator.Field) string {
	if f.Nullable || f.Optional {
		return box(f.Type)
	}
	return f.Type
}

func annotation(f generator.Field, o options.JavaOptions, imports map[string]bool) string {
	if !o.Jackson || !f.Renamed() {
		return ""
	}
	imports["com.fasterxml.jackson.annotation.JsonProperty"] = true
	return "@JsonProperty(" + quote(f.Key) + ") "
}

func writeClass(sb *strings.Builder, def generator.TypeDef, visibility string, o options.JavaOptions, imports map[string]bool) {
	modifier := "public "
	if o.Lombok {
		imports["lombok.Data"] = true
		sb.WriteString("@Data\n")
		modifier = "private "
	}
	fmt.Fprintf(sb, "%sclass %s {\n", visibility, def.Name)
	for _, f := range def.Fields {
		sb.WriteString("    ")
		sb.WriteString(annotation(f, o, imports))
		fmt.Fprintf(sb, "%s%s %s;\n", modifier, fieldType(f), f.Name)
	}
	sb.WriteString("}\n")
}

func writeRecord(sb *strings.Builder, def generator.TypeDef, visibility string, o options.JavaOptions, imports map[string]bool) {
	if len(def.Fields) == 0 {
		fmt.Fprintf(sb, "%srecord %s() {\n}\n", visibility, def.Name)
		return
	}
	fmt.Fprintf(sb, "%srecord %s(\n", visibility, def.Name)
	for i, f := range def.Fields {
		sep := ","
		if i == len(def.Fields)-1 {
			sep = ""
		}
		fmt.Fprintf(sb, "    %s%s %s%s\n", annotation(f, o, imports), fieldType(f), f.Name, sep)
	}
	sb.WriteString(") {\n}\n")
}

// quote renders s as a Java string literal. Control characters use octal
// escapes since \u sequences are translated before the lexer runs.
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
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\%03o`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
