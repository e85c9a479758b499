// Package dart emits Dart classes with JSON conversion, either written out
// or delegated to json_serializable.
package dart

import (
	"fmt"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates Dart classes.
type Emitter struct{}

// New creates a Dart emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "dart" }
func (e *Emitter) FileExtension() string { return ".dart" }

var keywords = map[string]bool{
	"assert": true, "break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "else": true, "enum": true, "extends": true,
	"false": true, "final": true, "finally": true, "for": true, "if": true, "in": true,
	"is": true, "new": true, "null": true, "rethrow": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "true": true, "try": true, "var": true,
	"void": true, "while": true, "with": true,
}

type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "int"
	case descriptor.Float:
		return "double"
	case descriptor.Boolean:
		return "bool"
	default:
		return "String"
	}
}

func (resolver) ArrayType(elem string) string     { return "List<" + elem + ">" }
func (resolver) NullableType(inner string) string { return nullable(inner) }
func (resolver) UnknownType() string              { return "dynamic" }
func (resolver) TypeName(candidate string) string { return candidate }

func (resolver) FieldName(key string) string {
	name := generator.Camel(key)
	if keywords[name] {
		return name + "_"
	}
	return name
}

// nullable marks t as nullable; dynamic already admits null.
func nullable(t string) string {
	if t == "dynamic" || strings.HasSuffix(t, "?") {
		return t
	}
	return t + "?"
}

// Emit renders root as a Dart library.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Dart
	plan := generator.Prepare(root, opts, resolver{})
	w := &writer{plan: plan, opts: o}

	var sb strings.Builder
	if o.JSONSerializable && len(plan.Defs) > 0 {
		sb.WriteString("import 'package:json_annotation/json_annotation.dart';\n\n")
		fmt.Fprintf(&sb, "part '%s.g.dart';\n\n", generator.Snake(plan.Name))
	}
	if !plan.RootIsObject {
		fmt.Fprintf(&sb, "typedef %s = %s;\n", plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			sb.WriteString("\n")
		}
	}
	for i, def := range plan.Defs {
		w.class(&sb, def)
		if i < len(plan.Defs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

type writer struct {
	plan *generator.Plan
	opts options.DartOptions
}

func fieldType(f generator.Field) string {
	if f.Nullable || f.Optional {
		return nullable(f.Type)
	}
	return f.Type
}

func (w *writer) class(sb *strings.Builder, def generator.TypeDef) {
	if w.opts.JSONSerializable {
		sb.WriteString("@JsonSerializable()\n")
	}
	fmt.Fprintf(sb, "class %s {\n", def.Name)

	modifier := ""
	if w.opts.FinalFields {
		modifier = "final "
	}
	for _, f := range def.Fields {
		if w.opts.JSONSerializable && f.Renamed() {
			fmt.Fprintf(sb, "  @JsonKey(name: %s)\n", quote(f.Key))
		}
		fmt.Fprintf(sb, "  %s%s %s;\n", modifier, fieldType(f), f.Name)
	}
	if len(def.Fields) > 0 {
		sb.WriteString("\n")
	}

	constructor := def.Name
	if w.opts.FinalFields {
		constructor = "const " + def.Name
	}
	if len(def.Fields) == 0 {
		fmt.Fprintf(sb, "  %s();\n\n", constructor)
	} else {
		fmt.Fprintf(sb, "  %s({\n", constructor)
		for _, f := range def.Fields {
			if f.Nullable || f.Optional {
				fmt.Fprintf(sb, "    this.%s,\n", f.Name)
			} else {
				fmt.Fprintf(sb, "    required this.%s,\n", f.Name)
			}
		}
		sb.WriteString("  });\n\n")
	}

	if w.opts.JSONSerializable {
		fmt.Fprintf(sb, "  factory %s.fromJson(Map<String, dynamic> json) => _$%sFromJson(json);\n\n", def.Name, def.Name)
		fmt.Fprintf(sb, "  Map<String, dynamic> toJson() => _$%sToJson(this);\n", def.Name)
		sb.WriteString("}\n")
		return
	}

	fmt.Fprintf(sb, "  factory %s.fromJson(Map<String, dynamic> json) => %s(\n", def.Name, def.Name)
	for _, f := range def.Fields {
		access := "json[" + quote(f.Key) + "]"
		value := w.fromJSON(f.Desc, access, 0)
		if (f.Nullable || f.Optional) && value != access {
			value = access + " == null ? null : " + value
		}
		fmt.Fprintf(sb, "        %s: %s,\n", f.Name, value)
	}
	sb.WriteString("      );\n\n")

	if len(def.Fields) == 0 {
		sb.WriteString("  Map<String, dynamic> toJson() => {};\n}\n")
		return
	}
	sb.WriteString("  Map<String, dynamic> toJson() => {\n")
	for _, f := range def.Fields {
		fmt.Fprintf(sb, "        %s: %s,\n", quote(f.Key), w.toJSON(f.Desc, f.Name, f.Nullable || f.Optional, 0))
	}
	sb.WriteString("      };\n}\n")
}

// fromJSON converts the decoded value expr into the Dart type of d.
func (w *writer) fromJSON(d descriptor.Descriptor, expr string, depth int) string {
	switch v := d.(type) {
	case *descriptor.Primitive:
		switch v.Type {
		case descriptor.Integer:
			return "(" + expr + " as num).toInt()"
		case descriptor.Float:
			return "(" + expr + " as num).toDouble()"
		case descriptor.Boolean:
			return expr + " as bool"
		default:
			return expr + " as String"
		}
	case *descriptor.Array:
		list := "(" + expr + " as List<dynamic>)"
		if v.Elem.Kind() == descriptor.KindUnknown {
			return list
		}
		elem := element(depth)
		return fmt.Sprintf("%s.map((%s) => %s).toList()", list, elem, w.fromJSON(v.Elem, elem, depth+1))
	case *descriptor.Nullable:
		inner := w.fromJSON(v.Inner, expr, depth)
		if inner == expr {
			return expr
		}
		return expr + " == null ? null : " + inner
	case *descriptor.Object:
		name, _ := w.plan.NameOf(v)
		return name + ".fromJson(" + expr + " as Map<String, dynamic>)"
	}
	return expr
}

// toJSON converts the Dart value expr back into a JSON-encodable value.
func (w *writer) toJSON(d descriptor.Descriptor, expr string, nullable bool, depth int) string {
	access := "."
	if nullable {
		access = "?."
	}
	switch v := d.(type) {
	case *descriptor.Object:
		return expr + access + "toJson()"
	case *descriptor.Array:
		if !containsObject(v.Elem) {
			return expr
		}
		elem := element(depth)
		inner, innerNullable := descriptor.Unwrap(v.Elem)
		return fmt.Sprintf("%s%smap((%s) => %s).toList()", expr, access, elem, w.toJSON(inner, elem, innerNullable, depth+1))
	}
	return expr
}

func containsObject(d descriptor.Descriptor) bool {
	switch v := d.(type) {
	case *descriptor.Object:
		return true
	case *descriptor.Array:
		return containsObject(v.Elem)
	case *descriptor.Nullable:
		return containsObject(v.Inner)
	}
	return false
}

func element(depth int) string {
	if depth == 0 {
		return "e"
	}
	return fmt.Sprintf("e%d", depth)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}
