// Package php emits PHP 8 classes with promoted constructor properties.
package php

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates PHP classes.
type Emitter struct{}

// New creates a PHP emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "php" }
func (e *Emitter) FileExtension() string { return ".php" }

// The resolver produces docblock types; native hints are derived from them.
type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "int"
	case descriptor.Float:
		return "float"
	case descriptor.Boolean:
		return "bool"
	default:
		return "string"
	}
}

func (resolver) ArrayType(elem string) string { return "list<" + elem + ">" }

func (resolver) NullableType(inner string) string {
	if inner == "mixed" || strings.HasSuffix(inner, "|null") {
		return inner
	}
	return inner + "|null"
}

func (resolver) UnknownType() string              { return "mixed" }
func (resolver) TypeName(candidate string) string { return candidate }

func (resolver) FieldName(key string) string {
	name := generator.Camel(key)
	if name == "this" {
		return "this_"
	}
	return name
}

// Emit renders root as a PHP file.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.PHP
	plan := generator.Prepare(root, opts, resolver{})
	w := &writer{plan: plan, opts: o}

	var sb strings.Builder
	sb.WriteString("<?php\n\n")
	if o.StrictTypes {
		sb.WriteString("declare(strict_types=1);\n\n")
	}
	if ns := strings.TrimSpace(o.Namespace); ns != "" {
		fmt.Fprintf(&sb, "namespace %s;\n\n", ns)
	}
	if !plan.RootIsObject {
		fmt.Fprintf(&sb, "// %s is %s.\n", plan.Name, plan.RootType)
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
	opts options.PHPOptions
}

func hasDefault(f generator.Field) bool { return f.Nullable || f.Optional }

// native converts a docblock type into a property type hint.
func native(doc string, nullable bool) string {
	t := strings.TrimSuffix(doc, "|null")
	if strings.HasPrefix(t, "list<") {
		t = "array"
	}
	if nullable && t != "mixed" {
		return "?" + t
	}
	return t
}

func (w *writer) class(sb *strings.Builder, def generator.TypeDef) {
	fmt.Fprintf(sb, "final class %s\n{\n", def.Name)

	if len(def.Fields) == 0 {
		sb.WriteString("    public function __construct()\n    {\n    }\n\n")
		sb.WriteString("    public static function fromArray(array $data): self\n    {\n        return new self();\n    }\n}\n")
		return
	}

	// Parameters with defaults must follow required ones.
	fields := make([]generator.Field, len(def.Fields))
	copy(fields, def.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return !hasDefault(fields[i]) && hasDefault(fields[j])
	})

	modifier := "public "
	if w.opts.ReadOnly {
		modifier = "public readonly "
	}
	sb.WriteString("    public function __construct(\n")
	for _, f := range fields {
		if strings.HasPrefix(f.Type, "list<") {
			doc := f.Type
			if hasDefault(f) {
				doc += "|null"
			}
			fmt.Fprintf(sb, "        /** @var %s */\n", doc)
		}
		fmt.Fprintf(sb, "        %s%s $%s", modifier, native(f.Type, hasDefault(f)), f.Name)
		if hasDefault(f) {
			sb.WriteString(" = null")
		}
		sb.WriteString(",\n")
	}
	sb.WriteString("    ) {\n    }\n\n")

	sb.WriteString("    public static function fromArray(array $data): self\n    {\n        return new self(\n")
	for _, f := range fields {
		access := "$data[" + quote(f.Key) + "]"
		fmt.Fprintf(sb, "            %s: %s,\n", f.Name, w.convert(f.Desc, access, hasDefault(f), 0))
	}
	sb.WriteString("        );\n    }\n}\n")
}

// convert builds the expression that turns the decoded value at expr into
// the property value.
func (w *writer) convert(d descriptor.Descriptor, expr string, nullable bool, depth int) string {
	var value string
	switch v := d.(type) {
	case *descriptor.Object:
		name, _ := w.plan.NameOf(v)
		value = name + "::fromArray(" + expr + ")"
	case *descriptor.Array:
		if !containsObject(v.Elem) {
			break
		}
		item := fmt.Sprintf("$item%d", depth)
		if depth == 0 {
			item = "$item"
		}
		inner, innerNullable := descriptor.Unwrap(v.Elem)
		value = fmt.Sprintf("array_map(static fn (%s) => %s, %s)",
			item, w.convert(inner, item, innerNullable, depth+1), expr)
	}

	switch {
	case value == "" && nullable && depth == 0:
		return expr + " ?? null"
	case value == "":
		return expr
	case nullable:
		return "isset(" + expr + ") ? " + value + " : null"
	}
	return value
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

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
