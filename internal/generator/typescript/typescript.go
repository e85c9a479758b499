// Package typescript emits TypeScript interfaces or type aliases.
package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates TypeScript declarations.
type Emitter struct{}

// New creates a TypeScript emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "typescript" }
func (e *Emitter) FileExtension() string { return ".ts" }
func (e *Emitter) Aliases() []string     { return []string{"ts"} }

type resolver struct {
	unknown string
}

func (r resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer, descriptor.Float:
		return "number"
	case descriptor.Boolean:
		return "boolean"
	default:
		return "string"
	}
}

func (r resolver) ArrayType(elem string) string {
	if strings.ContainsAny(elem, " |") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}

func (r resolver) NullableType(inner string) string { return inner + " | null" }
func (r resolver) UnknownType() string              { return r.unknown }
func (r resolver) TypeName(candidate string) string { return candidate }
func (r resolver) FieldName(key string) string      { return key }

// Emit renders root as TypeScript.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.TypeScript
	r := resolver{unknown: options.Enum(o.UnknownType, "unknown", "any")}
	plan := generator.Prepare(root, opts, r)

	decl := options.Enum(o.Declaration, options.DeclarationInterface, options.DeclarationType)
	style := options.Enum(o.NullableStyle, options.NullableUnion, options.NullableOptional, options.NullableBoth)
	export := ""
	if o.Export {
		export = "export "
	}

	var sb strings.Builder
	if !plan.RootIsObject {
		fmt.Fprintf(&sb, "%stype %s = %s;\n", export, plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			sb.WriteString("\n")
		}
	}

	for i, def := range plan.Defs {
		if decl == options.DeclarationType {
			fmt.Fprintf(&sb, "%stype %s = {\n", export, def.Name)
		} else {
			fmt.Fprintf(&sb, "%sinterface %s {\n", export, def.Name)
		}
		for _, f := range def.Fields {
			sb.WriteString("  ")
			if o.ReadOnly {
				sb.WriteString("readonly ")
			}
			sb.WriteString(propertyName(f.Key))

			typ := f.Type
			optional := f.Optional
			if f.Nullable {
				if style != options.NullableOptional {
					typ = r.NullableType(typ)
				}
				if style != options.NullableUnion {
					optional = true
				}
			}
			if optional {
				sb.WriteString("?")
			}
			fmt.Fprintf(&sb, ": %s;\n", typ)
		}
		if decl == options.DeclarationType {
			sb.WriteString("};\n")
		} else {
			sb.WriteString("}\n")
		}
		if i < len(plan.Defs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// propertyName quotes keys that are not valid identifiers.
func propertyName(key string) string {
	if generator.IsIdentifier(strings.ReplaceAll(key, "$", "_")) {
		return key
	}
	return strconv.Quote(key)
}
