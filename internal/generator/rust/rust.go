// Package rust emits Rust structs with serde attributes.
package rust

import (
	"fmt"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates Rust structs.
type Emitter struct{}

// New creates a Rust emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "rust" }
func (e *Emitter) FileExtension() string { return ".rs" }
func (e *Emitter) Aliases() []string     { return []string{"rs"} }

var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true, "continue": true,
	"crate": true, "dyn": true, "else": true, "enum": true, "extern": true, "false": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "static": true, "struct": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true, "abstract": true,
	"become": true, "box": true, "do": true, "final": true, "macro": true, "override": true,
	"priv": true, "typeof": true, "unsized": true, "virtual": true, "yield": true, "try": true,
}

// These cannot be raw identifiers.
var reserved = map[string]bool{"self": true, "Self": true, "super": true, "crate": true}

type resolver struct{}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "i64"
	case descriptor.Float:
		return "f64"
	case descriptor.Boolean:
		return "bool"
	default:
		// DateTime stays an RFC 3339 string to avoid a chrono dependency.
		return "String"
	}
}

func (resolver) ArrayType(elem string) string     { return "Vec<" + elem + ">" }
func (resolver) NullableType(inner string) string { return option(inner) }
func (resolver) UnknownType() string              { return "serde_json::Value" }
func (resolver) TypeName(candidate string) string { return candidate }
func (resolver) FieldName(key string) string      { return generator.Snake(key) }

func option(inner string) string {
	if strings.HasPrefix(inner, "Option<") {
		return inner
	}
	return "Option<" + inner + ">"
}

// Emit renders root as Rust.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Rust
	plan := generator.Prepare(root, opts, resolver{})

	pub := ""
	if o.Public {
		pub = "pub "
	}
	derives := deriveList(o)

	var sb strings.Builder
	if o.Serde && len(plan.Defs) > 0 {
		sb.WriteString("use serde::{Deserialize, Serialize};\n\n")
	}

	if !plan.RootIsObject {
		fmt.Fprintf(&sb, "%stype %s = %s;\n", pub, plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			sb.WriteString("\n")
		}
	}

	for i, def := range plan.Defs {
		if len(derives) > 0 {
			fmt.Fprintf(&sb, "#[derive(%s)]\n", strings.Join(derives, ", "))
		}
		fmt.Fprintf(&sb, "%sstruct %s {\n", pub, def.Name)
		for _, f := range def.Fields {
			typ := f.Type
			if f.Nullable || f.Optional {
				typ = option(typ)
			}
			name := ident(f.Name)
			if o.Serde {
				if strings.TrimPrefix(name, "r#") != f.Key {
					fmt.Fprintf(&sb, "    #[serde(rename = %q)]\n", f.Key)
				}
				if f.Optional {
					sb.WriteString("    #[serde(default, skip_serializing_if = \"Option::is_none\")]\n")
				}
			}
			fmt.Fprintf(&sb, "    %s%s: %s,\n", pub, name, typ)
		}
		sb.WriteString("}\n")
		if i < len(plan.Defs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// deriveList drops the serde derives when serde support is off.
func deriveList(o options.RustOptions) []string {
	out := make([]string, 0, len(o.Derives))
	for _, d := range o.Derives {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if !o.Serde && (d == "Serialize" || d == "Deserialize") {
			continue
		}
		out = append(out, d)
	}
	return out
}

func ident(name string) string {
	switch {
	case reserved[name]:
		return name + "_"
	case keywords[name]:
		return "r#" + name
	}
	return name
}
