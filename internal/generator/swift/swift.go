// Package swift emits Swift structs or classes conforming to Codable.
package swift

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates Swift declarations.
type Emitter struct{}

// New creates a Swift emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "swift" }
func (e *Emitter) FileExtension() string { return ".swift" }

var keywords = map[string]bool{
	"associatedtype": true, "class": true, "deinit": true, "enum": true, "extension": true,
	"fileprivate": true, "func": true, "import": true, "init": true, "inout": true,
	"internal": true, "let": true, "open": true, "operator": true, "private": true,
	"protocol": true, "public": true, "rethrows": true, "static": true, "struct": true,
	"subscript": true, "typealias": true, "var": true, "break": true, "case": true,
	"continue": true, "default": true, "defer": true, "do": true, "else": true,
	"fallthrough": true, "for": true, "guard": true, "if": true, "in": true, "repeat": true,
	"return": true, "switch": true, "where": true, "while": true, "as": true, "catch": true,
	"false": true, "is": true, "nil": true, "super": true, "self": true, "Self": true,
	"throw": true, "throws": true, "true": true, "try": true,
}

// jsonValue is appended when an unknown type has to be Codable.
const jsonValue = `enum JSONValue: Codable, Hashable {
    case string(String)
    case number(Double)
    case bool(Bool)
    case object([String: JSONValue])
    case array([JSONValue])
    case null

    init(from decoder: Decoder) throws {
        let container = try decoder.singleValueContainer()
        if container.decodeNil() {
            self = .null
        } else if let value = try? container.decode(Bool.self) {
            self = .bool(value)
        } else if let value = try? container.decode(Double.self) {
            self = .number(value)
        } else if let value = try? container.decode(String.self) {
            self = .string(value)
        } else if let value = try? container.decode([JSONValue].self) {
            self = .array(value)
        } else {
            self = .object(try container.decode([String: JSONValue].self))
        }
    }

    func encode(to encoder: Encoder) throws {
        var container = encoder.singleValueContainer()
        switch self {
        case .string(let value): try container.encode(value)
        case .number(let value): try container.encode(value)
        case .bool(let value): try container.encode(value)
        case .object(let value): try container.encode(value)
        case .array(let value): try container.encode(value)
        case .null: try container.encodeNil()
        }
    }
}
`

type resolver struct {
	unknown string
}

func (resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "Int"
	case descriptor.Float:
		return "Double"
	case descriptor.Boolean:
		return "Bool"
	default:
		return "String"
	}
}

func (resolver) ArrayType(elem string) string     { return "[" + elem + "]" }
func (resolver) NullableType(inner string) string { return optional(inner) }
func (r resolver) UnknownType() string            { return r.unknown }
func (resolver) TypeName(candidate string) string { return candidate }
func (resolver) FieldName(key string) string      { return generator.Camel(key) }

func optional(t string) string {
	if strings.HasSuffix(t, "?") {
		return t
	}
	return t + "?"
}

// Emit renders root as Swift.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Swift
	kind := options.Enum(o.Kind, options.SwiftStruct, options.SwiftClass)

	r := resolver{unknown: "Any"}
	if o.Codable {
		r.unknown = "JSONValue"
	}
	plan := generator.Prepare(root, opts, r)

	var sb strings.Builder
	sb.WriteString("import Foundation\n\n")

	if !plan.RootIsObject {
		fmt.Fprintf(&sb, "typealias %s = %s\n", plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			sb.WriteString("\n")
		}
	}
	for i, def := range plan.Defs {
		writeType(&sb, def, kind, o)
		if i < len(plan.Defs)-1 {
			sb.WriteString("\n")
		}
	}
	if o.Codable && strings.Contains(sb.String(), "JSONValue") {
		sb.WriteString("\n")
		sb.WriteString(jsonValue)
	}
	return sb.String(), nil
}

func fieldType(f generator.Field) string {
	if f.Nullable || f.Optional {
		return optional(f.Type)
	}
	return f.Type
}

func writeType(sb *strings.Builder, def generator.TypeDef, kind string, o options.SwiftOptions) {
	decl := "struct"
	if kind == options.SwiftClass {
		decl = "final class"
	}
	conformance := ""
	if o.Codable {
		conformance = ": Codable"
	}
	fmt.Fprintf(sb, "%s %s%s {\n", decl, def.Name, conformance)

	for _, f := range def.Fields {
		fmt.Fprintf(sb, "    let %s: %s\n", ident(f.Name), fieldType(f))
	}

	if kind == options.SwiftClass {
		writeInit(sb, def)
	}

	if o.Codable && o.CodingKeys && needsCodingKeys(def) {
		sb.WriteString("\n    enum CodingKeys: String, CodingKey {\n")
		for _, f := range def.Fields {
			if f.Renamed() {
				fmt.Fprintf(sb, "        case %s = %s\n", ident(f.Name), strconv.Quote(f.Key))
			} else {
				fmt.Fprintf(sb, "        case %s\n", ident(f.Name))
			}
		}
		sb.WriteString("    }\n")
	}
	sb.WriteString("}\n")
}

// writeInit adds the memberwise initializer classes do not synthesize.
func writeInit(sb *strings.Builder, def generator.TypeDef) {
	params := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		params[i] = fmt.Sprintf("%s: %s", ident(f.Name), fieldType(f))
	}
	if len(def.Fields) > 0 {
		sb.WriteString("\n")
	}
	fmt.Fprintf(sb, "    init(%s) {\n", strings.Join(params, ", "))
	for _, f := range def.Fields {
		fmt.Fprintf(sb, "        self.%s = %s\n", f.Name, ident(f.Name))
	}
	sb.WriteString("    }\n")
}

func needsCodingKeys(def generator.TypeDef) bool {
	for _, f := range def.Fields {
		if f.Renamed() {
			return true
		}
	}
	return false
}

func ident(name string) string {
	if keywords[name] {
		return "`" + name + "`"
	}
	return name
}
