// Package python emits dataclasses, pydantic models or TypedDicts.
package python

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter generates Python type declarations.
type Emitter struct{}

// New creates a Python emitter.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Name() string          { return "python" }
func (e *Emitter) FileExtension() string { return ".py" }
func (e *Emitter) Aliases() []string     { return []string{"py"} }

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true, "yield": true,
}

type resolver struct {
	dates bool
}

func (r resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "int"
	case descriptor.Float:
		return "float"
	case descriptor.Boolean:
		return "bool"
	case descriptor.DateTime:
		if r.dates {
			return "datetime"
		}
		return "str"
	default:
		return "str"
	}
}

func (resolver) ArrayType(elem string) string     { return "list[" + elem + "]" }
func (resolver) NullableType(inner string) string { return orNone(inner) }
func (resolver) UnknownType() string              { return "Any" }
func (resolver) TypeName(candidate string) string { return candidate }

func (resolver) FieldName(key string) string {
	name := generator.Snake(key)
	if keywords[name] {
		return name + "_"
	}
	return name
}

func orNone(t string) string {
	if strings.HasSuffix(t, " | None") {
		return t
	}
	return t + " | None"
}

// Emit renders root as Python.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	style := options.Enum(opts.Python.Style, options.PythonDataclass, options.PythonPydantic, options.PythonTypedDict)
	r := resolver{dates: style == options.PythonPydantic}
	plan := generator.Prepare(root, opts, r)

	var body strings.Builder
	w := &writer{sb: &body, imports: newImports()}
	for i, def := range plan.Defs {
		switch style {
		case options.PythonPydantic:
			w.pydantic(def)
		case options.PythonTypedDict:
			w.typedDict(def)
		default:
			w.dataclass(def)
		}
		if i < len(plan.Defs)-1 {
			body.WriteString("\n\n")
		}
	}
	if !plan.RootIsObject {
		if len(plan.Defs) > 0 {
			body.WriteString("\n\n")
		}
		// Aliases are evaluated at import time, so this goes last.
		fmt.Fprintf(&body, "%s = %s\n", plan.Name, plan.RootType)
		w.use(plan.RootType)
	}

	var sb strings.Builder
	sb.WriteString("from __future__ import annotations\n\n")
	w.imports.write(&sb)
	sb.WriteString(body.String())
	return sb.String(), nil
}

type writer struct {
	sb      *strings.Builder
	imports *imports
}

// use records the imports a type expression needs.
func (w *writer) use(typ string) {
	if strings.Contains(typ, "Any") {
		w.imports.add("typing", "Any")
	}
	if strings.Contains(typ, "datetime") {
		w.imports.add("datetime", "datetime")
	}
}

func (w *writer) dataclass(def generator.TypeDef) {
	w.imports.add("dataclasses", "dataclass")
	fmt.Fprintf(w.sb, "@dataclass\nclass %s:\n", def.Name)
	if len(def.Fields) == 0 {
		w.sb.WriteString("    pass\n")
		return
	}

	// Fields with defaults must follow fields without them.
	fields := make([]generator.Field, len(def.Fields))
	copy(fields, def.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return !hasDefault(fields[i]) && hasDefault(fields[j])
	})

	for _, f := range fields {
		typ := f.Type
		if hasDefault(f) {
			typ = orNone(typ)
		}
		w.use(typ)
		fmt.Fprintf(w.sb, "    %s: %s", f.Name, typ)
		if hasDefault(f) {
			w.sb.WriteString(" = None")
		}
		if f.Renamed() {
			fmt.Fprintf(w.sb, "  # json: %s", strconv.Quote(f.Key))
		}
		w.sb.WriteString("\n")
	}
}

func (w *writer) pydantic(def generator.TypeDef) {
	w.imports.add("pydantic", "BaseModel")
	fmt.Fprintf(w.sb, "class %s(BaseModel):\n", def.Name)
	if len(def.Fields) == 0 {
		w.sb.WriteString("    pass\n")
		return
	}

	for _, f := range def.Fields {
		typ := f.Type
		if hasDefault(f) {
			typ = orNone(typ)
		}
		w.use(typ)
		fmt.Fprintf(w.sb, "    %s: %s", f.Name, typ)
		switch {
		case f.Renamed() && hasDefault(f):
			w.imports.add("pydantic", "Field")
			fmt.Fprintf(w.sb, " = Field(default=None, alias=%s)", strconv.Quote(f.Key))
		case f.Renamed():
			w.imports.add("pydantic", "Field")
			fmt.Fprintf(w.sb, " = Field(alias=%s)", strconv.Quote(f.Key))
		case hasDefault(f):
			w.sb.WriteString(" = None")
		}
		w.sb.WriteString("\n")
	}
}

func (w *writer) typedDict(def generator.TypeDef) {
	w.imports.add("typing", "TypedDict")

	types := make([]string, len(def.Fields))
	functional := false
	for i, f := range def.Fields {
		typ := f.Type
		if f.Nullable {
			typ = orNone(typ)
		}
		if f.Optional {
			w.imports.add("typing", "NotRequired")
			typ = "NotRequired[" + typ + "]"
		}
		w.use(typ)
		types[i] = typ
		if !generator.IsIdentifier(f.Key) || keywords[f.Key] {
			functional = true
		}
	}

	// Keys that are not identifiers need the call syntax.
	if functional {
		fmt.Fprintf(w.sb, "%s = TypedDict(%s, {\n", def.Name, strconv.Quote(def.Name))
		for i, f := range def.Fields {
			fmt.Fprintf(w.sb, "    %s: %s,\n", strconv.Quote(f.Key), strconv.Quote(types[i]))
		}
		w.sb.WriteString("})\n")
		return
	}

	fmt.Fprintf(w.sb, "class %s(TypedDict):\n", def.Name)
	if len(def.Fields) == 0 {
		w.sb.WriteString("    pass\n")
		return
	}
	for i, f := range def.Fields {
		fmt.Fprintf(w.sb, "    %s: %s\n", f.Key, types[i])
	}
}

func hasDefault(f generator.Field) bool { return f.Nullable || f.Optional }

// imports collects "from module import name" lines.
type imports struct {
	names map[string]map[string]bool
}

func newImports() *imports {
	return &imports{names: make(map[string]map[string]bool)}
}

func (im *imports) add(module, name string) {
	if im.names[module] == nil {
		im.names[module] = make(map[string]bool)
	}
	im.names[module][name] = true
}

// write prints standard library modules before third-party ones, each
// group sorted, followed by two blank lines.
func (im *imports) write(sb *strings.Builder) {
	if len(im.names) == 0 {
		return
	}
	var std, third []string
	for m := range im.names {
		if m == "pydantic" {
			third = append(third, m)
		} else {
			std = append(std, m)
		}
	}
	sort.Strings(std)
	sort.Strings(third)

	line := func(m string) {
		names := make([]string, 0, len(im.names[m]))
		for n := range im.names[m] {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(sb, "from %s import %s\n", m, strings.Join(names, ", "))
	}
	for _, m := range std {
		line(m)
	}
	if len(std) > 0 && len(third) > 0 {
		sb.WriteString("\n")
	}
	for _, m := range third {
		line(m)
	}
	sb.WriteString("\n\n")
}
