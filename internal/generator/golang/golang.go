// Package golang emits Go struct declarations.
package golang

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/formatter"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

var timeType = regexp.MustCompile(`\btime\.Time\b`)

// Emitter generates Go structs with encoding/json tags.
type Emitter struct {
	formatter *formatter.Formatter
}

// New creates a Go emitter.
func New() *Emitter {
	return &Emitter{formatter: formatter.NewFormatter()}
}

func (e *Emitter) Name() string          { return "go" }
func (e *Emitter) FileExtension() string { return ".go" }
func (e *Emitter) Aliases() []string     { return []string{"golang"} }

// Emit renders root as a Go source file.
func (e *Emitter) Emit(root descriptor.Descriptor, opts options.Options) (string, error) {
	o := opts.Go
	r := &resolver{opts: o}
	plan := generator.Prepare(root, opts, r)
	mappings := compileMappings(o.TypeMappings)

	imports := make(map[string]struct{})
	var body bytes.Buffer

	if !plan.RootIsObject {
		if timeType.MatchString(plan.RootType) {
			imports["time"] = struct{}{}
		}
		fmt.Fprintf(&body, "type %s %s\n", plan.Name, plan.RootType)
		if len(plan.Defs) > 0 {
			body.WriteString("\n")
		}
	}

	for i, def := range plan.Defs {
		lines := make([]fieldLine, 0, len(def.Fields))
		for _, f := range def.Fields {
			l := r.field(f, mappings, imports)
			if timeType.MatchString(l.typ) {
				imports["time"] = struct{}{}
			}
			lines = append(lines, l)
		}
		writeStruct(&body, def.Name, lines)
		if i < len(plan.Defs)-1 {
			body.WriteString("\n")
		}
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by polytyper. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n", packageName(o.Package))
	writeImports(&buf, imports)
	buf.WriteString("\n")
	buf.Write(body.Bytes())

	if !o.Format {
		return buf.String(), nil
	}
	return e.formatter.Format(buf.String())
}

type fieldLine struct {
	name, typ, tag string
}

// writeStruct pads names and types so the output is aligned even when
// formatting is turned off.
func writeStruct(buf *bytes.Buffer, name string, lines []fieldLine) {
	if len(lines) == 0 {
		fmt.Fprintf(buf, "type %s struct{}\n", name)
		return
	}

	maxName, maxType := 0, 0
	for _, l := range lines {
		maxName = max(maxName, len(l.name))
		maxType = max(maxType, len(l.typ))
	}

	fmt.Fprintf(buf, "type %s struct {\n", name)
	for _, l := range lines {
		fmt.Fprintf(buf, "\t%-*s %-*s %s\n", maxName, l.name, maxType, l.typ, l.tag)
	}
	buf.WriteString("}\n")
}

func writeImports(buf *bytes.Buffer, imports map[string]struct{}) {
	if len(imports) == 0 {
		return
	}
	paths := make([]string, 0, len(imports))
	for p := range imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if len(paths) == 1 {
		fmt.Fprintf(buf, "\nimport %q\n", paths[0])
		return
	}
	buf.WriteString("\nimport (\n")
	for _, p := range paths {
		fmt.Fprintf(buf, "\t%q\n", p)
	}
	buf.WriteString(")\n")
}

func packageName(pkg string) string {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" || !generator.IsIdentifier(pkg) {
		return "main"
	}
	return pkg
}

type typeMapping struct {
	re *regexp.Regexp
	options.TypeMapping
}

// compileMappings drops patterns that do not compile. The config loader
// reports them before they get here.
func compileMappings(in []options.TypeMapping) []typeMapping {
	out := make([]typeMapping, 0, len(in))
	for _, m := range in {
		re, err := regexp.Compile(m.Pattern)
		if err != nil || m.Type == "" {
			continue
		}
		out = append(out, typeMapping{re: re, TypeMapping: m})
	}
	return out
}
