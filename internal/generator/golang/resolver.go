package golang

import (
	"fmt"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/options"
)

// Common initialisms written in upper case by golint.
var acronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"http": "HTTP",
	"api":  "API",
	"json": "JSON",
	"xml":  "XML",
	"sql":  "SQL",
	"html": "HTML",
	"ip":   "IP",
	"tcp":  "TCP",
	"udp":  "UDP",
	"tls":  "TLS",
	"ssl":  "SSL",
	"ssh":  "SSH",
	"cpu":  "CPU",
	"uuid": "UUID",
	"uid":  "UID",
	"dns":  "DNS",
}

type resolver struct {
	opts options.GoOptions
}

func (r *resolver) PrimitiveType(p *descriptor.Primitive) string {
	switch p.Type {
	case descriptor.Integer:
		return "int64"
	case descriptor.Float:
		return "float64"
	case descriptor.Boolean:
		return "bool"
	case descriptor.DateTime:
		return "time.Time"
	default:
		return "string"
	}
}

func (r *resolver) ArrayType(elem string) string { return "[]" + elem }

func (r *resolver) NullableType(inner string) string {
	if !r.opts.PointerNullable || !pointable(inner) {
		return inner
	}
	return "*" + inner
}

func (r *resolver) UnknownType() string {
	if r.opts.UseAny {
		return "any"
	}
	return "interface{}"
}

func (r *resolver) TypeName(candidate string) string { return candidate }

func (r *resolver) FieldName(key string) string {
	if !r.opts.Acronyms {
		return generator.Pascal(key)
	}
	words := generator.Words(key)
	if len(words) == 0 {
		return generator.Pascal(key)
	}
	var sb strings.Builder
	for _, w := range words {
		if a, ok := acronyms[w]; ok {
			sb.WriteString(a)
		} else {
			sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	name := sb.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "N" + name
	}
	return name
}

// field renders one struct member. A matching type mapping replaces the
// inferred type and may pull in an import.
func (r *resolver) field(f generator.Field, mappings []typeMapping, imports map[string]struct{}) fieldLine {
	typ := f.Type
	for _, m := range mappings {
		if m.re.MatchString(f.Key) {
			typ = m.Type
			if m.Import != "" {
				imports[m.Import] = struct{}{}
			}
			break
		}
	}

	absent := f.Nullable || f.Optional
	if absent {
		typ = r.NullableType(typ)
	}

	opt := ""
	if absent && r.opts.OmitEmpty {
		opt = ",omitempty"
	}
	tags := []string{fmt.Sprintf("json:%q", f.Key+opt)}
	for _, extra := range r.opts.ExtraTags {
		extra = strings.TrimSpace(extra)
		if extra == "" || extra == "json" {
			continue
		}
		tags = append(tags, fmt.Sprintf("%s:%q", extra, f.Key+opt))
	}

	return fieldLine{
		name: f.Name,
		typ:  typ,
		tag:  "`" + strings.Join(tags, " ") + "`",
	}
}

// pointable reports whether a pointer to typ is meaningful. Slices, maps,
// interfaces and existing pointers are already nilable.
func pointable(typ string) bool {
	switch {
	case typ == "any", typ == "interface{}":
		return false
	case strings.HasPrefix(typ, "[]"), strings.HasPrefix(typ, "map["), strings.HasPrefix(typ, "*"):
		return false
	}
	return true
}
