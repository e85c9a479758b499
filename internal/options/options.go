// Package options holds the per-language generation options. An Options value
// is supplied by the caller for a single emit call and is never retained.
package options

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/polytyper/internal/errors"
)

// DefaultRootName is the name given to the root type when none is supplied.
const DefaultRootName = "RootType"

// Options is the full option set. Shared settings sit at the top level,
// everything else is grouped per target language.
type Options struct {
	RootName    string `yaml:"root_name" toml:"root_name"`
	DetectDates bool   `yaml:"detect_dates" toml:"detect_dates"`
	// FieldNames overrides the generated identifier for a JSON key in
	// every language.
	FieldNames map[string]string `yaml:"field_names" toml:"field_names"`

	Go         GoOptions         `yaml:"go" toml:"go"`
	TypeScript TypeScriptOptions `yaml:"typescript" toml:"typescript"`
	Rust       RustOptions       `yaml:"rust" toml:"rust"`
	Python     PythonOptions     `yaml:"python" toml:"python"`
	Java       JavaOptions       `yaml:"java" toml:"java"`
	Kotlin     KotlinOptions     `yaml:"kotlin" toml:"kotlin"`
	Swift      SwiftOptions      `yaml:"swift" toml:"swift"`
	CSharp     CSharpOptions     `yaml:"csharp" toml:"csharp"`
	Dart       DartOptions       `yaml:"dart" toml:"dart"`
	PHP        PHPOptions        `yaml:"php" toml:"php"`
	Protobuf   ProtobufOptions   `yaml:"protobuf" toml:"protobuf"`
	JSONSchema JSONSchemaOptions `yaml:"jsonschema" toml:"jsonschema"`
}

// GoOptions controls Go struct output.
type GoOptions struct {
	Package         string   `yaml:"package" toml:"package"`
	PointerNullable bool     `yaml:"pointer_nullable" toml:"pointer_nullable"`
	OmitEmpty       bool     `yaml:"omitempty" toml:"omitempty"`
	UseAny          bool     `yaml:"use_any" toml:"use_any"`
	Acronyms        bool     `yaml:"acronyms" toml:"acronyms"`
	ExtraTags       []string `yaml:"extra_tags" toml:"extra_tags"`
	Format          bool     `yaml:"format" toml:"format"`
	// TypeMappings override the inferred type of fields whose JSON name
	// matches a pattern.
	TypeMappings []TypeMapping `yaml:"type_mappings" toml:"type_mappings"`
}

// TypeMapping replaces the Go type of matching fields.
type TypeMapping struct {
	Pattern string `yaml:"pattern" toml:"pattern"`
	Type    string `yaml:"type" toml:"type"`
	Import  string `yaml:"import,omitempty" toml:"import,omitempty"`
}

// TypeScript declaration styles.
const (
	DeclarationInterface = "interface"
	DeclarationType      = "type"
)

// Nullable field rendering for TypeScript.
const (
	NullableOptional = "optional" // name?: T
	NullableUnion    = "union"    // name: T | null
	NullableBoth     = "both"     // name?: T | null
)

// TypeScriptOptions controls TypeScript output.
type TypeScriptOptions struct {
	Declaration   string `yaml:"declaration" toml:"declaration"`
	ReadOnly      bool   `yaml:"readonly" toml:"readonly"`
	NullableStyle string `yaml:"nullable_style" toml:"nullable_style"`
	Export        bool   `yaml:"export" toml:"export"`
	UnknownType   string `yaml:"unknown_type" toml:"unknown_type"`
}

// RustOptions controls Rust output.
type RustOptions struct {
	Derives []string `yaml:"derives" toml:"derives"`
	Serde   bool     `yaml:"serde" toml:"serde"`
	Public  bool     `yaml:"public" toml:"public"`
}

// Python styles.
const (
	PythonDataclass = "dataclass"
	PythonPydantic  = "pydantic"
	PythonTypedDict = "typeddict"
)

// PythonOptions controls Python output.
type PythonOptions struct {
	Style string `yaml:"style" toml:"style"`
}

// Java styles.
const (
	JavaClass  = "class"
	JavaRecord = "record"
)

// JavaOptions controls Java output.
type JavaOptions struct {
	Package string `yaml:"package" toml:"package"`
	Style   string `yaml:"style" toml:"style"`
	Lombok  bool   `yaml:"lombok" toml:"lombok"`
	Jackson bool   `yaml:"jackson" toml:"jackson"`
}

// Serializer libraries shared by the JVM and .NET emitters.
const (
	SerializerNone           = "none"
	SerializerKotlinx        = "kotlinx"
	SerializerJackson        = "jackson"
	SerializerGson           = "gson"
	SerializerSystemTextJSON = "system_text_json"
	SerializerNewtonsoft     = "newtonsoft"
)

// KotlinOptions controls Kotlin output.
type KotlinOptions struct {
	Package    string `yaml:"package" toml:"package"`
	Serializer string `yaml:"serializer" toml:"serializer"`
}

// Swift declaration kinds.
const (
	SwiftStruct = "struct"
	SwiftClass  = "class"
)

// SwiftOptions controls Swift output.
type SwiftOptions struct {
	Kind       string `yaml:"kind" toml:"kind"`
	Codable    bool   `yaml:"codable" toml:"codable"`
	CodingKeys bool   `yaml:"coding_keys" toml:"coding_keys"`
}

// CSharpOptions controls C# output.
type CSharpOptions struct {
	Namespace  string `yaml:"namespace" toml:"namespace"`
	Serializer string `yaml:"serializer" toml:"serializer"`
	Records    bool   `yaml:"records" toml:"records"`
}

// DartOptions controls Dart output.
type DartOptions struct {
	JSONSerializable bool `yaml:"json_serializable" toml:"json_serializable"`
	FinalFields      bool `yaml:"final_fields" toml:"final_fields"`
}

// PHPOptions controls PHP output.
type PHPOptions struct {
	Namespace   string `yaml:"namespace" toml:"namespace"`
	StrictTypes bool   `yaml:"strict_types" toml:"strict_types"`
	ReadOnly    bool   `yaml:"readonly" toml:"readonly"`
}

// ProtobufOptions controls proto3 output.
type ProtobufOptions struct {
	Package   string `yaml:"package" toml:"package"`
	GoPackage string `yaml:"go_package" toml:"go_package"`
}

// JSON Schema drafts.
const (
	Draft202012 = "2020-12"
	Draft07     = "draft-07"
)

// JSONSchemaOptions controls JSON Schema output.
type JSONSchemaOptions struct {
	Draft                string `yaml:"draft" toml:"draft"`
	RequireAll           bool   `yaml:"require_all" toml:"require_all"`
	AdditionalProperties bool   `yaml:"additional_properties" toml:"additional_properties"`
}

// Default returns the option set used when nothing is configured.
func Default() Options {
	return Options{
		RootName:    DefaultRootName,
		DetectDates: true,
		Go: GoOptions{
			Package:         "main",
			PointerNullable: true,
			OmitEmpty:       true,
			UseAny:          true,
			Acronyms:        true,
			Format:          true,
		},
		TypeScript: TypeScriptOptions{
			Declaration:   DeclarationInterface,
			NullableStyle: NullableUnion,
			Export:        true,
			UnknownType:   "unknown",
		},
		Rust: RustOptions{
			Derives: []string{"Debug", "Clone", "Serialize", "Deserialize"},
			Serde:   true,
			Public:  true,
		},
		Python: PythonOptions{Style: PythonDataclass},
		Java: JavaOptions{
			Style:   JavaClass,
			Jackson: true,
		},
		Kotlin: KotlinOptions{Serializer: SerializerKotlinx},
		Swift: SwiftOptions{
			Kind:       SwiftStruct,
			Codable:    true,
			CodingKeys: true,
		},
		CSharp: CSharpOptions{
			Namespace:  "Generated",
			Serializer: SerializerSystemTextJSON,
		},
		Dart: DartOptions{FinalFields: true},
		PHP: PHPOptions{
			StrictTypes: true,
			ReadOnly:    true,
		},
		Protobuf: ProtobufOptions{Package: "generated"},
		JSONSchema: JSONSchemaOptions{
			Draft:      Draft202012,
			RequireAll: true,
		},
	}
}

// Root returns the configured root name or the default.
func (o Options) Root() string {
	if strings.TrimSpace(o.RootName) == "" {
		return DefaultRootName
	}
	return o.RootName
}

// Enum returns value when it is one of allowed, otherwise the first allowed
// value. Unsupported settings fall back to defaults instead of failing.
func Enum(value string, allowed ...string) string {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a
		}
	}
	if len(allowed) == 0 {
		return value
	}
	return allowed[0]
}

// setter applies a textual override to one option.
type setter func(o *Options, value string) error

func boolSetter(field func(o *Options) *bool) setter {
	return func(o *Options, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Newf("expected a boolean, got %q", value)
		}
		*field(o) = b
		return nil
	}
}

func stringSetter(field func(o *Options) *string) setter {
	return func(o *Options, value string) error {
		*field(o) = value
		return nil
	}
}

func listSetter(field func(o *Options) *[]string) setter {
	return func(o *Options, value string) error {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*field(o) = items
		return nil
	}
}

var setters = map[string]setter{
	"root_name":    stringSetter(func(o *Options) *string { return &o.RootName }),
	"detect_dates": boolSetter(func(o *Options) *bool { return &o.DetectDates }),

	"go.package":          stringSetter(func(o *Options) *string { return &o.Go.Package }),
	"go.pointer_nullable": boolSetter(func(o *Options) *bool { return &o.Go.PointerNullable }),
	"go.omitempty":        boolSetter(func(o *Options) *bool { return &o.Go.OmitEmpty }),
	"go.use_any":          boolSetter(func(o *Options) *bool { return &o.Go.UseAny }),
	"go.acronyms":         boolSetter(func(o *Options) *bool { return &o.Go.Acronyms }),
	"go.extra_tags":       listSetter(func(o *Options) *[]string { return &o.Go.ExtraTags }),
	"go.format":           boolSetter(func(o *Options) *bool { return &o.Go.Format }),

	"typescript.declaration":    stringSetter(func(o *Options) *string { return &o.TypeScript.Declaration }),
	"typescript.readonly":       boolSetter(func(o *Options) *bool { return &o.TypeScript.ReadOnly }),
	"typescript.nullable_style": stringSetter(func(o *Options) *string { return &o.TypeScript.NullableStyle }),
	"typescript.export":         boolSetter(func(o *Options) *bool { return &o.TypeScript.Export }),
	"typescript.unknown_type":   stringSetter(func(o *Options) *string { return &o.TypeScript.UnknownType }),

	"rust.derives": listSetter(func(o *Options) *[]string { return &o.Rust.Derives }),
	"rust.serde":   boolSetter(func(o *Options) *bool { return &o.Rust.Serde }),
	"rust.public":  boolSetter(func(o *Options) *bool { return &o.Rust.Public }),

	"python.style": stringSetter(func(o *Options) *string { return &o.Python.Style }),

	"java.package": stringSetter(func(o *Options) *string { return &o.Java.Package }),
	"java.style":   stringSetter(func(o *Options) *string { return &o.Java.Style }),
	"java.lombok":  boolSetter(func(o *Options) *bool { return &o.Java.Lombok }),
	"java.jackson": boolSetter(func(o *Options) *bool { return &o.Java.Jackson }),

	"kotlin.package":    stringSetter(func(o *Options) *string { return &o.Kotlin.Package }),
	"kotlin.serializer": stringSetter(func(o *Options) *string { return &o.Kotlin.Serializer }),

	"swift.kind":        stringSetter(func(o *Options) *string { return &o.Swift.Kind }),
	"swift.codable":     boolSetter(func(o *Options) *bool { return &o.Swift.Codable }),
	"swift.coding_keys": boolSetter(func(o *Options) *bool { return &o.Swift.CodingKeys }),

	"csharp.namespace":  stringSetter(func(o *Options) *string { return &o.CSharp.Namespace }),
	"csharp.serializer": stringSetter(func(o *Options) *string { return &o.CSharp.Serializer }),
	"csharp.records":    boolSetter(func(o *Options) *bool { return &o.CSharp.Records }),

	"dart.json_serializable": boolSetter(func(o *Options) *bool { return &o.Dart.JSONSerializable }),
	"dart.final_fields":      boolSetter(func(o *Options) *bool { return &o.Dart.FinalFields }),

	"php.namespace":    stringSetter(func(o *Options) *string { return &o.PHP.Namespace }),
	"php.strict_types": boolSetter(func(o *Options) *bool { return &o.PHP.StrictTypes }),
	"php.readonly":     boolSetter(func(o *Options) *bool { return &o.PHP.ReadOnly }),

	"protobuf.package":    stringSetter(func(o *Options) *string { return &o.Protobuf.Package }),
	"protobuf.go_package": stringSetter(func(o *Options) *string { return &o.Protobuf.GoPackage }),

	"jsonschema.draft":                 stringSetter(func(o *Options) *string { return &o.JSONSchema.Draft }),
	"jsonschema.require_all":           boolSetter(func(o *Options) *bool { return &o.JSONSchema.RequireAll }),
	"jsonschema.additional_properties": boolSetter(func(o *Options) *bool { return &o.JSONSchema.AdditionalProperties }),
}

// Set applies a "key=value" override such as "typescript.declaration=type".
func (o *Options) Set(assignment string) error {
	key, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return errors.Newf("option %q must have the form key=value", assignment)
	}
	key = strings.ToLower(strings.TrimSpace(key))
	set, found := setters[key]
	if !found {
		return errors.WithHint(errors.Newf("unknown option %q", key), "valid options: "+strings.Join(Keys(), ", "))
	}
	if err := set(o, strings.TrimSpace(value)); err != nil {
		return errors.Wrapf(err, "option %q", key)
	}
	return nil
}

// Keys lists every key accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
