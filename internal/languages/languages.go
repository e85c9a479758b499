// Package languages wires every emitter into a generator.Registry.
package languages

import (
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/generator/csharp"
	"github.com/mcncl/polytyper/internal/generator/dart"
	"github.com/mcncl/polytyper/internal/generator/golang"
	"github.com/mcncl/polytyper/internal/generator/java"
	"github.com/mcncl/polytyper/internal/generator/jsonschema"
	"github.com/mcncl/polytyper/internal/generator/kotlin"
	"github.com/mcncl/polytyper/internal/generator/php"
	"github.com/mcncl/polytyper/internal/generator/protobuf"
	"github.com/mcncl/polytyper/internal/generator/python"
	"github.com/mcncl/polytyper/internal/generator/rust"
	"github.com/mcncl/polytyper/internal/generator/swift"
	"github.com/mcncl/polytyper/internal/generator/typescript"
)

// Registry returns a registry holding all supported languages.
func Registry() *generator.Registry {
	return generator.NewRegistry(
		golang.New(),
		typescript.New(),
		rust.New(),
		python.New(),
		java.New(),
		kotlin.New(),
		swift.New(),
		csharp.New(),
		dart.New(),
		php.New(),
		protobuf.New(),
		jsonschema.New(),
	)
}
