// Package config loads generation options from .polytyper.yml or
// .polytyper.toml files and layers command line overrides on top.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/options"
)

// Config represents a configuration file. Generation options sit at the top
// level of the file next to the sections below.
type Config struct {
	Options options.Options `yaml:"-" toml:"-"`

	Naming   NamingConfig   `yaml:"naming" toml:"naming"`
	Types    TypesConfig    `yaml:"types" toml:"types"`
	JSONTags JSONTagsConfig `yaml:"json_tags" toml:"json_tags"`
	Dev      DevConfig      `yaml:"dev" toml:"dev"`
}

// NamingConfig controls field naming
type NamingConfig struct {
	FieldMappings map[string]string `yaml:"field_mappings" toml:"field_mappings"`
}

// TypesConfig holds pattern-based type mappings for Go output
type TypesConfig struct {
	Mappings []options.TypeMapping `yaml:"mappings" toml:"mappings"`
}

// JSONTagsConfig controls Go struct tags
type JSONTagsConfig struct {
	AdditionalTags []string `yaml:"additional_tags" toml:"additional_tags"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug" toml:"debug"`
}

// Overrides are values given on the command line. Empty fields leave the
// file value alone.
type Overrides struct {
	RootName string
	// Package is applied to the package or namespace setting of Language.
	Package  string
	Language string
	// Set holds "key=value" assignments, applied in order.
	Set []string
}

var configNames = []string{
	".polytyper.yml",
	".polytyper.yaml",
	".polytyper.toml",
	"polytyper.yml",
	"polytyper.yaml",
	"polytyper.toml",
}

// NewConfig creates a Config with default values
func NewConfig() *Config {
	return &Config{
		Options: options.Default(),
		Naming:  NamingConfig{FieldMappings: make(map[string]string)},
	}
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by
// extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	cfg := NewConfig()
	decode := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		decode = toml.Unmarshal
	}

	if err := decode(data, &cfg.Options); err != nil {
		return nil, errors.NewConfigError("failed to parse config file "+path, err)
	}
	if err := decode(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file "+path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and
// its parents.
func FindConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindConfigFileFrom(dir)
}

// FindConfigFileFrom searches dir and its parents. It returns "" when no
// config file exists.
func FindConfigFileFrom(dir string) string {
	current := dir
	for {
		for _, name := range configNames {
			path := filepath.Join(current, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// Validate checks every type mapping pattern.
func (c *Config) Validate() error {
	for _, m := range c.typeMappings() {
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return errors.NewConfigError("invalid type mapping pattern '"+m.Pattern+"'", err)
		}
		if strings.TrimSpace(m.Type) == "" {
			return errors.NewConfigError("type mapping '"+m.Pattern+"' has no type", nil)
		}
	}
	return nil
}

func (c *Config) typeMappings() []options.TypeMapping {
	out := make([]options.TypeMapping, 0, len(c.Options.Go.TypeMappings)+len(c.Types.Mappings))
	out = append(out, c.Options.Go.TypeMappings...)
	return append(out, c.Types.Mappings...)
}

// Resolve folds the sections into a single option set. Explicit
// field_names win over naming.field_mappings.
func (c *Config) Resolve() options.Options {
	opts := c.Options

	names := make(map[string]string, len(c.Naming.FieldMappings)+len(opts.FieldNames))
	for k, v := range c.Naming.FieldMappings {
		names[k] = v
	}
	for k, v := range opts.FieldNames {
		names[k] = v
	}
	if len(names) > 0 {
		opts.FieldNames = names
	}

	if mappings := c.typeMappings(); len(mappings) > 0 {
		opts.Go.TypeMappings = mappings
	}
	if len(c.JSONTags.AdditionalTags) > 0 {
		tags := make([]string, 0, len(opts.Go.ExtraTags)+len(c.JSONTags.AdditionalTags))
		tags = append(tags, opts.Go.ExtraTags...)
		opts.Go.ExtraTags = append(tags, c.JSONTags.AdditionalTags...)
	}
	return opts
}

// Apply layers command line overrides onto opts.
func Apply(opts *options.Options, o Overrides) error {
	if o.RootName != "" {
		opts.RootName = o.RootName
	}
	if o.Package != "" {
		setPackage(opts, o.Language, o.Package)
	}
	for _, assignment := range o.Set {
		if err := opts.Set(assignment); err != nil {
			return errors.NewConfigError("invalid --set value", err)
		}
	}
	return nil
}

// setPackage stores pkg in the package or namespace option of lang.
// Languages without such a setting ignore it.
func setPackage(opts *options.Options, lang, pkg string) {
	switch strings.ToLower(lang) {
	case "go", "golang", "":
		opts.Go.Package = pkg
	case "java":
		opts.Java.Package = pkg
	case "kotlin", "kt":
		opts.Kotlin.Package = pkg
	case "csharp", "cs", "c#":
		opts.CSharp.Namespace = pkg
	case "php":
		opts.PHP.Namespace = pkg
	case "protobuf", "proto", "proto3":
		opts.Protobuf.Package = pkg
	}
}

// LoadConfigWithCLI loads configPath, or defaults when it is empty, and
// applies the command line overrides.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, options.Options, error) {
	cfg := NewConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, options.Options{}, err
		}
		cfg = loaded
	}

	opts := cfg.Resolve()
	if err := Apply(&opts, o); err != nil {
		return nil, options.Options{}, err
	}
	return cfg, opts, nil
}
