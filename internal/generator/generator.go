package generator

import (
	"sort"
	"strings"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/options"
)

// Emitter renders a descriptor as type declarations for one language.
// Implementations must not retain or modify root, and the same inputs must
// always produce the same text.
type Emitter interface {
	// Name returns the language identifier used on the command line.
	Name() string
	// FileExtension returns the conventional source file extension.
	FileExtension() string
	// Emit returns the source text for root.
	Emit(root descriptor.Descriptor, opts options.Options) (string, error)
}

// Aliaser is implemented by emitters that answer to more than one name.
type Aliaser interface {
	Aliases() []string
}

// Registry maps language names to emitters.
type Registry struct {
	emitters map[string]Emitter
	aliases  map[string]string
}

// NewRegistry creates a registry holding the given emitters.
func NewRegistry(emitters ...Emitter) *Registry {
	r := &Registry{
		emitters: make(map[string]Emitter),
		aliases:  make(map[string]string),
	}
	for _, e := range emitters {
		r.Register(e)
	}
	return r
}

// Register adds an emitter, replacing any emitter of the same name.
func (r *Registry) Register(e Emitter) {
	name := strings.ToLower(e.Name())
	r.emitters[name] = e
	if a, ok := e.(Aliaser); ok {
		for _, alias := range a.Aliases() {
			r.aliases[strings.ToLower(alias)] = name
		}
	}
}

// Get looks an emitter up by name or alias, ignoring case.
func (r *Registry) Get(name string) (Emitter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := r.emitters[key]; ok {
		return e, nil
	}
	if canonical, ok := r.aliases[key]; ok {
		return r.emitters[canonical], nil
	}
	err := errors.Wrapf(errors.ErrUnknownLanguage, "%q", name)
	return nil, errors.WithHint(err, "available languages: "+strings.Join(r.Available(), ", "))
}

// Available returns the registered language names, sorted.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.emitters))
	for name := range r.emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AliasesOf returns the sorted aliases registered for name.
func (r *Registry) AliasesOf(name string) []string {
	var out []string
	for alias, canonical := range r.aliases {
		if canonical == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
