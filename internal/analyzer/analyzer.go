package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/models"
	"github.com/mcncl/polytyper/internal/options"
)

// Only full RFC 3339 timestamps become DateTime; the generated Go and
// protobuf types decode exactly that layout. Bare dates stay strings with a
// format hint.
var (
	rfc3339Regex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`) // 2006-01-02T15:04:05Z
	dateOnlyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                              // 2006-01-02
)

// Analyzer infers a TypeDescriptor from a parsed sample.
// It holds no per-call state, so one Analyzer can be reused.
type Analyzer struct {
	detectDates bool
}

// NewAnalyzer creates an Analyzer with default options.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithOptions(options.Default())
}

// NewAnalyzerWithOptions creates an Analyzer honouring the shared options.
func NewAnalyzerWithOptions(opts options.Options) *Analyzer {
	return &Analyzer{detectDates: opts.DetectDates}
}

// Analyze returns the descriptor for the sample's root value.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation) (descriptor.Descriptor, error) {
	d, err := a.analyzeNode(ir.Root, "$")
	if err != nil {
		return nil, fmt.Errorf("failed to analyze root node: %w", err)
	}
	return d, nil
}

// Infer is Analyze for a bare value with default options.
func Infer(value models.JSONValue) (descriptor.Descriptor, error) {
	return NewAnalyzer().analyzeNode(value, "$")
}

// analyzeNode is the recursive core. path is only used in error messages.
func (a *Analyzer) analyzeNode(node models.JSONValue, path string) (descriptor.Descriptor, error) {
	switch v := node.(type) {
	case nil:
		return descriptor.NewNullable(descriptor.Unknown), nil
	case bool:
		return descriptor.NewPrimitive(descriptor.Boolean), nil
	case string:
		return a.analyzeString(v), nil
	case json.Number:
		return analyzeNumber(v), nil
	case float64, float32:
		return descriptor.NewPrimitive(descriptor.Float), nil
	case int, int64, int32:
		return descriptor.NewPrimitive(descriptor.Integer), nil
	case *models.JSONObject:
		return a.analyzeObject(v, path)
	case models.JSONArray:
		return a.analyzeArray(v, path)
	default:
		return nil, fmt.Errorf("unexpected value type %T at %s", v, path)
	}
}

func (a *Analyzer) analyzeString(s string) descriptor.Descriptor {
	// UUIDs stay strings; the hint only feeds annotations.
	if len(s) == 36 {
		if _, err := uuid.Parse(s); err == nil {
			return descriptor.NewFormatted(descriptor.String, descriptor.FormatUUID)
		}
	}

	if a.detectDates {
		switch {
		case rfc3339Regex.MatchString(s):
			return descriptor.NewPrimitive(descriptor.DateTime)
		case dateOnlyRegex.MatchString(s):
			return descriptor.NewFormatted(descriptor.String, descriptor.FormatDate)
		}
	}

	return descriptor.NewPrimitive(descriptor.String)
}

func analyzeNumber(num json.Number) descriptor.Descriptor {
	if _, err := num.Int64(); err == nil {
		return descriptor.NewPrimitive(descriptor.Integer)
	}
	return descriptor.NewPrimitive(descriptor.Float)
}

// analyzeObject keeps the members in the order the sample listed them.
func (a *Analyzer) analyzeObject(obj *models.JSONObject, path string) (descriptor.Descriptor, error) {
	members := obj.Members()
	fields := make([]descriptor.Field, 0, len(members))
	for _, m := range members {
		fieldType, err := a.analyzeNode(m.Value, path+"."+m.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze field '%s': %w", m.Key, err)
		}
		fields = append(fields, descriptor.Field{Name: m.Key, Type: fieldType})
	}
	return descriptor.NewObject(fields), nil
}

// analyzeArray infers the element type from the first element only. Later
// elements are not inspected, so mixed arrays take the first element's type.
func (a *Analyzer) analyzeArray(arr models.JSONArray, path string) (descriptor.Descriptor, error) {
	if len(arr) == 0 {
		return descriptor.NewArray(descriptor.Unknown), nil
	}
	elem, err := a.analyzeNode(arr[0], path+"[0]")
	if err != nil {
		return nil, fmt.Errorf("failed to analyze element 0: %w", err)
	}
	return descriptor.NewArray(elem), nil
}
