package parser

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/models"
)

// Format names an input document format.
type Format string

const (
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatJSONSchema Format = "jsonschema"
)

// DetectFormat guesses the input format from a file name. Anything that is
// not recognisably YAML or a schema is treated as JSON.
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".schema.json"):
		return FormatJSONSchema
	case filepath.Ext(lower) == ".yml", filepath.Ext(lower) == ".yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseYAML converts a YAML document into the same ordered representation
// Parse produces for JSON. Mapping keys keep document order.
func ParseYAML(reader io.Reader) (models.IntermediateRepresentation, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(reader).Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError(
			fmt.Sprintf("YAML syntax error: %s", err.Error()),
			errors.ErrInvalidYAML,
		)
	}

	root, err := convertNode(&doc)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}
	return newIR(root), nil
}

func convertNode(node *yaml.Node) (models.JSONValue, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertNode(node.Content[0])
	case yaml.AliasNode:
		return convertNode(node.Alias)
	case yaml.MappingNode:
		return convertMapping(node)
	case yaml.SequenceNode:
		arr := make(models.JSONArray, 0, len(node.Content))
		for _, item := range node.Content {
			val, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		return convertScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

// convertScalar maps resolved YAML tags onto JSON value types. Integers become
// json.Number like in JSON input; floats stay float64 so "1.0" is not mistaken
// for an integer.
func convertScalar(node *yaml.Node) (models.JSONValue, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			// Out of int64 range, keep the literal.
			return json.Number(node.Value), nil
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return f, nil
	default:
		return node.Value, nil
	}
}

// convertMapping builds an object from a mapping node. Merge keys (<<) pull
// in the members of the referenced mappings ahead of the explicit keys;
// explicit keys and earlier merge sources take precedence.
func convertMapping(node *yaml.Node) (*models.JSONObject, error) {
	explicit := make(map[string]bool)
	var merges []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: only scalar mapping keys are supported", keyNode.Line)
		}
		if keyNode.ShortTag() == "!!merge" {
			merges = append(merges, node.Content[i+1])
			continue
		}
		explicit[keyNode.Value] = true
	}

	obj := models.NewJSONObject()
	for _, m := range merges {
		sources, err := mergeSources(m)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			for _, member := range src.Members() {
				if explicit[member.Key] {
					continue
				}
				if _, ok := obj.Get(member.Key); ok {
					continue
				}
				obj.Set(member.Key, member.Value)
			}
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.ShortTag() == "!!merge" {
			continue
		}
		val, err := convertNode(valNode)
		if err != nil {
			return nil, err
		}
		obj.Set(keyNode.Value, val)
	}
	return obj, nil
}

// mergeSources converts the value of a merge key: one mapping, or a
// sequence of mappings.
func mergeSources(node *yaml.Node) ([]*models.JSONObject, error) {
	val, err := convertNode(node)
	if err != nil {
		return nil, err
	}
	switch v := val.(type) {
	case *models.JSONObject:
		return []*models.JSONObject{v}, nil
	case models.JSONArray:
		out := make([]*models.JSONObject, 0, len(v))
		for _, item := range v {
			obj, ok := item.(*models.JSONObject)
			if !ok {
				return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", node.Line)
			}
			out = append(out, obj)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", node.Line)
}
