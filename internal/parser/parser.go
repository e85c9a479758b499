package parser

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/models"
)

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation.
// Object keys keep the order they appear in the document.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	rootValue, err := decodeValue(decoder, 0)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, decodeError(err)
	}

	// Anything but EOF after the first value is either a second value or garbage.
	if _, err := decoder.Token(); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.Wrap(errors.ErrInvalidJSON, err.Error()))
	}

	return newIR(rootValue), nil
}

func newIR(root models.JSONValue) models.IntermediateRepresentation {
	_, isArray := root.(models.JSONArray)
	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: isArray,
	}
}

// decodeValue reads one complete value from the token stream.
func decodeValue(dec *json.Decoder, depth int) (models.JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		if depth > 0 && stderrors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		obj := models.NewJSONObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			val, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if err := closeDelim(dec); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := models.JSONArray{}
		for dec.More() {
			val, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if err := closeDelim(dec); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

func closeDelim(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		return unexpectedEOF(err)
	}
	return nil
}

func unexpectedEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// decodeError maps decoder failures onto parsing errors. The decoder's own
// message is kept verbatim.
func decodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("JSON syntax error: unexpected EOF", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", errors.Wrap(errors.ErrInvalidJSON, err.Error()))
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	// An empty reader gives io.EOF, but whitespace-only strings are caught here
	// so both produce the same input error.
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	return parseFileWith(filePath, Parse)
}

// ParseFileAs parses a file in the given format.
func ParseFileAs(filePath string, format Format) (models.IntermediateRepresentation, error) {
	if format == FormatYAML {
		return parseFileWith(filePath, ParseYAML)
	}
	return parseFileWith(filePath, Parse)
}

// ParseStringAs parses a string in the given format.
func ParseStringAs(data string, format Format) (models.IntermediateRepresentation, error) {
	if format == FormatYAML {
		if strings.TrimSpace(data) == "" {
			return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
		}
		return ParseYAML(strings.NewReader(data))
	}
	return ParseString(data)
}

func parseFileWith(filePath string, parse func(io.Reader) (models.IntermediateRepresentation, error)) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		_ = file.Close()
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return parse(file)
}
