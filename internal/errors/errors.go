// Package errors categorizes failures for the CLI. It builds on
// github.com/cockroachdb/errors so wrapped errors keep stack traces and can
// carry user-facing hints.
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Re-exported helpers so callers need a single errors import.
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
	Is       = crdb.Is
	As       = crdb.As
)

// Standard application errors
var (
	ErrEmptyInput        = crdb.New("input is empty or contains only whitespace")
	ErrInvalidJSON       = crdb.New("invalid JSON format")
	ErrInvalidYAML       = crdb.New("invalid YAML format")
	ErrInvalidSchema     = crdb.New("invalid JSON Schema")
	ErrMultipleJSON      = crdb.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound      = crdb.New("file not found")
	ErrFileEmpty         = crdb.New("file is empty")
	ErrNoInput           = crdb.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrInvalidFilePath   = crdb.New("invalid file path")
	ErrUnknownLanguage   = crdb.New("unknown target language")
	ErrWatchRequiresFile = crdb.New("watch mode requires an input file")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeFormat   ErrorType = "format"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same category.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newAppError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newAppError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to sample parsing
func NewParsingError(message string, err error) *AppError {
	return newAppError(ErrorTypeParsing, message, err)
}

// NewAnalysisError creates a new error related to type inference
func NewAnalysisError(message string, err error) *AppError {
	return newAppError(ErrorTypeAnalysis, message, err)
}

// NewGenerateError creates a new error related to code generation
func NewGenerateError(message string, err error) *AppError {
	return newAppError(ErrorTypeGenerate, message, err)
}

// NewFormatError creates a new error related to code formatting
func NewFormatError(message string, err error) *AppError {
	return newAppError(ErrorTypeFormat, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newAppError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newAppError(ErrorTypeConfig, message, err)
}

// UserFriendlyError returns a user-friendly error message. Hints attached
// anywhere in the chain with WithHint are appended.
func UserFriendlyError(err error) string {
	msg := friendlyMessage(err)
	if hint := crdb.FlattenHints(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

func friendlyMessage(err error) string {
	var appErr *AppError
	if crdb.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeAnalysis:
			return fmt.Sprintf("Type analysis error: %s", appErr.Message)
		case ErrorTypeGenerate:
			return fmt.Sprintf("Code generation error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Code formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	switch {
	case crdb.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide a sample document."
	case crdb.Is(err, ErrInvalidJSON):
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	case crdb.Is(err, ErrInvalidYAML):
		return "Error: The input contains invalid YAML. Please check your YAML syntax."
	case crdb.Is(err, ErrMultipleJSON):
		return "Error: Multiple JSON values found. Please provide a single JSON value."
	case crdb.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case crdb.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty. Please provide a file with content."
	case crdb.Is(err, ErrNoInput):
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	case crdb.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	case crdb.Is(err, ErrUnknownLanguage):
		return "Error: Unknown target language. Run with --list-languages to see the supported ones."
	}

	return fmt.Sprintf("Error: %v", err)
}
