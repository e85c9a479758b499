package formatter

import (
	"strings"

	"golang.org/x/tools/imports"

	"github.com/mcncl/polytyper/internal/errors"
)

// Formatter formats generated Go source.
type Formatter struct {
	opts *imports.Options
}

// NewFormatter creates a Formatter that gofmt-formats code and groups the
// import block, standard library first. It never adds or removes imports.
func NewFormatter() *Formatter {
	return &Formatter{
		opts: &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		},
	}
}

// Format returns code formatted the way goimports would.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	// The file name only shows up in error positions.
	out, err := imports.Process("generated.go", []byte(code), f.opts)
	if err != nil {
		return "", errors.NewFormatError("failed to format Go code", errors.Wrap(err, "failed to parse Go code"))
	}
	return string(out), nil
}
