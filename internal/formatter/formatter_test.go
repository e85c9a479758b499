package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/errors"
)

func TestFormat_AlignsStructFields(t *testing.T) {
	input := `package main

type Ticket struct {
Code string ` + "`json:\"code\"`" + `
Qty int64 ` + "`json:\"qty\"`" + `
Archived *bool ` + "`json:\"archived,omitempty\"`" + `
}
`

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)

	expected := `package main

type Ticket struct {
	Code     string ` + "`json:\"code\"`" + `
	Qty      int64  ` + "`json:\"qty\"`" + `
	Archived *bool  ` + "`json:\"archived,omitempty\"`" + `
}
`
	assert.Equal(t, expected, formatted)
}

func TestFormat_GroupsImports(t *testing.T) {
	input := `package models

import (
"github.com/google/uuid"
"time"
)

type Event struct {
ID uuid.UUID ` + "`json:\"id\"`" + `
CreatedAt time.Time ` + "`json:\"created_at\"`" + `
}
`

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)

	expected := `package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID        uuid.UUID ` + "`json:\"id\"`" + `
	CreatedAt time.Time ` + "`json:\"created_at\"`" + `
}
`
	assert.Equal(t, expected, formatted)
}

func TestFormat_KeepsUnusedImports(t *testing.T) {
	input := "package main\n\nimport \"time\"\n\ntype T struct{}\n"

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)
	assert.Contains(t, formatted, `import "time"`)
}

func TestFormat_InvalidCode(t *testing.T) {
	input := `package main

type Ticket struct {
	Code string ` + "`json:\"code\"" + `
}
`

	_, err := NewFormatter().Format(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeFormat, appErr.Type)
}

func TestFormat_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "  \n\t"} {
		formatted, err := NewFormatter().Format(input)
		require.NoError(t, err)
		assert.Equal(t, "", formatted)
	}
}

func TestFormat_PreservesComments(t *testing.T) {
	input := `package main

// Ticket is a support ticket.
type Ticket struct {
	// Code identifies the ticket
	Code string ` + "`json:\"code\"`" + `
	// Qty of linked issues
	Qty  int64  ` + "`json:\"qty\"`" + `
}
`

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)

	expected := `package main

// Ticket is a support ticket.
type Ticket struct {
	// Code identifies the ticket
	Code string ` + "`json:\"code\"`" + `
	// Qty of linked issues
	Qty int64 ` + "`json:\"qty\"`" + `
}
`
	assert.Equal(t, expected, formatted)
}
