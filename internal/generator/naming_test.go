package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		key                  string
		pascal, camel, snake string
	}{
		{"user_id", "UserId", "userId", "user_id"},
		{"firstName", "FirstName", "firstName", "first_name"},
		{"@type", "Type", "type", "type"},
		{"content-type", "ContentType", "contentType", "content_type"},
		{"", "Field", "field", "field"},
		{"$", "Field", "field", "field"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.pascal, Pascal(tt.key), "Pascal")
			assert.Equal(t, tt.camel, Camel(tt.key), "Camel")
			assert.Equal(t, tt.snake, Snake(tt.key), "Snake")
		})
	}
}

func TestIdentifierDigitPrefix(t *testing.T) {
	assert.Equal(t, "N2", identifier("2", "Field", "N"))
	assert.Equal(t, "Field", identifier("", "Field", "N"))
	assert.Equal(t, "abc", identifier("abc", "Field", "N"))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"user", "id"}, Words("userID"))
	assert.Equal(t, []string{"html", "url"}, Words("html_url"))
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("RootType"))
	assert.True(t, IsIdentifier("_x1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1x"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("naïve"))
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"users":         "user",
		"Categories":    "Category",
		"addresses":     "address",
		"UserAddresses": "UserAddress",
		"boxes":         "box",
		"matches":       "match",
		"status":        "status",
		"class":         "class",
		"People":        "Person",
		"data":          "data",
		"OrderItems":    "OrderItem",
		"RootType":      "RootType",
	}
	for in, want := range tests {
		assert.Equal(t, want, Singularize(in), in)
	}
}
