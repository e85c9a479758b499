package generator

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Pascal converts a JSON key to a PascalCase identifier.
func Pascal(key string) string {
	return identifier(strcase.ToCamel(sanitize(key)), "Field", "N")
}

// Camel converts a JSON key to a camelCase identifier.
func Camel(key string) string {
	return identifier(strcase.ToLowerCamel(sanitize(key)), "field", "n")
}

// Snake converts a JSON key to a snake_case identifier.
func Snake(key string) string {
	return identifier(strcase.ToSnake(sanitize(key)), "field", "n_")
}

// Words splits a key into lower-case words.
func Words(key string) []string {
	return strings.FieldsFunc(Snake(key), func(r rune) bool { return r == '_' })
}

// IsIdentifier reports whether s is an ASCII identifier in C-like languages.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r < unicode.MaxASCII && unicode.IsLetter(r):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// sanitize replaces every character that cannot appear in an identifier
// with an underscore so the case converters treat it as a word boundary.
// Leading and trailing separators are dropped.
func sanitize(key string) string {
	var sb strings.Builder
	sb.Grow(len(key))
	for _, r := range key {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}

func identifier(s, fallback, digitPrefix string) string {
	if s == "" {
		return fallback
	}
	if s[0] >= '0' && s[0] <= '9' {
		return digitPrefix + s
	}
	return s
}

var knownSingulars = map[string]string{
	"series":    "series",
	"status":    "status",
	"analysis":  "analysis",
	"species":   "species",
	"news":      "news",
	"goods":     "goods",
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"teeth":     "tooth",
	"feet":      "foot",
	"mice":      "mouse",
	"geese":     "goose",
	"data":      "data",
	"media":     "media",
	"addresses": "address",
}

// Singularize converts a plural name to a singular one. Only the last word
// of a PascalCase name is inspected, so "UserAddresses" becomes
// "UserAddress".
func Singularize(plural string) string {
	prefix, last := splitLastWord(plural)
	lower := strings.ToLower(last)

	if singular, ok := knownSingulars[lower]; ok {
		if last != "" && unicode.IsUpper(rune(last[0])) {
			singular = strings.ToUpper(singular[:1]) + singular[1:]
		}
		return prefix + singular
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return prefix + last[:len(last)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"), strings.HasSuffix(lower, "xes"):
		return prefix + last[:len(last)-2]
	// bus, status, class, analysis
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "is"):
		return plural
	case strings.HasSuffix(lower, "s") && len(lower) > 1:
		return prefix + last[:len(last)-1]
	}
	return plural
}

// splitLastWord splits "UserAddresses" into "User" and "Addresses".
func splitLastWord(s string) (string, string) {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] >= 'A' && s[i] <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z' {
			return s[:i], s[i:]
		}
	}
	return "", s
}
