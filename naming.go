package hxtag

import (
	"reflect"
	"strings"
	"unicode"
)

const helperSuffix = "TagHelper"

// ConventionName derives the default element name for a tag helper type.
//
// A trailing "TagHelper" is removed and the remainder converted from
// PascalCase to lower kebab-case:
//
//	AnchorTagHelper     -> anchor
//	InputGroupTagHelper -> input-group
//	HTMLLinkTagHelper   -> html-link
func ConventionName(typeName string) string {
	if trimmed := strings.TrimSuffix(typeName, helperSuffix); trimmed != "" {
		typeName = trimmed
	}

	runes := []rune(typeName)
	var b strings.Builder
	b.Grow(len(typeName) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// typeName returns the name of the concrete type behind v, dereferencing
// pointers.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
