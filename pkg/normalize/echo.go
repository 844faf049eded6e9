package normalize

import (
	"strings"
	"unicode"
)

// IsEcho reports whether value should be treated as absent for the given
// field: either it is empty after trimming, or it merely repeats the
// field's own name. Extraction models sometimes hallucinate the field
// name as its value when the sheet has nothing readable in that box, in
// both camelCase ("teamAName") and snake_case ("team_a_name") spellings.
func IsEcho(field string, value interface{}) bool {
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return true
	}

	lower := strings.ToLower(s)
	return lower == strings.ToLower(field) || lower == snakeCase(field)
}

// snakeCase derives the snake_case spelling of a camelCase field name by
// inserting an underscore before each uppercase letter and lower-casing.
func snakeCase(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
