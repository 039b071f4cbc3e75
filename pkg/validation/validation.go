package validation

import "strings"

// Field pairs a form field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// MissingFields returns the names of required fields whose values are empty
// after trimming, in the order given.
func MissingFields(fields []Field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// SanitizeString trims surrounding whitespace and removes null bytes.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
