package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds backend record identifiers accepted on the client side.
const MaxIDLength = 128

// ValidateID validates a backend record identifier before it is placed in a
// request path. Identifiers come from URLs and CLI arguments, so anything that
// could change the path shape is rejected:
//   - No empty IDs
//   - No control characters or whitespace
//   - No path separators, dots-only segments, query or fragment markers
//   - Maximum length of [MaxIDLength] characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, "/\\?#%") || strings.Trim(id, ".") == "" {
		return New(ErrCodeInvalidID, "id contains invalid characters: %q", id)
	}
	return nil
}

// ValidateFormats checks every requested output format against allowed.
func ValidateFormats(formats []string, allowed map[string]bool) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one output format is required")
	}
	for _, f := range formats {
		if !allowed[f] {
			return New(ErrCodeInvalidFormat, "unsupported format %q", f)
		}
	}
	return nil
}
