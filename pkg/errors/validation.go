package errors

import "unicode"

// maxAttributeKeyLength bounds attribute keys; CAD hosts commonly reject
// longer user-string keys.
const maxAttributeKeyLength = 255

// ValidateAttributeKey validates an attribute key before it is written.
//
// The rules are conservative:
//   - No empty keys
//   - No control characters or whitespace
//   - Maximum length of 255 characters
func ValidateAttributeKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "attribute key cannot be empty")
	}
	if len(key) > maxAttributeKeyLength {
		return New(ErrCodeInvalidInput, "attribute key too long (max %d characters)", maxAttributeKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "attribute key %q contains whitespace or control characters", key)
		}
	}
	return nil
}

// ValidateGroupPath validates a group tag before it is attached to an entity.
// Blank tags and blank segments are allowed; they read back as "(unnamed)".
// Only characters that cannot survive a line-oriented store are rejected.
func ValidateGroupPath(path string) error {
	for _, r := range path {
		if r == '\x00' || r == '\n' || r == '\r' {
			return New(ErrCodeInvalidPath, "group path contains invalid characters")
		}
	}
	return nil
}
