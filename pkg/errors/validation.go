package errors

import (
	"strings"
	"unicode"
)

// maxLabelLength bounds item labels and group names.
const maxLabelLength = 128

// ValidateLabel validates an item label or group name.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters or whitespace (labels are joined without a
//     separator to form frequency keys, and split on whitespace by the CLI)
//   - No commas (the CLI uses them to separate items within a group)
//   - Maximum length of 128 characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains invalid control characters", label)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "label %q contains whitespace", label)
		}
	}

	if strings.Contains(label, ",") {
		return New(ErrCodeInvalidInput, "label %q contains a comma", label)
	}

	return nil
}

// ValidatePath validates a config or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidConfig, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a backend URL by scheme.
// Accepted schemes are listed explicitly by the caller (e.g. "redis", "rediss").
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
