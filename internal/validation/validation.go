// Package validation guards user-supplied input before it reaches the
// filesystem or the correction pipeline: paths carried in API requests
// and the size of JSON request bodies.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Limits applied to API input.
const (
	// MaxRequestBytes caps a JSON request body. Check requests carry a
	// whole document inline, so the cap stays generous (4 MB).
	MaxRequestBytes = 4 << 20
	// MaxPathLength is the longest accepted filesystem path.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
)

// ValidatePath rejects strings that cannot name a real file or directory:
// empty paths, oversized paths, and paths carrying null bytes or other
// control characters. It does not require the path to exist; callers that
// walk the path discover that on their own.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}
