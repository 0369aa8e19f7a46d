package stegcodec

import (
	"fmt"
)

// Input validation helpers

// ValidateBuffer checks if a buffer is valid (non-nil and has expected size)
func ValidateBuffer(buf []byte, name string, minSize int) error {
	if buf == nil {
		return &ValidationError{
			Field:   name,
			Message: "buffer cannot be nil",
			Err:     ErrNilBuffer,
		}
	}
	if minSize > 0 && len(buf) < minSize {
		return &ValidationError{
			Field:   name,
			Value:   len(buf),
			Message: fmt.Sprintf("buffer too small: got %d bytes, need at least %d bytes", len(buf), minSize),
		}
	}
	return nil
}

// ValidateKey checks if a key has the correct size
func ValidateKey(key []byte, expectedSize int) error {
	if key == nil {
		return &ValidationError{
			Field:   "key",
			Message: "key cannot be nil",
			Err:     ErrInvalidKey,
		}
	}

	if len(key) != expectedSize {
		return &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("invalid key size: got %d bytes, expected %d bytes", len(key), expectedSize),
			Err:     ErrInvalidKey,
		}
	}

	return nil
}

// ValidateFilePath checks if a file path is valid (not empty)
func ValidateFilePath(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path cannot be empty",
		}
	}
	return nil
}
