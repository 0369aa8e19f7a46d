package stegcodec

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// ValidationError represents a configuration or parameter validation error
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IOError represents a file system I/O error
type IOError struct {
	Operation string // "read", "write", "open", "close", etc.
	Path      string // File path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("io error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// CapacityError reports a frame that does not fit its carrier. It is
// returned before the carrier is touched.
type CapacityError struct {
	Carrier   CarrierKind
	Required  int // frame length in bits
	Available int // carrier capacity in bits
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity error: %s: payload needs %d bits, carrier holds %d", e.Carrier, e.Required, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// DetectionError means the carrier holds nothing this package embedded:
// no frame header, no recognizable container, or no marked metadata.
type DetectionError struct {
	Carrier CarrierKind
	Message string // Human-readable error message
	Err     error  // One of ErrNoHeaderFound, ErrInvalidContainer, ErrNoHiddenData
}

func (e *DetectionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("detection error: %s: %v: %s", e.Carrier, e.Err, e.Message)
	}
	return fmt.Sprintf("detection error: %s: %v", e.Carrier, e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// CorruptionError represents embedded data that was found but does not parse
type CorruptionError struct {
	Carrier CarrierKind
	Message string // Human-readable error message
	Err     error  // ErrMalformedEncoding or ErrMalformedEnvelope
}

func (e *CorruptionError) Error() string {
	if e.Carrier != CarrierUnknown {
		return fmt.Sprintf("corruption error: %s: %v: %s", e.Carrier, e.Err, e.Message)
	}
	return fmt.Sprintf("corruption error: %v: %s", e.Err, e.Message)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents a failed AEAD tag check. The message is
// fixed so callers cannot learn which byte or field failed.
type AuthenticationError struct {
	Err error // Underlying error
}

func (e *AuthenticationError) Error() string {
	return "authentication error: wrong password or data has been tampered with"
}

func (e *AuthenticationError) Unwrap() error {
	return ErrIntegrity
}

// Sentinel errors for errors.Is checks
var (
	ErrCapacityExceeded  = errors.New("payload exceeds carrier capacity")
	ErrNoHeaderFound     = errors.New("no frame header found")
	ErrInvalidContainer  = errors.New("invalid carrier container")
	ErrNoHiddenData      = errors.New("no hidden data")
	ErrMalformedEncoding = errors.New("malformed payload encoding")
	ErrMalformedEnvelope = errors.New("malformed encrypted envelope")
	ErrIntegrity         = errors.New("integrity check failed")
	ErrUnrepresentable   = errors.New("character outside the 16-bit range")

	ErrAuthFailed         = errors.New("authentication failed - data may be corrupted or tampered")
	ErrInvalidKey         = errors.New("invalid encryption key")
	ErrUnsupportedCipher  = errors.New("unsupported cipher suite")
	ErrUnsupportedCarrier = errors.New("unsupported carrier kind")
	ErrNilConfig          = errors.New("config cannot be nil")
	ErrNilBuffer          = errors.New("buffer cannot be nil")
	ErrEmptyPassword      = errors.New("password cannot be empty")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewIOError creates a new I/O error
func NewIOError(operation, path string, err error) error {
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

func newDetectionError(kind CarrierKind, sentinel error, message string) error {
	return &DetectionError{Carrier: kind, Message: message, Err: sentinel}
}

func newCorruptionError(kind CarrierKind, sentinel error, message string) error {
	return &CorruptionError{Carrier: kind, Message: message, Err: sentinel}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsCapacityError checks if an error is a capacity error
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// IsDetectionError checks if an error means "not encoded by this package"
func IsDetectionError(err error) bool {
	var de *DetectionError
	return errors.As(err, &de)
}

// IsCorruptionError checks if an error is a corruption error
func IsCorruptionError(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// ErrorClass groups errors by what they mean to a user.
type ErrorClass uint8

const (
	ClassNone ErrorClass = iota
	ClassInvalidInput
	ClassCapacity
	ClassNotFound
	ClassMalformed
	ClassIntegrity
	ClassInternal
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassInvalidInput:
		return "invalid input"
	case ClassCapacity:
		return "capacity exceeded"
	case ClassNotFound:
		return "not encoded by this tool"
	case ClassMalformed:
		return "malformed hidden data"
	case ClassIntegrity:
		return "integrity failure"
	default:
		return "internal error"
	}
}

// Classify maps err to its ErrorClass.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrIntegrity):
		return ClassIntegrity
	case errors.Is(err, ErrMalformedEncoding), errors.Is(err, ErrMalformedEnvelope):
		return ClassMalformed
	case errors.Is(err, ErrNoHeaderFound), errors.Is(err, ErrInvalidContainer), errors.Is(err, ErrNoHiddenData):
		return ClassNotFound
	case errors.Is(err, ErrCapacityExceeded):
		return ClassCapacity
	case IsValidationError(err), errors.Is(err, ErrUnsupportedCarrier), errors.Is(err, ErrEmptyPassword):
		return ClassInvalidInput
	default:
		return ClassInternal
	}
}
