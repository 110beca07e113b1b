package errors

// ErrorCategory classifies errors by their nature and recovery semantics.
type ErrorCategory string

const (
	// CategoryPermanent indicates failures where retry will not help.
	// Examples: invalid input, resource not found.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryTransient indicates temporary failures where retry may succeed.
	// Examples: the backing store being briefly unavailable.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates unexpected errors or bugs.
	// Examples: corrupted rows, failed serialization.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// ErrorCode identifies specific failure types within categories.
type ErrorCode string

const (
	// Permanent errors
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"  // Malformed or invalid input
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"      // Resource does not exist
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS" // Resource already exists
	ErrCodeConflict      ErrorCode = "CONFLICT"       // Conflicting operation or state

	// Transient errors
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE" // Backing store temporarily unavailable
	ErrCodeTimeout     ErrorCode = "TIMEOUT"     // Operation timed out

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL" // Unexpected internal error
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeInvalidInput, ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict:
		return CategoryPermanent
	case ErrCodeUnavailable, ErrCodeTimeout:
		return CategoryTransient
	default:
		return CategoryInternal
	}
}

// HTTPStatus returns the HTTP status code a boundary should map this
// error code to. Internal and transient failures deliberately collapse
// into generic server-side statuses so no internal detail leaks.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput:
		return 400
	case ErrCodeNotFound:
		return 404
	case ErrCodeAlreadyExists, ErrCodeConflict:
		return 409
	case ErrCodeUnavailable:
		return 503
	default:
		return 500
	}
}

// codeDescriptions provides human-readable descriptions for error codes.
var codeDescriptions = map[ErrorCode]string{
	ErrCodeInvalidInput:  "invalid input provided",
	ErrCodeNotFound:      "resource not found",
	ErrCodeAlreadyExists: "resource already exists",
	ErrCodeConflict:      "conflicting operation",
	ErrCodeUnavailable:   "service temporarily unavailable",
	ErrCodeTimeout:       "operation timed out",
	ErrCodeInternal:      "internal error",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}
