package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateSKU   = errors.New("sku already exists")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
)

// FieldErrors maps a field name to a single human-readable message.
// The first violation wins per field.
type FieldErrors map[string]string

// ValidationError carries the per-field messages from the validation gate.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string { return "invalid product input" }

// UploadError is a transient blob-storage failure. A failed upload must
// prevent the subsequent catalog insertion from being attempted.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "image upload failed: " + e.Err.Error() }

func (e *UploadError) Unwrap() error { return e.Err }
