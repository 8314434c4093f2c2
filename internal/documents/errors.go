package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrPinFailed is returned when the pinning service did not accept the file.
	ErrPinFailed = errors.New("pinning failed")
)
