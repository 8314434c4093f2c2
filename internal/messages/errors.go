package messages

import "errors"

var (
	// ErrInvalidInput indicates the message content was rejected.
	ErrInvalidInput = errors.New("invalid input")
)
