package otp

import "errors"

var (
	ErrNotFound     = errors.New("otp not found")
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidOTP covers unknown, expired and mismatched codes alike.
	ErrInvalidOTP = errors.New("invalid or expired otp")
	ErrMailFailed = errors.New("failed to send otp")
)
