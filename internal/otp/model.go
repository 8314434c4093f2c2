package otp

import "time"

const (
	// CodeLength is the number of digits in a one-time passcode.
	CodeLength = 5
	// MaxEmailLength bounds stored addresses.
	MaxEmailLength = 254
)

// Otp is a pending login code for an email address.
type Otp struct {
	ID        int64
	Email     string
	Code      string
	CreatedAt time.Time
}

// Expired reports whether the code is older than ttl at now.
func (o Otp) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(o.CreatedAt.Add(ttl))
}
