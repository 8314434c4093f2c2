package otp

import (
	"context"
	"time"
)

// Repo defines persistence operations for pending codes. There is at most
// one row per email.
type Repo interface {
	// Upsert stores code for email and resets its creation time.
	Upsert(ctx context.Context, email, code string) (Otp, error)
	Get(ctx context.Context, email string) (Otp, error)
	Delete(ctx context.Context, email string) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
