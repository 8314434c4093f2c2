package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// UniqueViolationError is returned by in-memory repos to mirror a Postgres unique violation.
type UniqueViolationError struct {
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Constraint)
}

// IsUniqueViolation reports whether err is a unique violation. When constraint
// is non-empty it must also match the violated constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	var memErr *UniqueViolationError
	if errors.As(err, &memErr) {
		return constraint == "" || memErr.Constraint == constraint
	}
	return false
}

// RetryOnUniqueViolation calls fn until it succeeds, fails with a different
// error, or attempts are exhausted. fn should draw a fresh key on each call.
func RetryOnUniqueViolation(attempts int, constraint string, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !IsUniqueViolation(err, constraint) {
			return err
		}
	}
	return fmt.Errorf("exhausted %d attempts: %w", attempts, err)
}
