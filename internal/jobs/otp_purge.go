package jobs

import (
	"context"

	"docpin/internal/shared/telemetry"
)

// OTPPurger deletes expired one-time passcodes.
type OTPPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// OTPPurgeJob removes expired codes every five minutes.
type OTPPurgeJob struct {
	Purger OTPPurger
}

func (OTPPurgeJob) Name() string     { return "otp_purge" }
func (OTPPurgeJob) Schedule() string { return "@every 5m" }

func (j OTPPurgeJob) Run(ctx context.Context) error {
	n, err := j.Purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		telemetry.Info("otp.purged", map[string]any{"count": n})
	}
	return nil
}
