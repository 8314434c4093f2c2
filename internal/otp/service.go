package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docpin/internal/shared/auth"
	"docpin/internal/shared/metrics"
	"docpin/internal/shared/telemetry"
	"docpin/internal/shared/util"
	"docpin/internal/users"
)

// DefaultTTL is how long a code stays valid when no TTL is configured.
const DefaultTTL = 10 * time.Minute

const digits = "0123456789"

// UserEnsurer finds or creates the account behind a verified email.
type UserEnsurer interface {
	EnsureByEmail(ctx context.Context, email string, profile users.Profile) (users.User, error)
}

// Service issues and verifies one-time passcodes.
type Service struct {
	Repo    Repo
	Mailer  Mailer
	Users   UserEnsurer
	TTL     time.Duration
	Now     func() time.Time
	NewCode func() string
}

// NewService constructs a Service.
func NewService(repo Repo, mailer Mailer, usersSvc UserEnsurer, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		Repo:    repo,
		Mailer:  mailer,
		Users:   usersSvc,
		TTL:     ttl,
		Now:     time.Now,
		NewCode: func() string { return util.RandomString(CodeLength, digits) },
	}
}

// VerifyResult is returned on a successful login.
type VerifyResult struct {
	Token string
	User  users.User
}

// Request generates a new code for email and mails it. A previous code for
// the same address is replaced.
func (s *Service) Request(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code := s.NewCode()
	if _, err := s.Repo.Upsert(ctx, email, code); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.Mailer.SendOTP(ctx, email, code); err != nil {
		telemetry.Error("otp.mail_failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	metrics.IncOTPSent()
	return nil
}

// Verify consumes a matching, unexpired code and returns a session token.
func (s *Service) Verify(ctx context.Context, email, code string) (VerifyResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		metrics.IncOTPRejected()
		return VerifyResult{}, ErrInvalidOTP
	}
	code = strings.TrimSpace(code)

	row, err := s.Repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return VerifyResult{}, s.reject(email, "unknown")
		}
		return VerifyResult{}, err
	}
	if row.Code == "" || len(code) != CodeLength {
		return VerifyResult{}, s.reject(email, "mismatch")
	}
	if row.Expired(s.now(), s.TTL) {
		_ = s.Repo.Delete(ctx, email)
		return VerifyResult{}, s.reject(email, "expired")
	}
	if subtle.ConstantTimeCompare([]byte(row.Code), []byte(code)) != 1 {
		return VerifyResult{}, s.reject(email, "mismatch")
	}

	// A concurrent verify may have consumed the row first.
	if err := s.Repo.Delete(ctx, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return VerifyResult{}, s.reject(email, "consumed")
		}
		return VerifyResult{}, err
	}

	user, err := s.Users.EnsureByEmail(ctx, email, users.Profile{})
	if err != nil {
		return VerifyResult{}, fmt.Errorf("ensure user: %w", err)
	}
	token, err := auth.SignJWT(auth.Claims{
		Email:            user.Email,
		Name:             user.FullName,
		Picture:          user.PictureURL,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	})
	if err != nil {
		return VerifyResult{}, fmt.Errorf("sign token: %w", err)
	}

	metrics.IncOTPVerified()
	telemetry.Info("otp.verified", map[string]any{"user_id": user.ID})
	return VerifyResult{Token: token, User: user}, nil
}

// PurgeExpired deletes codes older than the TTL.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	return s.Repo.DeleteCreatedBefore(ctx, s.now().Add(-s.TTL))
}

func (s *Service) reject(email, reason string) error {
	metrics.IncOTPRejected()
	telemetry.Warn("otp.rejected", map[string]any{
		"email":  email,
		"reason": reason,
	})
	return ErrInvalidOTP
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func normalizeEmail(raw string) (string, error) {
	email := users.NormalizeEmail(raw)
	if email == "" || len(email) > MaxEmailLength {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
