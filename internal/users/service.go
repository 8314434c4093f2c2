package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Profile carries optional identity details from a login provider.
type Profile struct {
	FullName   string
	PictureURL string
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnsureByEmail returns the user with email, creating it on first login.
func (s *Service) EnsureByEmail(ctx context.Context, email string, profile Profile) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, errors.New("email is required")
	}
	return s.Repo.UpsertByEmail(ctx, User{
		ID:         uuid.NewString(),
		Email:      email,
		FullName:   strings.TrimSpace(profile.FullName),
		PictureURL: strings.TrimSpace(profile.PictureURL),
	})
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	return s.Repo.GetByEmail(ctx, NormalizeEmail(email))
}
