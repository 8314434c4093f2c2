package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]Otp
	now     func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo. now may be nil.
func NewMemoryRepo(now func() time.Time) *MemoryRepo {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepo{byEmail: make(map[string]Otp), now: now}
}

var _ Repo = (*MemoryRepo)(nil)

func (r *MemoryRepo) Upsert(ctx context.Context, email, code string) (Otp, error) {
	if err := ctx.Err(); err != nil {
		return Otp{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byEmail[email]
	if !ok {
		r.nextID++
		row = Otp{ID: r.nextID, Email: email}
	}
	row.Code = code
	row.CreatedAt = r.now().UTC()
	r.byEmail[email] = row
	return row, nil
}

func (r *MemoryRepo) Get(ctx context.Context, email string) (Otp, error) {
	if err := ctx.Err(); err != nil {
		return Otp{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.byEmail[email]
	if !ok {
		return Otp{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; !ok {
		return ErrNotFound
	}
	delete(r.byEmail, email)
	return nil
}

func (r *MemoryRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for email, row := range r.byEmail {
		if row.CreatedAt.Before(cutoff) {
			delete(r.byEmail, email)
			n++
		}
	}
	return n, nil
}
