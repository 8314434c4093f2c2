package messages

import (
	"context"
	"sort"
	"sync"
	"time"

	"docpin/internal/shared/storage/db"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byUID  map[string]Message
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUID: make(map[string]Message)}
}

var _ Repo = (*MemoryRepo)(nil)

func (r *MemoryRepo) Create(ctx context.Context, msg Message) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUID[msg.UID]; exists {
		return Message{}, &db.UniqueViolationError{Constraint: uidConstraint}
	}
	r.nextID++
	msg.ID = r.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	r.byUID[msg.UID] = msg
	return msg, nil
}

func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID int64) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Message, 0)
	for _, msg := range r.byUID {
		if msg.DocumentID == documentID {
			out = append(out, msg)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteByDocument removes every message of a document.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for uid, msg := range r.byUID {
		if msg.DocumentID == documentID {
			delete(r.byUID, uid)
			n++
		}
	}
	return n, nil
}
