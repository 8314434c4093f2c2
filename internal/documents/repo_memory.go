package documents

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
	byUID  map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUID: make(map[string]Document)}
}

var _ Repo = (*MemoryRepo)(nil)

// Create stores a document, enforcing uid uniqueness.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUID[doc.UID]; exists {
		return Document{}, &db.UniqueViolationError{Constraint: uidConstraint}
	}
	r.nextID++
	doc.ID = r.nextID
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	r.byUID[doc.UID] = doc
	return doc, nil
}

// GetByUID returns a document owned by userID.
func (r *MemoryRepo) GetByUID(ctx context.Context, userID, uid string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.byUID[uid]
	if !ok || doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser returns documents for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	docs := make([]Document, 0)
	for _, doc := range r.byUID {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	if offset >= len(docs) {
		return []Document{}, nil
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

// CountByCID counts documents referencing cid.
func (r *MemoryRepo) CountByCID(ctx context.Context, cid string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, doc := range r.byUID {
		if doc.CID == cid {
			n++
		}
	}
	return n, nil
}

// Delete removes a document owned by userID.
func (r *MemoryRepo) Delete(ctx context.Context, userID, uid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byUID[uid]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	delete(r.byUID, uid)
	return nil
}
