package reports

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
	byUID  map[string]Report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUID: make(map[string]Report)}
}

var _ Repo = (*MemoryRepo)(nil)

func (r *MemoryRepo) Create(ctx context.Context, report Report) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUID[report.UID]; exists {
		return Report{}, &db.UniqueViolationError{Constraint: uidConstraint}
	}
	r.nextID++
	report.ID = r.nextID
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	r.byUID[report.UID] = report
	return report, nil
}

func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID int64) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Report, 0)
	for _, report := range r.byUID {
		if report.DocumentID == documentID {
			out = append(out, report)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetByUID(ctx context.Context, documentID int64, uid string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.byUID[uid]
	if !ok || report.DocumentID != documentID {
		return Report{}, ErrNotFound
	}
	return report, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, documentID int64, uid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.byUID[uid]
	if !ok || report.DocumentID != documentID {
		return ErrNotFound
	}
	delete(r.byUID, uid)
	return nil
}

func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for uid, report := range r.byUID {
		if report.DocumentID == documentID {
			delete(r.byUID, uid)
			n++
		}
	}
	return n, nil
}
