package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"docpin/internal/pinning"
	"docpin/internal/shared/storage/db"
	"docpin/internal/shared/telemetry"
	"docpin/internal/shared/util"
)

const uidAttempts = 5

// Dependent owns rows that belong to a document and must go when it does.
type Dependent interface {
	DeleteByDocument(ctx context.Context, documentID int64) (int, error)
}

// Service contains business logic for documents.
type Service struct {
	Repo       Repo
	Pins       *pinning.Service
	Dependents []Dependent
	NewUID     func() string
}

// NewService constructs a Service.
func NewService(repo Repo, pins *pinning.Service, dependents ...Dependent) *Service {
	return &Service{Repo: repo, Pins: pins, Dependents: dependents, NewUID: util.NewUID}
}

// DeleteResult reports the outcome of Delete.
type DeleteResult struct {
	Unpinned bool
	// Shared is true when another document still references the CID, so it was left pinned.
	Shared bool
}

// Upload pins the file and records a document for userID.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(userID) == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	name, err := util.SanitizeFileName(fileName, MaxFileNameLength)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cid, ok := s.Pins.Upload(ctx, r, name)
	if !ok {
		return Document{}, ErrPinFailed
	}
	if len(cid) > MaxCIDLength {
		s.releasePin(ctx, cid)
		return Document{}, fmt.Errorf("%w: cid exceeds %d characters", ErrPinFailed, MaxCIDLength)
	}

	var created Document
	err = db.RetryOnUniqueViolation(uidAttempts, uidConstraint, func() error {
		var createErr error
		created, createErr = s.Repo.Create(ctx, Document{
			UID:      s.newUID(),
			FileName: name,
			CID:      cid,
			UserID:   userID,
		})
		return createErr
	})
	if err != nil {
		s.releasePin(ctx, cid)
		return Document{}, fmt.Errorf("create document: %w", err)
	}

	telemetry.Info("document.created", map[string]any{
		"user_id":      userID,
		"document_uid": created.UID,
		"cid":          cid,
	})
	return created, nil
}

// Get returns a document owned by userID.
func (s *Service) Get(ctx context.Context, userID, uid string) (Document, error) {
	uid = strings.TrimSpace(uid)
	if len(uid) != util.UIDLength {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByUID(ctx, userID, uid)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// FileURL returns the gateway URL for doc.
func (s *Service) FileURL(doc Document) string {
	return s.Pins.FileURL(doc.CID)
}

// Metadata returns the pin list for the document's CID.
func (s *Service) Metadata(ctx context.Context, userID, uid string) (pinning.PinList, error) {
	doc, err := s.Get(ctx, userID, uid)
	if err != nil {
		return pinning.PinList{}, err
	}
	return s.Pins.Metadata(ctx, doc.CID)
}

// Delete removes the row together with its messages and reports, then unpins
// the document's CID when no other document uses it.
func (s *Service) Delete(ctx context.Context, userID, uid string) (DeleteResult, error) {
	doc, err := s.Get(ctx, userID, uid)
	if err != nil {
		return DeleteResult{}, err
	}

	refs, err := s.Repo.CountByCID(ctx, doc.CID)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("count cid references: %w", err)
	}

	// Unpin only once the row is gone.
	if err := s.Repo.Delete(ctx, userID, doc.UID); err != nil {
		return DeleteResult{}, err
	}
	if err := s.cascade(ctx, doc.ID); err != nil {
		return DeleteResult{}, err
	}

	var result DeleteResult
	if refs > 1 {
		result.Shared = true
	} else {
		result.Unpinned = s.Pins.Delete(ctx, doc.CID)
	}

	telemetry.Info("document.deleted", map[string]any{
		"user_id":      userID,
		"document_uid": doc.UID,
		"cid":          doc.CID,
		"unpinned":     result.Unpinned,
		"shared":       result.Shared,
	})
	return result, nil
}

// cascade removes dependent rows; Postgres handles this with ON DELETE CASCADE.
func (s *Service) cascade(ctx context.Context, documentID int64) error {
	if pg, ok := s.Repo.(*PGRepo); ok && pg != nil && pg.DB != nil {
		return nil
	}
	var errs []error
	for _, dep := range s.Dependents {
		if _, err := dep.DeleteByDocument(ctx, documentID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cascade delete: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Service) releasePin(ctx context.Context, cid string) {
	refs, err := s.Repo.CountByCID(ctx, cid)
	if err != nil || refs > 0 {
		return
	}
	s.Pins.Delete(ctx, cid)
}

func (s *Service) newUID() string {
	if s.NewUID != nil {
		return s.NewUID()
	}
	return util.NewUID()
}
