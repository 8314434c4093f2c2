package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"docpin/internal/documents"
	"docpin/internal/extract"
	"docpin/internal/llm"
	"docpin/internal/shared/storage/db"
	"docpin/internal/shared/telemetry"
	"docpin/internal/shared/util"
)

const uidAttempts = 5

// DocumentLookup resolves a document owned by a user.
type DocumentLookup interface {
	Get(ctx context.Context, userID, uid string) (documents.Document, error)
}

// Service contains business logic for reports.
type Service struct {
	Repo    Repo
	Docs    DocumentLookup
	Fetcher extract.Fetcher
	LLM     llm.Client
	NewUID  func() string
}

// NewService constructs a Service. client may be nil when no LLM is configured.
func NewService(repo Repo, docs DocumentLookup, fetcher extract.Fetcher, client llm.Client) *Service {
	return &Service{Repo: repo, Docs: docs, Fetcher: fetcher, LLM: client, NewUID: util.NewUID}
}

// List returns the document's reports, newest first.
func (s *Service) List(ctx context.Context, userID, documentUID string) ([]Report, error) {
	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByDocument(ctx, doc.ID)
}

// Create stores a report with caller-supplied content. Empty content becomes {}.
func (s *Service) Create(ctx context.Context, userID, documentUID, title string, content json.RawMessage) (Report, error) {
	title, err := validateTitle(title)
	if err != nil {
		return Report{}, err
	}
	normalized, err := normalizeContent(content)
	if err != nil {
		return Report{}, err
	}
	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return Report{}, err
	}
	return s.create(ctx, doc, title, normalized)
}

// Generate asks the LLM for a report over the document text.
func (s *Service) Generate(ctx context.Context, userID, documentUID, title string) (Report, error) {
	if !llm.Configured(s.LLM) {
		return Report{}, ErrUnavailable
	}
	title, err := validateTitle(title)
	if err != nil {
		return Report{}, err
	}
	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return Report{}, err
	}

	if s.Fetcher == nil {
		return Report{}, ErrExtractFailed
	}
	text, err := extract.FromPin(ctx, s.Fetcher, doc.CID, doc.FileName, extract.DefaultMaxBytes)
	if err != nil {
		telemetry.Warn("report.extract_failed", map[string]any{
			"document_uid": doc.UID,
			"cid":          doc.CID,
			"error":        err.Error(),
		})
		return Report{}, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	raw, err := s.LLM.GenerateReport(ctx, llm.ReportInput{DocumentName: doc.FileName, DocumentText: text, Title: title})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return Report{}, ErrUnavailable
		}
		return Report{}, fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	normalized, err := normalizeContent(raw)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	report, err := s.create(ctx, doc, title, normalized)
	if err != nil {
		return Report{}, err
	}
	telemetry.Info("report.generated", map[string]any{
		"user_id":      userID,
		"document_uid": doc.UID,
		"report_uid":   report.UID,
	})
	return report, nil
}

// Get returns one report of a document.
func (s *Service) Get(ctx context.Context, userID, documentUID, reportUID string) (Report, error) {
	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return Report{}, err
	}
	if len(strings.TrimSpace(reportUID)) != util.UIDLength {
		return Report{}, ErrNotFound
	}
	return s.Repo.GetByUID(ctx, doc.ID, reportUID)
}

// Delete removes one report of a document.
func (s *Service) Delete(ctx context.Context, userID, documentUID, reportUID string) error {
	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(reportUID)) != util.UIDLength {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, doc.ID, reportUID)
}

// DeleteByDocument removes a document's reports; used as a documents.Dependent.
func (s *Service) DeleteByDocument(ctx context.Context, documentID int64) (int, error) {
	return s.Repo.DeleteByDocument(ctx, documentID)
}

func (s *Service) create(ctx context.Context, doc documents.Document, title string, content json.RawMessage) (Report, error) {
	var created Report
	err := db.RetryOnUniqueViolation(uidAttempts, uidConstraint, func() error {
		var createErr error
		created, createErr = s.Repo.Create(ctx, Report{
			UID:        s.newUID(),
			Title:      title,
			Content:    content,
			DocumentID: doc.ID,
		})
		return createErr
	})
	if err != nil {
		return Report{}, fmt.Errorf("create report: %w", err)
	}
	return created, nil
}

func (s *Service) newUID() string {
	if s.NewUID != nil {
		return s.NewUID()
	}
	return util.NewUID()
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxTitleLength)
	}
	return title, nil
}

// normalizeContent accepts a JSON object, mapping empty or null input to {}.
func normalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}"), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: content must be a JSON object", ErrInvalidInput)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("%w: content must be a JSON object", ErrInvalidInput)
	}
	return json.RawMessage(buf.Bytes()), nil
}

var _ documents.Dependent = (*Service)(nil)
