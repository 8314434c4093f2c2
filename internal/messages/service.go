package messages

import (
	"context"
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

const (
	uidAttempts  = 5
	historyTurns = 20
)

// DocumentLookup resolves a document owned by a user.
type DocumentLookup interface {
	Get(ctx context.Context, userID, uid string) (documents.Document, error)
}

// Service contains business logic for document messages.
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

// PostResult holds the stored user message and the optional assistant reply.
type PostResult struct {
	Message Message
	Reply   *Message
}

// List returns the document's messages, oldest first.
func (s *Service) List(ctx context.Context, userID, documentUID string) ([]Message, error) {
	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByDocument(ctx, doc.ID)
}

// Post stores a user message and, when an LLM is configured, an assistant reply.
// Reply failures are logged and leave Reply nil.
func (s *Service) Post(ctx context.Context, userID, documentUID, content string) (PostResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return PostResult{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return PostResult{}, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, MaxContentLength)
	}

	doc, err := s.Docs.Get(ctx, userID, documentUID)
	if err != nil {
		return PostResult{}, err
	}

	history, err := s.Repo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return PostResult{}, fmt.Errorf("load history: %w", err)
	}

	userMsg, err := s.create(ctx, Message{SenderIsUser: true, Content: content, DocumentID: doc.ID})
	if err != nil {
		return PostResult{}, err
	}
	result := PostResult{Message: userMsg}

	if !llm.Configured(s.LLM) {
		return result, nil
	}
	reply, err := s.reply(ctx, doc, history, content)
	if err != nil {
		telemetry.Warn("message.reply_failed", map[string]any{
			"user_id":      userID,
			"document_uid": doc.UID,
			"error":        err.Error(),
		})
		return result, nil
	}
	result.Reply = &reply
	return result, nil
}

func (s *Service) reply(ctx context.Context, doc documents.Document, history []Message, question string) (Message, error) {
	text := ""
	if s.Fetcher != nil {
		extracted, err := extract.FromPin(ctx, s.Fetcher, doc.CID, doc.FileName, extract.DefaultMaxBytes)
		if err != nil {
			telemetry.Warn("message.extract_failed", map[string]any{
				"document_uid": doc.UID,
				"cid":          doc.CID,
				"error":        err.Error(),
			})
		} else {
			text = extracted
		}
	}

	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	turns := make([]llm.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, llm.Turn{FromUser: msg.SenderIsUser, Content: msg.Content})
	}

	answer, err := s.LLM.Reply(ctx, llm.ReplyInput{
		DocumentName: doc.FileName,
		DocumentText: text,
		History:      turns,
		Question:     question,
	})
	if err != nil {
		return Message{}, err
	}
	answer = truncateRunes(strings.TrimSpace(answer), MaxContentLength)
	if answer == "" {
		return Message{}, fmt.Errorf("empty reply")
	}
	return s.create(ctx, Message{SenderIsUser: false, Content: answer, DocumentID: doc.ID})
}

func (s *Service) create(ctx context.Context, msg Message) (Message, error) {
	var created Message
	err := db.RetryOnUniqueViolation(uidAttempts, uidConstraint, func() error {
		msg.UID = s.newUID()
		var createErr error
		created, createErr = s.Repo.Create(ctx, msg)
		return createErr
	})
	if err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	return created, nil
}

// DeleteByDocument removes a document's messages; used as a documents.Dependent.
func (s *Service) DeleteByDocument(ctx context.Context, documentID int64) (int, error) {
	return s.Repo.DeleteByDocument(ctx, documentID)
}

func (s *Service) newUID() string {
	if s.NewUID != nil {
		return s.NewUID()
	}
	return util.NewUID()
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

var _ documents.Dependent = (*Service)(nil)
