// Package llm defines the chat and report generation contract used for
// document conversations.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for document chat and reports.
type Client interface {
	Reply(ctx context.Context, input ReplyInput) (string, error)
	GenerateReport(ctx context.Context, input ReportInput) (json.RawMessage, error)
}

// Turn is one prior chat message.
type Turn struct {
	FromUser bool
	Content  string
}

// ReplyInput carries the conversation to answer.
type ReplyInput struct {
	DocumentName string
	DocumentText string
	History      []Turn
	Question     string
}

// ReportInput carries the document a report is generated from.
type ReportInput struct {
	DocumentName string
	DocumentText string
	Title        string
}

// ErrNotConfigured is returned when no provider is configured.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Reply returns ErrNotConfigured.
func (PlaceholderClient) Reply(context.Context, ReplyInput) (string, error) {
	return "", ErrNotConfigured
}

// GenerateReport returns ErrNotConfigured.
func (PlaceholderClient) GenerateReport(context.Context, ReportInput) (json.RawMessage, error) {
	return nil, ErrNotConfigured
}

// Configured reports whether c can produce output.
func Configured(c Client) bool {
	if c == nil {
		return false
	}
	_, placeholder := c.(PlaceholderClient)
	return !placeholder
}
