package messages

import "context"

const uidConstraint = "messages_uid_key"

// Repo defines persistence operations for messages.
type Repo interface {
	Create(ctx context.Context, msg Message) (Message, error)
	// ListByDocument returns all messages of a document, oldest first.
	ListByDocument(ctx context.Context, documentID int64) ([]Message, error)
	DeleteByDocument(ctx context.Context, documentID int64) (int, error)
}
