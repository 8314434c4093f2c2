package documents

import "context"

// uidConstraint is the unique constraint guarding Document.UID.
const uidConstraint = "documents_uid_key"

// Repo defines persistence operations for documents.
type Repo interface {
	// Create inserts doc and returns it with ID and CreatedAt populated.
	Create(ctx context.Context, doc Document) (Document, error)
	GetByUID(ctx context.Context, userID, uid string) (Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	// CountByCID reports how many documents reference cid across all users.
	CountByCID(ctx context.Context, cid string) (int, error)
	Delete(ctx context.Context, userID, uid string) error
}
