package reports

import "context"

const uidConstraint = "reports_uid_key"

// Repo defines persistence operations for reports.
type Repo interface {
	Create(ctx context.Context, report Report) (Report, error)
	// ListByDocument returns a document's reports, newest first.
	ListByDocument(ctx context.Context, documentID int64) ([]Report, error)
	GetByUID(ctx context.Context, documentID int64, uid string) (Report, error)
	Delete(ctx context.Context, documentID int64, uid string) error
	DeleteByDocument(ctx context.Context, documentID int64) (int, error)
}
