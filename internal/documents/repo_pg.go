package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const documentColumns = `id, uid, file_name, cid, created_at, user_id`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) (Document, error) {
	const query = `
INSERT INTO documents (uid, file_name, cid, user_id)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	if err := r.DB.QueryRowContext(ctx, query, doc.UID, doc.FileName, doc.CID, doc.UserID).Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// GetByUID returns a document owned by userID.
func (r *PGRepo) GetByUID(ctx context.Context, userID, uid string) (Document, error) {
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE uid = $1 AND user_id = $2`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, uid, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// CountByCID counts documents referencing cid.
func (r *PGRepo) CountByCID(ctx context.Context, cid string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE cid = $1`, cid).Scan(&n)
	return n, err
}

// Delete removes a document; messages and reports go with it via ON DELETE CASCADE.
func (r *PGRepo) Delete(ctx context.Context, userID, uid string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE uid = $1 AND user_id = $2`, uid, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.UID, &doc.FileName, &doc.CID, &doc.CreatedAt, &doc.UserID)
	return doc, err
}
