package reports

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

const reportColumns = `id, uid, title, content, created_at, document_id`

func (r *PGRepo) Create(ctx context.Context, report Report) (Report, error) {
	const query = `
INSERT INTO reports (uid, title, content, document_id)
VALUES ($1, $2, $3::jsonb, $4)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, report.UID, report.Title, string(report.Content), report.DocumentID).
		Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

func (r *PGRepo) ListByDocument(ctx context.Context, documentID int64) ([]Report, error) {
	query := `SELECT ` + reportColumns + `
FROM reports
WHERE document_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByUID(ctx context.Context, documentID int64, uid string) (Report, error) {
	query := `SELECT ` + reportColumns + `
FROM reports
WHERE uid = $1 AND document_id = $2`
	report, err := scanReport(r.DB.QueryRowContext(ctx, query, uid, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	return report, nil
}

func (r *PGRepo) Delete(ctx context.Context, documentID int64, uid string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reports WHERE uid = $1 AND document_id = $2`, uid, documentID)
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

func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID int64) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reports WHERE document_id = $1`, documentID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var report Report
	var content []byte
	if err := row.Scan(&report.ID, &report.UID, &report.Title, &content, &report.CreatedAt, &report.DocumentID); err != nil {
		return Report{}, err
	}
	report.Content = normalizeStored(content)
	return report, nil
}

func normalizeStored(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}
