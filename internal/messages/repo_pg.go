package messages

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Create(ctx context.Context, msg Message) (Message, error) {
	const query = `
INSERT INTO messages (uid, sender_is_user, content, document_id)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, msg.UID, msg.SenderIsUser, msg.Content, msg.DocumentID).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (r *PGRepo) ListByDocument(ctx context.Context, documentID int64) ([]Message, error) {
	const query = `
SELECT id, uid, sender_is_user, content, created_at, document_id
FROM messages
WHERE document_id = $1
ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.UID, &msg.SenderIsUser, &msg.Content, &msg.CreatedAt, &msg.DocumentID); err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// DeleteByDocument is only needed for manual cleanup; the FK cascade covers document deletes.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID int64) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM messages WHERE document_id = $1`, documentID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
