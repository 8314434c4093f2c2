package otp

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Upsert(ctx context.Context, email, code string) (Otp, error) {
	const query = `
INSERT INTO otps (email, otp, created_at)
VALUES ($1, $2, now())
ON CONFLICT (email) DO UPDATE SET
  otp = EXCLUDED.otp,
  created_at = now()
RETURNING id, created_at`
	row := Otp{Email: email, Code: code}
	if err := r.DB.QueryRowContext(ctx, query, email, code).Scan(&row.ID, &row.CreatedAt); err != nil {
		return Otp{}, err
	}
	return row, nil
}

func (r *PGRepo) Get(ctx context.Context, email string) (Otp, error) {
	const query = `SELECT id, email, otp, created_at FROM otps WHERE email = $1`
	var row Otp
	var code sql.NullString
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&row.ID, &row.Email, &code, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Otp{}, ErrNotFound
		}
		return Otp{}, err
	}
	row.Code = code.String
	return row, nil
}

func (r *PGRepo) Delete(ctx context.Context, email string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM otps WHERE email = $1`, email)
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

func (r *PGRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM otps WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
