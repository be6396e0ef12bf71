package store

import (
	"context"
	"database/sql"
	"errors"
)

// CurrentUser returns the signed-in user id, if any.
func (s *Store) CurrentUser(ctx context.Context) (string, bool, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM session WHERE id = 1`).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

// SetCurrentUser records userID as signed in.
func (s *Store) SetCurrentUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, user_id, signed_in_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			signed_in_at = excluded.signed_in_at
	`, userID, s.now().UnixMilli())
	return err
}

// ClearCurrentUser signs out.
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	return err
}
