package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/hush/internal/db"
	"github.com/llehouerou/hush/internal/sound"
)

// Status tells whether an item is a favorite and under which record.
type Status struct {
	IsFavorite bool
	FavoriteID string
}

// Favorite is one saved item.
type Favorite struct {
	ID      string
	Item    sound.Item
	AddedAt time.Time
}

// AddFavorite saves item for userID and returns the favorite id.
// Saving an item twice returns the existing id.
func (s *Store) AddFavorite(ctx context.Context, userID string, item sound.Item) (string, error) {
	row, err := toRow(item)
	if err != nil {
		return "", err
	}

	var id string
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM favorites WHERE user_id = ? AND item_id = ?`,
			userID, row.itemID,
		).Scan(&id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		id = newID()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO favorites (id, user_id, item_id, type, name, icon, sounds, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, userID, row.itemID, row.kind, row.name, row.icon, row.sounds, s.now().UnixMilli())
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveFavorite deletes a favorite of userID. Unknown ids are ignored.
func (s *Store) RemoveFavorite(ctx context.Context, userID, favoriteID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND id = ?`, userID, favoriteID)
	return err
}

// IsFavorite reports whether itemID is among the favorites of userID.
func (s *Store) IsFavorite(ctx context.Context, userID, itemID string) (Status, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM favorites WHERE user_id = ? AND item_id = ?`, userID, itemID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{IsFavorite: true, FavoriteID: id}, nil
}

// Favorites returns the favorites of userID, newest first.
func (s *Store) Favorites(ctx context.Context, userID string) ([]Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, type, name, icon, sounds, added_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY added_at DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		var (
			f       Favorite
			r       itemRow
			addedAt int64
		)
		if err := rows.Scan(&f.ID, &r.itemID, &r.kind, &r.name, &r.icon, &r.sounds, &addedAt); err != nil {
			return nil, err
		}
		if f.Item, err = r.item(); err != nil {
			return nil, err
		}
		f.AddedAt = time.UnixMilli(addedAt)
		out = append(out, f)
	}
	return out, rows.Err()
}
