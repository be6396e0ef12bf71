package store

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/hush/internal/sound"
)

// HistoryEntry is one recorded playback start.
type HistoryEntry struct {
	ID       string
	Item     sound.Item
	PlayedAt time.Time
}

// Record appends item to the history of userID.
func (s *Store) Record(ctx context.Context, userID string, item sound.Item) error {
	row, err := toRow(item)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (id, user_id, item_id, type, name, icon, sounds, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, newID(), userID, row.itemID, row.kind, row.name, row.icon, row.sounds, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// History returns the most recent entries of userID, newest first.
// A limit of zero or less returns everything.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, type, name, icon, sounds, played_at
		FROM history
		WHERE user_id = ?
		ORDER BY played_at DESC, rowid DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e        HistoryEntry
			r        itemRow
			playedAt int64
		)
		if err := rows.Scan(&e.ID, &r.itemID, &r.kind, &r.name, &r.icon, &r.sounds, &playedAt); err != nil {
			return nil, err
		}
		if e.Item, err = r.item(); err != nil {
			return nil, err
		}
		e.PlayedAt = time.UnixMilli(playedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearHistory deletes every history entry of userID.
func (s *Store) ClearHistory(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE user_id = ?`, userID)
	return err
}
