package store

import "context"

// Volumes returns the saved mixer level of every sound that has one.
func (s *Store) Volumes(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sound_id, level FROM volumes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var level float64
		if err := rows.Scan(&id, &level); err != nil {
			return nil, err
		}
		out[id] = level
	}
	return out, rows.Err()
}

// SaveVolume persists the mixer level of a sound.
func (s *Store) SaveVolume(ctx context.Context, soundID string, level float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO volumes (sound_id, level)
		VALUES (?, ?)
		ON CONFLICT(sound_id) DO UPDATE SET level = excluded.level
	`, soundID, level)
	return err
}
