// Package store persists favorites, history, the signed-in user and mixer
// levels in a local sqlite database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/llehouerou/hush/internal/db"
	"github.com/llehouerou/hush/internal/sound"
)

const (
	appName    = "hush"
	dbFileName = "hush.db"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path and migrates it.
func Open(path string) (*Store, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{db: conn, now: time.Now}, nil
}

// OpenDefault opens the database in the XDG data directory.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// DefaultPath returns $XDG_DATA_HOME/hush/hush.db.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func newID() string {
	return uuid.NewString()
}

// itemRow is the shared column set of history and favorites rows.
type itemRow struct {
	itemID string
	kind   string
	name   string
	icon   sql.NullString
	sounds string
}

func toRow(item sound.Item) (itemRow, error) {
	data, err := json.Marshal(item.Entries())
	if err != nil {
		return itemRow{}, fmt.Errorf("encode sounds: %w", err)
	}
	return itemRow{
		itemID: item.ID,
		kind:   string(item.Kind),
		name:   item.Name,
		icon:   sql.NullString{String: item.Icon, Valid: item.Icon != ""},
		sounds: string(data),
	}, nil
}

func (r itemRow) item() (sound.Item, error) {
	var entries []sound.Entry
	if err := json.Unmarshal([]byte(r.sounds), &entries); err != nil {
		return sound.Item{}, fmt.Errorf("decode sounds of %s: %w", r.itemID, err)
	}
	item := sound.Item{
		ID:   r.itemID,
		Name: r.name,
		Icon: db.NullStringValue(r.icon),
		Kind: sound.Kind(r.kind),
	}
	if item.Kind == sound.KindMix {
		item.Sounds = entries
	} else if len(entries) > 0 {
		item.Entry = entries[0]
	}
	return item, nil
}
