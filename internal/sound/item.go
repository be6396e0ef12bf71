package sound

import (
	"fmt"
	"time"
)

// Kind distinguishes single sounds from mixes in history and favorites.
type Kind string

const (
	KindSound Kind = "sound"
	KindMix   Kind = "mix"
)

const (
	CustomMixName = "Custom Mix"
	customMixIcon = "musical-notes-outline"
)

// Item describes something a user played or favorited: one sound, or a mix of several.
type Item struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Icon   string  `json:"icon"`
	Kind   Kind    `json:"type"`
	Sounds []Entry `json:"sounds,omitempty"`
	// Entry carries the sound itself for KindSound items.
	Entry Entry `json:"entry"`
}

// SoundItem describes a single sound.
func SoundItem(e Entry) Item {
	return Item{
		ID:    e.ID,
		Name:  e.Name,
		Icon:  e.Icon,
		Kind:  KindSound,
		Entry: e,
	}
}

// MixItem describes an ad-hoc mix of entries under the given id.
func MixItem(id string, entries []Entry) Item {
	sounds := make([]Entry, len(entries))
	copy(sounds, entries)
	return Item{
		ID:     id,
		Name:   CustomMixName,
		Icon:   customMixIcon,
		Kind:   KindMix,
		Sounds: sounds,
	}
}

// MixID generates the synthetic id for a mix shown at t.
// Two mixes shown in the same millisecond share an id.
func MixID(t time.Time) string {
	return fmt.Sprintf("mix-%d", t.UnixMilli())
}

// Entries returns the sounds an item plays.
func (it Item) Entries() []Entry {
	if it.Kind == KindMix {
		return it.Sounds
	}
	return []Entry{it.Entry}
}
