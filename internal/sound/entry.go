// Package sound defines the sound entries mixed by the player and the built-in catalog.
package sound

import (
	"strings"
)

const sourceDir = "whiteNoises"

// Entry is one independently identified audio loop that can be part of a mix.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	URI          string `json:"uri,omitempty"`
	FirebasePath string `json:"firebasePath,omitempty"`
}

// SourcePath returns the storage path used to locate the entry's media.
// Falls back to a path derived from the name when none was recorded.
func (e Entry) SourcePath() string {
	if e.FirebasePath != "" {
		return e.FirebasePath
	}
	return sourceDir + "/" + strings.ReplaceAll(e.Name, " ", "_") + ".mp3"
}

// FileName returns the last element of SourcePath.
func (e Entry) FileName() string {
	p := e.SourcePath()
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// WithURI returns a copy of e pointing at uri.
func (e Entry) WithURI(uri string) Entry {
	e.URI = uri
	return e
}

// IDs returns the ids of entries in order.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Index returns the position of id in entries, or -1.
func Index(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether entries holds an entry with the given id.
func Contains(entries []Entry, id string) bool {
	return Index(entries, id) >= 0
}
