// internal/playback/state.go
package playback

import (
	"slices"

	"github.com/llehouerou/hush/internal/sound"
)

// DefaultVolume applies to entries without a recorded level.
const DefaultVolume = 1.0

// Surface is the presentation currently owning the playback state.
type Surface int

const (
	SurfaceHidden Surface = iota
	SurfaceCompact
	SurfaceFull
)

// String returns the surface name.
func (s Surface) String() string {
	switch s {
	case SurfaceHidden:
		return "Hidden"
	case SurfaceCompact:
		return "Compact"
	case SurfaceFull:
		return "Full"
	default:
		return "Unknown"
	}
}

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	Entries        []sound.Entry
	Playing        bool
	Volumes        map[string]float64
	CompactVisible bool
	FullVisible    bool
	// OpenHandles lists entry ids whose handle finished opening, in entry order.
	OpenHandles []string
}

// Volume returns the level for id, defaulting to DefaultVolume.
func (s Snapshot) Volume(id string) float64 {
	if v, ok := s.Volumes[id]; ok {
		return v
	}
	return DefaultVolume
}

// HasHandle reports whether id has an open handle.
func (s Snapshot) HasHandle(id string) bool {
	return slices.Contains(s.OpenHandles, id)
}

// Surface derives which presentation is showing.
func (s Snapshot) Surface() Surface {
	switch {
	case s.FullVisible:
		return SurfaceFull
	case s.CompactVisible && len(s.Entries) > 0:
		return SurfaceCompact
	default:
		return SurfaceHidden
	}
}

// Entry looks up an entry by id.
func (s Snapshot) Entry(id string) (sound.Entry, bool) {
	i := sound.Index(s.Entries, id)
	if i < 0 {
		return sound.Entry{}, false
	}
	return s.Entries[i], true
}
