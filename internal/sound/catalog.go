package sound

import (
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrUnknownSound is returned when a catalog lookup finds nothing.
var ErrUnknownSound = errors.New("unknown sound")

// Mix is a preset combination of catalog sounds.
type Mix struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Sounds      []Entry
}

// Catalog is the built-in sound library.
type Catalog struct {
	sounds []Entry
	mixes  []Mix
	byID   map[string]Entry
}

// NewCatalog builds a catalog from sounds and mixes.
func NewCatalog(sounds []Entry, mixes []Mix) *Catalog {
	c := &Catalog{
		sounds: sounds,
		mixes:  mixes,
		byID:   make(map[string]Entry, len(sounds)),
	}
	for _, s := range sounds {
		c.byID[s.ID] = s
	}
	return c
}

// Default returns the catalog shipped with the application.
func Default() *Catalog {
	return NewCatalog(defaultSounds, defaultMixes)
}

// Sounds returns all catalog sounds in display order.
func (c *Catalog) Sounds() []Entry {
	out := make([]Entry, len(c.sounds))
	copy(out, c.sounds)
	return out
}

// Mixes returns the preset mixes.
func (c *Catalog) Mixes() []Mix {
	out := make([]Mix, len(c.mixes))
	copy(out, c.mixes)
	return out
}

// Sound looks up a sound by id.
func (c *Catalog) Sound(id string) (Entry, error) {
	e, ok := c.byID[id]
	if !ok {
		return Entry{}, ErrUnknownSound
	}
	return e, nil
}

// Mix looks up a preset mix by id or case-insensitive name.
func (c *Catalog) Mix(key string) (Mix, error) {
	for _, m := range c.mixes {
		if m.ID == key || strings.EqualFold(m.Name, key) {
			return m, nil
		}
	}
	return Mix{}, ErrUnknownSound
}

// Find returns catalog sounds whose name fuzzily matches query, best match first.
// An exact id match always wins.
func (c *Catalog) Find(query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if e, ok := c.byID[query]; ok {
		return []Entry{e}
	}

	names := make([]string, len(c.sounds))
	for i, s := range c.sounds {
		names[i] = s.Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	sort.Stable(ranks)

	out := make([]Entry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, c.sounds[r.OriginalIndex])
	}
	return out
}

var defaultSounds = []Entry{
	{ID: "1", Name: "Keyboard", Icon: "laptop-outline"},
	{ID: "2", Name: "Clock", Icon: "time-outline"},
	{ID: "3", Name: "Birds", Icon: "sunny-outline"},
	{ID: "4", Name: "Campfire", Icon: "flame-outline"},
	{ID: "5", Name: "Cave", Icon: "earth-outline"},
	{ID: "6", Name: "Ceiling Fan", Icon: "sunny"},
	{ID: "7", Name: "Piano", Icon: "musical-notes-outline"},
	{ID: "8", Name: "Computer Fan", Icon: "desktop-outline"},
	{ID: "9", Name: "Crickets", Icon: "bug-outline"},
	{ID: "10", Name: "Draming", Icon: "musical-note-outline"},
	{ID: "11", Name: "Exhaust Fan", Icon: "radio-outline"},
	{ID: "12", Name: "Guitar Meditaion", Icon: "musical-notes-outline", FirebasePath: "whiteNoises/Guitar_Meditation.mp3"},
	{ID: "13", Name: "Hand_Dryer", Icon: "hand-right-outline"},
	{ID: "14", Name: "Light Rain", Icon: "rainy-outline"},
	{ID: "15", Name: "Highway", Icon: "car-outline"},
	{ID: "16", Name: "Keyboard", Icon: "laptop-outline"},
	{ID: "17", Name: "Night Insects", Icon: "moon-outline"},
	{ID: "18", Name: "Ocean Waves", Icon: "water-outline"},
	{ID: "19", Name: "Old Fan", Icon: "radio-outline"},
	{ID: "20", Name: "Owls", Icon: "moon-outline"},
	{ID: "21", Name: "Pink Noise", Icon: "radio-outline"},
	{ID: "22", Name: "Play Ground", Icon: "people-outline"},
	{ID: "23", Name: "Rain", Icon: "rainy-outline"},
	{ID: "24", Name: "Rain And Thunder", Icon: "thunderstorm-outline"},
	{ID: "25", Name: "Rain Forest", Icon: "leaf-outline"},
	{ID: "26", Name: "Rain Forest 2", Icon: "leaf-outline"},
	{ID: "27", Name: "Rain In Metal Roof", Icon: "home-outline"},
	{ID: "28", Name: "Rain On Leaves", Icon: "leaf-outline"},
	{ID: "29", Name: "Rain On Tent", Icon: "umbrella-outline"},
	{ID: "30", Name: "River", Icon: "water-outline"},
	{ID: "31", Name: "Train", Icon: "train-outline"},
	{ID: "32", Name: "Seagulls", Icon: "sunny-outline"},
	{ID: "33", Name: "Small Desk Fan", Icon: "radio-outline"},
	{ID: "34", Name: "Train", Icon: "train-outline"},
	{ID: "35", Name: "Underwater", Icon: "water-outline"},
	{ID: "36", Name: "Urban Downpour", Icon: "rainy-outline"},
}

var defaultMixes = []Mix{
	{
		ID:          "mix1",
		Name:        "Nature Retreat",
		Icon:        "leaf-outline",
		Description: "Immerse yourself in peaceful forest sounds",
		Sounds: []Entry{
			{ID: "3", Name: "Birds", Icon: "sunny-outline"},
			{ID: "25", Name: "Rain Forest", Icon: "leaf-outline"},
			{ID: "9", Name: "Crickets", Icon: "bug-outline"},
		},
	},
	{
		ID:          "mix2",
		Name:        "Rainy Day",
		Icon:        "rainy-outline",
		Description: "Relaxing rain sounds for focus and sleep",
		Sounds: []Entry{
			{ID: "23", Name: "Rain", Icon: "rainy-outline"},
			{ID: "27", Name: "Rain In Metal Roof", Icon: "home-outline"},
			{ID: "24", Name: "Rain And Thunder", Icon: "thunderstorm-outline"},
		},
	},
	{
		ID:          "mix3",
		Name:        "Urban Ambience",
		Icon:        "business-outline",
		Description: "City sounds to create a productive atmosphere",
		Sounds: []Entry{
			{ID: "15", Name: "Highway", Icon: "car-outline"},
			{ID: "31", Name: "Train", Icon: "train-outline"},
			{ID: "1", Name: "Keyboard", Icon: "laptop-outline"},
		},
	},
	{
		ID:          "mix4",
		Name:        "Deep Relaxation",
		Icon:        "water-outline",
		Description: "Calming sounds for meditation and sleep",
		Sounds: []Entry{
			{ID: "18", Name: "Ocean Waves", Icon: "water-outline"},
			{ID: "21", Name: "Pink Noise", Icon: "radio-outline"},
			{ID: "7", Name: "Piano", Icon: "musical-notes-outline"},
		},
	},
}
