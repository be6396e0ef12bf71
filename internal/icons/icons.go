package icons

import "strings"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play        string
	Pause       string
	Favorite    string
	NotFavorite string
	Timer       string
	Volume      string
	Mix         string
	Sound       string
}

var (
	nerdIcons = Icons{
		Play:        "\uf04b", // nf-fa-play
		Pause:       "\uf04c", // nf-fa-pause
		Favorite:    "󰣐",      // nf-md-heart
		NotFavorite: "󰋕",      // nf-md-heart_outline
		Timer:       "󰔛",      // nf-md-timer_outline
		Volume:      "󰕾",      // nf-md-volume_high
		Mix:         "󰲸",      // nf-md-playlist_music
		Sound:       "\uf001", // nf-fa-music
	}

	unicodeIcons = Icons{
		Play:        "▶",
		Pause:       "⏸",
		Favorite:    "♥",
		NotFavorite: "♡",
		Timer:       "⏲",
		Volume:      "🔊",
		Mix:         "🎛",
		Sound:       "🎵",
	}

	noneIcons = Icons{
		Play:        ">",
		Pause:       "||",
		Favorite:    "*",
		NotFavorite: "-",
		Timer:       "T",
		Volume:      "vol",
		Mix:         "",
		Sound:       "",
	}

	// current holds the active icon set
	current = noneIcons
)

// unicode glyphs for the catalog icon names
var soundGlyphs = map[string]string{
	"laptop":        "💻",
	"time":          "🕰",
	"sunny":         "☀",
	"flame":         "🔥",
	"earth":         "🌍",
	"musical-notes": "🎶",
	"musical-note":  "🎵",
	"desktop":       "🖥",
	"bug":           "🦗",
	"radio":         "📻",
	"hand-right":    "✋",
	"rainy":         "🌧",
	"car":           "🚗",
	"moon":          "🌙",
	"water":         "🌊",
	"people":        "👥",
	"thunderstorm":  "⛈",
	"leaf":          "🍃",
	"home":          "🏠",
	"umbrella":      "☂",
	"train":         "🚆",
	"business":      "🏙",
}

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// PlayState returns the icon for the global play state.
func PlayState(playing bool) string {
	if playing {
		return current.Play
	}
	return current.Pause
}

// FavoriteState returns the filled or outlined heart.
func FavoriteState(favorite bool) string {
	if favorite {
		return current.Favorite
	}
	return current.NotFavorite
}

// Timer returns the sleep timer icon.
func Timer() string {
	return current.Timer
}

// Volume returns the volume icon.
func Volume() string {
	return current.Volume
}

// FormatSound prefixes name with the glyph of a catalog icon name
// such as "rainy-outline". Unknown names fall back to the generic sound icon.
func FormatSound(icon, name string) string {
	switch current {
	case noneIcons:
		return name
	case unicodeIcons:
		if g, ok := soundGlyphs[strings.TrimSuffix(icon, "-outline")]; ok {
			return g + " " + name
		}
	}
	return current.Sound + " " + name
}

// FormatMix prefixes name with the mix icon.
func FormatMix(name string) string {
	if current == noneIcons {
		return name
	}
	return current.Mix + " " + name
}
