//nolint:goconst // test cases intentionally repeat strings for readability
package icons

import (
	"testing"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name          string
		style         string
		expectedStyle Style
	}{
		{"nerd style", "nerd", StyleNerd},
		{"unicode style", "unicode", StyleUnicode},
		{"none style", "none", StyleNone},
		{"empty string defaults to none", "", StyleNone},
		{"unknown style defaults to none", "invalid", StyleNone},
		{"case sensitive - NERD defaults to none", "NERD", StyleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)

			switch tt.expectedStyle {
			case StyleNerd:
				if current != nerdIcons {
					t.Error("expected nerd icons to be active")
				}
			case StyleUnicode:
				if current != unicodeIcons {
					t.Error("expected unicode icons to be active")
				}
			case StyleNone:
				if current != noneIcons {
					t.Error("expected none icons to be active")
				}
			}
		})
	}

	// Reset to default
	Init("none")
}

func TestFormatSound(t *testing.T) {
	tests := []struct {
		style string
		icon  string
		want  string
	}{
		{"none", "rainy-outline", "Rain"},
		{"unicode", "rainy-outline", "🌧 Rain"},
		{"unicode", "sunny", "☀ Rain"},
		{"unicode", "unknown-outline", "🎵 Rain"},
		{"nerd", "rainy-outline", "\uf001 Rain"},
	}

	for _, tt := range tests {
		t.Run(tt.style+"/"+tt.icon, func(t *testing.T) {
			Init(tt.style)
			if got := FormatSound(tt.icon, "Rain"); got != tt.want {
				t.Errorf("FormatSound(%q) = %q, want %q", tt.icon, got, tt.want)
			}
		})
	}
	Init("none")
}

func TestStateIcons(t *testing.T) {
	Init("none")
	if got := PlayState(true); got != ">" {
		t.Errorf("PlayState(true) = %q, want %q", got, ">")
	}
	if got := PlayState(false); got != "||" {
		t.Errorf("PlayState(false) = %q, want %q", got, "||")
	}
	if got := FavoriteState(true); got != "*" {
		t.Errorf("FavoriteState(true) = %q, want %q", got, "*")
	}

	Init("unicode")
	if got := FavoriteState(false); got != "♡" {
		t.Errorf("FavoriteState(false) = %q, want %q", got, "♡")
	}
	if got := FormatMix("Rainy Day"); got != "🎛 Rainy Day" {
		t.Errorf("FormatMix() = %q", got)
	}
	Init("none")
}
