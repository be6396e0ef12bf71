// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Sound operations
	OpSoundAdd     Op = "add sound"
	OpSoundResolve Op = "load sound"
	OpMixPlay      Op = "play mix"
	OpItemReplay   Op = "replay"

	// Library views
	OpCatalogSearch Op = "search sounds"
	OpHistoryLoad   Op = "load history"
	OpHistoryClear  Op = "clear history"

	// Favorites
	OpFavoriteAdd    Op = "add to favorites"
	OpFavoriteRemove Op = "remove favorite"
	OpFavoritesLoad  Op = "load favorites"

	// Sleep timer
	OpTimerArm Op = "set sleep timer"

	// Session
	OpLogin  Op = "sign in"
	OpLogout Op = "sign out"

	// Settings
	OpVolumeSave Op = "save volume"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
