// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Library navigation
	ActionNextTab   Action = "next_tab"
	ActionPrevTab   Action = "prev_tab"
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionSelect    Action = "select" // enter - play/add
	ActionSearch    Action = "search"
	ActionRefresh   Action = "refresh"

	// Library item actions
	ActionDelete Action = "delete" // d - remove favorite
	ActionClear  Action = "clear"  // D - clear history

	// Compact bar
	ActionPlayPause Action = "play_pause"
	ActionExpand    Action = "expand"
	ActionDismiss   Action = "dismiss"

	// Full player
	ActionVolumeUp     Action = "volume_up"
	ActionVolumeDown   Action = "volume_down"
	ActionFavorite     Action = "favorite"
	ActionTimerArm     Action = "timer_arm"
	ActionTimerCancel  Action = "timer_cancel"
	ActionTimerLonger  Action = "timer_longer"
	ActionTimerShorter Action = "timer_shorter"
	ActionRemove       Action = "remove"
	ActionMinimize     Action = "minimize"
	ActionClose        Action = "close"
)
