package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding contexts. Global bindings apply everywhere unless a context
// binds the same key.
const (
	ContextGlobal  = "global"
	ContextLibrary = "library"
	ContextPlayer  = "player"
)

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", ContextGlobal},
	{ActionHelp, []string{"?"}, "help", ContextGlobal},

	// Library
	{ActionNextTab, []string{"tab"}, "next tab", ContextLibrary},
	{ActionPrevTab, []string{"shift+tab"}, "previous tab", ContextLibrary},
	{ActionMoveUp, []string{"k", "up"}, "up", ContextLibrary},
	{ActionMoveDown, []string{"j", "down"}, "down", ContextLibrary},
	{ActionJumpStart, []string{"g", "home"}, "first", ContextLibrary},
	{ActionJumpEnd, []string{"G", "end"}, "last", ContextLibrary},
	{ActionSelect, []string{"enter"}, "play", ContextLibrary},
	{ActionSearch, []string{"/"}, "search", ContextLibrary},
	{ActionRefresh, []string{"r"}, "refresh", ContextLibrary},
	{ActionDelete, []string{"d"}, "remove favorite", ContextLibrary},
	{ActionClear, []string{"D"}, "clear history", ContextLibrary},
	{ActionPlayPause, []string{" "}, "play/pause", ContextLibrary},
	{ActionExpand, []string{"o"}, "open player", ContextLibrary},
	{ActionDismiss, []string{"x"}, "close player", ContextLibrary},

	// Full player
	{ActionPlayPause, []string{" "}, "play/pause", ContextPlayer},
	{ActionMoveUp, []string{"k", "up"}, "up", ContextPlayer},
	{ActionMoveDown, []string{"j", "down"}, "down", ContextPlayer},
	{ActionVolumeDown, []string{"h", "left"}, "volume down", ContextPlayer},
	{ActionVolumeUp, []string{"l", "right"}, "volume up", ContextPlayer},
	{ActionFavorite, []string{"f"}, "favorite", ContextPlayer},
	{ActionTimerArm, []string{"t"}, "start timer", ContextPlayer},
	{ActionTimerCancel, []string{"T"}, "cancel timer", ContextPlayer},
	{ActionTimerLonger, []string{"+", "="}, "timer +5", ContextPlayer},
	{ActionTimerShorter, []string{"-"}, "timer -5", ContextPlayer},
	{ActionRemove, []string{"d"}, "remove sound", ContextPlayer},
	{ActionMinimize, []string{"esc"}, "minimize", ContextPlayer},
	{ActionClose, []string{"x"}, "close", ContextPlayer},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help returns bubbles key bindings for context followed by the global ones.
func Help(context string) []key.Binding {
	bindings := ByContext(context)
	if context != ContextGlobal {
		bindings = append(bindings, ByContext(ContextGlobal)...)
	}
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(displayKey(b.Keys[0]), b.Description),
		))
	}
	return out
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
