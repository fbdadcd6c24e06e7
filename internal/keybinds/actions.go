package keybinds

// Action is the semantic name a key resolves to
type Action string

// Context names the keymap section a key is looked up in
type Context string

const (
	// ContextDefault is the only context the dialog resolves keys in
	ContextDefault Context = "default"
)

const (
	ActionShutdown Action = "Shutdown" // Power the machine off
	ActionClose    Action = "Close"    // Hide the dialog
	ActionQuit     Action = "Quit"     // Stop the daemon
)

// KnownActions lists the actions the dialog acts on.
// Other names may be bound; they resolve but are ignored.
var KnownActions = []Action{
	ActionShutdown,
	ActionClose,
	ActionQuit,
}

// IsKnown reports whether the dialog handles action
func (a Action) IsKnown() bool {
	for _, k := range KnownActions {
		if a == k {
			return true
		}
	}
	return false
}

// Description returns a short human-readable label for known actions
func (a Action) Description() string {
	switch a {
	case ActionShutdown:
		return "power off"
	case ActionClose:
		return "cancel"
	case ActionQuit:
		return "quit daemon"
	default:
		return string(a)
	}
}
