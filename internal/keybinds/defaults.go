package keybinds

// NewDefaultRegistry creates a registry with the default dialog bindings.
// "enter" stands in for the reader's OK button and "c" matches the
// "Cancel - press C" hint.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerDefaultBindings(r)
	return r
}

func registerDefaultBindings(r *Registry) {
	r.Register(ContextDefault, "enter", ActionShutdown)
	r.RegisterMultiple(ContextDefault, []string{"c", "C", "esc"}, ActionClose)
	r.Register(ContextDefault, "ctrl+c", ActionQuit)
}
