package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/studiowebux/eshutdown/internal/dialog"
	"github.com/studiowebux/eshutdown/internal/i18n"
	"github.com/studiowebux/eshutdown/internal/keybinds"
	"github.com/studiowebux/eshutdown/internal/types"
)

// handleKeyPress resolves a key in the default context and runs its action.
// A hidden dialog has no keyboard focus, so only Quit reaches it.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if m.dialog.PoweringOff() {
		return nil
	}

	action, ok := m.keybinds.Match(keybinds.ContextDefault, msg.String())
	if !ok {
		return nil
	}
	if m.dialog.Visibility() == dialog.Hidden && action != keybinds.ActionQuit {
		return nil
	}

	log.WithFields(log.Fields{"key": msg.String(), "action": action}).Debug("key resolved")
	m.record(types.KindAction, string(action), "")

	switch action {
	case keybinds.ActionShutdown:
		return m.shutdown()
	case keybinds.ActionClose:
		m.dialog.Hide()
	case keybinds.ActionQuit:
		return m.quit()
	}
	return nil
}

// shutdown stops accepting signals, then hands over to the power-off
// sequence. The program exits whether or not the request succeeded.
func (m *Model) shutdown() tea.Cmd {
	m.closeListener()
	m.record(types.KindLifecycle, "power-off requested", "")

	if err := m.dialog.InitiatePowerOff(m.ctx); err != nil {
		m.record(types.KindLifecycle, "power-off request failed: "+err.Error(), "")
	}
	return m.quit()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.Cleanup()
	return tea.Quit
}

// keyMap mirrors the registry for the help footer
type keyMap struct {
	shutdown key.Binding
	close    key.Binding
}

func newKeyMap(reg *keybinds.Registry, p *i18n.Printer) keyMap {
	return keyMap{
		shutdown: binding(reg, keybinds.ActionShutdown, p.Sprintf(i18n.HelpShutdown)),
		close:    binding(reg, keybinds.ActionClose, p.Sprintf(i18n.HelpClose)),
	}
}

func binding(reg *keybinds.Registry, action keybinds.Action, desc string) key.Binding {
	keys := reg.GetBinding(keybinds.ContextDefault, action)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(reg.GetBindingString(keybinds.ContextDefault, action), desc),
	)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.shutdown, k.close}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
