package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/eshutdown/internal/i18n"
	"github.com/studiowebux/eshutdown/internal/keybinds"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorRed  = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff5f5f"}
	colorGray = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorText = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}
)

var (
	styleFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(1, DialogPadding).
			Width(DialogWidth - 2)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	styleText = lipgloss.NewStyle().
			Foreground(colorText)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderDialog draws the framed dialog centered in the terminal.
// A background dialog is drawn faint.
func (m *Model) renderDialog(faint bool) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.printer.Sprintf(i18n.Title)))
	b.WriteString("\n\n")
	b.WriteString(styleText.Render(m.printer.Sprintf(i18n.PowerOffHint, m.primaryKey(keybinds.ActionShutdown))))
	b.WriteString("\n")
	b.WriteString(styleText.Render(m.printer.Sprintf(i18n.CancelHint, m.primaryKey(keybinds.ActionClose))))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	frame := styleFrame
	if faint {
		frame = frame.Faint(true).BorderForeground(colorGray)
	}
	box := frame.Render(b.String())

	width, height := m.dialog.Size()
	if width == 0 || height == 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// primaryKey is the key shown in the dialog text for action
func (m *Model) primaryKey(action keybinds.Action) string {
	keys := m.keybinds.GetBinding(keybinds.ContextDefault, action)
	if len(keys) == 0 {
		return styleSubtle.Render("unbound")
	}
	return keys[0]
}
