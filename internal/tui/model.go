package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/studiowebux/eshutdown/internal/dialog"
	"github.com/studiowebux/eshutdown/internal/i18n"
	"github.com/studiowebux/eshutdown/internal/ipc"
	"github.com/studiowebux/eshutdown/internal/keybinds"
	"github.com/studiowebux/eshutdown/internal/types"
)

// Journal receives daemon events for the history database
type Journal interface {
	Record(kind types.EntryKind, detail, conn string)
	Flush() error
}

// Listener is the part of the socket server the dispatch loop controls
type Listener interface {
	Drop(id ipc.ConnID)
	Close() error
}

// Options configures a Model
type Options struct {
	Controller      *dialog.Controller
	Keybinds        *keybinds.Registry
	ControlMessage  []byte
	MaxMessageBytes int
	Listener        Listener
	Journal         Journal
	Printer         *i18n.Printer
	FlushInterval   time.Duration
	StartVisible    bool
}

type flushTickMsg time.Time

// Model is the dispatch loop state
type Model struct {
	ctx      context.Context
	dialog   *dialog.Controller
	tracker  *ipc.Tracker
	keybinds *keybinds.Registry
	listener Listener
	journal  Journal
	printer  *i18n.Printer

	help help.Model
	keys keyMap

	flushInterval time.Duration
	dropped       map[ipc.ConnID]bool
	cleanedUp     bool
	quitting      bool
}

// New creates the dispatch loop model
func New(ctx context.Context, opts Options) *Model {
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	if opts.Printer == nil {
		opts.Printer = i18n.New("")
	}
	if opts.FlushInterval > 0 && opts.FlushInterval < MinFlushInterval {
		opts.FlushInterval = MinFlushInterval
	}

	m := &Model{
		ctx:           ctx,
		dialog:        opts.Controller,
		tracker:       ipc.NewTracker(opts.ControlMessage, opts.MaxMessageBytes, opts.Controller),
		keybinds:      opts.Keybinds,
		listener:      opts.Listener,
		journal:       opts.Journal,
		printer:       opts.Printer,
		help:          help.New(),
		keys:          newKeyMap(opts.Keybinds, opts.Printer),
		flushInterval: opts.FlushInterval,
		dropped:       make(map[ipc.ConnID]bool),
	}

	m.dialog.OnTransition(func(tr dialog.Transition) {
		m.record(types.KindVisibility, fmt.Sprintf("%s -> %s (%s)", tr.From, tr.To, tr.Reason), "")
	})

	if opts.StartVisible {
		m.dialog.BringToFrontOrShow()
	}

	return m
}

// Init starts the journal flush timer
func (m *Model) Init() tea.Cmd {
	return m.scheduleFlush()
}

// Cleanup stops the socket server and flushes the journal. Safe to call
// more than once.
func (m *Model) Cleanup() {
	if m.cleanedUp {
		return
	}
	m.cleanedUp = true

	m.closeListener()
	m.flushJournal()
}

func (m *Model) closeListener() {
	if m.listener == nil {
		return
	}
	if err := m.listener.Close(); err != nil {
		log.WithError(err).Warn("error closing IPC server")
	}
	m.listener = nil
}

// Update is the single event dispatcher
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ipc.Event:
		m.handleIPC(msg)

	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.dialog.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width

	case tea.FocusMsg:
		m.dialog.Focus()

	case tea.BlurMsg:
		m.dialog.Blur()

	case flushTickMsg:
		m.flushJournal()
		cmd = m.scheduleFlush()
	}

	return m, cmd
}

// View renders the dialog, or nothing while it is hidden
func (m *Model) View() string {
	if m.dialog.PoweringOff() {
		return styleTitle.Render(m.printer.Sprintf(i18n.PoweringOff)) + "\n"
	}
	if m.quitting {
		return ""
	}
	switch m.dialog.Visibility() {
	case dialog.Visible:
		return m.renderDialog(false)
	case dialog.Background:
		return m.renderDialog(true)
	default:
		return ""
	}
}

// Visibility exposes the dialog state
func (m *Model) Visibility() dialog.Visibility {
	return m.dialog.Visibility()
}

// OpenConnections returns the number of connections the tracker holds
func (m *Model) OpenConnections() int {
	return m.tracker.Len()
}

func (m *Model) scheduleFlush() tea.Cmd {
	if m.journal == nil || m.flushInterval <= 0 {
		return nil
	}
	return tea.Tick(m.flushInterval, func(t time.Time) tea.Msg {
		return flushTickMsg(t)
	})
}

func (m *Model) flushJournal() {
	if m.journal == nil {
		return
	}
	if err := m.journal.Flush(); err != nil {
		log.WithError(err).Warn("history flush failed")
	}
}

func (m *Model) record(kind types.EntryKind, detail, conn string) {
	if m.journal != nil {
		m.journal.Record(kind, detail, conn)
	}
}
