package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/eshutdown/internal/dialog"
	"github.com/studiowebux/eshutdown/internal/ipc"
	"github.com/studiowebux/eshutdown/internal/types"
)

type fakeListener struct {
	dropped []ipc.ConnID
	closed  int
}

func (f *fakeListener) Drop(id ipc.ConnID) { f.dropped = append(f.dropped, id) }

func (f *fakeListener) Close() error {
	f.closed++
	return nil
}

type fakeJournal struct {
	entries []types.HistoryEntry
	flushes int
}

func (f *fakeJournal) Record(kind types.EntryKind, detail, conn string) {
	f.entries = append(f.entries, types.HistoryEntry{Kind: kind, Detail: detail, Conn: conn})
}

func (f *fakeJournal) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeJournal) count(kind types.EntryKind) int {
	n := 0
	for _, e := range f.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type fakeSwitch struct {
	calls int
	fail  bool
}

func (f *fakeSwitch) Name() string { return "fake" }

func (f *fakeSwitch) PowerOff(ctx context.Context) error {
	f.calls++
	if f.fail {
		return errors.New("not authorized")
	}
	return nil
}

// testDeps are the fakes behind a test model
type testDeps struct {
	listener *fakeListener
	journal  *fakeJournal
	power    *fakeSwitch
}

// CreateTestModel creates a hidden Model wired to fakes.
// opt may adjust the options before the model is built.
func CreateTestModel(t *testing.T, opt func(*Options)) (*Model, *testDeps) {
	t.Helper()

	deps := &testDeps{
		listener: &fakeListener{},
		journal:  &fakeJournal{},
		power:    &fakeSwitch{},
	}
	opts := Options{
		Controller:     dialog.New(deps.power),
		ControlMessage: []byte("Power"),
		Listener:       deps.listener,
		Journal:        deps.journal,
	}
	if opt != nil {
		opt(&opts)
	}

	return New(context.Background(), opts), deps
}

// sendMessage delivers a complete message on one connection
func sendMessage(m *Model, id ipc.ConnID, chunks ...string) {
	m.Update(ipc.Connected{ID: id})
	for _, c := range chunks {
		m.Update(ipc.DataReceived{ID: id, Data: []byte(c)})
	}
	m.Update(ipc.Disconnected{ID: id})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
