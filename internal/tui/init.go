package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/eshutdown/internal/dialog"
	"github.com/studiowebux/eshutdown/internal/i18n"
	"github.com/studiowebux/eshutdown/internal/ipc"
	"github.com/studiowebux/eshutdown/internal/keybinds"
	"github.com/studiowebux/eshutdown/internal/power"
	"github.com/studiowebux/eshutdown/internal/types"
)

// ErrNoTerminal is returned when the daemon is started without a terminal to draw on
var ErrNoTerminal = errors.New("eshutdown needs a terminal: stdin and stdout must be a TTY")

// RunConfig is everything the daemon needs after configuration is resolved
type RunConfig struct {
	SocketPath      string
	ControlMessage  string
	MaxMessageBytes int
	Keybinds        *keybinds.Registry
	Switch          power.Switch
	Journal         Journal
	LogOutput       dialog.Flusher
	Printer         *i18n.Printer
	FlushInterval   time.Duration
	StartVisible    bool
}

// Run serves the socket and the dialog until the user quits, powers off, or
// ctx is cancelled.
func Run(ctx context.Context, cfg RunConfig) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return ErrNoTerminal
	}

	srv, err := ipc.Listen(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer srv.Close()
	log.WithField("socket", srv.Path()).Info("listening for signals")

	ctrl := dialog.New(cfg.Switch)
	if cfg.Journal != nil {
		ctrl.AddFlusher("history", cfg.Journal)
	}
	if cfg.LogOutput != nil {
		ctrl.AddFlusher("log", cfg.LogOutput)
	}

	m := New(ctx, Options{
		Controller:      ctrl,
		Keybinds:        cfg.Keybinds,
		ControlMessage:  []byte(cfg.ControlMessage),
		MaxMessageBytes: cfg.MaxMessageBytes,
		Listener:        srv,
		Journal:         cfg.Journal,
		Printer:         cfg.Printer,
		FlushInterval:   cfg.FlushInterval,
		StartVisible:    cfg.StartVisible,
	})
	m.record(types.KindLifecycle, "daemon started", "")

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := srv.Serve(gctx, func(ev ipc.Event) { p.Send(ev) })
		if err != nil {
			p.Quit()
		}
		return err
	})

	g.Go(func() error {
		defer srv.Close()
		_, err := p.Run()
		m.Cleanup()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("shutting down on cancellation")
			return nil
		}
		return err
	})

	err = g.Wait()
	m.record(types.KindLifecycle, "daemon stopped", "")
	m.flushJournal()
	return err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
