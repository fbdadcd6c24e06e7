package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/studiowebux/eshutdown/internal/ipc"
)

// SignalOptions contains options for sending a message to the daemon
type SignalOptions struct {
	SocketPath string
	Message    string
	ChunkSize  int
	Quiet      bool
	Out        io.Writer
}

// Signal sends one message to a running daemon.
// The daemon sends no reply, so success only means the message was written.
func Signal(ctx context.Context, opts SignalOptions) error {
	err := ipc.Send(ctx, opts.SocketPath, []byte(opts.Message), opts.ChunkSize)
	if err != nil {
		if errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("no daemon is listening on %s", opts.SocketPath)
		}
		return err
	}

	if !opts.Quiet && opts.Out != nil {
		fmt.Fprintf(opts.Out, "sent %q to %s\n", opts.Message, opts.SocketPath)
	}
	return nil
}
