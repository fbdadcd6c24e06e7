package ipc

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DialTimeout bounds how long Send waits for the daemon to accept
const DialTimeout = 500 * time.Millisecond

// Send connects to the daemon at path, writes msg and disconnects.
// The disconnect marks the end of the message; no reply is read.
// A chunkSize > 0 splits the write into pieces of that size.
func Send(ctx context.Context, path string, msg []byte, chunkSize int) error {
	ctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer conn.Close()

	if chunkSize <= 0 {
		chunkSize = len(msg)
	}
	for len(msg) > 0 {
		n := min(chunkSize, len(msg))
		if _, err := conn.Write(msg[:n]); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		msg = msg[n:]
	}

	return conn.Close()
}
