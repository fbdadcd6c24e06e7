package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// SocketPermissions restricts the socket to the owning user, like the
	// per-user socket namespace the dialog has always used
	SocketPermissions = 0600

	// ReadChunkSize is the size of a single read from a client connection
	ReadChunkSize = 4096

	acceptRetryDelay = 50 * time.Millisecond
)

// ErrAlreadyRunning is returned by Listen when another daemon answers on the socket
var ErrAlreadyRunning = errors.New("another instance is already listening")

// Server accepts local stream connections and turns their traffic into events.
// The server's goroutines only read from sockets and forward events to the
// sink; all message state lives in the Tracker on the dispatch side.
type Server struct {
	path string
	ln   *net.UnixListener

	nextID atomic.Uint64

	mu     sync.Mutex
	conns  map[ConnID]net.Conn
	closed bool

	wg sync.WaitGroup
}

// Listen creates the socket at path.
// A stale socket file left by a dead process is removed first; a socket that
// still accepts connections means a second instance and fails with
// ErrAlreadyRunning.
func Listen(path string) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if c, err := net.DialTimeout("unix", path, 500*time.Millisecond); err == nil {
			c.Close()
			return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
		log.WithField("path", path).Debug("removed stale socket")
	}

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", path, err)
	}
	ln.SetUnlinkOnClose(true)

	if err := os.Chmod(path, SocketPermissions); err != nil {
		ln.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.WithField("path", path).Info("IPC listening")

	return &Server{
		path:  path,
		ln:    ln,
		conns: make(map[ConnID]net.Conn),
	}, nil
}

// Path returns the socket path
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until ctx is cancelled or Close is called.
// It returns nil on a normal shutdown.
func (s *Server) Serve(ctx context.Context, sink Sink) error {
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	for {
		conn, err := s.ln.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.isClosed() {
				s.wg.Wait()
				return nil
			}
			log.WithError(err).Warn("IPC accept error")
			time.Sleep(acceptRetryDelay)
			continue
		}

		id := ConnID(s.nextID.Add(1))
		if !s.track(id, conn) {
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go s.handle(id, conn, sink)
	}
}

// handle reads one connection to completion.
// Events for this connection are emitted from this goroutine only, which
// keeps them in order.
func (s *Server) handle(id ConnID, conn *net.UnixConn, sink Sink) {
	defer s.wg.Done()
	defer s.untrack(id)
	defer conn.Close()

	peer, err := peerCredentials(conn)
	if err != nil {
		log.WithFields(log.Fields{"conn": id}).WithError(err).Debug("peer credentials unavailable")
	}
	log.WithFields(log.Fields{"conn": id, "pid": peer.PID, "uid": peer.UID}).Debug("client connected")
	sink(Connected{ID: id, Peer: peer})

	buf := make([]byte, ReadChunkSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			sink(DataReceived{ID: id, Data: chunk})
		}
		if err != nil {
			var reason error
			if !errors.Is(err, io.EOF) {
				reason = err
			}
			log.WithField("conn", id).Debug("client disconnected")
			sink(Disconnected{ID: id, Err: reason})
			return
		}
	}
}

// Drop closes the connection with id. The reader goroutine then reports
// Disconnected as usual.
func (s *Server) Drop(id ConnID) {
	s.mu.Lock()
	conn, ok := s.conns[id]
	s.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// Close stops accepting and closes every live connection
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conns := make([]net.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	err := s.ln.Close()
	for _, c := range conns {
		c.Close()
	}
	return err
}

// Live returns the number of connections the server is currently reading
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(id ConnID, conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[id] = conn
	return true
}

func (s *Server) untrack(id ConnID) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
