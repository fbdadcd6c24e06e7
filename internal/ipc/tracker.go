package ipc

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studiowebux/eshutdown/internal/message"
)

// ErrUnknownConn is returned when data arrives for a connection that is not open
var ErrUnknownConn = errors.New("data on unknown or closed connection")

// State is the lifecycle state of a tracked connection
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Raiser is notified when a connection delivered the control message
type Raiser interface {
	BringToFrontOrShow()
}

// Conn is the tracker's record of one live connection
type Conn struct {
	ID       ConnID
	State    State
	Peer     Peer
	Buffer   *message.Buffer
	OpenedAt time.Time
}

// Result describes how a connection ended
type Result struct {
	ID         ConnID
	Length     int
	Triggered  bool
	Overflowed bool
	Known      bool
}

// Tracker owns the message buffer of every open connection and evaluates
// each completed message exactly once, at disconnect.
//
// A Tracker is not safe for concurrent use. It is driven from the single
// dispatch loop, which serializes all connection events.
type Tracker struct {
	control []byte
	limit   int
	raiser  Raiser
	conns   map[ConnID]*Conn
}

// NewTracker creates a tracker that compares completed messages to control
// and calls raiser on a match. limit caps each buffer (<= 0 is unbounded).
func NewTracker(control []byte, limit int, raiser Raiser) *Tracker {
	c := make([]byte, len(control))
	copy(c, control)
	return &Tracker{
		control: c,
		limit:   limit,
		raiser:  raiser,
		conns:   make(map[ConnID]*Conn),
	}
}

// Connect opens a fresh, empty buffer for id
func (t *Tracker) Connect(id ConnID, peer Peer) {
	if old, ok := t.conns[id]; ok {
		log.WithFields(log.Fields{"conn": id, "state": old.State}).Warn("connect on an id that is already tracked, resetting buffer")
	}
	t.conns[id] = &Conn{
		ID:       id,
		State:    StateOpen,
		Peer:     peer,
		Buffer:   message.NewBuffer(t.limit),
		OpenedAt: time.Now(),
	}
}

// Receive appends chunk to the buffer of id.
// Data for an unknown connection is a protocol violation: it is logged and
// dropped, and ErrUnknownConn is returned.
func (t *Tracker) Receive(id ConnID, chunk []byte) error {
	c, ok := t.conns[id]
	if !ok || c.State != StateOpen {
		log.WithFields(log.Fields{"conn": id, "bytes": len(chunk)}).Warn("protocol violation: data on unknown connection ignored")
		return ErrUnknownConn
	}
	if err := c.Buffer.Append(chunk); err != nil {
		log.WithFields(log.Fields{"conn": id, "limit": t.limit}).Warn("message too large, discarding")
		return err
	}
	return nil
}

// Disconnect evaluates the completed message of id, raises the dialog if it
// equals the control message, and releases the buffer.
// A peer that disconnects before its Connected event was processed counts as
// an empty message.
func (t *Tracker) Disconnect(id ConnID) Result {
	c, ok := t.conns[id]
	if !ok {
		log.WithField("conn", id).Debug("disconnect before connect, treating as empty message")
		return Result{ID: id}
	}
	delete(t.conns, id)
	c.State = StateClosed

	res := Result{
		ID:         id,
		Length:     c.Buffer.Len(),
		Overflowed: c.Buffer.Overflowed(),
		Known:      true,
	}
	if t.matches(c.Buffer) {
		res.Triggered = true
		if t.raiser != nil {
			t.raiser.BringToFrontOrShow()
		}
	}
	c.Buffer = nil
	return res
}

func (t *Tracker) matches(b *message.Buffer) bool {
	return len(t.control) > 0 && b.Equal(t.control)
}

// Handle routes a socket event to the matching lifecycle operation.
// Only Disconnected produces a Result.
func (t *Tracker) Handle(ev Event) (Result, bool, error) {
	switch e := ev.(type) {
	case Connected:
		t.Connect(e.ID, e.Peer)
	case DataReceived:
		return Result{}, false, t.Receive(e.ID, e.Data)
	case Disconnected:
		return t.Disconnect(e.ID), true, nil
	}
	return Result{}, false, nil
}

// Get returns the live connection with id
func (t *Tracker) Get(id ConnID) (*Conn, bool) {
	c, ok := t.conns[id]
	return c, ok
}

// Len returns the number of open connections
func (t *Tracker) Len() int {
	return len(t.conns)
}

// Control returns the control message the tracker matches against
func (t *Tracker) Control() []byte {
	return t.control
}
