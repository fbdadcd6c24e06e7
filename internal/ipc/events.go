package ipc

import "fmt"

// ConnID identifies one accepted client connection for the lifetime of the server
type ConnID uint64

func (id ConnID) String() string {
	return fmt.Sprintf("conn-%d", id)
}

// Peer holds the credentials of the process on the other end of a connection.
// Known is false when the platform could not report them.
type Peer struct {
	PID   int32
	UID   uint32
	GID   uint32
	Known bool
}

// Event is one socket-layer occurrence delivered to the dispatch loop.
// The set is closed: Connected, DataReceived and Disconnected.
type Event interface {
	Conn() ConnID
	ipcEvent()
}

// Connected is emitted once when a client connection is accepted
type Connected struct {
	ID   ConnID
	Peer Peer
}

// DataReceived carries one chunk read from a connection.
// Data is owned by the receiver.
type DataReceived struct {
	ID   ConnID
	Data []byte
}

// Disconnected is emitted once when a connection ends, for whatever reason.
// Err is nil on an orderly close by the peer.
type Disconnected struct {
	ID  ConnID
	Err error
}

func (e Connected) Conn() ConnID    { return e.ID }
func (e DataReceived) Conn() ConnID { return e.ID }
func (e Disconnected) Conn() ConnID { return e.ID }

func (Connected) ipcEvent()    {}
func (DataReceived) ipcEvent() {}
func (Disconnected) ipcEvent() {}

// Sink receives events from the server's I/O goroutines.
// Calls from a single connection arrive in order: Connected, any number of
// DataReceived, then Disconnected.
type Sink func(Event)
