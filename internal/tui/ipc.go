package tui

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/studiowebux/eshutdown/internal/ipc"
	"github.com/studiowebux/eshutdown/internal/message"
	"github.com/studiowebux/eshutdown/internal/types"
)

// handleIPC feeds a socket event to the tracker.
// Violations are absorbed here: they never stop the loop.
func (m *Model) handleIPC(ev ipc.Event) {
	id := ev.Conn()
	res, done, err := m.tracker.Handle(ev)

	switch e := ev.(type) {
	case ipc.Connected:
		if e.Peer.Known {
			log.WithFields(log.Fields{"conn": id, "pid": e.Peer.PID, "uid": e.Peer.UID}).Info("client connected")
		}
	case ipc.Disconnected:
		if e.Err != nil {
			log.WithField("conn", id).WithError(e.Err).Warn("connection ended with error")
		}
	}

	switch {
	case errors.Is(err, ipc.ErrUnknownConn):
		m.record(types.KindViolation, "data on unknown connection", id.String())
	case errors.Is(err, message.ErrTooLarge):
		if !m.dropped[id] {
			m.dropped[id] = true
			m.record(types.KindViolation, "message too large, connection dropped", id.String())
			if m.listener != nil {
				m.listener.Drop(id)
			}
		}
	case err != nil:
		log.WithField("conn", id).WithError(err).Warn("unexpected IPC error")
	}

	if done {
		delete(m.dropped, id)
		m.recordResult(res)
	}
}

func (m *Model) recordResult(res ipc.Result) {
	fields := log.Fields{"conn": res.ID, "bytes": res.Length}
	switch {
	case res.Triggered:
		log.WithFields(fields).Info("control message received, raising dialog")
		m.record(types.KindSignal, "control message matched", res.ID.String())
	case res.Overflowed:
		m.record(types.KindSignal, "oversized message discarded", res.ID.String())
	case !res.Known:
		m.record(types.KindSignal, "connection closed before it opened", res.ID.String())
	default:
		log.WithFields(fields).Debug("message ignored")
		m.record(types.KindSignal, fmt.Sprintf("message ignored (%d bytes)", res.Length), res.ID.String())
	}
}
