/*
Package types defines data structures shared between the daemon and the
client-side commands.

# History

HistoryEntry is one row of the event journal. The daemon records entries
from its dispatch loop and the history command reads them back:

	{
	  "timestamp": "2026-10-19T21:04:11+02:00",
	  "session": "2f6c0b0e-3c1d-4b59-9f0e-a1f3f7d1c3a2",
	  "kind": "signal",
	  "detail": "control message matched",
	  "conn": "conn-3"
	}

# Kinds

  - signal: a connection finished and its message was evaluated
  - action: a key resolved to an action
  - visibility: the dialog changed visibility
  - violation: a connection misbehaved (unknown id, oversized message)
  - lifecycle: daemon start, exit and power-off
*/
package types
