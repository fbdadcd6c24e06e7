package types

import "time"

// EntryKind classifies a journal entry
type EntryKind string

const (
	KindSignal     EntryKind = "signal"
	KindAction     EntryKind = "action"
	KindVisibility EntryKind = "visibility"
	KindViolation  EntryKind = "violation"
	KindLifecycle  EntryKind = "lifecycle"
)

// Kinds lists every kind in display order
var Kinds = []EntryKind{KindSignal, KindAction, KindVisibility, KindViolation, KindLifecycle}

// Valid reports whether k is a known kind
func (k EntryKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// HistoryEntry represents one journaled daemon event
type HistoryEntry struct {
	ID        int64     `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Kind      EntryKind `json:"kind"`
	Detail    string    `json:"detail"`
	Conn      string    `json:"conn,omitempty"`
}
