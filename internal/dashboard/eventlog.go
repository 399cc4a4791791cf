package dashboard

import (
	"sync"

	"solarsync/internal/view"
)

// maxLogEntries caps the rolling event log.
const maxLogEntries = 10

// EventLog is a capped rolling list of rendered system events, newest
// first. When full, the oldest (bottom) entry is evicted.
type EventLog struct {
	mu      sync.Mutex
	max     int
	entries []view.EventEntry
}

// NewEventLog returns an empty log with the default cap.
func NewEventLog() *EventLog {
	return &EventLog{max: maxLogEntries}
}

// Prepend inserts an entry at the top, evicting the bottom entry when the
// cap is exceeded, and returns a snapshot of the resulting list.
func (l *EventLog) Prepend(e view.EventEntry) []view.EventEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]view.EventEntry{e}, l.entries...)
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	return l.snapshotLocked()
}

// Entries returns a snapshot of the log, newest first.
func (l *EventLog) Entries() []view.EventEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *EventLog) snapshotLocked() []view.EventEntry {
	out := make([]view.EventEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
