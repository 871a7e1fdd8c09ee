package audit

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/issuehub/issuehub/pkg/model"
)

// EntryStore is the persistence the recorder needs: the highest sequence
// already written, to seed the counter on startup, and an append.
type EntryStore interface {
	MaxSequence() (uint64, error)
	SaveEntry(entry *model.AuditEntry) error
}

// Recorder appends audit entries with recorder-owned sequence numbers. The
// counter is a single atomic value, so concurrent appends produce a strictly
// increasing, gap-free sequence. Database auto-increment is deliberately not
// used: callers invoke Record after their mutation commits, so sequence order
// follows commit order, not request arrival order.
type Recorder struct {
	logger  *Logger
	entries EntryStore
	seq     atomic.Uint64
	enabled bool
}

// NewRecorder creates a Recorder seeded from the store's highest existing
// sequence number. A disabled recorder drops events silently.
func NewRecorder(logger *Logger, entries EntryStore, enabled bool) (*Recorder, error) {
	r := &Recorder{logger: logger, entries: entries, enabled: enabled}
	if entries != nil {
		max, err := entries.MaxSequence()
		if err != nil {
			return nil, fmt.Errorf("audit: seeding sequence counter: %w", err)
		}
		r.seq.Store(max)
	}
	return r, nil
}

// Record assigns the next sequence number to the event's entry, emits the
// syslog line and persists the entry. Persistence failures are reported on
// stderr but do not fail the recorded action; the sequence number is consumed
// either way.
func (r *Recorder) Record(event Event) model.AuditEntry {
	entry := event.Entry()
	if !r.enabled {
		return entry
	}

	entry.Sequence = r.seq.Add(1)
	entry.CreatedAt = time.Now().UTC()

	if r.logger != nil {
		r.logger.Log(event)
	}
	if r.entries != nil {
		if err := r.entries.SaveEntry(&entry); err != nil {
			fmt.Fprintf(os.Stderr, "audit: failed to save entry %d: %v\n", entry.Sequence, err)
		}
	}
	return entry
}
