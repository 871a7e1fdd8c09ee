package store

import "github.com/issuehub/issuehub/pkg/model"

// AuditStore abstracts audit trail persistence. Entries are append-only and
// never mutated; reads are cursor-paginated by sequence number so pages are
// stable under concurrent appends.
type AuditStore interface {
	// MaxSequence returns the highest sequence number written, or zero for an
	// empty trail. The audit recorder seeds its counter from this at startup.
	MaxSequence() (uint64, error)

	// SaveEntry appends one entry with its recorder-assigned sequence.
	SaveEntry(entry *model.AuditEntry) error

	// ListEntries returns up to limit entries for the project with sequence
	// greater than after, in ascending sequence order.
	ListEntries(projectID int64, after uint64, limit int) ([]model.AuditEntry, error)
}
