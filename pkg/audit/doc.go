// Package audit provides the append-only audit trail for privileged
// operations.
//
// Every privileged action (membership changes, triage changes, deletions)
// produces an event whether it was allowed or denied, so repeated probing is
// forensically visible. The Recorder owns the sequence counter: numbers are
// assigned atomically at append time, strictly increasing and gap-free within
// one recorder instance, and entries are never mutated or deleted afterward.
//
// Events are emitted twice: as an RFC5424 syslog line for external security
// monitoring, and as a row in the audit_entries table for the maintainer-only
// audit API.
package audit
