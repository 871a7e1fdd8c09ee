// Package authz is the request-time authorization gate.
//
// Given the caller's resolved role (or the absence of one), an action, and a
// small bundle of ownership facts about the target resource, Decide returns
// an allow/deny decision with a machine-readable reason. The decision is a
// pure function: no I/O, no clock, no shared state. Resource existence is
// checked by callers before the gate runs, so "not found" is never a gate
// outcome.
package authz
