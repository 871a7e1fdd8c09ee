// Package endpoints registers the HTTP API under /api.
//
// Mutating handlers follow one fixed order: rate limit, content scan,
// membership resolution, authorization, execution, audit. Guardrail and
// authorization failures short-circuit before any mutation; denied privileged
// actions are still audit-logged.
package endpoints
