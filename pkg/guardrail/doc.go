// Package guardrail holds the pre-authorization checks applied to mutating
// requests: a token-bucket rate limiter keyed by (identity, action class)
// and a content scanner for submitted free text. Both run before role
// lookup so abusive traffic is rejected cheaply.
package guardrail
