package guardrail

import (
	"sync"
	"time"
)

// ActionClass groups mutating actions for rate-limit purposes. Reads are not
// limited.
type ActionClass string

const (
	// ClassAuth covers signup and login attempts.
	ClassAuth ActionClass = "auth"
	// ClassWrite covers issue, comment, project and membership mutations.
	ClassWrite ActionClass = "write"
)

// BucketKey identifies one token bucket. Subject is the caller's user id
// for authenticated classes, or the client address for pre-authentication
// attempts.
type BucketKey struct {
	Subject string
	Class   ActionClass
}

// Limit is the per-class bucket configuration: capacity C and refill rate R
// in tokens per second.
type Limit struct {
	Capacity int
	Refill   float64
}

// BucketStore abstracts bucket state behind a single take operation so a
// shared backing store could be substituted without touching the decision
// logic. The in-memory implementation below is per-process only: buckets are
// not synchronized across server instances.
type BucketStore interface {
	// Take refills the bucket for key according to limit and the current
	// time, then attempts to consume one token. When the bucket is empty it
	// returns ok=false and an advisory retry-after duration.
	Take(key BucketKey, limit Limit, now time.Time) (ok bool, retryAfter time.Duration)
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// MemoryBuckets is the in-process BucketStore. Each bucket is guarded by its
// own lock, so concurrent attempts against the same key consume tokens
// exactly once each: with T tokens available, exactly min(N, T) of N
// concurrent attempts succeed.
type MemoryBuckets struct {
	mu      sync.Mutex
	buckets map[BucketKey]*bucket
}

// NewMemoryBuckets creates an empty in-memory bucket store.
func NewMemoryBuckets() *MemoryBuckets {
	return &MemoryBuckets{buckets: make(map[BucketKey]*bucket)}
}

func (m *MemoryBuckets) lookup(key BucketKey, limit Limit, now time.Time) *bucket {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		// New buckets start full.
		b = &bucket{tokens: float64(limit.Capacity), lastRefill: now}
		m.buckets[key] = b
	}
	return b
}

// Take implements BucketStore.
func (m *MemoryBuckets) Take(key BucketKey, limit Limit, now time.Time) (bool, time.Duration) {
	b := m.lookup(key, limit, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * limit.Refill
		if b.tokens > float64(limit.Capacity) {
			b.tokens = float64(limit.Capacity)
		}
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}

	retryAfter := time.Duration((1 - b.tokens) / limit.Refill * float64(time.Second))
	return false, retryAfter
}

// Result is the limiter's verdict for one attempt. RetryAfter is advisory
// and only set on denial.
type Result struct {
	OK         bool
	RetryAfter time.Duration
}

// Limiter applies per-class token-bucket limits to identities.
type Limiter struct {
	store  BucketStore
	limits map[ActionClass]Limit
}

// NewLimiter creates a Limiter over the given store and class limits.
func NewLimiter(store BucketStore, limits map[ActionClass]Limit) *Limiter {
	return &Limiter{store: store, limits: limits}
}

// Allow attempts to consume one token for (subject, class). Classes without
// a configured limit are unlimited.
func (l *Limiter) Allow(subject string, class ActionClass) Result {
	return l.allowAt(subject, class, time.Now())
}

func (l *Limiter) allowAt(subject string, class ActionClass, now time.Time) Result {
	limit, ok := l.limits[class]
	if !ok {
		return Result{OK: true}
	}

	ok, retryAfter := l.store.Take(BucketKey{Subject: subject, Class: class}, limit, now)
	return Result{OK: ok, RetryAfter: retryAfter}
}
