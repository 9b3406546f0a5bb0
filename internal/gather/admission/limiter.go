package admission

import "time"

// Decision captures the evaluated rate limit outcome.
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// RateLimitStore is the seam between the admission pipeline and a counter
// backend. Both in-process stores implement it; a shared external store
// can be substituted here without touching the pipeline.
type RateLimitStore interface {
	// CheckLimit evaluates the window without charging it. It may evict
	// expired state but never counts the request.
	CheckLimit(key string, rule Rule) Decision
	// RecordUsage unconditionally charges one request against the window.
	RecordUsage(key string, rule Rule)
	// Allow atomically checks and, when allowed, charges the window.
	Allow(key string, rule Rule) Decision
}

// LimitKey joins a subject and an endpoint class into a store key.
func LimitKey(subject string, class EndpointClass) string {
	return subject + "\x1f" + string(class)
}
