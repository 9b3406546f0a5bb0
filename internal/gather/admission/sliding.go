package admission

import (
	"sync"
	"time"
)

// SlidingWindowStore tracks request timestamps per key and admits a
// request only when fewer than the rule's maximum fall inside the
// trailing window. Checking and recording are separate so metered
// upstream calls are charged only after they succeed.
type SlidingWindowStore struct {
	mu    sync.Mutex
	usage map[string][]time.Time
	clock Clock
}

// NewSlidingWindowStore constructs a sliding window store.
func NewSlidingWindowStore(clock Clock) *SlidingWindowStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SlidingWindowStore{
		usage: make(map[string][]time.Time),
		clock: clock,
	}
}

// CheckLimit evaluates the window for a key. Expired timestamps are
// pruned in place; the request itself is not counted.
func (s *SlidingWindowStore) CheckLimit(key string, rule Rule) Decision {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.prune(key, now.Add(-rule.Window))

	resetAt := now.Add(rule.Window)
	if len(records) > 0 {
		resetAt = records[0].Add(rule.Window)
	}
	remaining := rule.MaxRequests - len(records)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   len(records) < rule.MaxRequests,
		Remaining: remaining,
		Limit:     rule.MaxRequests,
		ResetAt:   resetAt,
	}
}

// RecordUsage charges one request against the key's window. It is
// unconditional: callers decide whether a check preceded it.
func (s *SlidingWindowStore) RecordUsage(key string, rule Rule) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[key] = append(s.usage[key], now)
}

// Allow checks the window and charges it when the request is admitted.
// The check and the append happen under one lock acquisition, so two
// concurrent requests cannot both take the last slot.
func (s *SlidingWindowStore) Allow(key string, rule Rule) Decision {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.prune(key, now.Add(-rule.Window))

	resetAt := now.Add(rule.Window)
	if len(records) > 0 {
		resetAt = records[0].Add(rule.Window)
	}
	allowed := len(records) < rule.MaxRequests
	if allowed {
		records = append(records, now)
		s.usage[key] = records
	}
	remaining := rule.MaxRequests - len(records)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   allowed,
		Remaining: remaining,
		Limit:     rule.MaxRequests,
		ResetAt:   resetAt,
	}
}

// UsageStats reports the in-window request count and the oldest recorded
// timestamp for a key. Zero time means no records.
func (s *SlidingWindowStore) UsageStats(key string, rule Rule) (int, time.Time) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.prune(key, now.Add(-rule.Window))
	if len(records) == 0 {
		return 0, time.Time{}
	}
	return len(records), records[0]
}

// prune drops timestamps at or before the cutoff. Caller holds the lock.
func (s *SlidingWindowStore) prune(key string, cutoff time.Time) []time.Time {
	records := s.usage[key]
	kept := records[:0]
	for _, ts := range records {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(s.usage, key)
		return nil
	}
	s.usage[key] = kept
	return kept
}
