package admission

import (
	"sync"
	"time"
)

const (
	defaultSweepThreshold = 100
	defaultSweepBatch     = 10
)

type fixedWindow struct {
	count     int
	resetTime time.Time
}

// FixedWindowStore keeps a single count and reset time per key. Keys are
// unbounded (one per caller IP), so every call first evicts the touched
// key if expired and, past a size threshold, sweeps a bounded batch of
// other expired keys. The sweep is best effort: an expired key can
// linger until a fresh request rewrites it, which is safe because the
// rewrite checks expiry first.
type FixedWindowStore struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	clock   Clock

	// SweepThreshold and SweepBatch tune the opportunistic cleanup.
	// Zero values select the defaults.
	SweepThreshold int
	SweepBatch     int
}

// NewFixedWindowStore constructs a fixed window store.
func NewFixedWindowStore(clock Clock) *FixedWindowStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &FixedWindowStore{
		windows: make(map[string]*fixedWindow),
		clock:   clock,
	}
}

// CheckLimit evaluates the window for a key without charging it.
func (s *FixedWindowStore) CheckLimit(key string, rule Rule) Decision {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(key, now)

	win := s.windows[key]
	if win == nil {
		return Decision{
			Allowed:   true,
			Remaining: rule.MaxRequests,
			Limit:     rule.MaxRequests,
			ResetAt:   now.Add(rule.Window),
		}
	}
	remaining := rule.MaxRequests - win.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   win.count < rule.MaxRequests,
		Remaining: remaining,
		Limit:     rule.MaxRequests,
		ResetAt:   win.resetTime,
	}
}

// RecordUsage unconditionally charges one request, starting a fresh
// window when none is active.
func (s *FixedWindowStore) RecordUsage(key string, rule Rule) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	win := s.windows[key]
	if win == nil || !now.Before(win.resetTime) {
		s.windows[key] = &fixedWindow{count: 1, resetTime: now.Add(rule.Window)}
		return
	}
	win.count++
}

// Allow atomically checks and charges the window for a key.
func (s *FixedWindowStore) Allow(key string, rule Rule) Decision {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(key, now)

	win := s.windows[key]
	if win == nil {
		win = &fixedWindow{count: 1, resetTime: now.Add(rule.Window)}
		s.windows[key] = win
		return Decision{
			Allowed:   true,
			Remaining: rule.MaxRequests - 1,
			Limit:     rule.MaxRequests,
			ResetAt:   win.resetTime,
		}
	}
	if win.count >= rule.MaxRequests {
		return Decision{
			Allowed:   false,
			Remaining: 0,
			Limit:     rule.MaxRequests,
			ResetAt:   win.resetTime,
		}
	}
	win.count++
	remaining := rule.MaxRequests - win.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   true,
		Remaining: remaining,
		Limit:     rule.MaxRequests,
		ResetAt:   win.resetTime,
	}
}

// Len reports the number of stored keys.
func (s *FixedWindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// evict removes the touched key if expired, then sweeps a bounded batch
// of other expired keys once the map grows past the threshold. Caller
// holds the lock.
func (s *FixedWindowStore) evict(key string, now time.Time) {
	if win := s.windows[key]; win != nil && !now.Before(win.resetTime) {
		delete(s.windows, key)
	}

	threshold := s.SweepThreshold
	if threshold <= 0 {
		threshold = defaultSweepThreshold
	}
	if len(s.windows) <= threshold {
		return
	}
	batch := s.SweepBatch
	if batch <= 0 {
		batch = defaultSweepBatch
	}
	removed := 0
	for other, win := range s.windows {
		if removed >= batch {
			break
		}
		if other == key {
			continue
		}
		if !now.Before(win.resetTime) {
			delete(s.windows, other)
			removed++
		}
	}
}
