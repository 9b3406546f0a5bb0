package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCountersAndLatencies(t *testing.T) {
	t.Parallel()

	m := NewInMemoryMetrics()
	m.IncAdmission("origin", "rejected", "events")
	m.IncAdmission("origin", "rejected", "events")
	m.IncUpstream("places", "ok")
	m.ObserveLatency("/api/events", 10*time.Millisecond)
	m.ObserveLatency("/api/events", 30*time.Millisecond)

	snapshot := m.Snapshot()
	if got := snapshot["admission|origin|rejected|events"]; got != int64(2) {
		t.Fatalf("unexpected counter value %v", got)
	}
	if got := snapshot["upstream|places|ok"]; got != int64(1) {
		t.Fatalf("unexpected counter value %v", got)
	}

	summary, ok := snapshot["latency|/api/events"].(map[string]int64)
	if !ok {
		t.Fatalf("missing latency summary: %#v", snapshot)
	}
	if summary["count"] != 2 {
		t.Fatalf("unexpected count %d", summary["count"])
	}
	if summary["maxNanos"] != (30 * time.Millisecond).Nanoseconds() {
		t.Fatalf("unexpected max %d", summary["maxNanos"])
	}
	if summary["avgNanos"] != (20 * time.Millisecond).Nanoseconds() {
		t.Fatalf("unexpected avg %d", summary["avgNanos"])
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var m *InMemoryMetrics
	m.IncAdmission("origin", "allowed", "events")
	m.IncUpstream("places", "ok")
	m.ObserveLatency("/api/events", time.Millisecond)
	if got := m.Snapshot(); len(got) != 0 {
		t.Fatalf("nil snapshot should be empty: %#v", got)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	t.Parallel()

	m := NewInMemoryMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				m.IncAdmission("ratelimit", "allowed", "rsvp")
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot()["admission|ratelimit|allowed|rsvp"]; got != int64(1000) {
		t.Fatalf("counter = %v, want 1000", got)
	}
}
