// Package metrics provides in-memory counters and latency summaries.
package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// InMemoryMetrics stores counters and latency summaries.
type InMemoryMetrics struct {
	counters  sync.Map
	latencies sync.Map
}

type latencySummary struct {
	count      atomic.Int64
	totalNanos atomic.Int64
	maxNanos   atomic.Int64
}

// NewInMemoryMetrics constructs an in-memory metrics recorder.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{}
}

// IncAdmission counts a gate outcome for an endpoint.
func (m *InMemoryMetrics) IncAdmission(gate, outcome, endpoint string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("admission|%s|%s|%s", gate, outcome, endpoint))
}

// IncUpstream counts an external API call result.
func (m *InMemoryMetrics) IncUpstream(service, result string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("upstream|%s|%s", service, result))
}

// ObserveLatency tracks endpoint latency measurements.
func (m *InMemoryMetrics) ObserveLatency(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	entry := m.getLatency("latency|" + endpoint)
	if entry == nil {
		return
	}
	nanos := d.Nanoseconds()
	entry.count.Add(1)
	entry.totalNanos.Add(nanos)
	for {
		current := entry.maxNanos.Load()
		if nanos <= current {
			break
		}
		if entry.maxNanos.CompareAndSwap(current, nanos) {
			break
		}
	}
}

// Snapshot returns all counters and latency summaries.
func (m *InMemoryMetrics) Snapshot() map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any)
	m.counters.Range(func(key, value any) bool {
		counter, ok := value.(*atomic.Int64)
		if ok {
			out[key.(string)] = counter.Load()
		}
		return true
	})
	m.latencies.Range(func(key, value any) bool {
		entry, ok := value.(*latencySummary)
		if !ok {
			return true
		}
		count := entry.count.Load()
		summary := map[string]int64{
			"count":    count,
			"maxNanos": entry.maxNanos.Load(),
		}
		if count > 0 {
			summary["avgNanos"] = entry.totalNanos.Load() / count
		}
		out[key.(string)] = summary
		return true
	})
	return out
}

func (m *InMemoryMetrics) incCounter(key string) {
	value, _ := m.counters.LoadOrStore(key, &atomic.Int64{})
	counter, ok := value.(*atomic.Int64)
	if !ok {
		return
	}
	counter.Add(1)
}

func (m *InMemoryMetrics) getLatency(key string) *latencySummary {
	value, _ := m.latencies.LoadOrStore(key, &latencySummary{})
	entry, ok := value.(*latencySummary)
	if !ok {
		return nil
	}
	return entry
}
