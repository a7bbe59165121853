package watcher

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// latencyWindow is how many recent cycle durations are kept for percentiles.
const latencyWindow = 100

// cycleMetrics aggregates per-cycle outcomes for status reports.
type cycleMetrics struct {
	mu        sync.Mutex
	cycles    uint64
	failed    uint64
	events    uint64
	lastErr   string
	latencies []float64 // seconds, ring buffer of latencyWindow entries
	next      int
}

func (m *cycleMetrics) record(d time.Duration, emitted int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles++
	m.events += uint64(emitted)
	if err != nil {
		m.failed++
		m.lastErr = err.Error()
	}
	if len(m.latencies) < latencyWindow {
		m.latencies = append(m.latencies, d.Seconds())
		return
	}
	m.latencies[m.next] = d.Seconds()
	m.next = (m.next + 1) % latencyWindow
}

func (m *cycleMetrics) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles, m.failed, m.events = 0, 0, 0
	m.lastErr = ""
	m.latencies = nil
	m.next = 0
}

type metricsSummary struct {
	cycles, failed, events uint64
	lastErr                string
	median, p95            time.Duration
}

func (m *cycleMetrics) summary() metricsSummary {
	m.mu.Lock()
	s := metricsSummary{
		cycles:  m.cycles,
		failed:  m.failed,
		events:  m.events,
		lastErr: m.lastErr,
	}
	data := make(stats.Float64Data, len(m.latencies))
	copy(data, m.latencies)
	m.mu.Unlock()

	// Both return an error only for empty input, where zero is the right answer.
	if median, err := stats.Median(data); err == nil {
		s.median = seconds(median)
	}
	if p95, err := stats.Percentile(data, 95); err == nil {
		s.p95 = seconds(p95)
	}
	return s
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
