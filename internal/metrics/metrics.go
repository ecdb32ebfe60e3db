// Package metrics tracks fetch counters for the status bar.
package metrics

import (
	"fmt"
	"time"
)

// FetchMetrics counts requests issued and messages applied by the controller.
// It is owned by the controller and mutated only on the foreground loop.
type FetchMetrics struct {
	Started   int `json:"started"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Discarded int `json:"discarded"` // stale messages dropped by request fencing

	LastLatency   time.Duration `json:"last_latency"`
	LastUpdatedAt time.Time     `json:"last_updated_at"`
}

// InFlight returns the number of requests whose message has not been polled yet.
func (m FetchMetrics) InFlight() int {
	n := m.Started - m.Completed - m.Failed - m.Discarded
	if n < 0 {
		return 0
	}
	return n
}

// FailureRate returns the percentage of finished requests that failed (0-100).
func (m FetchMetrics) FailureRate() float64 {
	finished := m.Completed + m.Failed
	if finished == 0 {
		return 0
	}
	return float64(m.Failed) / float64(finished) * 100
}

// FormatLatency renders the last observed latency, e.g. "412ms" or "1.3s".
func (m FetchMetrics) FormatLatency() string {
	switch {
	case m.LastLatency <= 0:
		return "-"
	case m.LastLatency < time.Second:
		return fmt.Sprintf("%dms", m.LastLatency.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", m.LastLatency.Seconds())
	}
}

// FormatDisplay returns the compact status bar form, e.g. "req 4 ok 3 err 1 stale 0 | 412ms".
func (m FetchMetrics) FormatDisplay() string {
	return fmt.Sprintf("req %d ok %d err %d stale %d | %s",
		m.Started, m.Completed, m.Failed, m.Discarded, m.FormatLatency())
}
