package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory request counters.
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	requestCount map[string]int64
	errorCount   map[string]int64
	totalLatency time.Duration
	totalSeen    int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds    int64            `json:"uptimeSeconds"`
	Requests         map[string]int64 `json:"requests"`
	Errors           map[string]int64 `json:"errors"`
	TotalRequests    int64            `json:"totalRequests"`
	AverageLatencyMS float64          `json:"averageLatencyMs"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalLatency += duration
	m.totalSeen++
}

// RecordError increments error counters keyed by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		Requests:      make(map[string]int64, len(m.requestCount)),
		Errors:        make(map[string]int64, len(m.errorCount)),
		TotalRequests: m.totalSeen,
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	if m.totalSeen > 0 {
		snap.AverageLatencyMS = float64(m.totalLatency.Microseconds()) / float64(m.totalSeen) / 1000
	}
	return snap
}

func pathKey(path, method, suffix string) string {
	return method + " " + path + "|" + suffix
}
