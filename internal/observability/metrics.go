package observability

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Metrics is the process-wide set of counters exposed on /metrics. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	gatewayRequests *CounterVec
	gatewayLatency  *HistogramVec

	solveOutcomes *CounterVec
	chatTurns     *CounterVec
	chatChunks    *CounterVec
	storageErrors *CounterVec
	workspaces    *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process metrics when enabled; otherwise it returns nil.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("mt_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"mt_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight: NewGauge("mt_api_inflight_requests", "In-flight API requests."),
		gatewayRequests: NewCounterVec("mt_gateway_requests_total", "Model requests by operation/status.", []string{"operation", "status"}),
		gatewayLatency: NewHistogramVec(
			"mt_gateway_request_duration_seconds",
			"Model request latency in seconds by operation.",
			[]string{"operation"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		),
		solveOutcomes: NewCounterVec("mt_solve_outcomes_total", "Solve results by outcome.", []string{"outcome"}),
		chatTurns:     NewCounterVec("mt_chat_turns_total", "Chat turns by outcome.", []string{"outcome"}),
		chatChunks:    NewCounterVec("mt_chat_chunks_total", "Streamed chat chunks.", nil),
		storageErrors: NewCounterVec("mt_storage_errors_total", "Absorbed storage failures by operation.", []string{"op"}),
		workspaces:    NewGauge("mt_workspaces", "Live session workspaces."),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

func (m *Metrics) ObserveGateway(operation string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.gatewayRequests.Inc(operation, status)
	m.gatewayLatency.Observe(dur.Seconds(), operation)
}

func (m *Metrics) IncSolveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.solveOutcomes.Inc(outcome)
}

func (m *Metrics) IncChatTurn(outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.Inc(outcome)
}

func (m *Metrics) AddChatChunks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.chatChunks.Add(float64(n))
}

func (m *Metrics) IncStorageError(op string) {
	if m == nil {
		return
	}
	m.storageErrors.Inc(op)
}

func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	type writer interface{ WritePrometheus(io.Writer) error }
	for _, mw := range []writer{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.gatewayRequests, m.gatewayLatency,
		m.solveOutcomes, m.chatTurns, m.chatChunks,
		m.storageErrors, m.workspaces,
	} {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
