package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/solve", 200, 300*time.Millisecond)
	m.ObserveAPI("POST", "/api/solve", 200, 2*time.Second)
	m.ObserveGateway("solve", errors.New("x"), time.Second)
	m.IncSolveOutcome("solved")
	m.AddChatChunks(3)
	m.SetWorkspaces(2)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`mt_api_requests_total{method="POST",route="/api/solve",status="200"} 2`,
		`mt_api_request_duration_seconds_bucket{method="POST",route="/api/solve",le="0.5"} 1`,
		`mt_api_request_duration_seconds_bucket{method="POST",route="/api/solve",le="+Inf"} 2`,
		`mt_gateway_requests_total{operation="solve",status="error"} 1`,
		`mt_solve_outcomes_total{outcome="solved"} 1`,
		`mt_chat_chunks_total 3`,
		`mt_workspaces 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.IncChatTurn("ok")
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" a=1, b = 2 ,bad, =x")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
