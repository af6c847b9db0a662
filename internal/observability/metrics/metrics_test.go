package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExportsMetrics(t *testing.T) {
	RecordRequest("http", "/api/v1/crack")
	RecordError("http", "/api/v1/crack", "400")
	ObserveRequestLatency("http", "/api/v1/crack", "400", 3*time.Millisecond)
	done := CrackStarted("shift")
	done("ngram", 9.5, nil)
	RecordImprovement()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, req)

	body := rr.Body.String()
	required := []string{
		"# HELP monocrack_requests_total",
		"# TYPE monocrack_request_duration_seconds histogram",
		`monocrack_requests_total{surface="http",method="/api/v1/crack"}`,
		`monocrack_request_duration_seconds_bucket{surface="http",method="/api/v1/crack",code="400",le="0.005"} 1`,
		`monocrack_cracks_total{cipher="shift",outcome="ok"}`,
		`monocrack_last_crack_score{cipher="shift",metric="ngram"} 9.5`,
		"monocrack_climber_improvements_total ",
		"monocrack_inflight_cracks 0",
	}
	for _, metric := range required {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q to be exported, got:\n%s", metric, body)
		}
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestCrackOutcomes(t *testing.T) {
	before := cracks.value("affine", "error")
	done := CrackStarted("affine")
	if got := inflight.value(); got < 1 {
		t.Fatalf("expected a running crack, gauge is %v", got)
	}
	done("", 0, errors.New("boom"))
	if got := cracks.value("affine", "error"); got != before+1 {
		t.Fatalf("expected error count %v, got %v", before+1, got)
	}
}

func TestHistogramBuckets(t *testing.T) {
	hv := newHistogramVec("test_seconds", "test", nil, []float64{1, 2})
	for _, s := range []float64{0.5, 1, 1.5, 3} {
		hv.observe(s)
	}
	var sb strings.Builder
	hv.write(&sb)
	for _, line := range []string{
		`test_seconds_bucket{le="1"} 2`,
		`test_seconds_bucket{le="2"} 3`,
		`test_seconds_bucket{le="+Inf"} 4`,
		"test_seconds_sum 6",
		"test_seconds_count 4",
	} {
		if !strings.Contains(sb.String(), line) {
			t.Fatalf("missing %q in:\n%s", line, sb.String())
		}
	}
}

func TestEscapeLabel(t *testing.T) {
	if got := escapeLabel("a\"b\\c\nd"); got != `a\"b\\c\nd` {
		t.Fatalf("escapeLabel = %q", got)
	}
}
