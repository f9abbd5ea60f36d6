package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/HerbHall/softether-exporter/internal/collector"
	"github.com/HerbHall/softether-exporter/internal/config"
	"github.com/HerbHall/softether-exporter/internal/metrics"
	"github.com/HerbHall/softether-exporter/internal/softether"
)

// countingRefresher records how many refresh cycles were triggered.
type countingRefresher struct {
	calls int
}

func (c *countingRefresher) Refresh(context.Context) { c.calls++ }

func newTestServer(t *testing.T, opts ...Option) (*Server, *countingRefresher) {
	t.Helper()
	ref := &countingRefresher{}
	reg := metrics.New()
	s := New(":0", ref, reg.Gatherer(), zap.NewNop(), opts...)
	return s, ref
}

func TestMetricsPathTriggersRefresh(t *testing.T) {
	s, ref := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ref.calls != 1 {
		t.Errorf("refresh calls = %d, want 1", ref.calls)
	}
	ct := w.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain exposition format", ct)
	}
}

func TestOtherPathsServeLandingPageWithoutRefresh(t *testing.T) {
	s, ref := newTestServer(t)

	for _, path := range []string{"/", "/index.html", "/metrics/extra", "/unknown"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
		if !strings.Contains(w.Body.String(), `<a href="/metrics">`) {
			t.Errorf("GET %s body missing metrics link", path)
		}
	}

	if ref.calls != 0 {
		t.Errorf("refresh calls = %d, want 0", ref.calls)
	}
}

func TestBackgroundRefreshModeSkipsSynchronousRefresh(t *testing.T) {
	s, ref := newTestServer(t, WithBackgroundRefresh())

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ref.calls != 0 {
		t.Errorf("refresh calls = %d, want 0", ref.calls)
	}
}

// scenarioReader serves HUB1 and fails HUB2.
type scenarioReader struct{}

func (scenarioReader) HubStatus(_ context.Context, hub, _ string) (softether.HubStatus, error) {
	if hub == "HUB1" {
		return softether.HubStatus{Online: true, Sessions: 3}, nil
	}
	return softether.HubStatus{}, errors.New("connection refused")
}

type noopSystem struct{}

func (noopSystem) Collect(context.Context) {}

func TestScrapeEndToEnd(t *testing.T) {
	reg := metrics.New()
	hubs := []config.Hub{{Name: "HUB1"}, {Name: "HUB2"}}
	hc := collector.NewHubCollector(scenarioReader{}, hubs, reg, zap.NewNop())
	orch := collector.NewOrchestrator(noopSystem{}, hc, zap.NewNop())
	s := New(":0", orch, reg.Gatherer(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, line := range []string{
		`softether_up{hub="HUB1"} 1`,
		`softether_online{hub="HUB1"} 1`,
		`softether_sessions{hub="HUB1"} 3`,
		`softether_up{hub="HUB2"} 0`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("body missing %q", line)
		}
	}
}

func TestScrapeEmptyHubList(t *testing.T) {
	reg := metrics.New()
	hc := collector.NewHubCollector(scenarioReader{}, nil, reg, zap.NewNop())
	orch := collector.NewOrchestrator(noopSystem{}, hc, zap.NewNop())
	s := New(":0", orch, reg.Gatherer(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "system_cpu_load") {
		t.Error("body missing system_cpu_load")
	}
	if strings.Contains(body, `hub="`) {
		t.Error("body contains hub series for an empty hub list")
	}
}
