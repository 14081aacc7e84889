package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestCollector_PersistCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPersistWrite()
	c.RecordPersistWrite()
	c.RecordPersistFailure()

	if mf := gather(t, reg, "autopost_persist_writes_total"); mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Errorf("persist_writes_total = %v, want 2", mf)
	}
	if mf := gather(t, reg, "autopost_persist_failures_total"); mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("persist_failures_total = %v, want 1", mf)
	}
}

func TestCollector_AccountCountsResetMissingPlatforms(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetAccountCounts(map[string]int{"facebook": 2, "tiktok": 1})
	c.SetAccountCounts(map[string]int{"tiktok": 3})

	mf := gather(t, reg, "autopost_accounts")
	if mf == nil {
		t.Fatal("autopost_accounts not found")
	}

	values := make(map[string]float64)
	for _, m := range mf.GetMetric() {
		values[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
	}

	if values["facebook"] != 0 {
		t.Errorf("facebook = %v, want 0", values["facebook"])
	}
	if values["tiktok"] != 3 {
		t.Errorf("tiktok = %v, want 3", values["tiktok"])
	}
}

func TestCollector_RecordSync(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSync(5, 3)
	c.RecordSync(4, 4)

	if mf := gather(t, reg, "autopost_syncs_total"); mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Errorf("syncs_total = %v, want 2", mf)
	}
	if mf := gather(t, reg, "autopost_synced_accounts"); mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 4 {
		t.Errorf("synced_accounts = %v, want 4", mf)
	}
}

func TestCollector_RecordAPIResponse(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAPIResponse(200, 50*time.Millisecond)
	c.RecordAPIResponse(401, 10*time.Millisecond)

	mf := gather(t, reg, "autopost_api_requests_total")
	if mf == nil || len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 status code series, got %v", mf)
	}

	hist := gather(t, reg, "autopost_api_latency_seconds")
	if hist == nil || hist.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Errorf("expected 2 latency samples, got %v", hist)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordPersistWrite()

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "autopost_persist_writes_total 1") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}
