// Package metrics exposes Prometheus metrics for the registry, syncs and
// the admin API client.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the Prometheus implementation of the registry, sync and
// admin API recorders.
type Collector struct {
	accounts        *prometheus.GaugeVec
	persistWrites   prometheus.Counter
	persistFailures prometheus.Counter
	syncs           prometheus.Counter
	syncedAccounts  prometheus.Gauge
	syncedConnected prometheus.Gauge
	apiRequests     *prometheus.CounterVec
	apiLatency      prometheus.Histogram

	mu        sync.Mutex
	platforms map[string]bool
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		accounts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "autopost_accounts",
			Help: "Accounts currently held by the registry, by platform.",
		}, []string{"platform"}),
		persistWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autopost_persist_writes_total",
			Help: "Successful writes of the account set to storage.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autopost_persist_failures_total",
			Help: "Failed writes of the account set to storage.",
		}),
		syncs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autopost_syncs_total",
			Help: "Backend snapshots applied to the registry.",
		}),
		syncedAccounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autopost_synced_accounts",
			Help: "Accounts in the last applied backend snapshot.",
		}),
		syncedConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autopost_synced_connected_accounts",
			Help: "Connected accounts in the last applied backend snapshot.",
		}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autopost_api_requests_total",
			Help: "Admin API responses by HTTP status code.",
		}, []string{"status_code"}),
		apiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autopost_api_latency_seconds",
			Help:    "Admin API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		platforms: make(map[string]bool),
	}

	reg.MustRegister(
		c.accounts,
		c.persistWrites,
		c.persistFailures,
		c.syncs,
		c.syncedAccounts,
		c.syncedConnected,
		c.apiRequests,
		c.apiLatency,
	)

	return c
}

// RecordPersistWrite counts a successful storage write.
func (c *Collector) RecordPersistWrite() {
	c.persistWrites.Inc()
}

// RecordPersistFailure counts a failed storage write.
func (c *Collector) RecordPersistFailure() {
	c.persistFailures.Inc()
}

// SetAccountCounts sets the per-platform gauge. Platforms seen before and
// now absent are reset to zero.
func (c *Collector) SetAccountCounts(byPlatform map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for p := range c.platforms {
		if _, ok := byPlatform[p]; !ok {
			c.accounts.WithLabelValues(p).Set(0)
		}
	}
	for p, n := range byPlatform {
		c.platforms[p] = true
		c.accounts.WithLabelValues(p).Set(float64(n))
	}
}

// RecordSync records an applied backend snapshot.
func (c *Collector) RecordSync(accounts, connected int) {
	c.syncs.Inc()
	c.syncedAccounts.Set(float64(accounts))
	c.syncedConnected.Set(float64(connected))
}

// RecordAPIResponse records an admin API response.
func (c *Collector) RecordAPIResponse(statusCode int, latency time.Duration) {
	c.apiRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.apiLatency.Observe(latency.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
