// Package metrics exposes Prometheus counters for inventory activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

const namespace = "foodbank"

// Collector owns a private registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	transactions   *prometheus.CounterVec
	recordedWeight *prometheus.CounterVec
	unfilledWeight *prometheus.CounterVec
	alerts         *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	dashboardBuild prometheus.Histogram
	httpDuration   *prometheus.HistogramVec
}

// NewCollector registers every metric plus the Go runtime collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Committed intake and distribution transactions",
			},
			[]string{"kind"},
		),
		recordedWeight: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recorded_weight_pounds_total",
				Help:      "Pounds applied to inventory",
			},
			[]string{"kind", "category"},
		),
		unfilledWeight: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "distribution_unfilled_pounds_total",
				Help:      "Pounds requested by distributions beyond available stock",
			},
			[]string{"category"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_emitted_total",
				Help:      "Alerts produced by dashboard evaluations",
			},
			[]string{"rule", "severity"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_cache_lookups_total",
				Help:      "Dashboard cache lookups by result",
			},
			[]string{"result"},
		),
		dashboardBuild: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dashboard_build_seconds",
				Help:      "Time taken to assemble a dashboard view",
				Buckets:   prometheus.DefBuckets,
			},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	c.registry.MustRegister(
		c.transactions,
		c.recordedWeight,
		c.unfilledWeight,
		c.alerts,
		c.cacheLookups,
		c.dashboardBuild,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveTransaction counts a committed transaction and its per-category pounds.
func (c *Collector) ObserveTransaction(kind domain.TransactionKind, applied map[domain.Category]float64) {
	c.transactions.WithLabelValues(string(kind)).Inc()
	for cat, w := range applied {
		if w > 0 {
			c.recordedWeight.WithLabelValues(string(kind), string(cat)).Add(w)
		}
	}
}

// ObserveUnfilled records pounds a distribution could not take from stock.
func (c *Collector) ObserveUnfilled(cat domain.Category, pounds float64) {
	if pounds > 0 {
		c.unfilledWeight.WithLabelValues(string(cat)).Add(pounds)
	}
}

// ObserveAlerts counts alerts by rule and severity.
func (c *Collector) ObserveAlerts(alerts []domain.Alert) {
	for _, a := range alerts {
		c.alerts.WithLabelValues(string(a.RuleID), string(a.Severity)).Inc()
	}
}

// ObserveCache records a dashboard cache hit or miss.
func (c *Collector) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveDashboardBuild records how long a dashboard took to assemble.
func (c *Collector) ObserveDashboardBuild(d time.Duration) {
	c.dashboardBuild.Observe(d.Seconds())
}

// ObserveHTTP records one request's latency.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
