// Package metrics defines the Prometheus collectors of the knowledge base.
// Collectors register on a caller-supplied registry so that tests and the
// CLI each own an isolated set.
package metrics

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"engsite/internal/models"
)

const namespace = "engsite"

// Metrics holds the collectors.
type Metrics struct {
	PageBuilds    *prometheus.CounterVec
	PageDuration  *prometheus.HistogramVec
	CacheLookups  *prometheus.CounterVec
	ViewsRecorded *prometheus.CounterVec
	SkippedNodes  *prometheus.CounterVec
	DBConnPool    *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PageBuilds: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "page_builds_total",
				Help:      "Page view models built, by page and outcome.",
			},
			[]string{"page", "outcome"},
		),
		PageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "page_build_duration_seconds",
				Help:      "Time spent building a page view model.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"page"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Content cache lookups, by page and result.",
			},
			[]string{"page", "result"},
		),
		ViewsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "views_recorded_total",
				Help:      "View counter increments, by content kind.",
			},
			[]string{"kind"},
		),
		SkippedNodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "hierarchy",
				Name:      "skipped_nodes_total",
				Help:      "Rows left out of a resolution because they never reach a root.",
			},
			[]string{"kind", "type"},
		),
		DBConnPool: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics.",
			},
			[]string{"stat"},
		),
	}
}

// ObservePage records one page build. Call it deferred with a pointer to
// the named error result.
func (m *Metrics) ObservePage(page string, start time.Time, err *error) {
	outcome := "ok"
	if err != nil && *err != nil {
		outcome = "error"
	}
	m.PageBuilds.WithLabelValues(page, outcome).Inc()
	m.PageDuration.WithLabelValues(page).Observe(time.Since(start).Seconds())
}

// CacheLookup records a cache hit or miss for page.
func (m *Metrics) CacheLookup(page string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(page, result).Inc()
}

// ViewRecorded counts one view increment of kind ("article", "lesson", "quiz").
func (m *Metrics) ViewRecorded(kind string) {
	m.ViewsRecorded.WithLabelValues(kind).Inc()
}

// Skipped counts rows a hierarchy resolution left out.
func (m *Metrics) Skipped(kind string, t models.CategoryType, n int) {
	m.SkippedNodes.WithLabelValues(kind, string(t)).Add(float64(n))
}

// RecordDBPoolStats copies connection pool statistics into gauges.
func (m *Metrics) RecordDBPoolStats(s sql.DBStats) {
	m.DBConnPool.WithLabelValues("open").Set(float64(s.OpenConnections))
	m.DBConnPool.WithLabelValues("in_use").Set(float64(s.InUse))
	m.DBConnPool.WithLabelValues("idle").Set(float64(s.Idle))
	m.DBConnPool.WithLabelValues("wait_count").Set(float64(s.WaitCount))
	m.DBConnPool.WithLabelValues("wait_duration_ms").Set(float64(s.WaitDuration.Milliseconds()))
}

// WriteText writes every family gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
