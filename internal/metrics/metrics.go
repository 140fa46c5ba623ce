// Package metrics holds the Prometheus collectors of the assistant.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors; a nil *Metrics is valid and records nothing.
type Metrics struct {
	// Chat requests by resolved intent type
	ChatRequests *prometheus.CounterVec

	// Which extraction tier produced the intent: llm, fallback, cache
	ExtractionPath *prometheus.CounterVec

	// Reasons the LLM tier was abandoned
	ExtractionFallbacks *prometheus.CounterVec

	CatalogCacheHits   prometheus.Counter
	CatalogCacheMisses prometheus.Counter

	// Degraded replies, by cause
	DegradedResponses *prometheus.CounterVec

	// End-to-end latency of a chat reply
	ChatLatency prometheus.Histogram

	// Candidates surviving the filter, per searched message
	FilteredCandidates prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopassist_chat_requests_total",
			Help: "Total number of chat requests by intent type",
		}, []string{"intent_type"}),
		ExtractionPath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopassist_intent_extraction_total",
			Help: "Intent extractions by producing tier",
		}, []string{"source"}),
		ExtractionFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopassist_intent_fallback_total",
			Help: "LLM extraction failures that fell back to keyword matching",
		}, []string{"reason"}),
		CatalogCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopassist_catalog_cache_hits_total",
			Help: "Catalog snapshot cache hits",
		}),
		CatalogCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopassist_catalog_cache_misses_total",
			Help: "Catalog snapshot cache misses",
		}),
		DegradedResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopassist_degraded_responses_total",
			Help: "Chat replies served in degraded shape",
		}, []string{"cause"}),
		ChatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopassist_chat_latency_seconds",
			Help:    "Latency of chat replies",
			Buckets: prometheus.DefBuckets,
		}),
		FilteredCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopassist_filtered_candidates",
			Help:    "Candidates left after catalog filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ChatRequests,
			m.ExtractionPath,
			m.ExtractionFallbacks,
			m.CatalogCacheHits,
			m.CatalogCacheMisses,
			m.DegradedResponses,
			m.ChatLatency,
			m.FilteredCandidates,
		)
	}
	return m
}

// ObserveChat records one answered chat message
func (m *Metrics) ObserveChat(intentType string, seconds float64) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(intentType).Inc()
	m.ChatLatency.Observe(seconds)
}

// ObserveExtraction records the tier that produced an intent
func (m *Metrics) ObserveExtraction(source string) {
	if m == nil {
		return
	}
	m.ExtractionPath.WithLabelValues(source).Inc()
}

// ObserveFallback records why the LLM tier was abandoned
func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.ExtractionFallbacks.WithLabelValues(reason).Inc()
}

// ObserveCatalogCache records a catalog cache lookup
func (m *Metrics) ObserveCatalogCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CatalogCacheHits.Inc()
	} else {
		m.CatalogCacheMisses.Inc()
	}
}

// ObserveDegraded records a degraded reply
func (m *Metrics) ObserveDegraded(cause string) {
	if m == nil {
		return
	}
	m.DegradedResponses.WithLabelValues(cause).Inc()
}

// ObserveFiltered records the surviving candidate count
func (m *Metrics) ObserveFiltered(n int) {
	if m == nil {
		return
	}
	m.FilteredCandidates.Observe(float64(n))
}
