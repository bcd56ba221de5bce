// Package metrics holds the Prometheus collectors of the builder service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_builder_mutations_total",
		Help: "Document operations by name and outcome (applied or noop)",
	}, []string{"op", "outcome"})
	OpenSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quiz_builder_open_sessions",
		Help: "Documents currently open for editing",
	})
	ConnectedEditors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quiz_builder_connected_editors",
		Help: "Editors connected across all sessions",
	})
	UndoDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_builder_undo_depth",
		Help:    "Undo stack depth observed after each commit",
		Buckets: prometheus.LinearBuckets(0, 5, 11),
	})
	SavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_builder_saves_total",
		Help: "Document saves by result",
	}, []string{"result"})
	SaveDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_builder_save_duration_seconds",
		Help:    "Duration of document saves in seconds",
		Buckets: prometheus.DefBuckets,
	})
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_builder_cache_lookups_total",
		Help: "Document cache lookups by result (hit or miss)",
	}, []string{"result"})
	PersonalizedElementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_builder_personalized_elements_total",
		Help: "Elements sent to the personalization provider by result",
	}, []string{"result"})
)

// Outcome labels a mutation result.
func Outcome(applied bool) string {
	if applied {
		return "applied"
	}
	return "noop"
}
