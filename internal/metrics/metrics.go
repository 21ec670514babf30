// Package metrics provides application-level Prometheus counters. They are
// registered on the default registry and served by the serve command at
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation counters.
var (
	SentencesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_sentences_generated_total",
		Help: "Sentences generated, by theme.",
	}, []string{"theme"})

	CoherenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_coherence_failures_total",
		Help: "Generated sentences that failed the coherence check, by relationship.",
	}, []string{"relationship"})

	SentinelSlots = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_sentinel_slots_total",
		Help: "Slots filled with the NOT FOUND sentinel, by wanted component kind.",
	}, []string{"kind"})

	CorpusReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_corpus_reloads_total",
		Help: "Corpus hot reloads, by result.",
	}, []string{"result"})
)

// Inc increments the labelled counter by 1.
func Inc(counter *prometheus.CounterVec, label string) {
	counter.WithLabelValues(label).Inc()
}
