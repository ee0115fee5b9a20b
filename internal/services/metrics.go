package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes used as the "outcome" label of talksearch_searches_total.
const (
	outcomeHit      = "hit"
	outcomeMiss     = "miss"
	outcomeNoTokens = "no_tokens"
	outcomeNoCorpus = "no_corpus"
	outcomeRejected = "rejected"
)

var (
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talksearch_searches_total",
			Help: "Total number of searches by outcome.",
		},
		[]string{"outcome"},
	)

	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "talksearch_search_duration_seconds",
			Help: "Time spent scoring and ranking one query.",
			// a full scan of a few thousand transcripts lands in the ms range
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	corpusTalks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "talksearch_corpus_talks",
			Help: "Number of talks in the loaded corpus (0 until loaded).",
		},
	)

	corpusLoadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "talksearch_corpus_load_failures_total",
			Help: "Total number of failed corpus loads.",
		},
	)
)

func init() {
	prometheus.MustRegister(searchesTotal, searchDuration, corpusTalks, corpusLoadFailures)
}
