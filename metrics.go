package traitquery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchListCompiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traitquery",
		Name:      "match_list_compiles_total",
		Help:      "Match lists compiled for a storage unit schema, by trait.",
	}, []string{"trait"})

	matchListHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traitquery",
		Name:      "match_list_cache_hits_total",
		Help:      "Match list lookups served from a query's cache, by trait.",
	}, []string{"trait"})

	ambiguousUnits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traitquery",
		Name:      "ambiguous_units_total",
		Help:      "Storage units where a single-match query resolved more than one implementation by first match.",
	}, []string{"trait"})
)
