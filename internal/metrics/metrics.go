package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Profile pipeline Prometheus metrics.
var (
	ProfilesBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vinograph",
			Name:      "profiles_built_total",
			Help:      "Profile extraction attempts by outcome",
		},
		[]string{"outcome"}, // "ok" / "insufficient" / "error"
	)

	ProfileCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vinograph",
			Name:      "profile_cache_total",
			Help:      "Profile artifact cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ExtractDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vinograph",
			Name:      "extract_duration_seconds",
			Help:      "Time spent extracting one wine's profile",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	RankCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vinograph",
			Name:      "rank_candidates_total",
			Help:      "Ranking candidates by outcome",
		},
		[]string{"outcome"}, // "matched" / "gated" / "no_profile" / "below_cutoff" / "failed"
	)
)

var registerOnce sync.Once

// Register registers the collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ProfilesBuiltTotal)
		prometheus.MustRegister(ProfileCacheTotal)
		prometheus.MustRegister(ExtractDuration)
		prometheus.MustRegister(RankCandidatesTotal)
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
	})
}
