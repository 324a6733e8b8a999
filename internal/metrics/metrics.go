package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Outbound TMDB request attempts (each retry counts).
	TMDBRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tmdb_request_attempts_total",
		Help: "Total TMDB request attempts, including retries",
	})

	// Failed TMDB attempts (timeout, connection error, non-2xx).
	TMDBFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tmdb_request_failures_total",
		Help: "Total failed TMDB request attempts",
	})

	// Bundle cache outcomes per session lookup.
	BundleCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bundle_cache_hits_total",
		Help: "Bundle requests served from the session cache",
	})
	BundleCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bundle_cache_misses_total",
		Help: "Bundle requests that triggered an assembler fetch",
	})

	// Latency of the recommendations handler.
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of similarity recommendations",
		Buckets: prometheus.DefBuckets,
	})
)

func Init() {
	prometheus.MustRegister(
		TMDBRequests,
		TMDBFailures,
		BundleCacheHits,
		BundleCacheMisses,
		RecommendLatency,
	)
}
