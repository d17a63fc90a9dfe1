// Package metrics exposes Prometheus instrumentation for the render
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the render service.
type Metrics struct {
	// Render queue metrics
	JobsEnqueued  prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsExpired   prometheus.Counter
	QueueDepth    prometheus.Gauge

	// Pipeline metrics
	PipelineDuration prometheus.Histogram
	ClipBytes        prometheus.Histogram

	// Synthesis metrics
	SynthesisRequests prometheus.Counter
	SynthesisBlocked  prometheus.Counter
	SynthesisFailures prometheus.Counter

	// HTTP API metrics
	HTTPRequests *prometheus.CounterVec
}

// New creates all metrics and registers them with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_jobs_enqueued_total",
			Help: "Total number of render jobs accepted into the queue",
		}),
		JobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_jobs_completed_total",
			Help: "Total number of render jobs completed successfully",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_jobs_failed_total",
			Help: "Total number of render jobs that failed",
		}),
		JobsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_jobs_expired_total",
			Help: "Total number of render jobs skipped past their TTL",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voxcut_queue_depth",
			Help: "Current number of jobs waiting in the render queue",
		}),

		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxcut_pipeline_duration_seconds",
			Help:    "Time spent in the audio post-processing pipeline per clip",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		ClipBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxcut_clip_bytes",
			Help:    "Size of finished WAV clips in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),

		SynthesisRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_synthesis_requests_total",
			Help: "Total number of synthesis requests sent to the speech provider",
		}),
		SynthesisBlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_synthesis_blocked_total",
			Help: "Total number of synthesis requests refused by provider policy",
		}),
		SynthesisFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxcut_synthesis_failures_total",
			Help: "Total number of synthesis transport failures",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxcut_http_requests_total",
			Help: "Total number of HTTP API requests by route and status code",
		}, []string{"route", "code"}),
	}
}
