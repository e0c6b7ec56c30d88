// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "styleframe"

var (
	// AnalysesTotal tracks upload pipeline outcomes.
	// Labels:
	//   - result: completed, rejected, too_large, intake_failed,
	//     probe_failed, transcode_failed, store_failed
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of analyze requests by outcome",
		},
		[]string{"result"},
	)

	// PipelineStageSeconds tracks the duration of each pipeline stage.
	// Labels:
	//   - stage: intake, probe, transcode, store
	PipelineStageSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of upload pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"stage"},
	)

	// ArtifactsServedTotal tracks retrieval outcomes.
	// Labels:
	//   - status: ok, not_found, error
	ArtifactsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_served_total",
			Help:      "Total number of artifact retrievals by status",
		},
		[]string{"status"},
	)
)

// Analyze result constants.
const (
	ResultCompleted       = "completed"
	ResultRejected        = "rejected"
	ResultTooLarge        = "too_large"
	ResultIntakeFailed    = "intake_failed"
	ResultProbeFailed     = "probe_failed"
	ResultTranscodeFailed = "transcode_failed"
	ResultStoreFailed     = "store_failed"
)

// Pipeline stage constants.
const (
	StageIntake    = "intake"
	StageProbe     = "probe"
	StageTranscode = "transcode"
	StageStore     = "store"
)

// Retrieval status constants.
const (
	ServeOK       = "ok"
	ServeNotFound = "not_found"
	ServeError    = "error"
)
