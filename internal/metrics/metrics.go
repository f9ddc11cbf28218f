package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Parsing metrics
	outputsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distillprep_outputs_parsed_total",
			Help: "Teacher outputs parsed, by dataset, prediction kind and outcome",
		},
		[]string{"dataset", "kind", "outcome"}, // outcome: "ok"/"placeholder"/"error"
	)

	// Hub download metrics
	downloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distillprep_hub_download_duration_seconds",
			Help:    "Hub file download duration in seconds by host",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s to ~400s
		},
		[]string{"host", "status"},
	)

	// Dataset metrics
	recordsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distillprep_records_fetched_total",
			Help: "Source records fetched by dataset and split",
		},
		[]string{"dataset", "split"},
	)

	chunkFilesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distillprep_chunk_files_written_total",
			Help: "CoT chunk files written by dataset and split",
		},
		[]string{"dataset", "split"},
	)
)

// Collector provides convenience methods for recording metrics
type Collector struct {
	logger *slog.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// ParseOutcome labels the result of parsing one teacher output
type ParseOutcome string

const (
	// ParseOK is a successfully extracted (rationale, label) pair
	ParseOK ParseOutcome = "ok"
	// ParsePlaceholder is an ungradeable output recovered as a placeholder pair
	ParsePlaceholder ParseOutcome = "placeholder"
	// ParseError is a fatal parse failure (boxed math family)
	ParseError ParseOutcome = "error"
)

// RecordParse records the outcome of parsing one teacher output
func (c *Collector) RecordParse(dataset, kind string, outcome ParseOutcome) {
	outputsParsed.WithLabelValues(dataset, kind, string(outcome)).Inc()
}

// RecordDownload records a hub download duration
func (c *Collector) RecordDownload(host string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	downloadDuration.WithLabelValues(host, status).Observe(duration.Seconds())
}

// RecordFetched counts source records fetched for a split
func (c *Collector) RecordFetched(dataset, split string, count int) {
	recordsFetched.WithLabelValues(dataset, split).Add(float64(count))
}

// RecordChunkWrite counts a written CoT chunk file
func (c *Collector) RecordChunkWrite(dataset, split string) {
	chunkFilesWritten.WithLabelValues(dataset, split).Inc()
}
