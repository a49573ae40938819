package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for chunkflow components.
type Registry struct {
	// Chunked I/O Metrics
	IOReads         *prometheus.CounterVec
	IOWrites        *prometheus.CounterVec
	IOBytesRead     *prometheus.CounterVec
	IOBytesWritten  *prometheus.CounterVec
	IOChunksRead    *prometheus.CounterVec
	IOChunksWritten *prometheus.CounterVec
	IOErrors        *prometheus.CounterVec
	IOChunkSize     *prometheus.HistogramVec

	// Retry Metrics
	RetryAttempts       *prometheus.CounterVec
	RetryRetries        *prometheus.CounterVec
	RetrySuccesses      *prometheus.CounterVec
	RetryExhausted      *prometheus.CounterVec
	RetryBackoffSeconds *prometheus.HistogramVec

	// Codec Metrics
	CodecCompressions   *prometheus.CounterVec
	CodecDecompressions *prometheus.CounterVec
	CodecBytesIn        *prometheus.CounterVec
	CodecBytesOut       *prometheus.CounterVec
	CodecErrors         *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by chunkflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Chunked I/O Metrics
		IOReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "reads_total",
				Help:      "Total number of read operations",
			},
			[]string{"engine_name", "mode"},
		),

		IOWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "writes_total",
				Help:      "Total number of write operations",
			},
			[]string{"engine_name", "mode"},
		),

		IOBytesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "bytes_read_total",
				Help:      "Total number of bytes read",
			},
			[]string{"engine_name"},
		),

		IOBytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "bytes_written_total",
				Help:      "Total number of bytes written",
			},
			[]string{"engine_name"},
		),

		IOChunksRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "chunks_read_total",
				Help:      "Total number of chunks produced by chunked reads",
			},
			[]string{"engine_name"},
		),

		IOChunksWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "chunks_written_total",
				Help:      "Total number of chunks consumed by chunked writes",
			},
			[]string{"engine_name"},
		),

		IOErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "errors_total",
				Help:      "Total number of I/O errors",
			},
			[]string{"engine_name", "operation"},
		),

		IOChunkSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chunkflow",
				Subsystem: "chunkio",
				Name:      "chunk_size_bytes",
				Help:      "Size distribution of produced chunks",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"engine_name"},
		),

		// Retry Metrics
		RetryAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "retry",
				Name:      "attempts_total",
				Help:      "Total number of operation attempts",
			},
			[]string{"policy_name"},
		),

		RetryRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "retry",
				Name:      "retries_total",
				Help:      "Total number of retries after a failed attempt",
			},
			[]string{"policy_name"},
		),

		RetrySuccesses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "retry",
				Name:      "successes_total",
				Help:      "Total number of operations that eventually succeeded",
			},
			[]string{"policy_name"},
		),

		RetryExhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "retry",
				Name:      "exhausted_total",
				Help:      "Total number of operations that exhausted all attempts",
			},
			[]string{"policy_name"},
		),

		RetryBackoffSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chunkflow",
				Subsystem: "retry",
				Name:      "backoff_duration_seconds",
				Help:      "Time spent waiting between attempts",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"policy_name"},
		),

		// Codec Metrics
		CodecCompressions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "codec",
				Name:      "compressions_total",
				Help:      "Total number of compression operations",
			},
			[]string{"algorithm"},
		),

		CodecDecompressions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "codec",
				Name:      "decompressions_total",
				Help:      "Total number of decompression operations",
			},
			[]string{"algorithm"},
		),

		CodecBytesIn: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "codec",
				Name:      "bytes_in_total",
				Help:      "Total number of input bytes across codec operations",
			},
			[]string{"algorithm"},
		),

		CodecBytesOut: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "codec",
				Name:      "bytes_out_total",
				Help:      "Total number of output bytes across codec operations",
			},
			[]string{"algorithm"},
		),

		CodecErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chunkflow",
				Subsystem: "codec",
				Name:      "errors_total",
				Help:      "Total number of codec errors",
			},
			[]string{"algorithm", "operation"},
		),
	}
}
