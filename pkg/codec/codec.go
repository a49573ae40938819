package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
)

// Algorithm identifies a supported compression algorithm.
type Algorithm string

const (
	// Gzip compresses with gzip framing (RFC 1952).
	Gzip Algorithm = "gzip"

	// Deflate compresses with zlib framing (RFC 1950).
	Deflate Algorithm = "deflate"

	// Bzip2 compresses with bzip2 framing.
	Bzip2 Algorithm = "bzip2"
)

// Compression level bounds shared by all supported algorithms.
const (
	MinLevel     = 1
	MaxLevel     = 9
	DefaultLevel = 6
)

// DecodeError indicates that Decompress was given malformed input.
type DecodeError struct {
	Algorithm Algorithm
	Err       error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: %s decode: %v", e.Algorithm, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Config holds configuration options for creating a new Codec.
type Config struct {
	// Algorithm selects the compression format.
	Algorithm Algorithm

	// Level is the compression level, between MinLevel and MaxLevel.
	// If zero, DefaultLevel is used.
	Level int
}

// DefaultConfig returns a default codec configuration.
func DefaultConfig() Config {
	return Config{
		Algorithm: Gzip,
		Level:     DefaultLevel,
	}
}

// Codec compresses and decompresses byte buffers for one validated
// algorithm and level pair. A Codec is immutable and safe to share
// across goroutines.
type Codec struct {
	algorithm Algorithm
	level     int

	registry       *metrics.Registry
	metricsEnabled bool
}

// New creates a Codec for the given algorithm and level.
func New(algorithm Algorithm, level int) (*Codec, error) {
	return NewWithConfig(Config{Algorithm: algorithm, Level: level})
}

// NewWithConfig creates a Codec from a Config. Validation happens here,
// once; an invalid algorithm or level returns a ValidationError and no
// codec instance.
func NewWithConfig(config Config) (*Codec, error) {
	if config.Level == 0 {
		config.Level = DefaultLevel
	}

	switch config.Algorithm {
	case Gzip, Deflate, Bzip2:
	default:
		return nil, cferrors.NewValidationError("codec", "algorithm", string(config.Algorithm), "unsupported algorithm").
			WithHint("supported algorithms are gzip, deflate, and bzip2")
	}

	if err := validation.ValidateIntRange("codec", "level", config.Level, MinLevel, MaxLevel); err != nil {
		return nil, err
	}

	return &Codec{
		algorithm: config.Algorithm,
		level:     config.Level,
	}, nil
}

// NewWithConfigAndMetrics creates a Codec with Prometheus metrics enabled.
func NewWithConfigAndMetrics(config Config, metricsConfig metrics.Config) (*Codec, error) {
	c, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return c, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	c.registry = registry
	c.metricsEnabled = true
	return c, nil
}

// Algorithm returns the codec's algorithm.
func (c *Codec) Algorithm() Algorithm {
	return c.algorithm
}

// Level returns the codec's compression level.
func (c *Codec) Level() int {
	return c.level
}

// Extension returns the conventional file extension for the codec's
// algorithm, including the leading dot.
func (c *Codec) Extension() string {
	switch c.algorithm {
	case Gzip:
		return ".gz"
	case Deflate:
		return ".zz"
	case Bzip2:
		return ".bz2"
	}
	return ""
}

// Compress encodes data at the configured level and returns the compressed
// buffer. The output uses standard framing for the codec's algorithm; no
// compression ratio is guaranteed.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := c.newWriter(&buf)
	if err != nil {
		c.countError("compress")
		return nil, fmt.Errorf("codec: %s encoder: %w", c.algorithm, err)
	}

	if _, err := w.Write(data); err != nil {
		c.countError("compress")
		return nil, fmt.Errorf("codec: %s compress: %w", c.algorithm, err)
	}

	if err := w.Close(); err != nil {
		c.countError("compress")
		return nil, fmt.Errorf("codec: %s compress: %w", c.algorithm, err)
	}

	out := buf.Bytes()

	if c.metricsEnabled {
		name := string(c.algorithm)
		c.registry.CodecCompressions.WithLabelValues(name).Inc()
		c.registry.CodecBytesIn.WithLabelValues(name).Add(float64(len(data)))
		c.registry.CodecBytesOut.WithLabelValues(name).Add(float64(len(out)))
	}

	return out, nil
}

// Decompress decodes data produced by the codec's algorithm. Malformed
// input fails with a *DecodeError.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	r, err := c.newReader(bytes.NewReader(data))
	if err != nil {
		c.countError("decompress")
		return nil, &DecodeError{Algorithm: c.algorithm, Err: err}
	}

	out, err := io.ReadAll(r)
	if err != nil {
		_ = r.Close()
		c.countError("decompress")
		return nil, &DecodeError{Algorithm: c.algorithm, Err: err}
	}

	if err := r.Close(); err != nil {
		c.countError("decompress")
		return nil, &DecodeError{Algorithm: c.algorithm, Err: err}
	}

	if c.metricsEnabled {
		name := string(c.algorithm)
		c.registry.CodecDecompressions.WithLabelValues(name).Inc()
		c.registry.CodecBytesIn.WithLabelValues(name).Add(float64(len(data)))
		c.registry.CodecBytesOut.WithLabelValues(name).Add(float64(len(out)))
	}

	return out, nil
}

// newWriter returns an encoder writing to w at the configured level.
func (c *Codec) newWriter(w io.Writer) (io.WriteCloser, error) {
	switch c.algorithm {
	case Gzip:
		return gzip.NewWriterLevel(w, c.level)
	case Deflate:
		return zlib.NewWriterLevel(w, c.level)
	case Bzip2:
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: c.level})
	}
	// Unreachable: algorithm is validated at construction.
	return nil, cferrors.ErrInvalidConfiguration
}

// newReader returns a decoder reading from r.
func (c *Codec) newReader(r io.Reader) (io.ReadCloser, error) {
	switch c.algorithm {
	case Gzip:
		return gzip.NewReader(r)
	case Deflate:
		return zlib.NewReader(r)
	case Bzip2:
		return bzip2.NewReader(r, nil)
	}
	return nil, cferrors.ErrInvalidConfiguration
}

func (c *Codec) countError(operation string) {
	if c.metricsEnabled {
		c.registry.CodecErrors.WithLabelValues(string(c.algorithm), operation).Inc()
	}
}
