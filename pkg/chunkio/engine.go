package chunkio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
)

// DefaultChunkSize is the chunk size used when Config.ChunkSize is zero.
const DefaultChunkSize = 8192

// ErrEngineClosed is returned when attempting to operate on a closed engine.
var ErrEngineClosed = errors.New("engine is closed")

// ErrNotReadable is returned when reading from an engine opened for writing.
var ErrNotReadable = errors.New("engine is not open for reading")

// ErrNotWritable is returned when writing to an engine opened for reading.
var ErrNotWritable = errors.New("engine is not open for writing")

// Mode selects how the engine opens its file.
type Mode int

const (
	// Read opens an existing file for reading.
	Read Mode = iota

	// Write creates the file, truncating it if it already exists.
	Write
)

// String returns the mode's name.
func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// IOError describes a failed filesystem operation. It wraps the underlying
// error, so errors.Is works against sentinels like ErrEngineClosed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("chunkio: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Transform rewrites a byte buffer. Transforms must be pure with respect to
// the engine's state: they may inspect and replace the bytes they are given
// but must not touch the engine or its file.
//
// Synchronous operations apply the transform once to the whole buffer;
// chunked operations apply it to each chunk independently. Transforms that
// are sensitive to chunk boundaries (for example a regexp spanning two
// chunks) therefore produce different results in the two modes. This is
// intended behavior; supply a boundary-safe transform when the chunked path
// must match the synchronous one.
type Transform func([]byte) ([]byte, error)

// Config holds configuration options for creating a new Engine.
type Config struct {
	// Path is the file the engine operates on.
	Path string

	// Mode selects reading or writing. Write truncates or creates.
	Mode Mode

	// ChunkSize bounds each chunked read and write step.
	// If zero, DefaultChunkSize is used.
	ChunkSize int

	// Transform, if set, is applied to every buffer the engine reads or
	// writes. It can be replaced later with SetTransform.
	Transform Transform

	// FS is the filesystem the engine operates on. If nil, the native OS
	// filesystem is used. Tests typically pass an in-memory filesystem.
	FS billy.Basic
}

// Stats holds counters describing the engine's activity so far.
type Stats struct {
	// SyncReads is the number of whole-file read operations.
	SyncReads int64

	// SyncWrites is the number of whole-buffer write operations.
	SyncWrites int64

	// ChunksRead is the number of chunks produced by chunked reads.
	ChunksRead int64

	// ChunksWritten is the number of chunks consumed by chunked writes.
	ChunksWritten int64

	// BytesRead is the total number of raw bytes read from the file.
	BytesRead int64

	// BytesWritten is the total number of bytes written to the file.
	BytesWritten int64

	// Errors is the number of failed filesystem operations.
	Errors int64
}

// Engine streams one file in bounded increments. It owns exactly one file
// handle for its lifetime and must be released with Close. An Engine is
// meant to be driven by a single logical thread of control; only the
// transform slot and statistics are safe for concurrent access.
type Engine struct {
	path      string
	mode      Mode
	chunkSize int
	fs        billy.Basic
	file      billy.File

	mu        sync.RWMutex // guards transform
	transform Transform

	closed int32 // atomic

	stats   Stats
	statsMu sync.Mutex

	name           string
	registry       *metrics.Registry
	metricsEnabled bool
}

// Open creates a read-mode Engine for path with default settings.
func Open(path string) (*Engine, error) {
	return NewWithConfig(Config{Path: path, Mode: Read})
}

// Create creates a write-mode Engine for path with default settings,
// truncating the file if it already exists.
func Create(path string) (*Engine, error) {
	return NewWithConfig(Config{Path: path, Mode: Write})
}

// NewWithConfig creates an Engine from a Config and opens the underlying
// file. Invalid configuration returns a ValidationError; a filesystem
// failure returns an *IOError.
func NewWithConfig(config Config) (*Engine, error) {
	if err := validation.ValidateNotEmpty("chunkio", "path", config.Path); err != nil {
		return nil, err
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if err := validation.ValidatePositive("chunkio", "chunk size", config.ChunkSize); err != nil {
		return nil, err
	}
	if config.Mode != Read && config.Mode != Write {
		return nil, cferrors.NewValidationError("chunkio", "mode", config.Mode, "unsupported mode").
			WithHint("use chunkio.Read or chunkio.Write")
	}

	fs := config.FS
	if fs == nil {
		fs = osfs.Default
	}

	var (
		file billy.File
		err  error
	)
	switch config.Mode {
	case Read:
		file, err = fs.Open(config.Path)
	case Write:
		file, err = fs.Create(config.Path)
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: config.Path, Err: err}
	}

	return &Engine{
		path:      config.Path,
		mode:      config.Mode,
		chunkSize: config.ChunkSize,
		fs:        fs,
		file:      file,
		transform: config.Transform,
	}, nil
}

// NewWithConfigAndMetrics creates an Engine with Prometheus metrics enabled
// under the given engine name.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (*Engine, error) {
	e, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return e, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	e.name = name
	e.registry = registry
	e.metricsEnabled = true
	return e, nil
}

// Path returns the file path the engine is bound to.
func (e *Engine) Path() string {
	return e.path
}

// Mode returns the engine's mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// ChunkSize returns the engine's chunk size.
func (e *Engine) ChunkSize() int {
	return e.chunkSize
}

// SetTransform replaces the engine's transform. At most one transform is
// active; the last one set wins. Passing nil clears it.
func (e *Engine) SetTransform(fn Transform) {
	e.mu.Lock()
	e.transform = fn
	e.mu.Unlock()
}

// ReadAll reads the file's entire current contents in one step and applies
// the transform, if set, once to the whole buffer. A read that cannot
// satisfy the file's full length fails with an *IOError.
func (e *Engine) ReadAll() ([]byte, error) {
	if err := e.readable(); err != nil {
		return nil, err
	}

	info, err := e.fs.Stat(e.path)
	if err != nil {
		e.countError("read")
		return nil, &IOError{Op: "stat", Path: e.path, Err: err}
	}

	buf := make([]byte, info.Size())
	if len(buf) > 0 {
		if _, err := io.ReadFull(e.file, buf); err != nil {
			e.countError("read")
			return nil, &IOError{Op: "read", Path: e.path, Err: err}
		}
	}

	out, err := e.applyTransform(buf)
	if err != nil {
		return nil, err
	}

	e.updateStats(func(s *Stats) {
		s.SyncReads++
		s.BytesRead += int64(len(buf))
	})
	if e.metricsEnabled {
		e.registry.IOReads.WithLabelValues(e.name, e.mode.String()).Inc()
		e.registry.IOBytesRead.WithLabelValues(e.name).Add(float64(len(buf)))
	}

	return out, nil
}

// WriteAll applies the transform, if set, once to the whole input, writes
// the result in one step, and returns the number of bytes written. A write
// that accepts fewer bytes than requested fails with an *IOError.
func (e *Engine) WriteAll(data []byte) (int, error) {
	if err := e.writable(); err != nil {
		return 0, err
	}

	out, err := e.applyTransform(data)
	if err != nil {
		return 0, err
	}

	n, err := e.file.Write(out)
	if err != nil {
		e.countError("write")
		return n, &IOError{Op: "write", Path: e.path, Err: err}
	}
	if n < len(out) {
		e.countError("write")
		return n, &IOError{Op: "write", Path: e.path, Err: cferrors.ErrShortWrite}
	}

	e.updateStats(func(s *Stats) {
		s.SyncWrites++
		s.BytesWritten += int64(n)
	})
	if e.metricsEnabled {
		e.registry.IOWrites.WithLabelValues(e.name, e.mode.String()).Inc()
		e.registry.IOBytesWritten.WithLabelValues(e.name).Add(float64(n))
	}

	return n, nil
}

// Stats returns a snapshot of the engine's activity counters.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

// Close releases the underlying file handle. It is idempotent and safe to
// call whether or not a chunk sequence was drained.
func (e *Engine) Close() error {
	if !atomic.CompareAndSwapInt32(&e.closed, 0, 1) {
		return nil // Already closed
	}

	if err := e.file.Close(); err != nil {
		return &IOError{Op: "close", Path: e.path, Err: err}
	}
	return nil
}

// IsClosed returns true if the engine is closed.
func (e *Engine) IsClosed() bool {
	return atomic.LoadInt32(&e.closed) != 0
}

// readable verifies that the engine is open in read mode.
func (e *Engine) readable() error {
	if e.IsClosed() {
		return &IOError{Op: "read", Path: e.path, Err: ErrEngineClosed}
	}
	if e.mode != Read {
		return &IOError{Op: "read", Path: e.path, Err: ErrNotReadable}
	}
	return nil
}

// writable verifies that the engine is open in write mode.
func (e *Engine) writable() error {
	if e.IsClosed() {
		return &IOError{Op: "write", Path: e.path, Err: ErrEngineClosed}
	}
	if e.mode != Write {
		return &IOError{Op: "write", Path: e.path, Err: ErrNotWritable}
	}
	return nil
}

// applyTransform runs the active transform, if any, over data.
func (e *Engine) applyTransform(data []byte) ([]byte, error) {
	e.mu.RLock()
	fn := e.transform
	e.mu.RUnlock()

	if fn == nil {
		return data, nil
	}

	out, err := fn(data)
	if err != nil {
		return nil, fmt.Errorf("chunkio: transform: %w", err)
	}
	return out, nil
}

// updateStats safely updates activity counters.
func (e *Engine) updateStats(updater func(*Stats)) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	updater(&e.stats)
}

func (e *Engine) countError(operation string) {
	e.updateStats(func(s *Stats) {
		s.Errors++
	})
	if e.metricsEnabled {
		e.registry.IOErrors.WithLabelValues(e.name, operation).Inc()
	}
}
