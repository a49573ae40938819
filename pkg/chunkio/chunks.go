package chunkio

import (
	"context"
	"errors"
	"io"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
)

// ChunkReader is a pull-based iterator over a file's contents in chunk-size
// increments. It is finite and not restartable: it consumes the engine's
// read cursor, and once exhausted or failed it stays that way. The engine
// does no work between Next calls, so backpressure is implicit.
type ChunkReader struct {
	engine *Engine
	buf    []byte
	done   bool
	err    error
}

// ReadChunks returns an iterator producing the file's contents one chunk at
// a time. Each step reads up to ChunkSize raw bytes and applies the active
// transform to that chunk only; chunks the transform reduces to empty are
// skipped. The caller remains responsible for Close on the engine whether
// or not the iterator is drained.
func (e *Engine) ReadChunks() *ChunkReader {
	r := &ChunkReader{
		engine: e,
		buf:    make([]byte, e.chunkSize),
	}
	if err := e.readable(); err != nil {
		r.err = err
	}
	return r
}

// Next produces the next chunk. It returns (chunk, true, nil) while chunks
// remain, (nil, false, nil) once the source is exhausted, and
// (nil, false, err) if a read or transform fails. A failed or exhausted
// iterator keeps returning the same terminal result.
func (r *ChunkReader) Next(ctx context.Context) ([]byte, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	if r.done {
		return nil, false, nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		if r.engine.IsClosed() {
			r.err = &IOError{Op: "read", Path: r.engine.path, Err: ErrEngineClosed}
			return nil, false, r.err
		}

		n, err := io.ReadFull(r.engine.file, r.buf)
		if n > 0 {
			raw := make([]byte, n)
			copy(raw, r.buf[:n])

			chunk, terr := r.engine.applyTransform(raw)
			if terr != nil {
				r.err = terr
				return nil, false, r.err
			}

			// A partial fill means the source is exhausted after this chunk.
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				r.done = true
			}

			r.engine.updateStats(func(s *Stats) {
				s.ChunksRead++
				s.BytesRead += int64(n)
			})
			if r.engine.metricsEnabled {
				r.engine.registry.IOChunksRead.WithLabelValues(r.engine.name).Inc()
				r.engine.registry.IOBytesRead.WithLabelValues(r.engine.name).Add(float64(n))
				r.engine.registry.IOChunkSize.WithLabelValues(r.engine.name).Observe(float64(len(chunk)))
			}

			if len(chunk) > 0 {
				return chunk, true, nil
			}
			if r.done {
				return nil, false, nil
			}
			// Transform produced an empty chunk; keep reading.
			continue
		}

		if errors.Is(err, io.EOF) {
			r.done = true
			return nil, false, nil
		}

		r.engine.countError("read")
		r.err = &IOError{Op: "read", Path: r.engine.path, Err: err}
		return nil, false, r.err
	}
}

// WriteProgress reports the state of a chunked write after one step.
type WriteProgress struct {
	// BytesWritten is the number of bytes written this step, after the
	// transform was applied.
	BytesWritten int

	// TotalWritten is the cumulative number of bytes written so far.
	TotalWritten int

	// PercentComplete is the share of the input consumed so far, in
	// [0, 100]. It is non-decreasing and exactly 100 on the final step.
	PercentComplete float64
}

// ProgressWriter is a pull-based iterator that writes a buffer to the file
// in chunk-size slices, yielding a WriteProgress after every slice.
type ProgressWriter struct {
	engine  *Engine
	data    []byte
	offset  int
	written int
	done    bool
	err     error
}

// WriteChunks returns an iterator that splits data positionally into
// ChunkSize slices (the last may be shorter), applies the active transform
// per slice, and writes each slice in turn. The final step always reports
// PercentComplete of exactly 100; an empty input yields a single completed
// progress step.
func (e *Engine) WriteChunks(data []byte) *ProgressWriter {
	w := &ProgressWriter{
		engine: e,
		data:   data,
	}
	if err := e.writable(); err != nil {
		w.err = err
	}
	return w
}

// Next writes the next slice. It returns (progress, true, nil) after each
// written slice, (zero, false, nil) once the input is fully written, and
// (zero, false, err) if a write or transform fails.
func (w *ProgressWriter) Next(ctx context.Context) (WriteProgress, bool, error) {
	var zero WriteProgress
	if w.err != nil {
		return zero, false, w.err
	}
	if w.done {
		return zero, false, nil
	}

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}

	if w.engine.IsClosed() {
		w.err = &IOError{Op: "write", Path: w.engine.path, Err: ErrEngineClosed}
		return zero, false, w.err
	}

	if len(w.data) == 0 {
		w.done = true
		return WriteProgress{PercentComplete: 100}, true, nil
	}

	end := w.offset + w.engine.chunkSize
	if end > len(w.data) {
		end = len(w.data)
	}
	slice := w.data[w.offset:end]

	out, err := w.engine.applyTransform(slice)
	if err != nil {
		w.err = err
		return zero, false, w.err
	}

	n, werr := w.engine.file.Write(out)
	w.written += n
	if werr != nil {
		w.engine.countError("write")
		w.err = &IOError{Op: "write", Path: w.engine.path, Err: werr}
		return zero, false, w.err
	}
	if n < len(out) {
		w.engine.countError("write")
		w.err = &IOError{Op: "write", Path: w.engine.path, Err: cferrors.ErrShortWrite}
		return zero, false, w.err
	}

	w.offset = end

	pct := float64(w.offset) / float64(len(w.data)) * 100
	if w.offset == len(w.data) {
		// Exact completion signal, regardless of remainder arithmetic.
		pct = 100
		w.done = true
	}

	w.engine.updateStats(func(s *Stats) {
		s.ChunksWritten++
		s.BytesWritten += int64(n)
	})
	if w.engine.metricsEnabled {
		w.engine.registry.IOChunksWritten.WithLabelValues(w.engine.name).Inc()
		w.engine.registry.IOBytesWritten.WithLabelValues(w.engine.name).Add(float64(n))
	}

	return WriteProgress{
		BytesWritten:    n,
		TotalWritten:    w.written,
		PercentComplete: pct,
	}, true, nil
}

// Drain drives the iterator to completion, returning the last progress
// value. It is a convenience for callers that want chunked writing without
// observing intermediate progress.
func (w *ProgressWriter) Drain(ctx context.Context) (WriteProgress, error) {
	var last WriteProgress
	for {
		progress, ok, err := w.Next(ctx)
		if err != nil {
			return last, err
		}
		if !ok {
			return last, nil
		}
		last = progress
	}
}
