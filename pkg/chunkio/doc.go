/*
Package chunkio streams files through fixed-size chunks without loading
them wholly into memory.

An Engine binds a file path, a mode (read, or write with truncate-or-create
semantics), and a chunk size. Callers either use the synchronous whole-file
operations or drive a pull-based chunk iterator one step at a time. The
engine does no work until the caller asks for the next chunk, so
backpressure is implicit and consumer-paced.

# Quick Start

	engine, err := chunkio.Open("input.dat")
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	chunks := engine.ReadChunks()
	for {
		chunk, ok, err := chunks.Next(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		process(chunk)
	}

# Configuration

	engine, err := chunkio.NewWithConfig(chunkio.Config{
		Path:      "output.dat",
		Mode:      chunkio.Write,
		ChunkSize: 64 * 1024,
	})

ChunkSize defaults to 8192 bytes. The filesystem defaults to the native OS
filesystem; tests typically pass go-billy's memfs instead:

	fs := memfs.New()
	engine, err := chunkio.NewWithConfig(chunkio.Config{
		Path: "scratch.bin",
		Mode: chunkio.Write,
		FS:   fs,
	})

# Chunked Writing and Progress

WriteChunks yields a WriteProgress after every written slice. The final
step always reports PercentComplete of exactly 100, giving a deterministic
completion signal even when the input length is not a multiple of the chunk
size:

	progress := engine.WriteChunks(data)
	for {
		p, ok, err := progress.Next(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		log.Printf("%.0f%% (%d bytes)", p.PercentComplete, p.TotalWritten)
	}

# Transforms

An optional transform is applied to every buffer the engine reads or
writes. ReadAll and WriteAll apply it once to the whole buffer; ReadChunks
and WriteChunks apply it to each chunk independently. A transform that is
sensitive to chunk boundaries (for example a whitespace-collapsing regexp
that could span two chunks) produces different results in the two modes.
This divergence is part of the contract, not a defect: supply a
boundary-safe transform when the chunked path must match the synchronous
one.

	engine.SetTransform(func(b []byte) ([]byte, error) {
		return bytes.ToUpper(b), nil
	})

At most one transform is active; the last one set wins.

# Error Handling

Filesystem failures surface as *IOError values that wrap the underlying
error, so errors.Is works against sentinels:

	if errors.Is(err, chunkio.ErrEngineClosed) { ... }

The engine never retries internally. Wrap calls with pkg/retry when retry
behavior is wanted.

# Resource Management

An Engine owns exactly one file handle. Close is idempotent and must be
called on every exit path, whether or not a chunk iterator was drained:

	engine, err := chunkio.Open(path)
	if err != nil {
		return err
	}
	defer engine.Close()

# Concurrency

The chunk iterators implement a strict two-party handshake: each Next call
produces exactly one chunk or progress value, or signals completion. An
Engine is exclusively owned by one logical thread of control; it is not
meant for concurrent multi-reader or multi-writer use.
*/
package chunkio
