/*
Package chunkflow provides a Go library for streaming large files through
fixed-size chunks, with retry and compression building blocks.

Chunked I/O (pkg/chunkio):
  - chunkio: Read and write files in bounded increments with pull-based
    iteration, observable progress, and optional per-operation transforms

Retry (pkg/retry):
  - retry: Deterministic exponential-backoff executor for fallible operations

Compression (pkg/codec):
  - codec: Validated gzip/deflate/bzip2 compression for byte buffers

Example usage:

	import (
		"github.com/vnykmshr/chunkflow/pkg/chunkio"
		"github.com/vnykmshr/chunkflow/pkg/retry"
	)

	engine, _ := chunkio.Open("input.dat")
	defer engine.Close()

	chunks := engine.ReadChunks()
	for {
		chunk, ok, err := chunks.Next(ctx)
		if err != nil || !ok {
			break
		}
		process(chunk)
	}

	policy, _ := retry.New(retry.DefaultConfig())
	err = policy.Execute(ctx, flaky, nil)
*/
package chunkflow
