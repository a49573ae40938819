package benchmark

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/vnykmshr/chunkflow/pkg/chunkio"
)

// seedFile fills fs with size bytes of deterministic content.
func seedFile(b *testing.B, fs billy.Basic, path string, size int) {
	b.Helper()
	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}
	file, err := fs.Create(path)
	if err != nil {
		b.Fatal(err)
	}
	if _, err := file.Write(content); err != nil {
		b.Fatal(err)
	}
	if err := file.Close(); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkReadAll measures whole-file reads at varying sizes.
func BenchmarkReadAll(b *testing.B) {
	sizes := []int{1 << 10, 64 << 10, 1 << 20}

	for _, size := range sizes {
		fs := memfs.New()
		seedFile(b, fs, "bench.bin", size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				e, err := chunkio.NewWithConfig(chunkio.Config{
					Path: "bench.bin", Mode: chunkio.Read, FS: fs,
				})
				if err != nil {
					b.Fatal(err)
				}
				if _, err := e.ReadAll(); err != nil {
					b.Fatal(err)
				}
				_ = e.Close()
			}
		})
	}
}

// BenchmarkReadChunks measures chunked reads at varying chunk sizes.
func BenchmarkReadChunks(b *testing.B) {
	const fileSize = 1 << 20
	chunkSizes := []int{1 << 10, 8 << 10, 64 << 10}

	for _, chunkSize := range chunkSizes {
		fs := memfs.New()
		seedFile(b, fs, "bench.bin", fileSize)

		b.Run(sizeLabel(chunkSize), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(fileSize)
			ctx := context.Background()
			for i := 0; i < b.N; i++ {
				e, err := chunkio.NewWithConfig(chunkio.Config{
					Path: "bench.bin", Mode: chunkio.Read, ChunkSize: chunkSize, FS: fs,
				})
				if err != nil {
					b.Fatal(err)
				}
				chunks := e.ReadChunks()
				for {
					_, ok, err := chunks.Next(ctx)
					if err != nil {
						b.Fatal(err)
					}
					if !ok {
						break
					}
				}
				_ = e.Close()
			}
		})
	}
}

// BenchmarkWriteChunks measures chunked writes with progress reporting.
func BenchmarkWriteChunks(b *testing.B) {
	const payloadSize = 1 << 20
	chunkSizes := []int{8 << 10, 64 << 10}

	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	for _, chunkSize := range chunkSizes {
		b.Run(sizeLabel(chunkSize), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(payloadSize)
			ctx := context.Background()
			fs := memfs.New()
			for i := 0; i < b.N; i++ {
				e, err := chunkio.NewWithConfig(chunkio.Config{
					Path: "bench.bin", Mode: chunkio.Write, ChunkSize: chunkSize, FS: fs,
				})
				if err != nil {
					b.Fatal(err)
				}
				if _, err := e.WriteChunks(payload).Drain(ctx); err != nil {
					b.Fatal(err)
				}
				_ = e.Close()
			}
		})
	}
}

// BenchmarkReadChunksTransform measures per-chunk transform overhead.
func BenchmarkReadChunksTransform(b *testing.B) {
	const fileSize = 256 << 10
	fs := memfs.New()
	seedFile(b, fs, "bench.bin", fileSize)

	b.ReportAllocs()
	b.SetBytes(fileSize)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e, err := chunkio.NewWithConfig(chunkio.Config{
			Path:      "bench.bin",
			Mode:      chunkio.Read,
			ChunkSize: 8 << 10,
			FS:        fs,
			Transform: func(p []byte) ([]byte, error) {
				out := make([]byte, len(p))
				for j, c := range p {
					out[j] = c ^ 0x5A
				}
				return out, nil
			},
		})
		if err != nil {
			b.Fatal(err)
		}
		chunks := e.ReadChunks()
		for {
			_, ok, err := chunks.Next(ctx)
			if err != nil {
				b.Fatal(err)
			}
			if !ok {
				break
			}
		}
		_ = e.Close()
	}
}

// sizeLabel returns a readable label for benchmark sizes.
func sizeLabel(size int) string {
	switch {
	case size >= 1<<20:
		return "1M"
	case size >= 256<<10:
		return "256k"
	case size >= 64<<10:
		return "64k"
	case size >= 8<<10:
		return "8k"
	default:
		return "1k"
	}
}
