package benchmark

import (
	"bytes"
	"testing"

	"github.com/vnykmshr/chunkflow/pkg/codec"
)

// benchPayload builds a compressible payload of roughly size bytes.
func benchPayload(size int) []byte {
	pattern := []byte("the quick brown fox jumps over the lazy dog ")
	return bytes.Repeat(pattern, size/len(pattern)+1)[:size]
}

// BenchmarkCompress measures compression throughput per algorithm.
func BenchmarkCompress(b *testing.B) {
	payload := benchPayload(64 << 10)

	for _, algorithm := range []codec.Algorithm{codec.Gzip, codec.Deflate, codec.Bzip2} {
		c, err := codec.New(algorithm, codec.DefaultLevel)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(string(algorithm), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			for i := 0; i < b.N; i++ {
				if _, err := c.Compress(payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDecompress measures decompression throughput per algorithm.
func BenchmarkDecompress(b *testing.B) {
	payload := benchPayload(64 << 10)

	for _, algorithm := range []codec.Algorithm{codec.Gzip, codec.Deflate, codec.Bzip2} {
		c, err := codec.New(algorithm, codec.DefaultLevel)
		if err != nil {
			b.Fatal(err)
		}
		compressed, err := c.Compress(payload)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(string(algorithm), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			for i := 0; i < b.N; i++ {
				if _, err := c.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCompressLevels measures gzip at the level extremes.
func BenchmarkCompressLevels(b *testing.B) {
	payload := benchPayload(64 << 10)

	for _, level := range []int{codec.MinLevel, codec.DefaultLevel, codec.MaxLevel} {
		c, err := codec.New(codec.Gzip, level)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(levelLabel(level), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			for i := 0; i < b.N; i++ {
				if _, err := c.Compress(payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func levelLabel(level int) string {
	switch level {
	case codec.MinLevel:
		return "fastest"
	case codec.MaxLevel:
		return "best"
	default:
		return "default"
	}
}
