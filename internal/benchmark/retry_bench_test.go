package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/vnykmshr/chunkflow/pkg/retry"
)

// BenchmarkExecuteFirstTry measures the fast path where the first attempt
// succeeds and no backoff is taken.
func BenchmarkExecuteFirstTry(b *testing.B) {
	policy, err := retry.New(retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     time.Second,
	})
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = policy.Execute(ctx, func() error { return nil }, nil)
	}
}

// BenchmarkBackoffSequence measures the non-blocking delay generator.
func BenchmarkBackoffSequence(b *testing.B) {
	config := retry.Config{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backoff := retry.NewBackoff(config)
		for j := 0; j < 10; j++ {
			_ = backoff.Next()
		}
	}
}
