/*
Package retry provides a deterministic exponential-backoff executor for
fallible operations.

A Policy wraps any operation with bounded retries. The first attempt runs
immediately; each subsequent attempt waits for a growing delay:

	delay(k) = min(InitialDelay * Multiplier^k, MaxDelay)

No jitter is applied; the delay sequence is fully determined by the
configuration.

# Quick Start

	policy, err := retry.New(retry.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	err = policy.Execute(ctx, func() error {
		return callFlakyService()
	}, nil)

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		log.Printf("gave up after %d attempts: %v", exhausted.Attempts, exhausted.Err)
	}

# Configuration

	config := retry.Config{
		MaxAttempts:  5,                      // total attempts, including the first
		InitialDelay: 50 * time.Millisecond,  // delay before the second attempt
		Multiplier:   2.0,                    // growth factor
		MaxDelay:     2 * time.Second,        // delay ceiling
	}

	policy, err := retry.New(config)

Configuration is validated at construction: MaxAttempts must be at least 1,
InitialDelay non-negative, Multiplier at least 1, and MaxDelay at least
InitialDelay.

# Observing Retries

An OnRetry callback is invoked after each failed attempt that will be
retried, with the 1-based attempt index, the delay about to be waited, and
the error:

	policy.Execute(ctx, op, func(attempt int, delay time.Duration, err error) {
		log.Printf("attempt %d failed (%v), retrying in %v", attempt, err, delay)
	})

An operation that always fails with MaxAttempts=m produces exactly m
attempts and m-1 OnRetry notifications before failing with *ExhaustedError.

# Results

Execute is also available as a generic function for operations that return
a value:

	value, err := retry.Execute(ctx, policy, func() (string, error) {
		return fetchToken()
	}, nil)

# Blocking Semantics

Policy.Execute blocks the calling goroutine during backoff (the wait is a
context-aware timer, so cancellation is honored). Callers embedded in an
event loop that must not block should drive the Backoff sequence directly
and schedule their own timers:

	b := retry.NewBackoff(config)
	delay := b.Next() // deterministic, never sleeps

Backoff produces the same delay sequence Execute uses internally.
*/
package retry
