package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vnykmshr/chunkflow/internal/testutil"
	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
)

var errFlaky = errors.New("flaky operation failed")

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"zero config fills defaults", Config{}, false},
		{"zero initial delay is valid", Config{InitialDelay: 0, MaxAttempts: 2}, false},
		{"negative max attempts", Config{MaxAttempts: -1}, true},
		{"negative initial delay", Config{InitialDelay: -time.Second}, true},
		{"multiplier below one", Config{Multiplier: 0.5}, true},
		{"max delay below initial delay", Config{InitialDelay: 10 * time.Second, MaxDelay: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.config)
			if tt.wantErr {
				testutil.AssertError(t, err)
				if !errors.Is(err, cferrors.ErrInvalidConfiguration) {
					t.Errorf("error should unwrap to ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			testutil.AssertNoError(t, err)
			if p.Config().MaxAttempts < 1 {
				t.Errorf("normalized MaxAttempts = %d, want >= 1", p.Config().MaxAttempts)
			}
		})
	}
}

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	p, err := New(DefaultConfig())
	testutil.AssertNoError(t, err)

	calls := 0
	notifications := 0
	err = p.Execute(context.Background(), func() error {
		calls++
		return nil
	}, func(int, time.Duration, error) {
		notifications++
	})

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, calls, 1)
	testutil.AssertEqual(t, notifications, 0)
}

func TestExecuteRecoversAfterFailures(t *testing.T) {
	config := Config{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     10 * time.Millisecond,
	}
	p, err := New(config)
	testutil.AssertNoError(t, err)

	calls := 0
	var attempts []int
	var delays []time.Duration

	err = p.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		attempts = append(attempts, attempt)
		delays = append(delays, delay)
		if !errors.Is(err, errFlaky) {
			t.Errorf("notification carried %v, want errFlaky", err)
		}
	})

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, calls, 3)
	testutil.AssertEqual(t, len(attempts), 2)
	testutil.AssertEqual(t, attempts[0], 1)
	testutil.AssertEqual(t, attempts[1], 2)
	testutil.AssertEqual(t, delays[0], time.Millisecond)
	testutil.AssertEqual(t, delays[1], 2*time.Millisecond)
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	config := Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     10 * time.Millisecond,
	}
	p, err := New(config)
	testutil.AssertNoError(t, err)

	calls := 0
	notifications := 0
	err = p.Execute(context.Background(), func() error {
		calls++
		return errFlaky
	}, func(int, time.Duration, error) {
		notifications++
	})

	testutil.AssertError(t, err)
	testutil.AssertEqual(t, calls, 3)
	testutil.AssertEqual(t, notifications, 2)

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T: %v", err, err)
	}
	testutil.AssertEqual(t, exhausted.Attempts, 3)
	if !errors.Is(err, errFlaky) {
		t.Error("ExhaustedError should wrap the last underlying error")
	}
}

func TestExecuteContextCanceledDuringBackoff(t *testing.T) {
	config := Config{
		MaxAttempts:  3,
		InitialDelay: time.Minute, // long enough that cancellation wins
		Multiplier:   2.0,
		MaxDelay:     time.Hour,
	}
	p, err := New(config)
	testutil.AssertNoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		done <- p.Execute(ctx, func() error {
			calls++
			return errFlaky
		}, nil)
	}()

	cancel()

	select {
	case err = <-done:
	case <-time.After(testutil.TestTimeout):
		t.Fatal("Execute did not return after context cancellation")
	}

	testutil.AssertError(t, err)
	testutil.AssertEqual(t, calls, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteGenericResult(t *testing.T) {
	p, err := New(Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})
	testutil.AssertNoError(t, err)

	calls := 0
	result, err := Execute(context.Background(), p, func() (string, error) {
		calls++
		if calls < 2 {
			return "", errFlaky
		}
		return "ok", nil
	}, nil)

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, result, "ok")
	testutil.AssertEqual(t, calls, 2)
}

func TestBackoffSequence(t *testing.T) {
	b := NewBackoff(Config{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
	})

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
		5 * time.Second, // capped
		5 * time.Second,
	}

	for i, w := range want {
		got := b.Next()
		if got != w {
			t.Errorf("delay %d = %v, want %v", i, got, w)
		}
	}
	testutil.AssertEqual(t, b.Step(), len(want))
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoff(Config{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   3.0,
		MaxDelay:     time.Minute,
	})

	testutil.AssertEqual(t, b.Next(), time.Second)
	testutil.AssertEqual(t, b.Next(), 3*time.Second)

	b.Reset()
	testutil.AssertEqual(t, b.Step(), 0)
	testutil.AssertEqual(t, b.Next(), time.Second)
}

func TestBackoffZeroInitialDelay(t *testing.T) {
	b := NewBackoff(Config{
		MaxAttempts:  3,
		InitialDelay: 0,
		Multiplier:   2.0,
		MaxDelay:     time.Second,
	})

	testutil.AssertEqual(t, b.Next(), time.Duration(0))
	testutil.AssertEqual(t, b.Next(), time.Duration(0))
}

func TestPolicyBackoffMatchesExecute(t *testing.T) {
	config := Config{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     time.Second,
	}
	p, err := New(config)
	testutil.AssertNoError(t, err)

	var observed []time.Duration
	_ = p.Execute(context.Background(), func() error {
		return errFlaky
	}, func(_ int, delay time.Duration, _ error) {
		observed = append(observed, delay)
	})

	b := p.Backoff()
	for i, delay := range observed {
		if want := b.Next(); delay != want {
			t.Errorf("delay %d = %v, want %v", i, delay, want)
		}
	}
}
