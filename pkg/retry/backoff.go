package retry

import (
	"time"
)

// Backoff produces the deterministic delay sequence used between retry
// attempts without ever sleeping. It is the non-blocking counterpart to
// Policy.Execute: event-loop-driven callers pull delays from Next and
// schedule their own timers.
//
// A Backoff is not safe for concurrent use; each retry sequence should own
// its own instance.
type Backoff struct {
	config  Config
	current time.Duration
	step    int
}

// NewBackoff creates a Backoff for the given configuration. The config is
// normalized the same way New does; invalid values fall back to defaults
// rather than erroring, so prefer constructing a Policy first and calling
// its Backoff method when validation matters.
func NewBackoff(config Config) *Backoff {
	if normalized, err := normalize(config); err == nil {
		config = normalized
	} else {
		config = DefaultConfig()
	}
	return &Backoff{
		config:  config,
		current: config.InitialDelay,
	}
}

// Backoff returns a fresh delay sequence for the policy's configuration.
func (p *Policy) Backoff() *Backoff {
	return NewBackoff(p.config)
}

// Next returns the delay to wait before the next attempt and advances the
// sequence. Successive calls return InitialDelay, InitialDelay*Multiplier,
// and so on, each capped at MaxDelay.
func (b *Backoff) Next() time.Duration {
	delay := b.current
	if delay > b.config.MaxDelay {
		delay = b.config.MaxDelay
	}

	next := time.Duration(float64(b.current) * b.config.Multiplier)
	// Guard against overflow with large multipliers.
	if next > b.config.MaxDelay || next < b.current {
		next = b.config.MaxDelay
	}
	b.current = next
	b.step++

	return delay
}

// Step returns the number of delays produced so far.
func (b *Backoff) Step() int {
	return b.step
}

// Reset rewinds the sequence to its initial delay.
func (b *Backoff) Reset() {
	b.current = b.config.InitialDelay
	b.step = 0
}
