package taskqueue

import (
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
)

// DefaultBackoff is retry policy used when Queue doesn't set one.
var DefaultBackoff = Backoff{
	MaxAttempts: 5,
	Initial:     time.Second,
	Max:         time.Minute,
}

// Backoff is bounded exponential retry policy.
type Backoff struct {
	// MaxAttempts is total number of attempts, the first one included.
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
}

// Delay returns wait time before attempt following attempt number attempt failed with err.
// It returns false when no more attempts are allowed or provider asked to wait longer than Max.
func (b Backoff) Delay(attempt int, err error) (time.Duration, bool) {
	if attempt >= b.MaxAttempts {
		return 0, false
	}

	delay := b.Initial
	for i := 1; i < attempt && delay < b.Max; i++ {
		delay *= 2
	}
	delay = min(delay, b.Max)

	if retryAfter, ok := platform.RetryAfter(err); ok {
		if retryAfter > b.Max {
			return 0, false
		}
		delay = max(delay, retryAfter)
	}

	return delay, true
}
