package repository

import (
	"context"
	"time"
)

// Retry policy for transient storage failures: a fixed attempt cap with a
// linearly increasing delay between attempts.  Validation sentinels and
// uniqueness violations are terminal and returned immediately; only
// unclassified errors (network blips, deadlocks, pool exhaustion) are
// considered transient.
const (
	retryAttempts = 3
	retryBaseWait = 100 * time.Millisecond
)

// withBackoff runs op up to retryAttempts times, waiting retryBaseWait,
// 2*retryBaseWait, ... between attempts.  It stops early when op succeeds,
// when the error is terminal, or when ctx is cancelled.  The last error
// is surfaced once the cap is reached.
func withBackoff(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); terminal(err) {
			return err
		}
		if attempt >= retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBaseWait):
		}
	}
}
