// Package retry provides backoff and retry logic for handling transient
// failures in outbound requests against the target site.
//
// Features:
//   - Exponential, constant, and randomized-range backoff strategies
//   - Jitter to avoid thundering herd problems
//   - Context support for cancellation
//   - Configurable retry predicates keyed on the error taxonomy
//
// Basic usage:
//
//	// Simple retry with defaults
//	err := retry.Do(func() error {
//		return client.FetchPost(ctx, shortcode)
//	}, nil)
//
//	// Randomized cooldown range, as used by the dispatcher after a 429
//	cfg := &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.NewRangeBackoff(10*time.Second, 20*time.Second),
//		RetryIf:     retry.DefaultRetryIf,
//	}
//	err := retry.Do(operation, cfg)
package retry
